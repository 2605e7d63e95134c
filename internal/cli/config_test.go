package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
	"github.com/matzehuels/skillflow/pkg/export"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	got, err := configPath()
	if err != nil {
		t.Fatalf("configPath() error = %v", err)
	}
	if want := "/custom/config/skillflow/config.toml"; got != want {
		t.Errorf("configPath() = %q, want %q", got, want)
	}
}

func TestConfigPathHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := configPath()
	if err != nil {
		t.Fatalf("configPath() error = %v", err)
	}
	if want := filepath.Join(home, ".config", "skillflow", "config.toml"); got != want {
		t.Errorf("configPath() = %q, want %q", got, want)
	}
}

func TestLoadConfigMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Sink.Kind != sinkDir || cfg.Output.Dir != "." || cfg.Server.Addr != defaultServerAddr {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}
	formats, err := cfg.formats()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(formats, []export.Format{export.FormatPNG, export.FormatJSON}) {
		t.Errorf("default formats = %v, want [png json]", formats)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("LoadConfig() error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
[output]
dir = "out"
formats = ["svg"]

[sink]
kind = "redis"
redis_addr = "cache:6379"
redis_prefix = "skills:"
redis_ttl = "24h"

[server]
addr = ":9000"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Output.Dir != "out" || !slices.Equal(cfg.Output.Formats, []string{"svg"}) {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Sink.Kind != sinkRedis || cfg.Sink.RedisAddr != "cache:6379" || cfg.Sink.RedisPrefix != "skills:" {
		t.Errorf("sink = %+v", cfg.Sink)
	}
	if cfg.Sink.RedisTTL.Duration != 24*time.Hour {
		t.Errorf("redis_ttl = %v, want 24h", cfg.Sink.RedisTTL.Duration)
	}
	if cfg.Sink.MongoDatabase != "skillflow" {
		t.Errorf("mongo_database = %q, want default kept", cfg.Sink.MongoDatabase)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("server.addr = %q, want :9000", cfg.Server.Addr)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[output\n"},
		{"unknown key", "[output]\ncolour = \"red\"\n"},
		{"unknown sink", "[sink]\nkind = \"s3\"\n"},
		{"bad format", "[output]\nformats = [\"gif\"]\n"},
		{"bad ttl", "[sink]\nredis_ttl = \"soon\"\n"},
		{"negative ttl", "[sink]\nredis_ttl = \"-1m\"\n"},
		{"negative cache ttl", "[cache]\nttl = \"-1h\"\n"},
		{"mongo without uri", "[sink]\nkind = \"mongo\"\nmongo_uri = \"\"\n"},
		{"redis db range", "[sink]\nredis_db = 16\n"},
		{"empty server addr", "[server]\naddr = \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
				t.Errorf("LoadConfig() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")
	got, err := CacheConfig{}.cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := "/custom/cache/skillflow/renders"; got != want {
		t.Errorf("cacheDir() = %q, want %q", got, want)
	}

	got, err = CacheConfig{Dir: "/tmp/renders"}.cacheDir()
	if err != nil || got != "/tmp/renders" {
		t.Errorf("cacheDir() = %q, %v, want /tmp/renders", got, err)
	}
}

func TestLoadConfigCache(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "[cache]\nenabled = true\nttl = \"168h\"\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL.Duration != 168*time.Hour {
		t.Errorf("cache = %+v, want enabled with 168h ttl", cfg.Cache)
	}
}

func TestValidateMessageUsesTomlNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sink.Kind = "s3"
	err := cfg.Validate()
	if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Fatalf("Validate() = %v, want INVALID_CONFIG", err)
	}
	if got, want := apperrors.UserMessage(err), `sink.kind must be one of: dir stdout redis mongo (got "s3")`; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		envSinkKind:      "mongo",
		envMongoURI:      "mongodb://db:27017",
		envRedisPassword: "",
	}
	cfg := DefaultConfig()
	cfg.Sink.RedisPassword = "from-file"
	cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	if cfg.Sink.Kind != sinkMongo || cfg.Sink.MongoURI != "mongodb://db:27017" {
		t.Errorf("sink = %+v, want env overrides", cfg.Sink)
	}
	if cfg.Sink.RedisPassword != "from-file" {
		t.Errorf("redis_password = %q, empty env value should not override", cfg.Sink.RedisPassword)
	}
	if cfg.Server.Addr != defaultServerAddr {
		t.Errorf("server.addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Setenv(envSinkKind, "stdout")
	cfg, err := LoadConfig(writeConfig(t, "[sink]\nkind = \"redis\"\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Sink.Kind != sinkStdout {
		t.Errorf("sink.kind = %q, want stdout from env", cfg.Sink.Kind)
	}

	t.Setenv(envSinkKind, "ftp")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, err := LoadConfig(""); !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("LoadConfig() with bad env error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadConfigDotenv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SKILLFLOW_SERVER_ADDR=:7070\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	// Registers restoration of the original value; godotenv only sets unset keys.
	t.Setenv(envServerAddr, "")
	os.Unsetenv(envServerAddr)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("server.addr = %q, want :7070 from .env", cfg.Server.Addr)
	}
}
