package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
	"github.com/matzehuels/skillflow/pkg/export"
	"github.com/matzehuels/skillflow/pkg/sink"
)

// Sink kinds accepted in [SinkConfig.Kind] and by --sink.
const (
	sinkDir    = "dir"
	sinkStdout = "stdout"
	sinkRedis  = "redis"
	sinkMongo  = "mongo"
)

// Config is the on-disk configuration (config.toml).
type Config struct {
	Output OutputConfig `toml:"output"`
	Sink   SinkConfig   `toml:"sink"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// OutputConfig controls what `skillflow export` produces by default.
type OutputConfig struct {
	Dir     string   `toml:"dir"`
	Formats []string `toml:"formats"`
}

// SinkConfig selects and configures the artifact destination.
type SinkConfig struct {
	Kind            string   `toml:"kind" validate:"oneof=dir stdout redis mongo"`
	RedisAddr       string   `toml:"redis_addr" validate:"required_if=Kind redis"`
	RedisPassword   string   `toml:"redis_password"`
	RedisDB         int      `toml:"redis_db" validate:"gte=0,lte=15"`
	RedisPrefix     string   `toml:"redis_prefix"`
	RedisTTL        duration `toml:"redis_ttl"`
	MongoURI        string   `toml:"mongo_uri" validate:"required_if=Kind mongo"`
	MongoDatabase   string   `toml:"mongo_database" validate:"required_if=Kind mongo"`
	MongoCollection string   `toml:"mongo_collection" validate:"required_if=Kind mongo"`
}

// ServerConfig configures `skillflow serve`.
type ServerConfig struct {
	Addr string `toml:"addr" validate:"required"`
}

// CacheConfig controls the render cache used by `skillflow export`.
// An empty Dir means the XDG cache location.
type CacheConfig struct {
	Enabled bool     `toml:"enabled"`
	Dir     string   `toml:"dir"`
	TTL     duration `toml:"ttl"`
}

// duration decodes TOML strings such as "24h" or "90s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Output: OutputConfig{Dir: ".", Formats: []string{string(export.FormatPNG), string(export.FormatJSON)}},
		Sink: SinkConfig{
			Kind:            sinkDir,
			RedisAddr:       "localhost:6379",
			RedisPrefix:     sink.DefaultRedisPrefix,
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   sink.DefaultMongoDatabase,
			MongoCollection: sink.DefaultMongoCollection,
		},
		Server: ServerConfig{Addr: defaultServerAddr},
	}
}

// configPath returns the default config file location using the XDG
// standard (~/.config/skillflow/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// cacheDir resolves the render cache directory
// (~/.cache/skillflow/renders unless configured).
func (c CacheConfig) cacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName, "renders"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName, "renders"), nil
}

// Environment variables that override the config file. A .env file in the
// working directory is loaded first; variables already set win.
const (
	envSinkKind      = "SKILLFLOW_SINK"
	envRedisAddr     = "SKILLFLOW_REDIS_ADDR"
	envRedisPassword = "SKILLFLOW_REDIS_PASSWORD"
	envMongoURI      = "SKILLFLOW_MONGO_URI"
	envServerAddr    = "SKILLFLOW_SERVER_ADDR"
	dotenvFile       = ".env"
)

// LoadConfig reads the config file at path over [DefaultConfig] and applies
// SKILLFLOW_* environment overrides. With an empty path the XDG location is
// tried and a missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "load %s", dotenvFile)
	}

	explicit := path != ""
	if !explicit {
		if p, err := configPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := decodeConfigFile(path, explicit, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decodeConfigFile(path string, explicit bool, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read config")
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// applyEnv overrides fields from the environment. lookup is os.LookupEnv
// outside tests.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	for key, field := range map[string]*string{
		envSinkKind:      &c.Sink.Kind,
		envRedisAddr:     &c.Sink.RedisAddr,
		envRedisPassword: &c.Sink.RedisPassword,
		envMongoURI:      &c.Sink.MongoURI,
		envServerAddr:    &c.Server.Addr,
	} {
		if v, ok := lookup(key); ok && v != "" {
			*field = v
		}
	}
}

// Validate checks the struct tags, the export formats and durations.
func (c Config) Validate() error {
	if err := apperrors.ValidateStruct(apperrors.ErrCodeInvalidConfig, c); err != nil {
		return err
	}
	if _, err := c.formats(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "output.formats")
	}
	if c.Sink.RedisTTL.Duration < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "sink.redis_ttl must not be negative")
	}
	if c.Cache.TTL.Duration < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

func (c Config) formats() ([]export.Format, error) {
	return export.ParseFormats(strings.Join(c.Output.Formats, ","))
}
