package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/matzehuels/skillflow/pkg/buildinfo"
	apperrors "github.com/matzehuels/skillflow/pkg/errors"
	"github.com/matzehuels/skillflow/pkg/observability"
	"github.com/matzehuels/skillflow/pkg/workflow"
)

// execute runs the root command with args and returns the log output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Cleanup(observability.Reset)

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return logs.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	want := []string{"new", "set", "node", "connect", "disconnect", "show", "kinds", "export", "edit", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.Version != buildinfo.Version {
		t.Errorf("Version = %q, want %q", root.Version, buildinfo.Version)
	}
}

func TestWorkflowCommands(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "demo.json")

	if _, err := execute(t, "new", file, "--name", "Demo Flow"); err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := execute(t, "new", file); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("new on existing file error = %v, want INVALID_INPUT", err)
	}

	logs, err := execute(t, "node", "add", file, "input", "--x", "10", "--y", "20")
	if err != nil {
		t.Fatalf("node add: %v", err)
	}
	if !bytes.Contains([]byte(logs), []byte("Added Input node")) {
		t.Errorf("node add should log the notice, got %q", logs)
	}
	if _, err := execute(t, "node", "add", file, "process", "--title", "Transform"); err != nil {
		t.Fatalf("node add: %v", err)
	}
	if _, err := execute(t, "node", "add", file, "loop"); !apperrors.Is(err, apperrors.ErrCodeInvalidKind) {
		t.Errorf("node add unknown kind error = %v, want INVALID_KIND", err)
	}

	if _, err := execute(t, "connect", file, "Input 1", "Transform"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := execute(t, "node", "set", file, "Input 1", "--description", "Read the request"); err != nil {
		t.Fatalf("node set: %v", err)
	}

	p, err := loadProject(file)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Demo Flow" || len(p.Nodes) != 2 || len(p.Connections) != 1 {
		t.Fatalf("project = %+v", p)
	}
	in := p.Nodes[0]
	if in.Kind != workflow.KindInput || in.Position != (workflow.Point{X: 10, Y: 20}) || in.Description != "Read the request" {
		t.Errorf("input node = %+v", in)
	}
	if p.Nodes[1].Title != "Transform" {
		t.Errorf("process title = %q, want Transform", p.Nodes[1].Title)
	}

	out := filepath.Join(dir, "out")
	if _, err := execute(t, "export", file, "-f", "png,json,dot", "-o", out); err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, name := range []string{"Demo-Flow-workflow.png", "Demo-Flow-skill.json", "Demo-Flow-workflow.dot"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing export %s: %v", name, err)
		}
	}

	if _, err := execute(t, "node", "rm", file, "Input 1"); err != nil {
		t.Fatalf("node rm: %v", err)
	}
	p, _ = loadProject(file)
	if len(p.Nodes) != 1 || len(p.Connections) != 0 {
		t.Errorf("after rm: %d nodes, %d connections, want 1 and 0", len(p.Nodes), len(p.Connections))
	}
}

func TestDisconnectCommand(t *testing.T) {
	file := filepath.Join(t.TempDir(), "demo.json")
	ed := workflow.NewEditor(workflow.WithIDGenerator(testIDs()))
	a, _ := ed.AddNode(workflow.KindInput, 0, 0)
	b, _ := ed.AddNode(workflow.KindOutput, 200, 0)
	ed.Connect(a.ID, b.ID)
	ed.Connect(a.ID, b.ID)
	p := ed.Snapshot()
	p.Connections = append(p.Connections, workflow.Connection{From: a.ID, To: "node-gone"})
	if err := saveProject(file, p); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "disconnect", file, a.ID, b.ID); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if _, err := execute(t, "disconnect", file, a.ID, "node-gone"); err != nil {
		t.Fatalf("disconnect dangling: %v", err)
	}
	got, _ := loadProject(file)
	if len(got.Connections) != 0 {
		t.Errorf("connections = %+v, want none", got.Connections)
	}
}

func TestExportCommandRejectsBadFlags(t *testing.T) {
	file := filepath.Join(t.TempDir(), "demo.json")
	if err := saveProject(file, workflow.NewProject("Demo")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		code apperrors.Code
	}{
		{"format", []string{"-f", "gif"}, apperrors.ErrCodeInvalidConfig},
		{"sink", []string{"--sink", "s3"}, apperrors.ErrCodeInvalidConfig},
		{"gradient", []string{"--gradient", "#fff"}, apperrors.ErrCodeInvalidInput},
		{"accent", []string{"--accent", "teal"}, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"export", file}, tt.args...)...)
			if !apperrors.Is(err, tt.code) {
				t.Errorf("export %v error = %v, want %s", tt.args, err, tt.code)
			}
		})
	}
}

func TestShowMissingFile(t *testing.T) {
	_, err := execute(t, "show", filepath.Join(t.TempDir(), "missing.json"))
	if !apperrors.Is(err, apperrors.ErrCodeNotFound) {
		t.Errorf("show error = %v, want NOT_FOUND", err)
	}
}

func TestExportCommandUsesRenderCache(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "demo.json")
	if err := saveProject(file, workflow.NewProject("Demo")); err != nil {
		t.Fatal(err)
	}
	cacheDir := filepath.Join(dir, "renders")
	cfg := filepath.Join(dir, "config.toml")
	content := "[cache]\nenabled = true\ndir = " + strconv.Quote(cacheDir) + "\n"
	if err := os.WriteFile(cfg, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out")
	if _, err := execute(t, "--config", cfg, "export", file, "-f", "dot,json", "-o", out); err != nil {
		t.Fatalf("export: %v", err)
	}
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		t.Fatalf("cache dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("cache holds %d shards, want 1 (dot only)", len(entries))
	}

	if err := os.RemoveAll(cacheDir); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", cfg, "export", file, "-f", "dot", "-o", out, "--no-cache"); err != nil {
		t.Fatalf("export --no-cache: %v", err)
	}
	if _, err := os.Stat(cacheDir); !os.IsNotExist(err) {
		t.Errorf("--no-cache still created the cache: %v", err)
	}
}

func TestSetCommand(t *testing.T) {
	file := filepath.Join(t.TempDir(), "demo.json")
	if _, err := execute(t, "new", file, "--name", "Demo", "--description", "first"); err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := execute(t, "set", file, "--description", "Route support tickets"); err != nil {
		t.Fatalf("set --description: %v", err)
	}
	p, err := loadProject(file)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Demo" || p.Description != "Route support tickets" {
		t.Errorf("project = %q / %q, want Demo / Route support tickets", p.Name, p.Description)
	}

	if _, err := execute(t, "set", file, "--name", "Support Triage", "--description", ""); err != nil {
		t.Fatalf("set --name: %v", err)
	}
	p, err = loadProject(file)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Support Triage" || p.Description != "" {
		t.Errorf("project = %q / %q, want Support Triage with empty description", p.Name, p.Description)
	}

	if _, err := execute(t, "set", file); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("set without flags error = %v, want INVALID_INPUT", err)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "demo.json")
	if err := saveProject(file, workflow.NewProject("Demo")); err != nil {
		t.Fatal(err)
	}
	cacheDir := filepath.Join(dir, "renders")
	cfg := filepath.Join(dir, "config.toml")
	content := "[cache]\nenabled = true\ndir = " + strconv.Quote(cacheDir) + "\n"
	if err := os.WriteFile(cfg, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", cfg, "export", file, "-f", "dot", "-o", filepath.Join(dir, "out")); err != nil {
		t.Fatalf("export: %v", err)
	}

	if _, err := execute(t, "--config", cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		t.Fatalf("cache dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cache holds %d shards after clear, want 0", len(entries))
	}
}
