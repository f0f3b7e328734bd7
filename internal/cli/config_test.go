package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/radiant/pkg/config"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSchemaTable(t *testing.T) {
	out := schemaTable(config.Schema())
	for _, want := range []string{"Key", "Default", "breakpoints.small", "animation.duration", "colors.active"} {
		if !strings.Contains(out, want) {
			t.Errorf("schema table missing %q", want)
		}
	}
}

func TestConfigSchemaJSON(t *testing.T) {
	out, err := runRoot(t, "config", "schema", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var fields []config.Field
	if err := json.Unmarshal([]byte(out), &fields); err != nil {
		t.Fatal(err)
	}
	if len(fields) != len(config.Schema()) {
		t.Errorf("got %d fields, want %d", len(fields), len(config.Schema()))
	}
}

func TestConfigShow(t *testing.T) {
	out, err := runRoot(t, "--config", "../../examples/radiant.toml", "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Parse([]byte(out))
	if err != nil {
		t.Fatalf("show output does not parse: %v", err)
	}
	if cfg.Colors.Active != "#ef4444" {
		t.Errorf("active color = %s, want the configured #ef4444", cfg.Colors.Active)
	}
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[breakpoints]\nsmall = 2000\nmedium = 1000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	unknown := filepath.Join(dir, "unknown.toml")
	if err := os.WriteFile(unknown, []byte("colour = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runRoot(t, "config", "validate", "../../examples/radiant.toml"); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
	_, err := runRoot(t, "config", "validate", "../../examples/radiant.toml", bad, unknown)
	if err == nil || !strings.Contains(err.Error(), "2 of 3") {
		t.Errorf("err = %v, want 2 of 3 invalid", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.configPath = filepath.Join(t.TempDir(), "missing.toml")
	if _, err := c.loadConfig(); err == nil {
		t.Error("loadConfig should fail for a missing file")
	}
}
