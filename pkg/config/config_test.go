package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UI.SplitRatio != 0.4 {
		t.Errorf("expected split ratio 0.4, got %f", cfg.UI.SplitRatio)
	}
	if cfg.Tick() != 250*time.Millisecond {
		t.Errorf("expected 250ms tick, got %v", cfg.Tick())
	}
	if cfg.Search.Mode != "regex" {
		t.Errorf("expected regex search mode, got %q", cfg.Search.Mode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.UI.TickMs != 250 {
		t.Errorf("expected default config, got tick %d", cfg.UI.TickMs)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
ui:
  split_ratio: 0.5
  group_summary: true
  theme: light
search:
  case_insensitive: true
  mode: literal
loader:
  max_depth: 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UI.SplitRatio != 0.5 || !cfg.UI.GroupSummary || cfg.UI.Theme != ThemeLight {
		t.Errorf("unexpected ui config %+v", cfg.UI)
	}
	if !cfg.Search.CaseInsensitive || cfg.Search.Mode != "literal" {
		t.Errorf("unexpected search config %+v", cfg.Search)
	}
	if cfg.Loader.MaxDepth != 3 {
		t.Errorf("expected max depth 3, got %d", cfg.Loader.MaxDepth)
	}
	// Unset keys keep their defaults.
	if cfg.UI.TickMs != 250 || cfg.Loader.Concurrency != 4 {
		t.Errorf("defaults lost: tick %d concurrency %d", cfg.UI.TickMs, cfg.Loader.Concurrency)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ui: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFrom(path)
	if err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadFrom_OutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ui:\n  split_ratio: 0.95\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFrom(path)
	if err == nil || !strings.Contains(err.Error(), "split_ratio") {
		t.Errorf("expected split_ratio error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tick", func(c *Config) { c.UI.TickMs = 1 }},
		{"theme", func(c *Config) { c.UI.Theme = "neon" }},
		{"mode", func(c *Config) { c.Search.Mode = "fuzzy" }},
		{"depth", func(c *Config) { c.Loader.MaxDepth = 0 }},
		{"concurrency", func(c *Config) { c.Loader.Concurrency = 0 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.UI.SplitRatio = 0.3
	cfg.Search.CaseInsensitive = true

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.UI.SplitRatio != 0.3 || !loaded.Search.CaseInsensitive {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigDir(); got != "/tmp/xdg/h5nav" {
		t.Errorf("ConfigDir() = %q", got)
	}
	if got := ConfigPath(); got != "/tmp/xdg/h5nav/config.yaml" {
		t.Errorf("ConfigPath() = %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, _ := os.UserHomeDir()
	if got := expandHome("~/cfg.yaml"); got != filepath.Join(home, "cfg.yaml") {
		t.Errorf("expandHome = %q", got)
	}
	if got := expandHome("/abs"); got != "/abs" {
		t.Errorf("expandHome(/abs) = %q", got)
	}
}
