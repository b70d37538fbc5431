// Package config handles loading and saving h5nav configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/h5nav/config.yaml
//   - State:  ~/.local/state/h5nav/ (debug log)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Theme names accepted by ui.theme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// UIConfig holds display preferences.
type UIConfig struct {
	SplitRatio   float64 `yaml:"split_ratio,omitempty"`   // Contents pane share of the width (0.2-0.8)
	GroupSummary bool    `yaml:"group_summary,omitempty"` // Second label line with child counts
	TickMs       int     `yaml:"tick_ms,omitempty"`       // Redraw interval
	Theme        string  `yaml:"theme,omitempty"`         // auto, dark, light
}

// SearchConfig controls how search patterns are compiled.
type SearchConfig struct {
	CaseInsensitive bool   `yaml:"case_insensitive,omitempty"`
	Mode            string `yaml:"mode,omitempty"` // regex, literal
}

// LoaderConfig bounds what data sources read.
type LoaderConfig struct {
	MaxDepth    int `yaml:"max_depth,omitempty"`    // Directory recursion limit
	Concurrency int `yaml:"concurrency,omitempty"` // Parallel table inspections for sqlite sources
}

// Config is the top-level configuration.
type Config struct {
	UI     UIConfig     `yaml:"ui,omitempty"`
	Search SearchConfig `yaml:"search,omitempty"`
	Loader LoaderConfig `yaml:"loader,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			SplitRatio: 0.4,
			TickMs:     250,
			Theme:      ThemeAuto,
		},
		Search: SearchConfig{
			Mode: "regex",
		},
		Loader: LoaderConfig{
			MaxDepth:    8,
			Concurrency: 4,
		},
	}
}

// Tick returns the redraw interval.
func (c Config) Tick() time.Duration {
	return time.Duration(c.UI.TickMs) * time.Millisecond
}

// Validate rejects values that cannot be used.
func (c Config) Validate() error {
	if c.UI.SplitRatio < 0.2 || c.UI.SplitRatio > 0.8 {
		return fmt.Errorf("ui.split_ratio must be between 0.2 and 0.8, got %g", c.UI.SplitRatio)
	}
	if c.UI.TickMs < 10 {
		return fmt.Errorf("ui.tick_ms must be at least 10, got %d", c.UI.TickMs)
	}
	switch c.UI.Theme {
	case ThemeAuto, ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("ui.theme must be auto, dark or light, got %q", c.UI.Theme)
	}
	switch c.Search.Mode {
	case "regex", "literal":
	default:
		return fmt.Errorf("search.mode must be regex or literal, got %q", c.Search.Mode)
	}
	if c.Loader.MaxDepth < 1 {
		return fmt.Errorf("loader.max_depth must be positive, got %d", c.Loader.MaxDepth)
	}
	if c.Loader.Concurrency < 1 {
		return fmt.Errorf("loader.concurrency must be positive, got %d", c.Loader.Concurrency)
	}
	return nil
}

// ConfigDir returns the XDG config directory for h5nav.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "h5nav")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "h5nav")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. A leading ~ is expanded.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
