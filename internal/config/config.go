package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment keys that override blink.yaml. They are read from the process
// environment first and then from ~/.blink/.env.
const (
	EnvPluginRoot    = "BLINK_PLUGIN_ROOT"
	EnvQuietInterval = "BLINK_QUIET_INTERVAL"
	EnvDebug         = "BLINK_DEBUG"
)

// DefaultQuietInterval is the debounce period used by the launcher.
const DefaultQuietInterval = 500 * time.Millisecond

// DefaultItem is one entry of the listing shown for an empty query.
type DefaultItem struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
}

// Config is the in-memory representation of ~/.blink/blink.yaml.
type Config struct {
	PluginRoot    string        `yaml:"plugin_root"`
	QuietInterval string        `yaml:"quiet_interval,omitempty"`
	DefaultItems  []DefaultItem `yaml:"default_items,omitempty"`
	Debug         bool          `yaml:"debug,omitempty"`
}

// BlinkDir returns the absolute path to ~/.blink/.
func BlinkDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".blink"), nil
}

// ConfigPath returns the absolute path to ~/.blink/blink.yaml.
func ConfigPath() (string, error) {
	dir, err := BlinkDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "blink.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the configuration used when blink.yaml is absent.
func DefaultConfig() (*Config, error) {
	dir, err := BlinkDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		PluginRoot:    filepath.Join(dir, "plugins"),
		QuietInterval: DefaultQuietInterval.String(),
	}, nil
}

// Load reads ~/.blink/blink.yaml, falling back to defaults when the file does
// not exist, and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	o, err := LoadOverrides()
	if err != nil {
		return nil, err
	}
	cfg.apply(o)
	if cfg.PluginRoot == "" {
		def, _ := DefaultConfig()
		cfg.PluginRoot = def.PluginRoot
	}
	cfg.PluginRoot, err = ExpandPath(cfg.PluginRoot)
	if err != nil {
		return nil, err
	}
	if _, err := cfg.Interval(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply copies every set override onto c.
func (c *Config) apply(o Overrides) {
	if o.PluginRoot != nil {
		c.PluginRoot = *o.PluginRoot
	}
	if o.QuietInterval != nil {
		c.QuietInterval = o.QuietInterval.String()
	}
	if o.Debug != nil {
		c.Debug = *o.Debug
	}
}

// Interval parses QuietInterval. An empty value means DefaultQuietInterval.
func (c *Config) Interval() (time.Duration, error) {
	s := strings.TrimSpace(c.QuietInterval)
	if s == "" {
		return DefaultQuietInterval, nil
	}
	d, err := parseQuietInterval(s)
	if err != nil {
		return 0, fmt.Errorf("invalid quiet_interval %q: %w", s, err)
	}
	return d, nil
}

func parseQuietInterval(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return d, nil
}

// Save marshals cfg and writes it to ~/.blink/blink.yaml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}
