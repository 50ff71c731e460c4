// Package config loads calcforge configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".calcforge.yaml"

// Environment variables that override file settings.
const (
	EnvLogLevel        = "CALCFORGE_LOG_LEVEL"
	EnvLogFormat       = "CALCFORGE_LOG_FORMAT"
	EnvHistoryDB       = "CALCFORGE_HISTORY_DB"
	EnvChangelogOutput = "CALCFORGE_CHANGELOG_OUTPUT"
)

// Config holds all calcforge configuration.
type Config struct {
	Calculator CalculatorConfig `yaml:"calculator"`
	Changelog  ChangelogConfig  `yaml:"changelog"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Calculator: CalculatorConfig{
			Name:      "Calculator",
			Persist:   true,
			HistoryDB: filepath.Join(".calcforge", "history.db"),
		},
		Changelog: ChangelogConfig{
			Output:       "CHANGELOG.md",
			Repo:         ".",
			Head:         "HEAD",
			IncludeOther: true,
			Concurrency:  4,
			Debounce:     "500ms",
			PreviewStyle: "auto",
			PreviewWidth: 100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the configuration at path. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.Logging.Level = lvl
	}
	if format := os.Getenv(EnvLogFormat); format != "" {
		c.Logging.Format = format
	}
	if path := os.Getenv(EnvHistoryDB); path != "" {
		c.Calculator.HistoryDB = path
	}
	if out := os.Getenv(EnvChangelogOutput); out != "" {
		c.Changelog.Output = out
	}
}

// Validate checks the configuration for values the CLIs cannot work with.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if c.Calculator.Persist && c.Calculator.HistoryDB == "" {
		return fmt.Errorf("calculator.history_db must be set when persist is enabled")
	}
	if c.Changelog.Output == "" {
		return fmt.Errorf("changelog.output must be set")
	}
	if c.Changelog.Concurrency < 0 {
		return fmt.Errorf("changelog.concurrency must not be negative (got %d)", c.Changelog.Concurrency)
	}
	if _, err := c.Changelog.DebounceDuration(); err != nil {
		return err
	}
	if _, err := c.Changelog.Catalog(); err != nil {
		return fmt.Errorf("changelog.types: %w", err)
	}
	return nil
}

func parseDuration(field, raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", field, raw)
	}
	return d, nil
}
