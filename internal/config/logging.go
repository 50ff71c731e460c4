package config

import (
	"fmt"
	"strings"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn (warning), error
	Format string `yaml:"format"` // json, console
	// File receives logs in addition to stderr when set.
	File string `yaml:"file,omitempty"`
}

// ValidLogLevels lists accepted level names.
var ValidLogLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate checks level and format.
func (c *LoggingConfig) Validate() error {
	level := strings.ToLower(strings.TrimSpace(c.Level))
	valid := level == ""
	for _, l := range ValidLogLevels {
		if level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Level, ValidLogLevels)
	}

	switch strings.ToLower(c.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.Format)
	}
	return nil
}
