// Package config loads jsrewrite settings from default tags, optional
// configuration files and prefixed environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/vitalvas/jsrewrite/rewrite"
	"github.com/vitalvas/jsrewrite/xlogger"
)

// EnvPrefix is the environment variable prefix used by the commands.
const EnvPrefix = "JSREWRITE"

// Config is the runtime configuration of the jsrewrite commands.
type Config struct {
	Log         xlogger.Config `yaml:"log" json:"log" toml:"log"`
	Workers     int            `yaml:"workers" json:"workers" toml:"workers" default:"4"`
	Rules       []string       `yaml:"rules" json:"rules" toml:"rules"`
	MetricsFile string         `yaml:"metrics_file" json:"metrics_file" toml:"metrics_file"`
	Watch       Watch          `yaml:"watch" json:"watch" toml:"watch"`
}

// Watch configures the watch command.
type Watch struct {
	Debounce   time.Duration `yaml:"debounce" json:"debounce" toml:"debounce" default:"250ms"`
	Extensions []string      `yaml:"extensions" json:"extensions" toml:"extensions"`
}

// Default fills values that cannot be expressed as a default tag.
func (w *Watch) Default() {
	if len(w.Extensions) == 0 {
		w.Extensions = []string{".js", ".mjs"}
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	if _, err := rewrite.SelectRules(c.Rules...); err != nil {
		return err
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must not be negative, got %s", c.Watch.Debounce)
	}

	for _, ext := range c.Watch.Extensions {
		if len(ext) < 2 || ext[0] != '.' {
			return fmt.Errorf("invalid watch extension: %q", ext)
		}
	}

	return nil
}

// LoadFile builds a Config from defaults, the optional file and the
// JSREWRITE_ environment, then validates it. An empty filename skips the
// file step; a named file must exist.
func LoadFile(filename string) (*Config, error) {
	options := []Option{WithEnv(EnvPrefix)}
	if filename != "" {
		if _, err := os.Stat(filename); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		options = append(options, WithFiles(filename))
	}

	var conf Config
	if err := Load(&conf, options...); err != nil {
		return nil, err
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &conf, nil
}
