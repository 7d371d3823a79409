// Package config loads the headmeta configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "headmeta.yaml"

// Config represents the application configuration.
type Config struct {
	// Site holds site-wide metadata defaults (any context field, e.g. name,
	// origin, separator, og, twitter). It is the caller-options layer.
	Site    map[string]any `yaml:"site"`
	Build   BuildConfig    `yaml:"build"`
	Logging LoggingConfig  `yaml:"logging"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

// BuildConfig controls batch builds.
type BuildConfig struct {
	Source     string   `yaml:"source"`
	Output     string   `yaml:"output"`
	Include    []string `yaml:"include,omitempty"`
	Exclude    []string `yaml:"exclude,omitempty"`
	State      string   `yaml:"state,omitempty"`       // SQLite fingerprint store; "" disables incremental builds
	PrettyURLs *bool    `yaml:"pretty_urls,omitempty"` // posts/a.md -> posts/a/index.html
	Lang       string   `yaml:"lang,omitempty"`        // lang attribute for pages rendered from Markdown
}

// UsePrettyURLs reports the effective pretty URL setting.
func (b BuildConfig) UsePrettyURLs() bool {
	return b.PrettyURLs == nil || *b.PrettyURLs
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// MetricsConfig configures Prometheus output.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"` // written after each build
	Listen   string `yaml:"listen,omitempty"`   // HTTP address for /metrics in watch mode
}

// Load reads configPath, expands ${VAR} references, applies environment
// overrides and defaults, and validates the result. A missing file is
// tolerated when allowMissing is set, yielding a default configuration.
func Load(configPath string, allowMissing bool) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
				WithContext("file", configPath).
				Build()
		}
	case os.IsNotExist(err) && allowMissing:
	case os.IsNotExist(err):
		return nil, errors.ConfigError(fmt.Sprintf("configuration file not found: %s", configPath)).Build()
	default:
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("file", configPath).
			Build()
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
