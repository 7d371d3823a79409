package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
)

// Example returns the configuration written by Init.
func Example() *Config {
	return &Config{
		Site: map[string]any{
			"name":       "Example Site",
			"origin":     "https://www.example.com",
			"separator":  " | ",
			"siteAuthor": "Example Team",
			"siteTags":   []string{"docs"},
			"og":         true,
			"twitter":    true,
		},
		Build: BuildConfig{
			Source:  DefaultSource,
			Output:  DefaultOutput,
			Include: DefaultInclude,
			Exclude: []string{"drafts/**"},
			State:   DefaultState,
		},
		Logging: LoggingConfig{Level: string(LogLevelInfo), Format: string(LogFormatText)},
	}
}

// Init writes an example configuration file to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("file", configPath).
			Build()
	}
	return nil
}
