package config

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
)

// Default build settings.
const (
	DefaultSource = "content"
	DefaultOutput = "public"
	DefaultState  = ".headmeta/state.db"
)

// DefaultInclude matches every supported source document.
var DefaultInclude = []string{"**/*.md", "**/*.markdown", "**/*.html", "**/*.htm"}

func applyDefaults(cfg *Config) {
	if cfg.Site == nil {
		cfg.Site = map[string]any{}
	}
	if cfg.Build.Source == "" {
		cfg.Build.Source = DefaultSource
	}
	if cfg.Build.Output == "" {
		cfg.Build.Output = DefaultOutput
	}
	if len(cfg.Build.Include) == 0 {
		cfg.Build.Include = append([]string(nil), DefaultInclude...)
	}
	cfg.Logging.Level = string(NormalizeLogLevel(cfg.Logging.Level))
	cfg.Logging.Format = string(NormalizeLogFormat(cfg.Logging.Format))
}

// Validate rejects configurations a build cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Build.Output) == "" {
		return errors.ConfigError("build.output must not be empty").Build()
	}
	if filepath.Clean(c.Build.Source) == filepath.Clean(c.Build.Output) {
		return errors.ConfigError("build.source and build.output must differ").
			WithContext("dir", c.Build.Source).
			Build()
	}
	if within(c.Build.Output, c.Build.Source) {
		return errors.ConfigError("build.source must not be inside build.output").
			WithContext("source", c.Build.Source).
			WithContext("output", c.Build.Output).
			Build()
	}
	return nil
}

// within reports whether dir lies strictly inside root.
func within(root, dir string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
