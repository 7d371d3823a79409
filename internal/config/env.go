package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override configuration values.
const (
	EnvOrigin   = "HEADMETA_ORIGIN"
	EnvName     = "HEADMETA_NAME"
	EnvSource   = "HEADMETA_SOURCE"
	EnvOutput   = "HEADMETA_OUTPUT"
	EnvLogLevel = "HEADMETA_LOG_LEVEL"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env files that exist. Variables already present in the
// process environment are not overwritten.
func loadEnvFiles() {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvOrigin); v != "" {
		cfg.setSite("origin", v)
	}
	if v := os.Getenv(EnvName); v != "" {
		cfg.setSite("name", v)
	}
	if v := os.Getenv(EnvSource); v != "" {
		cfg.Build.Source = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		cfg.Build.Output = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
}

func (c *Config) setSite(key string, value any) {
	if c.Site == nil {
		c.Site = map[string]any{}
	}
	c.Site[key] = value
}
