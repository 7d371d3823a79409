package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "headmeta.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "site:\n  name: Blog\n")

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, "Blog", cfg.Site["name"])
	assert.Equal(t, DefaultSource, cfg.Build.Source)
	assert.Equal(t, DefaultOutput, cfg.Build.Output)
	assert.Equal(t, DefaultInclude, cfg.Build.Include)
	assert.True(t, cfg.Build.UsePrettyURLs())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("BLOG_ORIGIN", "https://blog.example")
	path := writeConfig(t, "site:\n  origin: ${BLOG_ORIGIN}\nbuild:\n  pretty_urls: false\n")

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example", cfg.Site["origin"])
	assert.False(t, cfg.Build.UsePrettyURLs())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvOrigin, "https://override.example")
	t.Setenv(EnvName, "Override")
	t.Setenv(EnvSource, "src")
	t.Setenv(EnvOutput, "dist")
	t.Setenv(EnvLogLevel, "DEBUG")
	path := writeConfig(t, "site:\n  origin: https://file.example\n")

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, "https://override.example", cfg.Site["origin"])
	assert.Equal(t, "Override", cfg.Site["name"])
	assert.Equal(t, "src", cfg.Build.Source)
	assert.Equal(t, "dist", cfg.Build.Output)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	_, err := Load(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, DefaultOutput, cfg.Build.Output)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "site: [unclosed\n")

	_, err := Load(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestValidate_SourceEqualsOutput(t *testing.T) {
	path := writeConfig(t, "build:\n  source: site\n  output: ./site/\n")

	_, err := Load(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestLoggingConfig_Levels(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for raw, want := range tests {
		assert.Equal(t, want, LoggingConfig{Level: raw}.SlogLevel(), raw)
	}
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat(" JSON "))
	assert.Equal(t, LogFormatText, NormalizeLogFormat("yaml"))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headmeta.yaml")

	require.NoError(t, Init(path, false))
	err := Init(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, Init(path, true))

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, "Example Site", cfg.Site["name"])
	assert.Equal(t, true, cfg.Site["og"])
	assert.Equal(t, []string{"drafts/**"}, cfg.Build.Exclude)
	assert.Equal(t, DefaultState, cfg.Build.State)
}

func TestValidate_NestedDirs(t *testing.T) {
	path := writeConfig(t, "build:\n  source: public/content\n  output: public\n")
	_, err := Load(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	assert.Contains(t, err.Error(), "must not be inside")

	// Output nested in the source is allowed; the builder skips it.
	path = writeConfig(t, "build:\n  source: .\n  output: public\n")
	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, "public", cfg.Build.Output)
}
