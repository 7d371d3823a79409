// Package commands implements the headmeta command line.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/headmeta/internal/config"
	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
	"git.home.luguber.info/inful/headmeta/internal/metrics"
	"git.home.luguber.info/inful/headmeta/internal/state"
)

// Global carries process-wide handles into subcommands.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
	Stdin  io.Reader
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"headmeta.yaml" env:"HEADMETA_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Inject InjectCmd `cmd:"" help:"Inject metadata into a single HTML or Markdown document"`
	Build  BuildCmd  `cmd:"" help:"Build every document in the source directory"`
	Watch  WatchCmd  `cmd:"" help:"Build, then rebuild documents as they change"`
	Check  CheckCmd  `cmd:"" help:"Report the metadata present in HTML files"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; it installs a provisional logger that
// commands replace once the configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	g.Logger = config.LoggingConfig{Level: os.Getenv(config.EnvLogLevel)}.NewLogger(os.Stderr, c.Verbose)
	slog.SetDefault(g.Logger)
	return nil
}

// loadConfig loads the configuration and switches logging to its settings.
func (c *CLI) loadConfig(g *Global, allowMissing bool) (*config.Config, error) {
	cfg, err := config.Load(c.Config, allowMissing)
	if err != nil {
		return nil, err
	}
	g.Logger = cfg.Logging.NewLogger(os.Stderr, c.Verbose)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

func openStore(cfg *config.Config, dryRun bool) (state.Store, error) {
	if cfg.Build.State == "" || dryRun {
		return nil, nil
	}
	store, err := state.NewSQLiteStore(cfg.Build.State)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryState, "failed to open state store").
			WithContext("path", cfg.Build.State).
			Build()
	}
	return store, nil
}

// newRecorder returns a Prometheus recorder when any metrics output is
// configured, otherwise nil.
func newRecorder(cfg *config.Config) *metrics.PrometheusRecorder {
	if cfg.Metrics.Textfile == "" && cfg.Metrics.Listen == "" {
		return nil
	}
	return metrics.NewPrometheusRecorder(nil)
}
