package commands

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/headmeta/internal/config"
	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
	"git.home.luguber.info/inful/headmeta/internal/logfields"
	"git.home.luguber.info/inful/headmeta/internal/metrics"
	"git.home.luguber.info/inful/headmeta/internal/site"
	"git.home.luguber.info/inful/headmeta/internal/state"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Source string `short:"s" help:"Override build.source"`
	Output string `short:"o" help:"Override build.output"`
	Force  bool   `short:"f" help:"Rebuild documents even when unchanged"`
	DryRun bool   `name:"dry-run" help:"Process documents without writing output or state"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g, true)
	if err != nil {
		return err
	}
	if err := applyDirOverrides(cfg, b.Source, b.Output); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg, b.DryRun)
	if err != nil {
		return err
	}
	if store != nil {
		defer closeStore(g, store)
	}
	rec := newRecorder(cfg)

	builder := site.New(cfg, builderOptions(g, store, rec)...)
	result, buildErr := builder.Run(ctx, site.Request{Force: b.Force, DryRun: b.DryRun})
	if result != nil {
		printSummary(g.Stdout, result)
	}
	if rec != nil && cfg.Metrics.Textfile != "" {
		if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			g.Logger.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
		}
	}
	return buildErr
}

func applyDirOverrides(cfg *config.Config, source, output string) error {
	if source != "" {
		cfg.Build.Source = source
	}
	if output != "" {
		cfg.Build.Output = output
	}
	return cfg.Validate()
}

func builderOptions(g *Global, store state.Store, rec *metrics.PrometheusRecorder) []site.Option {
	opts := []site.Option{site.WithLogger(g.Logger)}
	if store != nil {
		opts = append(opts, site.WithStore(store))
	}
	if rec != nil {
		opts = append(opts, site.WithRecorder(rec))
	}
	return opts
}

func closeStore(g *Global, store state.Store) {
	if err := store.Close(); err != nil {
		g.Logger.Warn("Failed to close state store", logfields.Error(err))
	}
}

func printSummary(w io.Writer, r *site.Result) {
	_, _ = fmt.Fprintf(w, "%s: %d built, %d unchanged, %d invalid, %d failed (%s)\n",
		r.Status,
		r.Count(metrics.ResultSuccess),
		r.Count(metrics.ResultSkipped),
		r.Count(metrics.ResultInvalid),
		r.Count(metrics.ResultFailed),
		r.Duration.Round(time.Millisecond))
	for _, d := range r.Documents {
		if d.Err != nil {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", d.Path, errorText(d.Err))
		}
	}
}

func errorText(err error) string {
	if c, ok := errors.AsClassified(err); ok {
		if cause := c.Cause(); cause != nil {
			return c.Message() + ": " + cause.Error()
		}
		return c.Message()
	}
	return err.Error()
}
