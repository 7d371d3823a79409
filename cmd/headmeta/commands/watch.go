package commands

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"git.home.luguber.info/inful/headmeta/internal/config"
	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
	"git.home.luguber.info/inful/headmeta/internal/logfields"
	"git.home.luguber.info/inful/headmeta/internal/metrics"
	"git.home.luguber.info/inful/headmeta/internal/site"
	"git.home.luguber.info/inful/headmeta/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Source   string        `short:"s" help:"Override build.source"`
	Output   string        `short:"o" help:"Override build.output"`
	Debounce time.Duration `help:"Quiet period before rebuilding" default:"300ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g, true)
	if err != nil {
		return err
	}
	if err := applyDirOverrides(cfg, w.Source, w.Output); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg, false)
	if err != nil {
		return err
	}
	if store != nil {
		defer closeStore(g, store)
	}
	rec := newRecorder(cfg)
	if rec != nil && cfg.Metrics.Listen != "" {
		srv := serveMetrics(g, cfg.Metrics.Listen, rec)
		defer shutdown(g, srv)
	}

	builder := site.New(cfg, builderOptions(g, store, rec)...)
	if result, err := builder.Run(ctx, site.Request{}); result != nil {
		printSummary(g.Stdout, result)
	} else if err != nil {
		return err
	}
	flushMetrics(g, cfg, rec)

	watcher, err := watch.New(cfg.Build.Source, w.Debounce, g.Logger, cfg.Build.Output)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to start watcher").
			WithContext("dir", cfg.Build.Source).
			Build()
	}
	return watcher.Run(ctx, func(ctx context.Context, changed []string) {
		result, err := rebuild(ctx, builder, cfg.Build.Source, changed)
		if result != nil {
			printSummary(g.Stdout, result)
		}
		if err != nil && result == nil {
			g.Logger.Error("Rebuild failed", logfields.Error(err))
		}
		flushMetrics(g, cfg, rec)
	})
}

// rebuild builds the changed documents that still exist. A removed document
// triggers a full run so its state is pruned.
func rebuild(ctx context.Context, b *site.Builder, source string, changed []string) (*site.Result, error) {
	var rels []string
	for _, rel := range changed {
		if _, err := os.Stat(filepath.Join(source, filepath.FromSlash(rel))); err != nil {
			return b.Run(ctx, site.Request{})
		}
		if b.Selects(rel) {
			rels = append(rels, rel)
		}
	}
	if len(rels) == 0 {
		return nil, nil
	}
	return b.Build(ctx, rels, site.Request{})
}

func flushMetrics(g *Global, cfg *config.Config, rec *metrics.PrometheusRecorder) {
	if rec == nil || cfg.Metrics.Textfile == "" {
		return
	}
	if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		g.Logger.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
	}
}

func serveMetrics(g *Global, addr string, rec *metrics.PrometheusRecorder) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.HTTPHandler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		g.Logger.Info("Serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			g.Logger.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	return srv
}

func shutdown(g *Global, srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		g.Logger.Warn("Failed to stop metrics server", logfields.Error(err))
	}
}
