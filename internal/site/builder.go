// Package site runs batch builds: it discovers source documents, turns each
// into an HTML tree, injects metadata and writes the result.
package site

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/headmeta/internal/config"
	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
	"git.home.luguber.info/inful/headmeta/internal/headmeta"
	"git.home.luguber.info/inful/headmeta/internal/htmldoc"
	"git.home.luguber.info/inful/headmeta/internal/logfields"
	"git.home.luguber.info/inful/headmeta/internal/markdown"
	"git.home.luguber.info/inful/headmeta/internal/metrics"
	"git.home.luguber.info/inful/headmeta/internal/page"
	"git.home.luguber.info/inful/headmeta/internal/state"
)

// Builder executes builds for one configuration. It is safe to call Run
// repeatedly, e.g. from a watch loop, but not concurrently.
type Builder struct {
	cfg         config.BuildConfig
	site        headmeta.Fields
	transformer *headmeta.Transformer
	renderer    *markdown.Renderer
	outputRel   string // output directory relative to the source, "" when outside it
	store       state.Store
	recorder    metrics.Recorder
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithStore enables incremental builds backed by store.
func WithStore(store state.Store) Option {
	return func(b *Builder) { b.store = store }
}

// WithRecorder sets the metrics recorder for documents and rules.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithClock sets the time source for copyright fallbacks and state records.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// New returns a Builder for cfg.
func New(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:       cfg.Build,
		site:      headmeta.Fields(cfg.Site).Clone(),
		outputRel: nestedDir(cfg.Build.Source, cfg.Build.Output),
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	var mdOpts []markdown.Option
	if cfg.Build.Lang != "" {
		mdOpts = append(mdOpts, markdown.WithLang(cfg.Build.Lang))
	}
	b.renderer = markdown.New(mdOpts...)
	b.transformer = headmeta.New(b.site,
		headmeta.WithLogger(b.logger),
		headmeta.WithRecorder(b.recorder),
		headmeta.WithClock(b.now),
	)
	return b
}

// Request modifies a single build.
type Request struct {
	// Force rebuilds documents whose fingerprint is unchanged.
	Force bool
	// DryRun runs every document through the pipeline without writing output
	// or state.
	DryRun bool
}

// Status summarizes a build.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// DocumentResult is the outcome for one source document.
type DocumentResult struct {
	Path    string
	Output  string
	Result  metrics.ResultLabel
	Applied []string
	Err     error
}

// Result summarizes a build.
type Result struct {
	RunID     string
	Status    Status
	Documents []DocumentResult
	Duration  time.Duration
}

// Count returns the number of documents with the given outcome.
func (r *Result) Count(label metrics.ResultLabel) int {
	n := 0
	for _, d := range r.Documents {
		if d.Result == label {
			n++
		}
	}
	return n
}

// Run discovers and builds every selected document, then forgets state for
// documents that no longer exist.
func (b *Builder) Run(ctx context.Context, req Request) (*Result, error) {
	rels, err := b.Discover()
	if err != nil {
		return nil, err
	}
	result, err := b.Build(ctx, rels, req)
	if result != nil && !req.DryRun {
		b.prune(ctx, rels)
	}
	return result, err
}

// Build processes the given documents. A document that fails does not stop
// the others; the returned error aggregates every failure.
func (b *Builder) Build(ctx context.Context, rels []string, req Request) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := b.logger.With(logfields.RunID(runID))
	logger.Info("Build started", slog.Int("documents", len(rels)), slog.Bool("dry_run", req.DryRun))

	result := &Result{RunID: runID}
	var errs []error
	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapError(err, errors.CategoryRuntime, "build cancelled").
				WithContext("run_id", runID).
				Build()
		}

		docStart := time.Now()
		res := b.buildOne(ctx, logger, rel, req)
		b.recorder.IncDocumentResult(res.Result)
		b.recorder.ObserveDocumentDuration(time.Since(docStart))
		result.Documents = append(result.Documents, res)
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rel, res.Err))
		}
	}

	result.Duration = time.Since(start)
	b.recorder.ObserveBuildDuration(result.Duration)
	result.Status = status(len(rels), len(errs))

	logger.Info("Build finished",
		slog.String("status", string(result.Status)),
		slog.Int("built", result.Count(metrics.ResultSuccess)),
		slog.Int("skipped", result.Count(metrics.ResultSkipped)),
		slog.Int("invalid", result.Count(metrics.ResultInvalid)),
		slog.Int("failed", result.Count(metrics.ResultFailed)),
		logfields.DurationMS(float64(result.Duration.Milliseconds())))

	if len(errs) == 0 {
		return result, nil
	}
	category := errors.CategoryValidation
	if result.Count(metrics.ResultFailed) > 0 {
		category = errors.CategoryRuntime
	}
	eb := errors.WrapError(stderrors.Join(errs...), category,
		fmt.Sprintf("%d of %d documents could not be built", len(errs), len(rels))).
		WithContext("run_id", runID)
	if result.Status == StatusPartial {
		eb = eb.Warning()
	}
	return result, eb.Build()
}

func status(total, failed int) Status {
	switch {
	case failed == 0:
		return StatusSuccess
	case failed < total:
		return StatusPartial
	default:
		return StatusFailed
	}
}

func (b *Builder) buildOne(ctx context.Context, logger *slog.Logger, rel string, req Request) DocumentResult {
	res := DocumentResult{Path: rel}
	logger = logger.With(logfields.Document(rel))

	p, err := page.Load(b.cfg.Source, rel)
	if err != nil {
		return b.fail(logger, res, err)
	}
	res.Output = p.OutputPath(b.cfg.UsePrettyURLs())
	outPath := filepath.Join(b.cfg.Output, filepath.FromSlash(res.Output))

	fingerprint, err := p.Fingerprint(b.site)
	if err != nil {
		return b.fail(logger, res, err)
	}
	if b.unchanged(ctx, logger, rel, fingerprint, outPath, req) {
		res.Result = metrics.ResultSkipped
		logger.Debug("Document unchanged")
		return res
	}

	root, err := p.Tree(b.renderer)
	if err != nil {
		return b.fail(logger, res, err)
	}
	report, err := b.transformer.Transform(root, p.Document(b.cfg.UsePrettyURLs()))
	if err != nil {
		return b.fail(logger, res, err)
	}
	for _, applied := range report.Applied {
		res.Applied = append(res.Applied, applied.Rule)
	}

	var buf bytes.Buffer
	if err := htmldoc.Render(&buf, root); err != nil {
		return b.fail(logger, res, err)
	}

	if !req.DryRun {
		if err := writeOutput(outPath, buf.Bytes()); err != nil {
			return b.fail(logger, res, err)
		}
		if b.store != nil {
			if err := b.store.Record(ctx, rel, fingerprint, b.now()); err != nil {
				logger.Warn("Failed to record fingerprint", logfields.Error(err))
			}
		}
	}

	res.Result = metrics.ResultSuccess
	logger.Debug("Document built",
		logfields.Path(res.Output),
		logfields.NodesCreated(report.NodesCreated),
		slog.Int("rules", len(report.Applied)))
	return res
}

func (b *Builder) unchanged(ctx context.Context, logger *slog.Logger, rel, fingerprint, outPath string, req Request) bool {
	if b.store == nil || req.Force {
		return false
	}
	prev, ok, err := b.store.Fingerprint(ctx, rel)
	if err != nil {
		logger.Warn("Failed to read fingerprint", logfields.Error(err))
		return false
	}
	if !ok || prev != fingerprint {
		return false
	}
	_, err = os.Stat(outPath)
	return err == nil
}

func (b *Builder) fail(logger *slog.Logger, res DocumentResult, err error) DocumentResult {
	res.Err = err
	if errors.HasCategory(err, errors.CategoryValidation) {
		res.Result = metrics.ResultInvalid
		logger.Warn("Document rejected", logfields.Error(err))
		return res
	}
	res.Result = metrics.ResultFailed
	logger.Error("Document failed", logfields.Error(err))
	return res
}

func (b *Builder) prune(ctx context.Context, rels []string) {
	if b.store == nil {
		return
	}
	known, err := b.store.Paths(ctx)
	if err != nil {
		b.logger.Warn("Failed to list recorded documents", logfields.Error(err))
		return
	}
	current := make(map[string]struct{}, len(rels))
	for _, rel := range rels {
		current[rel] = struct{}{}
	}
	for _, rel := range known {
		if _, ok := current[rel]; ok {
			continue
		}
		if err := b.store.Forget(ctx, rel); err != nil {
			b.logger.Warn("Failed to forget document", logfields.Document(rel), logfields.Error(err))
			continue
		}
		b.logger.Debug("Forgot removed document", logfields.Document(rel))
	}
}

func writeOutput(outPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return errors.FileSystemError("failed to create output directory").WithCause(err).
			WithContext("path", outPath).
			Build()
	}
	// #nosec G306 -- generated pages are meant to be world readable
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return errors.FileSystemError("failed to write output").WithCause(err).
			WithContext("path", outPath).
			Build()
	}
	return nil
}
