package headmeta

import (
	"log/slog"
	"time"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/headmeta/internal/htmldoc"
	"git.home.luguber.info/inful/headmeta/internal/logfields"
	"git.home.luguber.info/inful/headmeta/internal/metrics"
)

// Transformer annotates document trees with metadata derived from a fixed
// set of caller options and per-document layers. It holds no per-document
// state and may be shared between goroutines.
type Transformer struct {
	options  Fields
	rules    []Rule
	logger   *slog.Logger
	recorder metrics.Recorder
	now      func() time.Time
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithLogger sets the logger used for per-rule debug output.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transformer) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(t *Transformer) {
		if r != nil {
			t.recorder = r
		}
	}
}

// WithRules replaces the generator pipeline. The rules must pass ValidateRules.
func WithRules(rules []Rule) Option {
	return func(t *Transformer) {
		t.rules = rules
	}
}

// WithClock sets the time source used when a copyright notice has no
// published date.
func WithClock(now func() time.Time) Option {
	return func(t *Transformer) {
		if now != nil {
			t.now = now
		}
	}
}

// New returns a Transformer with options as the site-wide layer.
func New(options Fields, opts ...Option) *Transformer {
	t := &Transformer{
		options:  options.Clone(),
		rules:    DefaultRules(),
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Rules returns the pipeline in execution order.
func (t *Transformer) Rules() []Rule {
	return t.rules
}

// RuleResult records one rule that acted on a document.
type RuleResult struct {
	Rule         string
	NodesCreated int
}

// Report summarizes a Transform call.
type Report struct {
	Applied      []RuleResult
	NodesCreated int
}

// Transform injects metadata into the head of root, mutating it in place.
// Invalid dates and trees without a usable head are reported before anything
// is modified.
func (t *Transformer) Transform(root *html.Node, doc Document) (*Report, error) {
	ctx, err := buildContext(t.options, doc, t.now())
	if err != nil {
		return nil, err
	}
	headNode, err := htmldoc.EnsureHead(root)
	if err != nil {
		return nil, err
	}

	head := newHead(headNode)
	report := &Report{}
	for _, rule := range t.rules {
		head.beginRule()
		rule.Apply(ctx, head)
		if !head.touched {
			continue
		}

		report.Applied = append(report.Applied, RuleResult{Rule: rule.Name, NodesCreated: head.created})
		report.NodesCreated += head.created
		t.recorder.IncRuleApplied(rule.Name)
		t.recorder.AddNodesCreated(rule.Name, head.created)
		t.logger.Debug("Rule applied",
			logfields.Rule(rule.Name),
			logfields.Selector(rule.Target.String()),
			logfields.NodesCreated(head.created))
	}
	return report, nil
}

// Acted reports whether the named rule acted.
func (r *Report) Acted(name string) bool {
	for _, res := range r.Applied {
		if res.Rule == name {
			return true
		}
	}
	return false
}
