package metrics

import "time"

// ResultLabel enumerates per-document outcomes.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultSkipped ResultLabel = "skipped" // unchanged since the last build
	ResultInvalid ResultLabel = "invalid" // rejected input, e.g. an unparseable date
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines observability hooks for the rule pipeline and batch builds.
type Recorder interface {
	IncRuleApplied(rule string)
	AddNodesCreated(rule string, n int)
	IncDocumentResult(result ResultLabel)
	ObserveDocumentDuration(d time.Duration)
	ObserveBuildDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncRuleApplied(string)                 {}
func (NoopRecorder) AddNodesCreated(string, int)           {}
func (NoopRecorder) IncDocumentResult(ResultLabel)         {}
func (NoopRecorder) ObserveDocumentDuration(time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)    {}
