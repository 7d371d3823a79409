package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "headmeta"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry         *prom.Registry
	rulesApplied     *prom.CounterVec
	nodesCreated     *prom.CounterVec
	documentResults  *prom.CounterVec
	documentDuration prom.Histogram
	buildDuration    prom.Histogram
}

// NewPrometheusRecorder constructs and registers the metrics on reg. A nil
// registry gets a fresh one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		rulesApplied: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rules_applied_total",
			Help:      "Generator rules that acted on a document",
		}, []string{"rule"}),
		nodesCreated: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_created_total",
			Help:      "Head nodes created by each generator rule",
		}, []string{"rule"}),
		documentResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "document_results_total",
			Help:      "Processed documents by outcome",
		}, []string{"result"}),
		documentDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "document_duration_seconds",
			Help:      "Time spent annotating a single document",
			Buckets:   prom.ExponentialBuckets(0.0001, 4, 8),
		}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
	}
	reg.MustRegister(pr.rulesApplied, pr.nodesCreated, pr.documentResults, pr.documentDuration, pr.buildDuration)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

func (p *PrometheusRecorder) IncRuleApplied(rule string) {
	if p == nil {
		return
	}
	p.rulesApplied.WithLabelValues(rule).Inc()
}

func (p *PrometheusRecorder) AddNodesCreated(rule string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.nodesCreated.WithLabelValues(rule).Add(float64(n))
}

func (p *PrometheusRecorder) IncDocumentResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.documentResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveDocumentDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.documentDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

// WriteTextfile writes the current metric values in the text exposition
// format, for pickup by a node_exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.registry)
}
