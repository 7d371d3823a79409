// Package metrics provides the observability hooks for metadata injection.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	t := headmeta.New(options, headmeta.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The Prometheus implementation can be scraped over HTTP (HTTPHandler, used by
// the watch command) or dumped to a node_exporter textfile after a one-shot
// build (WriteTextfile).
package metrics
