package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncRuleApplied("title")
	pr.IncRuleApplied("title")
	pr.AddNodesCreated("ogImage", 4)
	pr.AddNodesCreated("ogImage", 0)
	pr.IncDocumentResult(ResultSuccess)
	pr.IncDocumentResult(ResultInvalid)
	pr.ObserveDocumentDuration(2 * time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.rulesApplied.WithLabelValues("title")), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(pr.nodesCreated.WithLabelValues("ogImage")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.documentResults.WithLabelValues("invalid")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 5)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncRuleApplied("title")
		pr.AddNodesCreated("title", 1)
		pr.IncDocumentResult(ResultFailed)
		pr.ObserveDocumentDuration(time.Millisecond)
		pr.ObserveBuildDuration(time.Millisecond)
	})
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncDocumentResult(ResultSkipped)

	path := filepath.Join(t.TempDir(), "headmeta.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `headmeta_document_results_total{result="skipped"} 1`)
}

func TestPrometheusRecorder_HTTPHandler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncRuleApplied("canonical")

	rec := httptest.NewRecorder()
	pr.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `headmeta_rules_applied_total{rule="canonical"} 1`)
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncRuleApplied("title")
	r.ObserveBuildDuration(time.Second)
}
