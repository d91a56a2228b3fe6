package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorderCountsOutcomes(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveQuery("prismic", "search", 20*time.Millisecond, nil)
	r.ObserveQuery("prismic", "search", 30*time.Millisecond, errors.New("boom"))
	r.ObserveQuery("prismic", "search", 10*time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.queries.WithLabelValues("prismic", "search", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.queries.WithLabelValues("prismic", "search", "error")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)
	r.ObservePrepared(3)
	r.ObserveQuery("sqlite", "query", time.Millisecond, nil)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "spacetraveling_prepared_posts")
	assert.Contains(t, body, `spacetraveling_content_queries_total{op="query",outcome="success",source="sqlite"} 1`)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveQuery("x", "y", time.Second, nil)
	r.ObservePrepared(1)
}

func TestNewPrometheusRecorderRegistersOncePerRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg)
	assert.Panics(t, func() { NewPrometheusRecorder(reg) }, "duplicate registration must be reported")

	r := NewPrometheusRecorder(nil)
	r.ObservePrepared(2)
	assert.Equal(t, 1, testutil.CollectAndCount(r.prepared))
}
