// Package metrics records content query and page preparation metrics.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives observations from the content clients and the preparer.
type Recorder interface {
	ObserveQuery(source, op string, d time.Duration, err error)
	ObservePrepared(n int)
}

// NoopRecorder discards every observation.
type NoopRecorder struct{}

func (NoopRecorder) ObserveQuery(string, string, time.Duration, error) {}
func (NoopRecorder) ObservePrepared(int)                               {}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	queries       *prom.CounterVec
	queryDuration *prom.HistogramVec
	prepared      prom.Histogram
}

// NewPrometheusRecorder constructs and registers the metrics on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		queries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "spacetraveling",
			Name:      "content_queries_total",
			Help:      "Content API queries by source, operation and outcome",
		}, []string{"source", "op", "outcome"}),
		queryDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "spacetraveling",
			Name:      "content_query_duration_seconds",
			Help:      "Duration of content API queries",
			Buckets:   prom.DefBuckets,
		}, []string{"source", "op"}),
		prepared: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "spacetraveling",
			Name:      "prepared_posts",
			Help:      "Number of posts in each prepared page",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		}),
	}
	reg.MustRegister(pr.queries, pr.queryDuration, pr.prepared)
	return pr
}

func (pr *PrometheusRecorder) ObserveQuery(source, op string, d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	pr.queries.WithLabelValues(source, op, outcome).Inc()
	pr.queryDuration.WithLabelValues(source, op).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObservePrepared(n int) {
	pr.prepared.Observe(float64(n))
}

// Handler serves the metrics gathered by reg.
func Handler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
