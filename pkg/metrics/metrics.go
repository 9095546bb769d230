// Package metrics exposes Prometheus instrumentation for redaction and
// evaluation activity.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tender"

// Evaluation outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the collectors registered on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	redactions      *prometheus.CounterVec
	evaluations     *prometheus.CounterVec
	documentsScored prometheus.Counter
	scoringDuration prometheus.Histogram
}

// New creates a Metrics with process and Go runtime collectors attached.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		redactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redactions_total",
			Help:      "Spans replaced by redaction, by category.",
		}, []string{"category"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Completed evaluation batches, by outcome.",
		}, []string{"outcome"}),
		documentsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_scored_total",
			Help:      "Documents scored by the language model.",
		}),
		scoringDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_duration_seconds",
			Help:      "Latency of a single document scoring call.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.redactions,
		m.evaluations,
		m.documentsScored,
		m.scoringDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Redacted adds n replaced spans for category.
func (m *Metrics) Redacted(category string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.redactions.WithLabelValues(category).Add(float64(n))
}

// Evaluated records the outcome of one evaluation batch.
func (m *Metrics) Evaluated(outcome string) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(outcome).Inc()
}

// Scored records one completed document scoring call.
func (m *Metrics) Scored(d time.Duration) {
	if m == nil {
		return
	}
	m.documentsScored.Inc()
	m.scoringDuration.Observe(d.Seconds())
}
