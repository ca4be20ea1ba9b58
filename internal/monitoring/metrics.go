// Package monitoring exposes Prometheus metrics for lead analysis and the
// HTTP API.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "leadq"

// Outcome labels for leads_analyzed_total.
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeSourceFailed = "source_failed"
)

// AssessedByNone is the assessed_by label when no source produced scores.
const AssessedByNone = "none"

// Metrics holds the collectors. The zero value is not usable; call
// NewMetrics. A nil *Metrics is a no-op recorder.
type Metrics struct {
	registry *prometheus.Registry

	leadsAnalyzed       *prometheus.CounterVec
	leadScore           prometheus.Histogram
	penalties           *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers all collectors on a fresh registry, keeping the
// exposition free of other packages' globals.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,
		leadsAnalyzed: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_analyzed_total",
			Help:      "Lead analyses by configured source, the source that produced the scores, and outcome.",
		}, []string{"source", "assessed_by", "outcome"}),
		leadScore: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lead_score",
			Help:      "Distribution of final lead scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		penalties: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "penalties_total",
			Help:      "Threshold penalties applied, by metric.",
		}, []string{"metric"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
}

// RecordLead counts one analysis. source is the configured source name,
// stable across outcomes so failure rates can be computed per source.
// assessedBy names the member that produced the scores, or AssessedByNone.
// score is only observed for OutcomeOK.
func (m *Metrics) RecordLead(source, assessedBy, outcome string, score int) {
	if m == nil {
		return
	}
	if assessedBy == "" {
		assessedBy = AssessedByNone
	}
	m.leadsAnalyzed.WithLabelValues(source, assessedBy, outcome).Inc()
	if outcome == OutcomeOK {
		m.leadScore.Observe(float64(score))
	}
}

// RecordPenalty counts a penalty on metric.
func (m *Metrics) RecordPenalty(metric string) {
	if m == nil {
		return
	}
	m.penalties.WithLabelValues(metric).Inc()
}

// ObserveHTTP records one request's latency.
func (m *Metrics) ObserveHTTP(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestDuration.WithLabelValues(route, strconv.Itoa(code)).Observe(d.Seconds())
}

// Gatherer exposes the registry for tests and custom exporters.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
