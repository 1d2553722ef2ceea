// Package metrics provides Prometheus metrics for the career matching service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the service's Prometheus registry and instruments.
type Manager struct {
	registry *prometheus.Registry

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Matching engine
	matchCalculations prometheus.Counter
	matchDuration     prometheus.Histogram
	rankingScans      *prometheus.CounterVec
	matchLogDropped   prometheus.Counter
	scoringErrors     prometheus.Counter
}

// NewManager creates a manager backed by its own registry so the /metrics
// endpoint exposes only service metrics.
func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Manager{registry: registry}

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "career_matcher",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by method, route, and status code.",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "career_matcher",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	m.matchCalculations = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "career_matcher",
		Subsystem: "matching",
		Name:      "calculations_total",
		Help:      "Total match score calculations.",
	})

	m.matchDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: "career_matcher",
		Subsystem: "matching",
		Name:      "calculation_duration_seconds",
		Help:      "Latency of a single match score calculation.",
		Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	})

	m.rankingScans = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "career_matcher",
		Subsystem: "matching",
		Name:      "ranking_scans_total",
		Help:      "Ranking scans by kind (jobs or candidates).",
	}, []string{"kind"})

	m.matchLogDropped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "career_matcher",
		Subsystem: "matching",
		Name:      "log_entries_dropped_total",
		Help:      "Calculation log appends that failed and were dropped.",
	})

	m.scoringErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "career_matcher",
		Subsystem: "matching",
		Name:      "scoring_errors_total",
		Help:      "Score calculations aborted by storage errors.",
	})

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request.
func (m *Manager) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordMatchCalculation records one completed score calculation.
func (m *Manager) RecordMatchCalculation(duration time.Duration) {
	m.matchCalculations.Inc()
	m.matchDuration.Observe(duration.Seconds())
}

// RecordRankingScan records one ranking scan of the given kind.
func (m *Manager) RecordRankingScan(kind string) {
	m.rankingScans.WithLabelValues(kind).Inc()
}

// RecordMatchLogDropped records a calculation log append that was dropped.
func (m *Manager) RecordMatchLogDropped() {
	m.matchLogDropped.Inc()
}

// RecordScoringError records a score calculation aborted by a storage error.
func (m *Manager) RecordScoringError() {
	m.scoringErrors.Inc()
}
