// Package observability provides the Prometheus metrics backing the
// planning service: API request telemetry plus pipeline-internal counters
// (weather cache behavior, fetch provenance, generative-call outcomes, and
// fallback activations).
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the planning service. It
// implements core.MetricsCollector, weather.Metrics, and planner.Metrics.
type Metrics struct {
	RequestCount   *prometheus.CounterVec   // labels: method, endpoint, status
	RequestLatency *prometheus.HistogramVec // labels: method, endpoint

	WeatherCacheLookups *prometheus.CounterVec // labels: result={hit,miss}
	WeatherFetches      *prometheus.CounterVec // labels: outcome={live,simulated,degraded}

	GenerativeCalls *prometheus.CounterVec // labels: outcome={success,error,invalid_output}
	FallbackPlans   prometheus.Counter
	PlanOutcomes    *prometheus.CounterVec // labels: outcome={result,error}
}

func newMetrics() *Metrics {
	return &Metrics{
		RequestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chronos",
			Name:      "api_requests_total",
			Help:      "API requests by method, endpoint, and status code.",
		}, []string{"method", "endpoint", "status"}),
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chronos",
			Name:      "api_request_duration_seconds",
			Help:      "API request latency.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "endpoint"}),
		WeatherCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chronos",
			Name:      "weather_cache_lookups_total",
			Help:      "Weather cache lookups by result.",
		}, []string{"result"}),
		WeatherFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chronos",
			Name:      "weather_fetches_total",
			Help:      "Weather observations produced, by provenance.",
		}, []string{"outcome"}),
		GenerativeCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chronos",
			Name:      "generative_calls_total",
			Help:      "Generative collaborator calls by outcome.",
		}, []string{"outcome"}),
		FallbackPlans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chronos",
			Name:      "fallback_plans_total",
			Help:      "Plans produced by the rule-based fallback planner.",
		}),
		PlanOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chronos",
			Name:      "plan_outcomes_total",
			Help:      "Terminal pipeline outcomes by tag.",
		}, []string{"outcome"}),
	}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RequestCount,
		m.RequestLatency,
		m.WeatherCacheLookups,
		m.WeatherFetches,
		m.GenerativeCalls,
		m.FallbackPlans,
		m.PlanOutcomes,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// RecordRequest implements the API chassis MetricsCollector interface.
func (m *Metrics) RecordRequest(method, endpoint, status string, duration time.Duration) {
	m.RequestCount.WithLabelValues(method, endpoint, status).Inc()
	m.RequestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCacheLookup implements the weather source metrics hook.
func (m *Metrics) RecordCacheLookup(result string) {
	m.WeatherCacheLookups.WithLabelValues(result).Inc()
}

// RecordWeatherFetch implements the weather source metrics hook.
func (m *Metrics) RecordWeatherFetch(outcome string) {
	m.WeatherFetches.WithLabelValues(outcome).Inc()
}

// RecordGenerativeCall records one collaborator call outcome.
func (m *Metrics) RecordGenerativeCall(outcome string) {
	m.GenerativeCalls.WithLabelValues(outcome).Inc()
}

// RecordFallbackPlan records one rule-based fallback activation.
func (m *Metrics) RecordFallbackPlan() {
	m.FallbackPlans.Inc()
}

// RecordPlanOutcome records the terminal outcome tag of one invocation.
func (m *Metrics) RecordPlanOutcome(outcome string) {
	m.PlanOutcomes.WithLabelValues(outcome).Inc()
}
