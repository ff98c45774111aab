// Package metrics exposes namegen's Prometheus collectors on a private
// registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metric collectors for the namegen server.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Naming metrics.
	NamesGeneratedTotal *prometheus.CounterVec
	NamesSkippedTotal   prometheus.Counter
	ValidationFailures  *prometheus.CounterVec
	NamesTruncatedTotal *prometheus.CounterVec
	ValidationsTotal    *prometheus.CounterVec
	PatternChangesTotal *prometheus.CounterVec

	RateLimitRejectionsTotal prometheus.Counter

	// History collector.
	HistoryEntriesTotal prometheus.Counter
	HistoryFlushesTotal *prometheus.CounterVec

	ServerStartTime prometheus.Gauge
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namegen_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "namegen_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		NamesGeneratedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namegen_names_generated_total",
			Help: "Total number of generated names.",
		}, []string{"resource_type", "pattern_source"}),

		NamesSkippedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "namegen_names_skipped_total",
			Help: "Generate requests without a selected resource.",
		}),

		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namegen_name_validation_failures_total",
			Help: "Names that failed validation for their resource.",
		}, []string{"resource_type"}),

		NamesTruncatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namegen_names_truncated_total",
			Help: "Generated names cut to the resource's maximum length.",
		}, []string{"resource_type"}),

		ValidationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namegen_validations_total",
			Help: "Validate requests by outcome.",
		}, []string{"resource_type", "result"}),

		PatternChangesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namegen_pattern_changes_total",
			Help: "Stored pattern mutations.",
		}, []string{"action"}),

		RateLimitRejectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "namegen_ratelimit_rejections_total",
			Help: "Total number of rate limit rejections.",
		}),

		HistoryEntriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "namegen_history_entries_total",
			Help: "History entries handed to the collector.",
		}),

		HistoryFlushesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namegen_history_flushes_total",
			Help: "Total number of history collector flushes.",
		}, []string{"status"}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "namegen_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.NamesGeneratedTotal,
		m.NamesSkippedTotal,
		m.ValidationFailures,
		m.NamesTruncatedTotal,
		m.ValidationsTotal,
		m.PatternChangesTotal,
		m.RateLimitRejectionsTotal,
		m.HistoryEntriesTotal,
		m.HistoryFlushesTotal,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Exposition serves the registry in the Prometheus text format.
func (m *Metrics) Exposition() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RegisterDBPoolCollector registers a custom DB pool stats collector.
func (m *Metrics) RegisterDBPoolCollector(statFunc DBPoolStatFunc) {
	m.registry.MustRegister(NewDBPoolCollector(statFunc))
}

// ObserveGenerated records one successful generation.
func (m *Metrics) ObserveGenerated(resourceType, source string, valid, truncated bool) {
	m.NamesGeneratedTotal.WithLabelValues(resourceType, source).Inc()
	if !valid {
		m.ValidationFailures.WithLabelValues(resourceType).Inc()
	}
	if truncated {
		m.NamesTruncatedTotal.WithLabelValues(resourceType).Inc()
	}
}

// IncSkipped counts a generate call that had no resource selected.
func (m *Metrics) IncSkipped() {
	m.NamesSkippedTotal.Inc()
}

// ObserveValidation records the outcome of a standalone validation.
func (m *Metrics) ObserveValidation(resourceType string, valid bool) {
	m.ValidationsTotal.WithLabelValues(resourceType, strconv.FormatBool(valid)).Inc()
	if !valid {
		m.ValidationFailures.WithLabelValues(resourceType).Inc()
	}
}

// IncPatternChange counts a set, select or delete of a stored pattern.
func (m *Metrics) IncPatternChange(action string) {
	m.PatternChangesTotal.WithLabelValues(action).Inc()
}

// IncRateLimitRejection increments the rate limit rejection counter.
func (m *Metrics) IncRateLimitRejection() {
	m.RateLimitRejectionsTotal.Inc()
}

// IncHistoryEntry counts an entry handed to the history collector.
func (m *Metrics) IncHistoryEntry() {
	m.HistoryEntriesTotal.Inc()
}

// ObserveHistoryFlush is shaped to plug into history.Collector.OnFlush.
func (m *Metrics) ObserveHistoryFlush(count int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.HistoryFlushesTotal.WithLabelValues(status).Inc()
}
