// Package metrics defines the Prometheus metrics exposed by the service:
// HTTP transport metrics plus traversal business metrics (rounds, edges,
// supernode skips, result sizes, cache effectiveness).
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is the container of all service metrics. One instance owns its
// own registry, so tests can create throwaway instances without colliding
// with the global default registry.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Traversal metrics
	TraversalsTotal   *prometheus.CounterVec
	TraversalDuration *prometheus.HistogramVec
	TraversalRounds   *prometheus.HistogramVec
	EdgesFetched      *prometheus.HistogramVec
	SupernodesSkipped prometheus.Counter
	ResultSize        *prometheus.HistogramVec

	// Cache metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// Service info
	ServiceInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// InitMetrics initializes the process-wide metrics container. Calling it
// again returns the existing instance.
func InitMetrics(namespace, subsystem string) *Metrics {
	if defaultMetrics != nil {
		return defaultMetrics
	}
	defaultMetrics = NewMetrics(namespace, subsystem)
	return defaultMetrics
}

// NewMetrics creates a metrics container backed by a fresh registry.
func NewMetrics(namespace, subsystem string) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		TraversalsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "traversals_total",
				Help:      "Total number of traversal queries",
			},
			[]string{"operation", "status"},
		),

		TraversalDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "traversal_duration_seconds",
				Help:      "Duration of traversal queries",
				Buckets:   []float64{.001, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),

		TraversalRounds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "traversal_rounds",
				Help:      "Frontier expansion rounds per traversal",
				Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34, 55, 100},
			},
			[]string{"operation"},
		),

		EdgesFetched: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "traversal_edges_fetched",
				Help:      "Edges fetched from the backend store per traversal",
				Buckets:   []float64{10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"operation"},
		),

		SupernodesSkipped: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "traversal_supernodes_skipped_total",
				Help:      "Vertices skipped by the skip-degree supernode guard",
			},
		),

		ResultSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "traversal_result_size",
				Help:      "Number of finalized vertices per traversal",
				Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
			},
			[]string{"operation"},
		),

		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_hits_total",
				Help:      "Traversal result cache hits",
			},
		),

		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_misses_total",
				Help:      "Traversal result cache misses",
			},
		),

		ServiceInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Service metadata",
			},
			[]string{"version", "environment"},
		),
	}

	return m
}

// Get returns the process-wide metrics container, initializing it with
// defaults when needed.
func Get() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics("pathfinder", "")
	}
	return defaultMetrics
}

// Registry exposes the underlying registry for the metrics HTTP endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTraversal records one completed traversal query.
func (m *Metrics) RecordTraversal(operation string, success bool, duration time.Duration, rounds, edges, results int64) {
	status := "ok"
	if !success {
		status = "error"
	}
	m.TraversalsTotal.WithLabelValues(operation, status).Inc()
	m.TraversalDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if success {
		m.TraversalRounds.WithLabelValues(operation).Observe(float64(rounds))
		m.EdgesFetched.WithLabelValues(operation).Observe(float64(edges))
		m.ResultSize.WithLabelValues(operation).Observe(float64(results))
	}
}

// RecordCacheLookup records one cache lookup outcome.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if hit {
		m.CacheHitsTotal.Inc()
	} else {
		m.CacheMissesTotal.Inc()
	}
}

// SetServiceInfo publishes service metadata as a constant gauge.
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}
