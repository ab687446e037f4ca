// Package metrics holds the Prometheus collectors for salesdash.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Query execution
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salesdash_query_duration_seconds",
			Help:    "Duration of report queries against the store",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesdash_query_errors_total",
			Help: "Total number of failed report queries",
		},
		[]string{"error_type"},
	)

	QueryRollbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "salesdash_query_rollbacks_total",
			Help: "Total number of transactions rolled back after a failed statement",
		},
	)

	// Result cache
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "salesdash_cache_hits_total",
			Help: "Total number of report results served from the cache",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "salesdash_cache_misses_total",
			Help: "Total number of report results fetched from the store",
		},
	)

	// Selections by catalog and the kind of render instruction produced
	Selections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesdash_selections_total",
			Help: "Total number of question selections",
		},
		[]string{"catalog", "kind"},
	)

	// HTTP
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesdash_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salesdash_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// Circuit breaker in front of the store
	BreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "salesdash_store_breaker_state",
			Help: "Store circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// Error type labels for QueryErrors.
const (
	ErrorTypeStatement = "statement"
	ErrorTypeStore     = "store"
	ErrorTypeTimeout   = "timeout"
	ErrorTypeBreaker   = "breaker_open"
)

// RecordQuery observes a store round trip. errType is ignored when err is nil.
func RecordQuery(duration time.Duration, errType string, err error) {
	if err == nil {
		QueryDuration.WithLabelValues("success").Observe(duration.Seconds())
		return
	}
	QueryDuration.WithLabelValues("error").Observe(duration.Seconds())
	QueryErrors.WithLabelValues(errType).Inc()
}
