package prometheus

import (
	"policy-service/pkg/config"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Policy governance metrics
	PolicyTransitionsCounter prometheus.CounterVec
	VersionConflictsCounter  prometheus.CounterVec
	PolicyResolutionsCounter prometheus.CounterVec

	// Computation metrics
	TaxComputationDuration prometheus.HistogramVec

	// Hostel metrics
	RoomsGeneratedHistogram prometheus.Histogram
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	// Use metric prefix from configuration
	prefix := cfg.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	PolicyTransitionsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_transitions_total",
			Help: "Total number of policy save/lock/unlock transitions by outcome",
		},
		[]string{"domain", "action", "outcome"},
	)

	VersionConflictsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_version_conflicts_total",
			Help: "Total number of optimistic-concurrency conflicts",
		},
		[]string{"domain"},
	)

	PolicyResolutionsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_resolutions_total",
			Help: "Total number of configuration resolutions by tier",
		},
		[]string{"domain", "tier"},
	)

	TaxComputationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_tax_computation_duration_seconds",
			Help:    "Duration of tax breakdown computations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"category"},
	)

	RoomsGeneratedHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    prefix + "_rooms_generated",
			Help:    "Number of rooms generated per hostel creation",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2000},
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordTransition increments the policy transition counter
func RecordTransition(domain, action, outcome string) {
	PolicyTransitionsCounter.WithLabelValues(domain, action, outcome).Inc()
}

// RecordVersionConflict increments the conflict counter for a domain
func RecordVersionConflict(domain string) {
	VersionConflictsCounter.WithLabelValues(domain).Inc()
}

// RecordResolution increments the resolution counter for a domain and tier
func RecordResolution(domain, tier string) {
	PolicyResolutionsCounter.WithLabelValues(domain, tier).Inc()
}
