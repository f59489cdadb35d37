// Package metrics provides Prometheus metrics collection for the load planning service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// PlanCalculationsTotal counts planning calls by mode and outcome.
	PlanCalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_calculations_total",
			Help: "Total number of load planning calculations",
		},
		[]string{"mode", "status"},
	)

	// PlanCalculationDuration tracks planning duration by mode.
	PlanCalculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plan_calculation_duration_seconds",
			Help:    "Load planning duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"mode"},
	)

	// PlanShipments tracks how many shipments a plan needs.
	PlanShipments = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plan_shipments",
			Help:    "Number of shipments per planning result",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50, 100, 500},
		},
		[]string{"mode"},
	)

	// PlanLeftoverUnitsTotal counts units that could not be placed in any container.
	PlanLeftoverUnitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_leftover_units_total",
			Help: "Total number of units left over by planning",
		},
		[]string{"mode"},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSize tracks current cache size.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
	)

	// CacheCapacity tracks cache capacity.
	CacheCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Cache capacity",
		},
	)

	// CircuitBreakerState exposes breaker states (0 closed, 1 open, 2 half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)

	// ExportsTotal counts generated exports by format.
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_exports_total",
			Help: "Total number of plan exports",
		},
		[]string{"format", "status"},
	)

	// AuditLogEntriesTotal counts audit and request log entries by outcome.
	AuditLogEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_log_entries_total",
			Help: "Log entries handled by the async audit writer",
		},
		[]string{"result"},
	)

	// RequestTimeoutsTotal counts API requests cut off by the request timeout.
	RequestTimeoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_timeouts_total",
			Help: "Total number of requests that exceeded the request timeout",
		},
		[]string{"path"},
	)

	// PanicsRecoveredTotal counts handler panics turned into 500 responses.
	PanicsRecoveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_panics_recovered_total",
			Help: "Total number of handler panics recovered",
		},
		[]string{"path"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordPlanCalculation records metrics for one planning call.
func RecordPlanCalculation(mode string, duration time.Duration, status string) {
	PlanCalculationDuration.WithLabelValues(mode).Observe(duration.Seconds())
	PlanCalculationsTotal.WithLabelValues(mode, status).Inc()
}

// RecordPlanOutcome records the shape of a planning result.
func RecordPlanOutcome(mode string, shipments, leftover int) {
	PlanShipments.WithLabelValues(mode).Observe(float64(shipments))
	if leftover > 0 {
		PlanLeftoverUnitsTotal.WithLabelValues(mode).Add(float64(leftover))
	}
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and capacity metrics.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}

// SetCircuitBreakerState publishes the numeric state of a named breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordExport records one export attempt.
func RecordExport(format, status string) {
	ExportsTotal.WithLabelValues(format, status).Inc()
}

// RecordTimeout records a request that ran past its deadline.
func RecordTimeout(path string) {
	RequestTimeoutsTotal.WithLabelValues(path).Inc()
}

// RecordAuditLog counts n log entries with the given outcome.
func RecordAuditLog(result string, n int) {
	AuditLogEntriesTotal.WithLabelValues(result).Add(float64(n))
}

// RecordPanic records a recovered handler panic.
func RecordPanic(path string) {
	PanicsRecoveredTotal.WithLabelValues(path).Inc()
}
