package metrics

import (
	"strconv"
	"time"

	"order-admin/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "endpoint"},
	)

	// OrderMutationsTotal counts controller operations by outcome
	// (success, failure, declined, invalid).
	OrderMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_mutations_total",
			Help: "Total number of order loads, status changes and deletes by result",
		},
		[]string{"operation", "result"},
	)

	CachedOrders = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "orders_cached",
			Help: "Orders held in the local cache by status",
		},
		[]string{"status"},
	)

	// CircuitBreakerState tracks circuit breaker state (0=closed, 1=open, 2=half-open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"service", "circuit_name"},
	)

	CircuitBreakerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of circuit breaker failures",
		},
		[]string{"service", "circuit_name"},
	)
)

func RecordMutation(operation, result string) {
	OrderMutationsTotal.WithLabelValues(operation, result).Inc()
}

// ObserveCache sets the per-status gauge, zeroing statuses with no orders.
func ObserveCache(counts map[domain.OrderStatus]int) {
	for _, s := range domain.Statuses {
		CachedOrders.WithLabelValues(string(s)).Set(float64(counts[s]))
	}
}

// PrometheusMiddleware creates a Gin middleware for automatic metrics collection
func PrometheusMiddleware(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		RequestsTotal.WithLabelValues(
			serviceName,
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()

		RequestDuration.WithLabelValues(
			serviceName,
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}
