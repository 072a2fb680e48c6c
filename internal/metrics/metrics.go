// Package metrics provides Prometheus metrics collection for the checkout service.
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

	// CartMutationsTotal tracks cart mutations by operation and result.
	CartMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_mutations_total",
			Help: "Total number of cart mutations",
		},
		[]string{"operation", "result"},
	)

	// CheckoutTransitionsTotal tracks checkout step transitions.
	CheckoutTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_transitions_total",
			Help: "Total number of checkout step transitions",
		},
		[]string{"to_step"},
	)

	// CheckoutDuration tracks time from begin to a terminal step.
	CheckoutDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "Checkout duration from begin to terminal step in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"outcome"},
	)

	// GatewayCallsTotal tracks payment gateway calls by operation and result.
	GatewayCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_calls_total",
			Help: "Total number of payment gateway calls",
		},
		[]string{"operation", "result"},
	)

	// OrderSubmissionsTotal tracks order submissions by payment method and result.
	OrderSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_submissions_total",
			Help: "Total number of order submissions",
		},
		[]string{"payment_method", "result"},
	)

	// ActiveCheckoutSessions tracks currently open checkout sessions.
	ActiveCheckoutSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_checkout_sessions",
			Help: "Number of currently open checkout sessions",
		},
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

// RecordCartMutation records metrics for one cart mutation.
func RecordCartMutation(operation, result string) {
	CartMutationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordCheckoutTransition records a step transition.
func RecordCheckoutTransition(toStep string) {
	CheckoutTransitionsTotal.WithLabelValues(toStep).Inc()
}

// RecordCheckoutOutcome records the duration of a finished checkout.
func RecordCheckoutOutcome(outcome string, duration time.Duration) {
	CheckoutDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordGatewayCall records metrics for one gateway call.
func RecordGatewayCall(operation, result string) {
	GatewayCallsTotal.WithLabelValues(operation, result).Inc()
}

// RecordOrderSubmission records metrics for one order submission.
func RecordOrderSubmission(paymentMethod, result string) {
	OrderSubmissionsTotal.WithLabelValues(paymentMethod, result).Inc()
}
