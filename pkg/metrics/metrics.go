// Package metrics registers the Prometheus collectors of the service.
//
// Counters end in _total, histograms carry their unit. Label values are
// bounded (route templates, operation names, outcomes); never use ids as labels.
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//	metrics.ObserveRentalOperation("create", "success", time.Since(start))
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// HTTPRequestsTotal labels: method, path (route template), status.
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration labels: method, path.
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// RentalOperationsTotal labels: operation (create|return|cancel), result (success|conflict|not_found|error).
	RentalOperationsTotal *prometheus.CounterVec
	// RentalOperationDuration labels: operation.
	RentalOperationDuration *prometheus.HistogramVec

	PaymentsRecordedTotal prometheus.Counter
	PaymentAmountTotal    prometheus.Counter

	// IdempotentReplaysTotal counts responses served from the idempotency store.
	IdempotentReplaysTotal prometheus.Counter

	// CircuitBreakerState 0=closed, 1=half-open, 2=open.
	CircuitBreakerState *prometheus.GaugeVec
	// MessagesPublishedTotal labels: routing_key, result (success|failure|rejected).
	MessagesPublishedTotal *prometheus.CounterVec
	// MessagesConsumedTotal labels: queue, result.
	MessagesConsumedTotal *prometheus.CounterVec
)

// InitMetrics registers every collector with the default registry. Idempotent.
func InitMetrics() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"method", "path"})

	HTTPRequestsInProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_progress",
		Help: "HTTP requests currently being served.",
	})

	RentalOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_operations_total",
		Help: "Rental lifecycle operations by outcome.",
	}, []string{"operation", "result"})

	RentalOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rental_operation_duration_seconds",
		Help:    "Rental lifecycle operation latency in seconds, transaction included.",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"operation"})

	PaymentsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_recorded_total",
		Help: "Payments created by rental returns.",
	})

	PaymentAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_amount_total",
		Help: "Sum of payment amounts recorded by rental returns, in currency units.",
	})

	IdempotentReplaysTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "idempotent_replays_total",
		Help: "Responses replayed from the idempotency store.",
	})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=half-open, 2=open).",
	}, []string{"name"})

	MessagesPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messages_published_total",
		Help: "Messages published to the broker.",
	}, []string{"routing_key", "result"})

	MessagesConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messages_consumed_total",
		Help: "Messages consumed from the broker.",
	}, []string{"queue", "result"})
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	InitMetrics()
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// ObserveRentalOperation records the outcome and latency of a lifecycle operation.
func ObserveRentalOperation(operation, result string, d time.Duration) {
	InitMetrics()
	RentalOperationsTotal.WithLabelValues(operation, result).Inc()
	RentalOperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObservePayment records a payment created by a return.
func ObservePayment(amount float64) {
	InitMetrics()
	PaymentsRecordedTotal.Inc()
	PaymentAmountTotal.Add(amount)
}

// IncIdempotentReplay counts a replayed response.
func IncIdempotentReplay() {
	InitMetrics()
	IdempotentReplaysTotal.Inc()
}

// SetBreakerState publishes the state of a named circuit breaker.
func SetBreakerState(name string, state float64) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// IncPublished counts a publish attempt.
func IncPublished(routingKey, result string) {
	InitMetrics()
	MessagesPublishedTotal.WithLabelValues(routingKey, result).Inc()
}

// IncConsumed counts a consumed message.
func IncConsumed(queue, result string) {
	InitMetrics()
	MessagesConsumedTotal.WithLabelValues(queue, result).Inc()
}
