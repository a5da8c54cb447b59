package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	first := HTTPRequestsTotal
	InitMetrics()

	assert.Same(t, first, HTTPRequestsTotal)
	assert.NotNil(t, RentalOperationsTotal)
	assert.NotNil(t, CircuitBreakerState)
}

func TestObserveRentalOperation(t *testing.T) {
	before := counterValue(t, mustCounter(t, RentalOperationsTotal, "cancel", "success"))

	ObserveRentalOperation("cancel", "success", 15*time.Millisecond)
	ObserveRentalOperation("cancel", "success", 5*time.Millisecond)
	ObserveRentalOperation("cancel", "not_found", time.Millisecond)

	assert.Equal(t, before+2, counterValue(t, mustCounter(t, RentalOperationsTotal, "cancel", "success")))
	assert.Equal(t, 1.0, counterValue(t, mustCounter(t, RentalOperationsTotal, "cancel", "not_found")))
}

func TestObservePayment(t *testing.T) {
	InitMetrics()
	count := counterValue(t, PaymentsRecordedTotal)
	amount := counterValue(t, PaymentAmountTotal)

	ObservePayment(4.99)
	ObservePayment(0.99)

	assert.Equal(t, count+2, counterValue(t, PaymentsRecordedTotal))
	assert.InDelta(t, amount+5.98, counterValue(t, PaymentAmountTotal), 1e-9)
}

func TestObserveHTTPRequest(t *testing.T) {
	ObserveHTTPRequest("GET", "/api/rentals/:id", 404, 3*time.Millisecond)

	c := mustCounter(t, HTTPRequestsTotal, "GET", "/api/rentals/:id", "404")
	assert.GreaterOrEqual(t, counterValue(t, c), 1.0)
}

func TestSetBreakerState(t *testing.T) {
	SetBreakerState("rental-events", 2)

	g, err := CircuitBreakerState.GetMetricWithLabelValues("rental-events")
	require.NoError(t, err)
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	assert.Equal(t, 2.0, m.GetGauge().GetValue())
}

func mustCounter(t *testing.T, vec *prometheus.CounterVec, labels ...string) prometheus.Counter {
	t.Helper()
	InitMetrics()
	c, err := vec.GetMetricWithLabelValues(labels...)
	require.NoError(t, err)
	return c
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
