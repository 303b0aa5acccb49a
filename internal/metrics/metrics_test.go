package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.BookingOperationsTotal)
	assert.NotNil(t, m.PaymentEventsTotal)
}

func TestNewWithRegistry_DuplicatePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWithRegistry(reg)

	assert.Panics(t, func() { NewWithRegistry(reg) })
}

func TestObserveBookingOperation(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.ObserveBookingOperation("create", "success")
	m.ObserveBookingOperation("create", "success")
	m.ObserveBookingOperation("cancel", "invalid")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingOperationsTotal.WithLabelValues("create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingOperationsTotal.WithLabelValues("cancel", "invalid")))
}

func TestObservePaymentEvent(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.ObservePaymentEvent("payment.refund_issued", "processed")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PaymentEventsTotal.WithLabelValues("payment.refund_issued", "processed")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveBookingOperation("delete", "success")
		m.ObservePaymentEvent("payment.refund_issued", "skipped")
	})
}
