package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	// method, path, status_code
	HTTPRequestsTotal *prometheus.CounterVec

	// method, path
	HTTPRequestDuration *prometheus.HistogramVec

	// operation: create/update/cancel/delete, result: success/not_found/invalid/conflict/error
	BookingOperationsTotal *prometheus.CounterVec

	// type: payment.refund_issued etc., result: processed/skipped/failed
	PaymentEventsTotal *prometheus.CounterVec
}

// New creates Metrics registered on the default registerer.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates Metrics registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_operations_total",
				Help: "Total number of booking lifecycle operations",
			},
			[]string{"operation", "result"},
		),
		PaymentEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_events_total",
				Help: "Total number of consumed payment events",
			},
			[]string{"type", "result"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingOperationsTotal,
		m.PaymentEventsTotal,
	)

	return m
}

// ObserveBookingOperation counts one lifecycle operation. A nil receiver is a no-op.
func (m *Metrics) ObserveBookingOperation(operation, result string) {
	if m == nil {
		return
	}
	m.BookingOperationsTotal.WithLabelValues(operation, result).Inc()
}

// ObservePaymentEvent counts one consumed payment event. A nil receiver is a no-op.
func (m *Metrics) ObservePaymentEvent(eventType, result string) {
	if m == nil {
		return
	}
	m.PaymentEventsTotal.WithLabelValues(eventType, result).Inc()
}
