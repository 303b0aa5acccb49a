package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/application"
	"github.com/staybook/service-booking/internal/domain"
	"github.com/staybook/service-booking/internal/messaging"
	"github.com/staybook/service-booking/internal/metrics"
)

type mockCanceller struct {
	mock.Mock
}

func (m *mockCanceller) CancelBooking(ctx context.Context, bookingID uuid.UUID, req application.CancelBookingRequest) (*application.BookingDTO, error) {
	args := m.Called(ctx, bookingID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.BookingDTO), args.Error(1)
}

func newTestConsumer(svc BookingCanceller) *PaymentEventConsumer {
	return &PaymentEventConsumer{service: svc, logger: zap.NewNop()}
}

func refundMessage(t *testing.T, evt messaging.RefundIssuedEvent) kafkago.Message {
	t.Helper()
	ce, err := messaging.NewCloudEvent("service-payment", messaging.PaymentRefundIssued, evt)
	require.NoError(t, err)
	value, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Topic: messaging.TopicPaymentEvents, Value: value}
}

func TestHandleMessage_RefundIssuedCancelsBooking(t *testing.T) {
	svc := new(mockCanceller)
	c := newTestConsumer(svc)

	bookingID := uuid.New()
	refund := 25.0
	svc.On("CancelBooking", mock.Anything, bookingID, application.CancelBookingRequest{RefundValue: &refund}).
		Return(&application.BookingDTO{BookingID: bookingID, Status: "cancelled"}, nil)

	err := c.handleMessage(context.Background(), refundMessage(t, messaging.RefundIssuedEvent{
		BookingID:   bookingID,
		RefundValue: &refund,
		PaymentID:   uuid.New(),
	}))

	require.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestHandleMessage_MalformedIsSkipped(t *testing.T) {
	svc := new(mockCanceller)
	c := newTestConsumer(svc)

	err := c.handleMessage(context.Background(), kafkago.Message{Value: []byte("not json")})

	assert.NoError(t, err)
	svc.AssertNotCalled(t, "CancelBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleMessage_UnknownTypeIgnored(t *testing.T) {
	svc := new(mockCanceller)
	c := newTestConsumer(svc)

	ce, err := messaging.NewCloudEvent("service-payment", "payment.captured", map[string]string{"x": "y"})
	require.NoError(t, err)
	value, _ := json.Marshal(ce)

	assert.NoError(t, c.handleMessage(context.Background(), kafkago.Message{Value: value}))
	svc.AssertNotCalled(t, "CancelBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleMessage_MissingBookingIDSkipped(t *testing.T) {
	svc := new(mockCanceller)
	c := newTestConsumer(svc)

	assert.NoError(t, c.handleMessage(context.Background(), refundMessage(t, messaging.RefundIssuedEvent{})))
	svc.AssertNotCalled(t, "CancelBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleMessage_ValidationErrorAcked(t *testing.T) {
	svc := new(mockCanceller)
	c := newTestConsumer(svc)

	bookingID := uuid.New()
	svc.On("CancelBooking", mock.Anything, bookingID, mock.Anything).
		Return(nil, domain.NewValidationError("booking is already cancelled"))

	err := c.handleMessage(context.Background(), refundMessage(t, messaging.RefundIssuedEvent{BookingID: bookingID}))

	assert.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestHandleMessage_InfrastructureErrorReturned(t *testing.T) {
	svc := new(mockCanceller)
	c := newTestConsumer(svc)

	bookingID := uuid.New()
	boom := errors.New("connection reset")
	svc.On("CancelBooking", mock.Anything, bookingID, mock.Anything).Return(nil, boom)

	err := c.handleMessage(context.Background(), refundMessage(t, messaging.RefundIssuedEvent{BookingID: bookingID}))

	assert.ErrorIs(t, err, boom)
}

func TestHandleMessage_CountsOutcomes(t *testing.T) {
	svc := new(mockCanceller)
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	c := newTestConsumer(svc).WithMetrics(m)

	processed, failed := uuid.New(), uuid.New()
	svc.On("CancelBooking", mock.Anything, processed, mock.Anything).
		Return(&application.BookingDTO{BookingID: processed}, nil)
	svc.On("CancelBooking", mock.Anything, failed, mock.Anything).
		Return(nil, errors.New("connection reset"))

	ctx := context.Background()
	require.NoError(t, c.handleMessage(ctx, refundMessage(t, messaging.RefundIssuedEvent{BookingID: processed})))
	require.Error(t, c.handleMessage(ctx, refundMessage(t, messaging.RefundIssuedEvent{BookingID: failed})))
	require.NoError(t, c.handleMessage(ctx, refundMessage(t, messaging.RefundIssuedEvent{})))

	counter := m.PaymentEventsTotal
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues(messaging.PaymentRefundIssued, "processed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues(messaging.PaymentRefundIssued, "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues(messaging.PaymentRefundIssued, "skipped")))
}
