package events

import (
	"context"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/application"
	"github.com/staybook/service-booking/internal/domain"
	"github.com/staybook/service-booking/internal/messaging"
	"github.com/staybook/service-booking/internal/metrics"
)

// BookingCanceller cancels bookings on behalf of external events.
type BookingCanceller interface {
	CancelBooking(ctx context.Context, bookingID uuid.UUID, req application.CancelBookingRequest) (*application.BookingDTO, error)
}

// PaymentEventConsumer listens to payment events and cancels refunded bookings.
type PaymentEventConsumer struct {
	consumer *messaging.Consumer
	service  BookingCanceller
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	service BookingCanceller,
	logger *zap.Logger,
) *PaymentEventConsumer {
	return &PaymentEventConsumer{
		consumer: messaging.NewConsumer(brokers, groupID, messaging.TopicPaymentEvents, logger),
		service:  service,
		logger:   logger,
	}
}

// WithMetrics makes the consumer count handled events on m.
func (c *PaymentEventConsumer) WithMetrics(m *metrics.Metrics) *PaymentEventConsumer {
	c.metrics = m
	return c
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := messaging.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case messaging.PaymentRefundIssued:
		return c.handleRefundIssued(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handleRefundIssued(ctx context.Context, cloudEvent messaging.CloudEvent) error {
	var evt messaging.RefundIssuedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse RefundIssuedEvent data",
			zap.Error(err),
		)
		c.metrics.ObservePaymentEvent(cloudEvent.Type, "skipped")
		return nil // Don't retry malformed data
	}
	if evt.BookingID == uuid.Nil {
		c.logger.Error("RefundIssuedEvent has no booking id",
			zap.String("event_id", cloudEvent.ID),
		)
		c.metrics.ObservePaymentEvent(cloudEvent.Type, "skipped")
		return nil
	}

	c.logger.Info("processing refund issued event",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("payment_id", evt.PaymentID.String()),
	)

	_, err := c.service.CancelBooking(ctx, evt.BookingID, application.CancelBookingRequest{
		RefundValue: evt.RefundValue,
	})
	if err != nil {
		if domain.IsValidation(err) || domain.IsNotFound(err) {
			// Redelivery cannot change the outcome.
			c.logger.Warn("refund issued event rejected",
				zap.String("booking_id", evt.BookingID.String()),
				zap.Error(err),
			)
			c.metrics.ObservePaymentEvent(cloudEvent.Type, "skipped")
			return nil
		}
		c.logger.Error("failed to cancel booking after refund",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		c.metrics.ObservePaymentEvent(cloudEvent.Type, "failed")
		return err
	}

	c.logger.Info("booking cancelled after refund",
		zap.String("booking_id", evt.BookingID.String()),
	)
	c.metrics.ObservePaymentEvent(cloudEvent.Type, "processed")
	return nil
}
