package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Event types published by this service.
const (
	BookingCreated   = "booking.created"
	BookingUpdated   = "booking.updated"
	BookingCancelled = "booking.cancelled"
	BookingDeleted   = "booking.deleted"
)

// Event types consumed by this service.
const (
	PaymentRefundIssued = "payment.refund_issued"
)

// BookingSnapshot is the booking state carried by lifecycle events.
type BookingSnapshot struct {
	BookingID     uuid.UUID `json:"bookingId"`
	Name          string    `json:"name"`
	BookingDate   string    `json:"bookingDate"`
	Value         float64   `json:"value"`
	ArrivalDate   string    `json:"arrivalDate"`
	DepartureDate string    `json:"departureDate"`
	CancelledDate *string   `json:"cancelledDate"`
	RefundValue   float64   `json:"refundValue"`
	Status        string    `json:"status"`
}

// BookingLifecycleEvent is published on create, update and cancel.
type BookingLifecycleEvent struct {
	Booking    BookingSnapshot `json:"booking"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// BookingDeletedEvent is published when a booking is removed.
type BookingDeletedEvent struct {
	BookingID  uuid.UUID `json:"bookingId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// RefundIssuedEvent is emitted by the payment service when a stay is refunded.
type RefundIssuedEvent struct {
	BookingID   uuid.UUID `json:"bookingId"`
	RefundValue *float64  `json:"refundValue"`
	PaymentID   uuid.UUID `json:"paymentId"`
	OccurredAt  time.Time `json:"occurredAt"`
}
