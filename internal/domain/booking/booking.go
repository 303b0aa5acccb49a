package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/domain"
)

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id            uuid.UUID
	name          string
	bookingDate   Date
	value         float64
	arrivalDate   Date
	departureDate Date
	cancelledDate *Date
	refundValue   float64
	status        Status

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new confirmed Booking booked on today.
func NewBooking(name string, arrival, departure Date, value float64, today Date) (*Booking, error) {
	if arrival.Before(today) {
		return nil, domain.NewValidationError("arrival date cannot be in the past")
	}
	if departure.Before(arrival) {
		return nil, domain.NewValidationError("departure date cannot be before arrival date")
	}
	if value <= 0 {
		return nil, domain.NewValidationError("booking value must be positive")
	}

	now := time.Now().UTC()
	return &Booking{
		id:            uuid.New(),
		name:          name,
		bookingDate:   today,
		value:         value,
		arrivalDate:   arrival,
		departureDate: departure,
		refundValue:   0,
		status:        StatusConfirmed,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	name string,
	bookingDate Date,
	value float64,
	arrivalDate Date,
	departureDate Date,
	cancelledDate *Date,
	refundValue float64,
	status Status,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		name:          name,
		bookingDate:   bookingDate,
		value:         value,
		arrivalDate:   arrivalDate,
		departureDate: departureDate,
		cancelledDate: cancelledDate,
		refundValue:   refundValue,
		status:        status,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// Name returns the guest name.
func (b *Booking) Name() string { return b.name }

// BookingDate returns the date the booking was made.
func (b *Booking) BookingDate() Date { return b.bookingDate }

// Value returns the booking amount.
func (b *Booking) Value() float64 { return b.value }

// ArrivalDate returns the arrival date.
func (b *Booking) ArrivalDate() Date { return b.arrivalDate }

// DepartureDate returns the departure date.
func (b *Booking) DepartureDate() Date { return b.departureDate }

// CancelledDate returns the cancellation date, or nil if not cancelled.
func (b *Booking) CancelledDate() *Date { return b.cancelledDate }

// RefundValue returns the refunded amount.
func (b *Booking) RefundValue() float64 { return b.refundValue }

// Status returns the stored booking status.
func (b *Booking) Status() Status { return b.status }

// NetValue returns value minus refund.
func (b *Booking) NetValue() float64 { return b.value - b.refundValue }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Update overwrites the mutable details of the booking. Status, refund,
// cancellation date and booking date are left untouched.
func (b *Booking) Update(name string, arrival, departure Date, value float64) error {
	if departure.Before(arrival) {
		return domain.NewValidationError("departure date cannot be before arrival date")
	}
	if value < 0 {
		return domain.NewValidationError("booking value cannot be negative")
	}
	if value < b.refundValue {
		return domain.NewValidationError("booking value cannot be less than the refunded amount")
	}

	b.name = name
	b.arrivalDate = arrival
	b.departureDate = departure
	b.value = value
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to cancelled on today with the given refund.
func (b *Booking) Cancel(refund float64, today Date) error {
	if b.status == StatusCancelled {
		return domain.NewValidationError("booking is already cancelled")
	}
	if !b.status.CanBeCancelled() {
		return domain.NewValidationError("booking cannot be cancelled from status " + b.status.String())
	}
	if refund < 0 {
		return domain.NewValidationError("refund amount cannot be negative")
	}
	if refund > b.value {
		return domain.NewValidationError("refund amount cannot be greater than booking amount")
	}

	cancelled := today
	b.status = StatusCancelled
	b.cancelledDate = &cancelled
	b.refundValue = refund
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

// Clone returns a deep copy of b.
func (b *Booking) Clone() *Booking {
	c := *b
	if b.cancelledDate != nil {
		d := *b.cancelledDate
		c.cancelledDate = &d
	}
	return &c
}
