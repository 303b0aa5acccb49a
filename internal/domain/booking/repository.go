package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// List retrieves every booking in insertion order.
	List(ctx context.Context) ([]*Booking, error)

	// Save persists a new booking. A duplicate ID yields a conflict error.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error

	// Delete removes a booking by its unique identifier.
	Delete(ctx context.Context, id uuid.UUID) error
}
