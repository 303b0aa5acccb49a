package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/domain"
	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
)

// MemoryBookingRepository is an in-process BookingRepository. Readers run
// concurrently; writers are exclusive. Bookings are copied on the way in and
// out, so callers never share state with the store.
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings []*bookingDomain.Booking
	index    map[uuid.UUID]int
}

// NewMemoryBookingRepository creates an empty MemoryBookingRepository.
func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{
		index: make(map[uuid.UUID]int),
	}
}

// FindByID retrieves a booking by its unique identifier.
func (r *MemoryBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return r.bookings[i].Clone(), nil
}

// List retrieves every booking in insertion order.
func (r *MemoryBookingRepository) List(ctx context.Context) ([]*bookingDomain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*bookingDomain.Booking, len(r.bookings))
	for i, bk := range r.bookings {
		result[i] = bk.Clone()
	}
	return result, nil
}

// Save persists a new booking.
func (r *MemoryBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[bk.ID()]; exists {
		return domain.NewConflictError("booking already exists: " + bk.ID().String())
	}
	r.index[bk.ID()] = len(r.bookings)
	r.bookings = append(r.bookings, bk.Clone())
	return nil
}

// Update replaces a stored booking. The stored version must be exactly one
// behind the incoming one; otherwise another writer got there first.
func (r *MemoryBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[bk.ID()]
	if !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	if r.bookings[i].Version() != bk.Version()-1 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	r.bookings[i] = bk.Clone()
	return nil
}

// Delete removes a booking, preserving the order of the rest.
func (r *MemoryBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return domain.NewNotFoundError("Booking", id.String())
	}

	last := len(r.bookings) - 1
	copy(r.bookings[i:], r.bookings[i+1:])
	r.bookings[last] = nil
	r.bookings = r.bookings[:last]
	delete(r.index, id)
	for j := i; j < len(r.bookings); j++ {
		r.index[r.bookings[j].ID()] = j
	}
	return nil
}
