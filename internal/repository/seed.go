package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
)

// seedRecord is one entry of a seed file. Its field names match the API.
type seedRecord struct {
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

// LoadSeedFile saves every booking in the JSON array at path into repo, in
// file order. Records must satisfy the stored-booking invariants (date order,
// refund within value, cancelledDate set exactly when cancelled); creation
// rules such as "arrival not in the past" do not apply to historical data.
func LoadSeedFile(ctx context.Context, path string, repo bookingDomain.BookingRepository) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read seed file: %w", err)
	}

	var records []seedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return 0, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for i, rec := range records {
		bk, err := rec.toBooking()
		if err != nil {
			return i, fmt.Errorf("seed record %d: %w", i, err)
		}
		if err := repo.Save(ctx, bk); err != nil {
			return i, fmt.Errorf("seed record %d: %w", i, err)
		}
	}
	return len(records), nil
}

func (r seedRecord) toBooking() (*bookingDomain.Booking, error) {
	id := r.BookingID
	if id == uuid.Nil {
		id = uuid.New()
	}

	bookingDate, err := bookingDomain.ParseDate(r.BookingDate)
	if err != nil {
		return nil, err
	}
	arrival, err := bookingDomain.ParseDate(r.ArrivalDate)
	if err != nil {
		return nil, err
	}
	departure, err := bookingDomain.ParseDate(r.DepartureDate)
	if err != nil {
		return nil, err
	}

	var cancelled *bookingDomain.Date
	if r.CancelledDate != nil && *r.CancelledDate != "" {
		d, err := bookingDomain.ParseDate(*r.CancelledDate)
		if err != nil {
			return nil, err
		}
		cancelled = &d
	}

	status := bookingDomain.StatusConfirmed
	if r.Status != "" {
		if status, err = bookingDomain.ParseStatus(r.Status); err != nil {
			return nil, err
		}
	}
	if status == bookingDomain.StatusCancelled && cancelled == nil {
		return nil, fmt.Errorf("cancelled booking %s has no cancelledDate", id)
	}
	if status != bookingDomain.StatusCancelled && cancelled != nil {
		return nil, fmt.Errorf("booking %s has a cancelledDate but status %s", id, status)
	}
	if departure.Before(arrival) {
		return nil, fmt.Errorf("departureDate of booking %s is before arrivalDate", id)
	}
	if r.Value < 0 {
		return nil, fmt.Errorf("value of booking %s cannot be negative", id)
	}
	if r.RefundValue < 0 || r.RefundValue > r.Value {
		return nil, fmt.Errorf("refundValue of booking %s must be between 0 and value", id)
	}

	now := time.Now().UTC()
	return bookingDomain.ReconstructBooking(id, r.Name, bookingDate, r.Value, arrival, departure,
		cancelled, r.RefundValue, status, 1, now, now), nil
}
