package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staybook/service-booking/internal/domain"
	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq           int64     `gorm:"autoIncrement;uniqueIndex;not null"`
	Name          string    `gorm:"not null;size:255"`
	BookingDate   string    `gorm:"type:date;not null;index"`
	Value         float64   `gorm:"type:numeric(12,2);not null"`
	ArrivalDate   string    `gorm:"type:date;not null"`
	DepartureDate string    `gorm:"type:date;not null;index"`
	CancelledDate *string   `gorm:"type:date"`
	RefundValue   float64   `gorm:"type:numeric(12,2);not null;default:0"`
	Status        string    `gorm:"not null;size:20;index"`
	Version       int64     `gorm:"not null;default:1"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// List retrieves every booking in insertion order.
func (r *GormBookingRepository) List(ctx context.Context) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).Order("seq ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	if err := r.db.WithContext(ctx).Omit("Seq").Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("booking already exists: " + bk.ID().String())
		}
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// Optimistic locking: only update if the version matches (current version - 1 since IncrementVersion was called)
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":           model.Name,
			"value":          model.Value,
			"arrival_date":   model.ArrivalDate,
			"departure_date": model.DepartureDate,
			"cancelled_date": model.CancelledDate,
			"refund_value":   model.RefundValue,
			"status":         model.Status,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, bk.ID()); err != nil {
			return err
		}
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// Delete removes a booking by its unique identifier.
func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BookingModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	var cancelled *string
	if d := bk.CancelledDate(); d != nil {
		s := d.String()
		cancelled = &s
	}

	return &BookingModel{
		ID:            bk.ID(),
		Name:          bk.Name(),
		BookingDate:   bk.BookingDate().String(),
		Value:         bk.Value(),
		ArrivalDate:   bk.ArrivalDate().String(),
		DepartureDate: bk.DepartureDate().String(),
		CancelledDate: cancelled,
		RefundValue:   bk.RefundValue(),
		Status:        string(bk.Status()),
		Version:       bk.Version(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	bookingDate, err := parseStoredDate(m.BookingDate)
	if err != nil {
		return nil, err
	}
	arrival, err := parseStoredDate(m.ArrivalDate)
	if err != nil {
		return nil, err
	}
	departure, err := parseStoredDate(m.DepartureDate)
	if err != nil {
		return nil, err
	}

	var cancelled *bookingDomain.Date
	if m.CancelledDate != nil {
		d, err := parseStoredDate(*m.CancelledDate)
		if err != nil {
			return nil, err
		}
		cancelled = &d
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.Name,
		bookingDate,
		m.Value,
		arrival,
		departure,
		cancelled,
		m.RefundValue,
		status,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

// parseStoredDate accepts both a bare date and the timestamp form some
// drivers return for DATE columns.
func parseStoredDate(s string) (bookingDomain.Date, error) {
	if len(s) > len(bookingDomain.DateLayout) {
		s = s[:len(bookingDomain.DateLayout)]
	}
	d, err := bookingDomain.ParseDate(s)
	if err != nil {
		return "", fmt.Errorf("failed to parse stored date: %w", err)
	}
	return d, nil
}
