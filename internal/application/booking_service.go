package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/domain"
	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	"github.com/staybook/service-booking/internal/messaging"
	"github.com/staybook/service-booking/internal/metrics"
)

const (
	serviceName = "service-booking"

	// saveAttempts bounds id regeneration when a fresh id collides.
	saveAttempts = 3
)

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	Name          string             `json:"name" binding:"required,min=1"`
	ArrivalDate   bookingDomain.Date `json:"arrivalDate" binding:"required,isodate"`
	DepartureDate bookingDomain.Date `json:"departureDate" binding:"required,isodate"`
	Value         float64            `json:"value" binding:"required,gte=1"`
}

// UpdateBookingRequest holds the replacement details of a booking.
type UpdateBookingRequest struct {
	Name          string             `json:"name"`
	ArrivalDate   bookingDomain.Date `json:"arrivalDate" binding:"required,isodate"`
	DepartureDate bookingDomain.Date `json:"departureDate" binding:"required,isodate"`
	Value         *float64           `json:"value" binding:"required,gte=0"`
}

// CancelBookingRequest holds the optional refund of a cancellation.
type CancelBookingRequest struct {
	RefundValue *float64 `json:"refundValue" binding:"omitempty,gte=0"`
}

// ListBookingsQuery selects, orders and windows bookings. Zero values mean
// "not given".
type ListBookingsQuery struct {
	Status bookingDomain.StatusFilter
	From   *bookingDomain.Date
	To     *bookingDomain.Date
	SortBy bookingDomain.SortField
	Order  bookingDomain.SortOrder
	Page   int
	Limit  int
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	BookingID     uuid.UUID           `json:"bookingId"`
	Name          string              `json:"name"`
	BookingDate   bookingDomain.Date  `json:"bookingDate"`
	Value         float64             `json:"value"`
	ArrivalDate   bookingDomain.Date  `json:"arrivalDate"`
	DepartureDate bookingDomain.Date  `json:"departureDate"`
	CancelledDate *bookingDomain.Date `json:"cancelledDate"`
	RefundValue   float64             `json:"refundValue"`
	Status        string              `json:"status"`
}

// ListBookingsResult is one page of bookings with revenue over all matches.
type ListBookingsResult struct {
	Data         []BookingDTO          `json:"data"`
	Pagination   domain.PaginationMeta `json:"pagination"`
	TotalRevenue float64               `json:"totalRevenue"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo      bookingDomain.BookingRepository
	publisher messaging.Publisher
	clock     bookingDomain.Clock
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	publisher messaging.Publisher,
	clock bookingDomain.Clock,
	logger *zap.Logger,
) *BookingService {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	if clock == nil {
		clock = bookingDomain.SystemClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		repo:      repo,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// WithMetrics makes the service count lifecycle operation outcomes on m.
func (s *BookingService) WithMetrics(m *metrics.Metrics) *BookingService {
	s.metrics = m
	return s
}

// ListBookings runs the query pipeline: status, date range, sort, revenue,
// then pagination.
func (s *BookingService) ListBookings(ctx context.Context, q ListBookingsQuery) (*ListBookingsResult, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	today := s.clock.Today()
	result := all

	if q.Status != "" {
		result = bookingDomain.FilterByStatus(result, q.Status, today)
	}

	if q.From != nil && q.To != nil {
		result = bookingDomain.FilterByDateRange(result, q.From, q.To, bookingDomain.DateFieldBooking)
	}

	if q.SortBy != "" {
		order := q.Order
		if order == "" {
			order = bookingDomain.OrderAsc
		}
		result = bookingDomain.Sort(result, q.SortBy, order)
	}

	totalRevenue := bookingDomain.NetRevenue(result)

	page, meta := domain.Paginate(result, q.Page, q.Limit)

	dtos := make([]BookingDTO, len(page))
	for i, bk := range page {
		dtos[i] = toBookingDTO(bk)
	}

	return &ListBookingsResult{
		Data:         dtos,
		Pagination:   meta,
		TotalRevenue: totalRevenue,
	}, nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// CreateBooking creates a new confirmed booking.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	res, err := s.createBooking(ctx, req)
	s.observe(opCreate, err)
	return res, err
}

func (s *BookingService) createBooking(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	today := s.clock.Today()

	var bk *bookingDomain.Booking
	for attempt := 1; ; attempt++ {
		var err error
		bk, err = bookingDomain.NewBooking(req.Name, req.ArrivalDate, req.DepartureDate, req.Value, today)
		if err != nil {
			return nil, err
		}

		err = s.repo.Save(ctx, bk)
		if err == nil {
			break
		}
		if !domain.IsConflict(err) || attempt == saveAttempts {
			return nil, fmt.Errorf("failed to save booking: %w", err)
		}
		s.logger.Warn("booking id collision, regenerating",
			zap.String("booking_id", bk.ID().String()),
			zap.Int("attempt", attempt),
		)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("arrival_date", bk.ArrivalDate().String()),
		zap.String("departure_date", bk.DepartureDate().String()),
	)
	s.publishLifecycle(ctx, messaging.BookingCreated, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// UpdateBooking replaces the name, dates and value of a booking.
func (s *BookingService) UpdateBooking(ctx context.Context, bookingID uuid.UUID, req UpdateBookingRequest) (*BookingDTO, error) {
	res, err := s.updateBooking(ctx, bookingID, req)
	s.observe(opUpdate, err)
	return res, err
}

func (s *BookingService) updateBooking(ctx context.Context, bookingID uuid.UUID, req UpdateBookingRequest) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var value float64
	if req.Value != nil {
		value = *req.Value
	}
	if err := bk.Update(req.Name, req.ArrivalDate, req.DepartureDate, value); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishLifecycle(ctx, messaging.BookingUpdated, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a confirmed booking with an optional refund.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID, req CancelBookingRequest) (*BookingDTO, error) {
	res, err := s.cancelBooking(ctx, bookingID, req)
	s.observe(opCancel, err)
	return res, err
}

func (s *BookingService) cancelBooking(ctx context.Context, bookingID uuid.UUID, req CancelBookingRequest) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var refund float64
	if req.RefundValue != nil {
		refund = *req.RefundValue
	}
	if err := bk.Cancel(refund, s.clock.Today()); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled",
		zap.String("booking_id", bk.ID().String()),
		zap.Float64("refund_value", bk.RefundValue()),
	)
	s.publishLifecycle(ctx, messaging.BookingCancelled, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// DeleteBooking removes a booking and returns a confirmation message.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID uuid.UUID) (string, error) {
	res, err := s.deleteBooking(ctx, bookingID)
	s.observe(opDelete, err)
	return res, err
}

func (s *BookingService) deleteBooking(ctx context.Context, bookingID uuid.UUID) (string, error) {
	if err := s.repo.Delete(ctx, bookingID); err != nil {
		return "", err
	}

	s.logger.Info("booking deleted", zap.String("booking_id", bookingID.String()))
	evt := messaging.BookingDeletedEvent{
		BookingID:  bookingID,
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, messaging.TopicBookingEvents, messaging.BookingDeleted, bookingID.String(), evt)

	return fmt.Sprintf("Booking with ID %s has been successfully deleted", bookingID), nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"totalBookings"`
	ByStatus      map[string]int64 `json:"byStatus"`
	TotalRevenue  float64          `json:"totalRevenue"`
}

// GetBookingStats returns counts per classification and the net revenue of
// all bookings.
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	today := s.clock.Today()
	counts := map[string]int64{
		string(bookingDomain.ClassUpcoming):  0,
		string(bookingDomain.ClassCompleted): 0,
		string(bookingDomain.ClassCancelled): 0,
	}
	for _, bk := range all {
		counts[string(bk.Classification(today))]++
	}

	return &BookingStatsDTO{
		TotalBookings: int64(len(all)),
		ByStatus:      counts,
		TotalRevenue:  bookingDomain.NetRevenue(all),
	}, nil
}

// --- Helpers ---

const (
	opCreate = "create"
	opUpdate = "update"
	opCancel = "cancel"
	opDelete = "delete"
)

func (s *BookingService) observe(operation string, err error) {
	result := "success"
	switch {
	case err == nil:
	case domain.IsNotFound(err):
		result = "not_found"
	case domain.IsValidation(err):
		result = "invalid"
	case domain.IsConflict(err):
		result = "conflict"
	default:
		result = "error"
	}
	s.metrics.ObserveBookingOperation(operation, result)
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		BookingID:     bk.ID(),
		Name:          bk.Name(),
		BookingDate:   bk.BookingDate(),
		Value:         bk.Value(),
		ArrivalDate:   bk.ArrivalDate(),
		DepartureDate: bk.DepartureDate(),
		CancelledDate: bk.CancelledDate(),
		RefundValue:   bk.RefundValue(),
		Status:        string(bk.Status()),
	}
}

func toSnapshot(bk *bookingDomain.Booking) messaging.BookingSnapshot {
	var cancelled *string
	if d := bk.CancelledDate(); d != nil {
		s := d.String()
		cancelled = &s
	}
	return messaging.BookingSnapshot{
		BookingID:     bk.ID(),
		Name:          bk.Name(),
		BookingDate:   bk.BookingDate().String(),
		Value:         bk.Value(),
		ArrivalDate:   bk.ArrivalDate().String(),
		DepartureDate: bk.DepartureDate().String(),
		CancelledDate: cancelled,
		RefundValue:   bk.RefundValue(),
		Status:        string(bk.Status()),
	}
}

func (s *BookingService) publishLifecycle(ctx context.Context, eventType string, bk *bookingDomain.Booking) {
	evt := messaging.BookingLifecycleEvent{
		Booking:    toSnapshot(bk),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, messaging.TopicBookingEvents, eventType, bk.ID().String(), evt)
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
	cloudEvent, err := messaging.NewCloudEvent(serviceName, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = key

	if err := s.publisher.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
