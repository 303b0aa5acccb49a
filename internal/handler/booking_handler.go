package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/application"
	"github.com/staybook/service-booking/internal/domain"
	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	"github.com/staybook/service-booking/internal/handler/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	registerValidators()
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/api/v1/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id", h.UpdateBooking)
		bookings.PUT("/:id/cancel", h.CancelBooking)
		bookings.DELETE("/:id", h.DeleteBooking)
	}
}

// listBookingsParams are the query parameters of GET /api/v1/bookings.
// status, sortBy and order are checked against the domain's closed sets in
// toQuery.
type listBookingsParams struct {
	Status string `form:"status"`
	From   string `form:"from" binding:"omitempty,isodate"`
	To     string `form:"to" binding:"omitempty,isodate"`
	SortBy string `form:"sortBy"`
	Order  string `form:"order"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (p listBookingsParams) toQuery() (application.ListBookingsQuery, error) {
	q := application.ListBookingsQuery{
		Page:  p.Page,
		Limit: p.Limit,
	}

	var err error
	if p.Status != "" {
		if q.Status, err = bookingDomain.ParseStatusFilter(p.Status); err != nil {
			return q, err
		}
	}
	if p.SortBy != "" {
		if q.SortBy, err = bookingDomain.ParseSortField(p.SortBy); err != nil {
			return q, err
		}
	}
	if q.Order, err = bookingDomain.ParseSortOrder(p.Order); err != nil {
		return q, err
	}
	if p.From != "" {
		from := bookingDomain.Date(p.From)
		q.From = &from
	}
	if p.To != "" {
		to := bookingDomain.Date(p.To)
		q.To = &to
	}
	return q, nil
}

// ListBookings handles GET /api/v1/bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	var params listBookingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}

	query, err := params.toQuery()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ListBookings(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Data, result.Pagination, result.TotalRevenue)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateBooking handles PUT /api/v1/bookings/:id.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	var req application.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}

	result, err := h.service.UpdateBooking(c.Request.Context(), bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles PUT /api/v1/bookings/:id/cancel. The body is optional.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	var req application.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, bindingMessage(err))
		return
	}

	result, err := h.service.CancelBooking(c.Request.Context(), bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBooking handles DELETE /api/v1/bookings/:id.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	message, err := h.service.DeleteBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, message)
}

// parseBookingID answers 404 for ids that cannot name a stored booking.
func parseBookingID(c *gin.Context) (uuid.UUID, bool) {
	id := c.Param("id")
	bookingID, err := uuid.Parse(id)
	if err != nil {
		response.Error(c, domain.NewNotFoundError("Booking", id))
		return uuid.Nil, false
	}
	return bookingID, true
}
