package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/staybook/service-booking/internal/domain"
)

// Error codes carried in failed responses.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// Response is the JSON envelope of every API response.
type Response struct {
	Success      bool                   `json:"success"`
	Data         interface{}            `json:"data,omitempty"`
	Message      string                 `json:"message,omitempty"`
	Pagination   *domain.PaginationMeta `json:"pagination,omitempty"`
	TotalRevenue *float64               `json:"totalRevenue,omitempty"`
	Error        *ErrorData             `json:"error,omitempty"`
}

// ErrorData describes why a request failed.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success responds 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Created responds 201 with the created resource.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// Message responds 200 with a human-readable confirmation and no data.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

// Paginated responds with one page of data, its pagination metadata and the
// net revenue across every matching record.
func Paginated(c *gin.Context, data interface{}, meta domain.PaginationMeta, totalRevenue float64) {
	c.JSON(http.StatusOK, Response{
		Success:      true,
		Data:         data,
		Pagination:   &meta,
		TotalRevenue: &totalRevenue,
	})
}

// Fail responds with the given status and error payload.
func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{
		Success: false,
		Error:   &ErrorData{Code: code, Message: message},
	})
}

// BadRequest responds 400 for malformed or out-of-range input.
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, CodeBadRequest, message)
}

// Error maps err onto an HTTP status: NotFound 404, Validation 400,
// Conflict 409, anything else 500. The error is attached to the gin context
// so the request logger records it.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case domain.IsNotFound(err):
		Fail(c, http.StatusNotFound, CodeNotFound, err.Error())
	case domain.IsValidation(err):
		Fail(c, http.StatusBadRequest, CodeValidation, err.Error())
	case domain.IsConflict(err):
		Fail(c, http.StatusConflict, CodeConflict, err.Error())
	default:
		Fail(c, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}
