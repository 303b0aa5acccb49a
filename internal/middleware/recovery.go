package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/handler/response"
)

// Recovery turns a panic in a handler into a 500 response and logs it.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			zap.String("request_id", GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		response.Fail(c, http.StatusInternalServerError, response.CodeInternal, "internal server error")
		c.Abort()
	})
}
