package middleware

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/staybook/service-booking/internal/handler/response"
	"github.com/staybook/service-booking/internal/metrics"
)

// Prometheus records request count and latency per route template.
func Prometheus(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// MetricsBasicAuth guards the /metrics endpoint. Empty credentials disable the check.
func MetricsBasicAuth(user, password string) gin.HandlerFunc {
	if user == "" || password == "" {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		u, p, ok := c.Request.BasicAuth()
		userMatch := subtle.ConstantTimeCompare([]byte(u), []byte(user)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(p), []byte(password)) == 1
		if !ok || !userMatch || !passMatch {
			c.Header("WWW-Authenticate", `Basic realm="metrics"`)
			response.Fail(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}
