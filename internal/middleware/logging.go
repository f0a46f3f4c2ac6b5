package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ymatsuda/captionize/internal/logging"
	"github.com/ymatsuda/captionize/internal/metrics"
)

const RequestIDKey = "request_id"

// RequestLogger logs each request and records HTTP metrics. A request
// ID is generated and exposed via the X-Request-ID header.
func RequestLogger(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := uuid.New().String()
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		log.WithRequestID(requestID).
			LogHTTPRequest(c.Request.Method, path, c.ClientIP(), status, duration)

		metrics.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, path).Observe(duration.Seconds())
	}
}
