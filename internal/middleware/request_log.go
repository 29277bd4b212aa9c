package middleware

import (
	"log/slog"
	"strings"
	"time"

	"compliance-portal/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// RequestLogger propagates or generates a request id and logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		logger := slog.Default().With("request_id", requestID)
		c.Set(requestIDKey, requestID)
		c.Request = c.Request.WithContext(utils.ContextWithLogger(c.Request.Context(), logger))

		start := time.Now()
		c.Next()

		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

// LoggerFrom returns the request-scoped logger, falling back to the default.
func LoggerFrom(c *gin.Context) *slog.Logger {
	return utils.Logger(c.Request.Context())
}

func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
