package middleware

import (
	"fmt"
	"time"

	"github.com/consensuslabs/pavilion-network/datamigrate/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id back to the client.
const RequestIDHeader = "X-Request-ID"

// RequestLoggerMiddleware creates a middleware for logging HTTP requests
func RequestLoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		start := time.Now()

		contextLogger := log.WithFields(map[string]interface{}{"request_id": requestID})
		c.Set(loggerKey, contextLogger)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		statusCode := c.Writer.Status()
		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    statusCode,
			"latency":   time.Since(start),
			"client_ip": c.ClientIP(),
		}

		switch {
		case statusCode >= 500:
			contextLogger.WithFields(fields).LogError(fmt.Errorf("status %d", statusCode), "Server error processing request")
		case statusCode >= 400:
			contextLogger.LogWarn("Client error processing request", fields)
		default:
			contextLogger.LogDebug("Request completed", fields)
		}
	}
}
