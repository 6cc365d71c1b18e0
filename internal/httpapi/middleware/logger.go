package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/orbitads/orbit/backend/internal/logger"
)

// RequestLoggerMiddleware creates a middleware for logging HTTP requests
func RequestLoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		start := time.Now()

		contextLogger := log.WithRequestID(requestID)
		c.Set("logger", contextLogger)
		c.Set("request_id", requestID)

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    statusCode,
			"latency":   duration,
			"requestID": requestID,
			"clientIP":  c.ClientIP(),
		}

		if userID, exists := c.Get("userID"); exists {
			fields["userID"] = userID
		}

		switch {
		case statusCode >= 500:
			contextLogger.LogError(fmt.Errorf("request failed with status %d", statusCode), "Server error processing request")
		case statusCode >= 400:
			contextLogger.LogWarn("Client error processing request", fields)
		default:
			contextLogger.LogInfo("Request completed", fields)
		}
	}
}

// GetLogger retrieves the logger from the gin context
func GetLogger(c *gin.Context) logger.Logger {
	if log, exists := c.Get("logger"); exists {
		if contextLogger, ok := log.(logger.Logger); ok {
			return contextLogger
		}
	}
	defaultLogger, _ := logger.NewLogger(&logger.Config{
		Level:  logger.InfoLevel,
		Format: "json",
		Output: "stdout",
	})
	return defaultLogger
}
