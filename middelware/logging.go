package middelware

import (
	"net/http"
	"strconv"
	"time"

	"agrihire-backend/metrics"
	"agrihire-backend/models"
	"agrihire-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

// LoggingMiddleware provides request logging
type LoggingMiddleware struct {
	logger logger.Logger
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(log logger.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: log,
	}
}

// StructuredLogger logs every request with its outcome and records its
// latency by route.
func (m *LoggingMiddleware) StructuredLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Observe(latency.Seconds())

		if path == "/health" || path == "/metrics" {
			return
		}

		fields := map[string]interface{}{
			"method":  c.Request.Method,
			"path":    path,
			"status":  status,
			"latency": latency.String(),
			"ip":      c.ClientIP(),
		}
		if userID, ok := c.Get("user_id"); ok {
			fields["user_id"] = userID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		log := m.logger.WithFields(fields)
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("HTTP request failed")
		case status >= http.StatusBadRequest:
			log.Warn("HTTP request rejected")
		default:
			log.Info("HTTP request completed")
		}
	}
}

// Recovery middleware with logging
func (m *LoggingMiddleware) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		m.logger.Errorf("Panic recovered: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "An unexpected error occurred",
			Error: &models.APIError{
				Type: "InternalError",
			},
		})
	})
}
