package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/ytmp3/internal/utils"
)

const (
	CorrelationIDHeader = "X-Correlation-ID"
	RequestIDHeader     = "X-Request-ID"
)

// quietPaths are polled by orchestrators and scrapers and only logged at debug.
var quietPaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/live":    true,
	"/metrics": true,
}

// CorrelationIDMiddleware attaches correlation and request IDs to the request
// context and logs each request with its outcome.
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = utils.GenerateCorrelationID()
		}
		requestID := utils.GenerateRequestID()

		c.Set("correlation_id", correlationID)
		c.Set("request_id", requestID)
		c.Header(CorrelationIDHeader, correlationID)
		c.Header(RequestIDHeader, requestID)

		ctx := utils.WithCorrelationID(c.Request.Context(), correlationID)
		ctx = utils.WithRequestID(ctx, requestID)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		fields := utils.Fields{
			"method":   c.Request.Method,
			"path":     path,
			"status":   c.Writer.Status(),
			"ip":       c.ClientIP(),
			"duration": time.Since(start).String(),
		}
		switch {
		case quietPaths[path]:
			utils.LogDebug(ctx, "Request completed", fields)
		case c.Writer.Status() >= http.StatusInternalServerError:
			utils.LogWarn(ctx, "Request failed", fields)
		default:
			utils.LogInfo(ctx, "Request completed", fields)
		}
	}
}
