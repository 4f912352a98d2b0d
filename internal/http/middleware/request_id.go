package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

const RequestIDHeader = "X-Request-ID"

// RequestID keeps an incoming X-Request-ID or issues a new one and puts it,
// together with the client address, into the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := zapLogger.ContextWithTraceID(c.Request.Context(), requestID)
		ctx = zapLogger.ContextWithClientIP(ctx, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)

		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}
