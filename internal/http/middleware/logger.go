package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(startTime)),
		}

		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		ctx := c.Request.Context()
		switch status := c.Writer.Status(); {
		case status >= 500:
			zapLogger.Error(ctx, "request finished", fields...)
		case status >= 400:
			zapLogger.Warn(ctx, "request finished", fields...)
		default:
			zapLogger.Info(ctx, "request finished", fields...)
		}
	}
}
