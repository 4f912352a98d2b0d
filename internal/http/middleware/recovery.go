package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				zapLogger.Error(c.Request.Context(), "panic recovered in HTTP handler",
					zap.String("panic", fmt.Sprintf("%v", r)),
					zap.String("path", c.Request.URL.Path),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   "internal_error",
					"message": "An unexpected error occurred. Please try again.",
				})
			}
		}()

		c.Next()
	}
}
