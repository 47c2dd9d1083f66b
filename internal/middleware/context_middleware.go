package middleware

import (
	"cafedesk/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger decorates the base logger with request identity and stores it
// in the request context for downstream services.
func ContextLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := base
		if rid := c.GetString("request_id"); rid != "" {
			logger = logger.With(zap.String("request_id", rid))
		}
		if uid := c.GetString("user_id"); uid != "" {
			logger = logger.With(zap.String("user_id", uid))
		}

		ctx := contextutil.WithLogger(c.Request.Context(), logger)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
