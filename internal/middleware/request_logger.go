package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestTimer writes "<METHOD> <path> completed in <seconds>s" per request
func RequestTimer(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		l.Info(fmt.Sprintf("%s %s completed in %.4fs",
			c.Request.Method,
			c.Request.URL.Path,
			time.Since(start).Seconds(),
		))
	}
}
