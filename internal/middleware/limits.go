package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Baaaki/content-square/internal/response"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

// MsgRequestTimeout is the envelope message of a 504
const MsgRequestTimeout = "request timed out"

// Timeout bounds the request context. Storage calls observe it through
// WithContext.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			response.Abort(c, http.StatusGatewayTimeout, MsgRequestTimeout)
		}
	}
}

// ConcurrencyLimit caps requests in flight to protect the database
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	if max <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if !sem.TryAcquire(1) {
			response.Abort(c, http.StatusServiceUnavailable, "server busy")
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}

// MaxBodyBytes makes reads past n fail, which surfaces as a binding error
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
