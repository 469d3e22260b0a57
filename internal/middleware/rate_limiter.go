package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Baaaki/content-square/internal/response"
	"github.com/Baaaki/content-square/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiterConfig defines rate limiting rules
type RateLimiterConfig struct {
	MaxRequests int           // Maximum requests allowed in the window
	Window      time.Duration // Time window (e.g., 1 minute)
}

// RateLimiter limits requests per client IP. With a Redis client the
// counters are shared between instances; without one each process keeps
// its own token buckets.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimiterConfig

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter instance. redisClient may be nil.
func NewRateLimiter(redisClient *redis.Client, config RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		redis:   redisClient,
		config:  config,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Middleware returns a Gin middleware function for rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		allowed, retryAfter, err := rl.CheckLimit(c.Request.Context(), clientIP)
		if err != nil {
			// Fail open: a Redis outage must not take the API down
			logger.Log.Warn("Rate limit check failed",
				zap.String("ip", clientIP),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			response.Abort(c, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}

		c.Next()
	}
}

// CheckLimit returns whether ip may proceed and, if not, how long to wait
func (rl *RateLimiter) CheckLimit(ctx context.Context, ip string) (bool, time.Duration, error) {
	if rl.redis == nil {
		return rl.checkLocal(ip)
	}

	key := fmt.Sprintf("ratelimit:%s", ip)

	// Fixed window counter: INCR, and EXPIRE on the first hit
	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}

	if count == 1 {
		if err := rl.redis.Expire(ctx, key, rl.config.Window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count > int64(rl.config.MaxRequests) {
		ttl, err := rl.redis.TTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = rl.config.Window
		}
		return false, ttl, nil
	}

	return true, 0, nil
}

func (rl *RateLimiter) checkLocal(ip string) (bool, time.Duration, error) {
	now := rl.now()

	rl.mu.Lock()
	rl.sweep(now)
	b, ok := rl.buckets[ip]
	if !ok {
		every := rate.Every(rl.config.Window / time.Duration(max(rl.config.MaxRequests, 1)))
		b = &bucket{limiter: rate.NewLimiter(every, rl.config.MaxRequests)}
		rl.buckets[ip] = b
	}
	b.lastSeen = now
	rl.mu.Unlock()

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, rl.config.Window, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay, nil
	}
	return true, 0, nil
}

// sweep drops buckets idle for a full window. A bucket refills completely
// within one window, so a dropped one is indistinguishable from a new one.
// Caller holds rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.config.Window {
		return
	}
	for ip, b := range rl.buckets {
		if now.Sub(b.lastSeen) >= rl.config.Window {
			delete(rl.buckets, ip)
		}
	}
	rl.lastSweep = now
}
