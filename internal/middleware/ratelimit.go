package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"newznepal/internal/pkg/logger"
	"newznepal/internal/pkg/response"
)

// RateLimit allows limit requests per window for each route and client IP.
// With redis the count is a shared fixed window; without it each process
// keeps its own token buckets. Redis errors let the request through.
func RateLimit(client *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	local := newLocalLimiter(limit, window)

	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), c.ClientIP())

		if client == nil {
			if !local.allow(key) {
				tooMany(c, window)
				return
			}
			c.Next()
			return
		}

		ctx := c.Request.Context()
		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("rate limit check failed, allowing request")
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			tooMany(c, window)
			return
		}

		c.Next()
	}
}

func tooMany(c *gin.Context, window time.Duration) {
	c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
	response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please try again later")
	c.Abort()
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// localLimiter holds one token bucket per key. Buckets idle for an hour are
// dropped on the next prune.
type localLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	rate      rate.Limit
	burst     int
	lastPrune time.Time
}

func newLocalLimiter(limit int, window time.Duration) *localLimiter {
	return &localLimiter{
		limiters:  make(map[string]*limiterEntry),
		rate:      rate.Every(window / time.Duration(limit)),
		burst:     limit,
		lastPrune: time.Now(),
	}
}

func (l *localLimiter) allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	if now.Sub(l.lastPrune) > 10*time.Minute {
		threshold := now.Add(-time.Hour)
		for k, e := range l.limiters {
			if e.lastAccess.Before(threshold) {
				delete(l.limiters, k)
			}
		}
		l.lastPrune = now
	}
	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastAccess = now
	limiter := entry.limiter
	l.mu.Unlock()

	return limiter.AllowN(now, 1)
}
