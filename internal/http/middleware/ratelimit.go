package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type tokenBucket struct {
	mu         sync.Mutex
	capacity   float64
	tokens     float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

func (tb *tokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	tb.tokens += now.Sub(tb.lastRefill).Seconds() * tb.refillRate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
	tb.lastRefill = now

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimit applies a per-client-IP token bucket of `requests` per `window`.
// A non-positive request count disables limiting entirely.
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	if requests <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	var mu sync.Mutex
	buckets := map[string]*tokenBucket{}
	rate := float64(requests) / window.Seconds()

	return func(c *gin.Context) {
		key := c.ClientIP()

		mu.Lock()
		tb, ok := buckets[key]
		if !ok {
			tb = &tokenBucket{capacity: float64(requests), tokens: float64(requests), refillRate: rate, lastRefill: time.Now()}
			buckets[key] = tb
		}
		mu.Unlock()

		if !tb.allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "RATE_LIMITED",
					"message": "Too many requests",
				},
			})
			return
		}
		c.Next()
	}
}
