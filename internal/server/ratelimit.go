package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"chit-auction/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// UserHeader carries the caller's user id; the client IP is used when it is absent
const UserHeader = "X-User-ID"

var errRateLimited = errors.New("rate limit exceeded")

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per caller
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
}

// NewRateLimiter creates a limiter allowing perSecond requests per caller with the given burst
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(perSecond),
		burst:    burst,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// Middleware rejects callers that exceed their bucket with 429
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(UserHeader)
		if key == "" {
			key = c.ClientIP()
		}

		if !rl.getLimiter(key).Allow() {
			utils.JSONError(c, http.StatusTooManyRequests, errRateLimited, "rate_limited", "too many bids, slow down")
			utils.Warn("rate limit exceeded", map[string]any{
				"key":    key,
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			})
			return
		}
		c.Next()
	}
}

// Prune drops buckets idle for longer than idle and returns how many were removed
func (rl *RateLimiter) Prune(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-idle)
	removed := 0
	for key, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
			removed++
		}
	}
	return removed
}

// Run prunes idle buckets every interval until ctx is cancelled
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := rl.Prune(interval); n > 0 {
				utils.Debug("pruned idle rate limiters", map[string]any{"count": n})
			}
		}
	}
}
