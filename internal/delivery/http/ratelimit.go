package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/styleseeker/client/internal/domain"
	"github.com/styleseeker/client/pkg/log"
	"golang.org/x/time/rate"
)

// IPRateLimiter hands out one token bucket per client IP. Buckets live in a
// TTL store and expire once they have been idle long enough to refill, so a
// returning client gets the same allowance as a fresh one.
type IPRateLimiter struct {
	mu    sync.Mutex
	store domain.CacheRepository
	limit rate.Limit
	burst int
	idle  time.Duration
}

// NewIPRateLimiter allows perMinute requests per IP with the given burst.
// It returns nil when perMinute is 0, which disables limiting.
func NewIPRateLimiter(perMinute, burst int, store domain.CacheRepository) *IPRateLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}

	limit := rate.Limit(float64(perMinute) / 60.0)

	return &IPRateLimiter{
		store: store,
		limit: limit,
		burst: burst,
		idle:  time.Duration(float64(burst) / float64(limit) * float64(time.Second)),
	}
}

// Allow reports whether ip may make a request now
func (l *IPRateLimiter) Allow(ip string) bool {
	return l.limiter(ip).Allow()
}

func (l *IPRateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx := context.Background()
	key := limiterKey(ip)

	var limiter *rate.Limiter
	value, err := l.store.Get(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
		log.Warnw("Rate limiter store read failed", "clientIP", ip, "error", err)
	}
	if existing, ok := value.(*rate.Limiter); ok {
		limiter = existing
	} else {
		limiter = rate.NewLimiter(l.limit, l.burst)
	}

	// Sliding expiry
	if err := l.store.Set(ctx, key, limiter, l.idle); err != nil {
		log.Warnw("Rate limiter store write failed", "clientIP", ip, "error", err)
	}
	return limiter
}

func limiterKey(ip string) string {
	return "ratelimit:" + ip
}

// RateLimitMiddleware rejects requests over the per-IP rate with 429.
// A nil limiter lets everything through.
func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		if !limiter.Allow(c.ClientIP()) {
			log.Warnw("Rate limited", "clientIP", c.ClientIP(), "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": domain.ErrRateLimited.Error()})
			return
		}

		c.Next()
	}
}
