package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/prokizzle/feeling-mindful-website/internal/metrics"
)

const (
	defaultSubmitsPerMinute = 10
	submitRateKeyPrefix     = "rl:submit:"
	limiterIdleTTL          = 10 * time.Minute
)

// SubmitRateLimit caps form submissions per client IP per minute. With Redis
// the count is shared across instances via INCR/EXPIRE; without it each
// instance keeps a token bucket per IP. Redis errors fail open.
func SubmitRateLimit(cache *redis.Client, maxPerMin int, logger *slog.Logger) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = defaultSubmitsPerMinute
	}

	var local *localLimiter
	if cache == nil {
		local = newLocalLimiter(maxPerMin, time.Now)
	}

	return func(c *fiber.Ctx) error {
		ip := c.IP()

		if local != nil {
			if !local.allow(ip) {
				return tooManySubmits(c)
			}
			return c.Next()
		}

		key := submitRateKeyPrefix + ip
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			logger.Warn("submit rate limit lookup failed", slog.Any("error", err))
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			return tooManySubmits(c)
		}
		return c.Next()
	}
}

func tooManySubmits(c *fiber.Ctx) error {
	metrics.RateLimited.Inc()
	c.Set(fiber.HeaderRetryAfter, "60")
	return fiber.NewError(http.StatusTooManyRequests, "too many submissions, try again later")
}

// localLimiter holds one token bucket per IP and forgets idle ones.
type localLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	limiters  map[string]*ipLimiter
	now       func() time.Time
	lastSweep time.Time
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLocalLimiter(perMinute int, now func() time.Time) *localLimiter {
	return &localLimiter{
		limit:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     perMinute,
		limiters:  make(map[string]*ipLimiter),
		now:       now,
		lastSweep: now(),
	}
}

func (l *localLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for k, v := range l.limiters {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}
