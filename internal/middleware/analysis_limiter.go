package middleware

import (
	"context"
	"fmt"
	"log"
	"time"

	"lifeboard/internal/services"

	"github.com/gofiber/fiber/v2"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultAnalysisLimit caps pattern analysis requests per user per window.
// Analysis walks the full 60-day point series, so it is the most expensive
// read path in the system.
const (
	DefaultAnalysisLimit = 10
	AnalysisLimitWindow  = time.Minute
)

// AnalysisLimiter throttles analysis requests per user. Counters live in
// Redis when it is configured so the limit holds across instances; otherwise
// they fall back to an in-process TTL cache.
type AnalysisLimiter struct {
	redis *services.RedisService
	local *gocache.Cache
	limit int64
}

// NewAnalysisLimiter creates an analysis limiter. Pass nil redis to run with
// local counters only.
func NewAnalysisLimiter(redis *services.RedisService, limit int64) *AnalysisLimiter {
	if limit <= 0 {
		limit = DefaultAnalysisLimit
	}
	return &AnalysisLimiter{
		redis: redis,
		local: gocache.New(AnalysisLimitWindow, 2*AnalysisLimitWindow),
		limit: limit,
	}
}

// CheckLimit is the fiber handler guarding analysis routes. The user ID comes
// from the route parameter since analysis is keyed per user.
func (al *AnalysisLimiter) CheckLimit(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Next()
	}

	remaining, exceeded, err := al.check(c.Context(), userID)
	if err != nil {
		// Counter backend failure never blocks the request
		log.Printf("⚠️  [LIMITER] Analysis rate check failed for %s: %v", userID, err)
		return c.Next()
	}

	if exceeded {
		log.Printf("🚫 [LIMITER] Analysis limit reached for user %s", userID)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":       "Analysis rate limit reached. Please wait before requesting again.",
			"retry_after": int(AnalysisLimitWindow.Seconds()),
		})
	}

	c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
	return c.Next()
}

func (al *AnalysisLimiter) check(ctx context.Context, userID string) (remaining int64, exceeded bool, err error) {
	key := "analysis:" + userID

	if al.redis != nil {
		return al.redis.CheckRateLimit(ctx, key, al.limit, AnalysisLimitWindow)
	}

	count, err := al.local.IncrementInt64(key, 1)
	if err != nil {
		// First request in this window
		al.local.Set(key, int64(1), AnalysisLimitWindow)
		count = 1
	}

	remaining = al.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, count > al.limit, nil
}
