package handlers

import (
	"log"

	"lifeboard/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CacheHandler exposes cache invalidation and diagnostics
type CacheHandler struct {
	aggregator *services.ContextAggregator
	redis      *services.RedisService // nil when Redis is not configured
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(aggregator *services.ContextAggregator, redis *services.RedisService) *CacheHandler {
	return &CacheHandler{aggregator: aggregator, redis: redis}
}

// InvalidateUser drops one user's cached context on every instance
// POST /api/cache/invalidate/:userId
func (h *CacheHandler) InvalidateUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	h.aggregator.InvalidateUser(userID)
	h.broadcast(c, userID)

	return c.JSON(fiber.Map{
		"status":  "invalidated",
		"user_id": userID,
	})
}

// InvalidateAll clears the whole context cache on every instance
// POST /api/cache/invalidate
func (h *CacheHandler) InvalidateAll(c *fiber.Ctx) error {
	h.aggregator.InvalidateAll()
	h.broadcast(c, "*")

	return c.JSON(fiber.Map{
		"status": "invalidated",
		"scope":  "all",
	})
}

// Stats returns cache occupancy diagnostics
// GET /api/cache/stats
func (h *CacheHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.aggregator.CacheStats())
}

// broadcast relays the invalidation to peer instances via Redis pub/sub.
// The local cache is already invalidated, so a publish failure only delays
// peers until their TTL expires.
func (h *CacheHandler) broadcast(c *fiber.Ctx, payload string) {
	if h.redis == nil {
		return
	}
	if err := h.redis.PublishInvalidation(c.Context(), payload); err != nil {
		log.Printf("⚠️  [CACHE-API] Failed to broadcast invalidation %q: %v", payload, err)
	}
}
