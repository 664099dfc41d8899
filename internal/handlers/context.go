package handlers

import (
	"errors"
	"log"

	"lifeboard/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ContextHandler serves unified user context snapshots
type ContextHandler struct {
	aggregator *services.ContextAggregator
}

// NewContextHandler creates a new context handler
func NewContextHandler(aggregator *services.ContextAggregator) *ContextHandler {
	return &ContextHandler{aggregator: aggregator}
}

// GetContext returns the aggregated context for a user
// GET /api/context/:userId?refresh=true
func (h *ContextHandler) GetContext(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	forceRefresh := c.Query("refresh", "false") == "true"

	uctx, err := h.aggregator.GetContext(c.Context(), userID, forceRefresh)
	if err != nil {
		if errors.Is(err, services.ErrStoreUnavailable) {
			// Best-effort snapshot is still attached; surface it with a 503
			// so clients can decide whether a degraded view is acceptable
			log.Printf("❌ [CONTEXT-API] Store unreachable for user %s", userID)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":   "Life data store is unreachable",
				"context": uctx,
			})
		}
		log.Printf("❌ [CONTEXT-API] Failed to build context for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build user context",
		})
	}

	return c.JSON(uctx)
}
