package handlers

import (
	"context"
	"time"

	"lifeboard/internal/database"
	"lifeboard/internal/services"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db         *database.DB
	mongo      *database.MongoDB      // nil when Mongo is not configured
	redis      *services.RedisService // nil when Redis is not configured
	aggregator *services.ContextAggregator
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB, mongo *database.MongoDB, redis *services.RedisService, aggregator *services.ContextAggregator) *HealthHandler {
	return &HealthHandler{db: db, mongo: mongo, redis: redis, aggregator: aggregator}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	status := "healthy"
	checks := fiber.Map{}

	if err := h.db.PingContext(ctx); err != nil {
		status = "degraded"
		checks["database"] = "unreachable"
	} else {
		checks["database"] = "ok"
	}

	if h.mongo != nil {
		if err := h.mongo.Ping(ctx); err != nil {
			status = "degraded"
			checks["mongodb"] = "unreachable"
		} else {
			checks["mongodb"] = "ok"
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			status = "degraded"
			checks["redis"] = "unreachable"
		} else {
			checks["redis"] = "ok"
		}
	}

	stats := h.aggregator.CacheStats()

	code := fiber.StatusOK
	if status != "healthy" {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":         status,
		"checks":         checks,
		"cached_entries": stats.TotalEntries,
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}
