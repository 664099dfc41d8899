package middleware

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	// Global limits (per IP)
	GlobalAPIMax        int // Max requests per minute for all API endpoints
	GlobalAPIExpiration time.Duration

	// Context read limits (per IP) - cached, cheap when warm
	ContextReadMax        int
	ContextReadExpiration time.Duration

	// Export limits (per IP) - streams a whole workbook
	ExportMax        int
	ExportExpiration time.Duration
}

// DefaultRateLimitConfig returns production-safe defaults
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		// Global: 200/min = ~3.3 req/sec - very generous for normal use
		GlobalAPIMax:        200,
		GlobalAPIExpiration: 1 * time.Minute,

		// Context reads: 120/min = 2 req/sec
		ContextReadMax:        120,
		ContextReadExpiration: 1 * time.Minute,

		// Exports: 6/min (builds an xlsx per request)
		ExportMax:        6,
		ExportExpiration: 1 * time.Minute,
	}
}

// LoadRateLimitConfig loads config from environment variables with defaults
func LoadRateLimitConfig() *RateLimitConfig {
	config := DefaultRateLimitConfig()

	if v := os.Getenv("RATE_LIMIT_GLOBAL_API"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.GlobalAPIMax = n
		}
	}

	if v := os.Getenv("RATE_LIMIT_CONTEXT_READ"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.ContextReadMax = n
		}
	}

	if v := os.Getenv("RATE_LIMIT_EXPORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.ExportMax = n
		}
	}

	// Development mode: more lenient limits
	if os.Getenv("ENVIRONMENT") == "development" {
		config.GlobalAPIMax = 1000
		config.ContextReadMax = 500
		log.Println("⚠️  [RATE-LIMIT] Development mode: using relaxed rate limits")
	}

	return config
}

// GlobalAPIRateLimiter creates a rate limiter for all API requests
func GlobalAPIRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.GlobalAPIMax,
		Expiration: config.GlobalAPIExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "global:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("🚫 [RATE-LIMIT] Global limit reached for IP: %s", c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many requests. Please slow down.",
				"retry_after": int(config.GlobalAPIExpiration.Seconds()),
			})
		},
		SkipFailedRequests:     false,
		SkipSuccessfulRequests: false,
	})
}

// ContextReadRateLimiter for context and streak read endpoints
func ContextReadRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.ContextReadMax,
		Expiration: config.ContextReadExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "ctxread:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("⚠️  [RATE-LIMIT] Context read limit reached for IP: %s on %s", c.IP(), c.Path())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many requests to this endpoint.",
				"retry_after": int(config.ContextReadExpiration.Seconds()),
			})
		},
	})
}

// ExportRateLimiter for workbook export requests
func ExportRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.ExportMax,
		Expiration: config.ExportExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "export:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("⚠️  [RATE-LIMIT] Export limit reached for IP: %s", c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many export requests. Please wait.",
				"retry_after": int(config.ExportExpiration.Seconds()),
			})
		},
	})
}
