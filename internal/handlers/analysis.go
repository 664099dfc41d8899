package handlers

import (
	"log"

	"lifeboard/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AnalysisHandler serves pattern analysis and streak results
type AnalysisHandler struct {
	analysis *services.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysis *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis}
}

// Analyze runs the full pattern analysis for a user
// GET /api/analysis/:userId
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	result, err := h.analysis.AnalyzeUser(c.Context(), userID)
	if err != nil {
		log.Printf("❌ [ANALYSIS-API] Analysis failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to analyze user data",
		})
	}

	return c.JSON(result)
}

// GetStreak returns current and best streaks for one habit
// GET /api/streaks/:userId/:habitId
func (h *AnalysisHandler) GetStreak(c *fiber.Ctx) error {
	userID := c.Params("userId")
	habitID := c.Params("habitId")
	if userID == "" || habitID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID and habit ID are required",
		})
	}

	streak, err := h.analysis.StreaksForUser(c.Context(), userID, habitID)
	if err != nil {
		log.Printf("⚠️  [ANALYSIS-API] Streak lookup failed for %s/%s: %v", userID, habitID, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Habit not found",
		})
	}

	return c.JSON(fiber.Map{
		"user_id":        userID,
		"habit_id":       habitID,
		"current_streak": streak.CurrentStreak,
		"best_streak":    streak.BestStreak,
	})
}
