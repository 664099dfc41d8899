package handlers

import (
	"fmt"
	"log"

	"lifeboard/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ExportHandler streams a user's data as an xlsx workbook
type ExportHandler struct {
	export *services.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(export *services.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// Export builds and streams the workbook
// GET /api/export/:userId
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	data, err := h.export.BuildWorkbook(c.Context(), userID)
	if err != nil {
		log.Printf("❌ [EXPORT-API] Export failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build export workbook",
		})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="lifeboard-%s.xlsx"`, userID))
	return c.Send(data)
}
