package handler

import (
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetSummary returns today's trading figures, stock signals and best
// sellers in one payload.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.service.GetSummary(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard summary"})
	}
	return c.JSON(summary)
}
