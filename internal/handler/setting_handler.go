package handler

import (
	"go-retail-pos/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type SettingHandler struct {
	settingRepo repository.SettingRepository
}

func NewSettingHandler(repo repository.SettingRepository) *SettingHandler {
	return &SettingHandler{settingRepo: repo}
}

// GetSettings exposes the typed store settings (VAT rate, low-stock
// threshold, expiry alert window) consumed by the POS frontend.
func (h *SettingHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settingRepo.Load()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load settings"})
	}
	return c.JSON(settings)
}
