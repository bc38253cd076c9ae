package handler

import (
	"errors"

	"go-retail-pos/internal/service"
	"go-retail-pos/pkg/idgen"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

// statusForError maps the domain error taxonomy onto HTTP statuses.
// Insufficient stock and invalid input are the caller's problem (422/400);
// exhausted id space is an operational condition callers may retry after
// intervention (503); anything else is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrInsufficientStock):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrBarcodeTaken):
		return fiber.StatusConflict
	case errors.Is(err, idgen.ErrIDSpaceExhausted):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
}
