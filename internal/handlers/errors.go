package handlers

import (
	"innkeep/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// respondError translates the controller error taxonomy into HTTP. Every
// handler funnels failures through here so the status mapping lives in
// one place: validation 400, authorization 403, unknown id 404, lost
// booking race 409, anything else 500.
func respondError(c *fiber.Ctx, err error) error {
	if ve, ok := apperrors.AsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  ve.Message,
			"reason": ve.Reason,
		})
	}

	if apperrors.IsAuthorization(err) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if apperrors.IsNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if apperrors.IsConflict(err) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
