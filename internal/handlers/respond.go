package handlers

import (
	"errors"

	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/apperr"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/services"
	"github.com/gofiber/fiber/v2"
)

// errStatus maps service error kinds onto HTTP statuses.
func errStatus(err error) int {
	switch {
	case apperr.IsValidation(err), errors.Is(err, services.ErrInvalidTransition):
		return fiber.StatusBadRequest
	case apperr.IsConflict(err):
		return fiber.StatusConflict
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrUnauthorized):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
}
