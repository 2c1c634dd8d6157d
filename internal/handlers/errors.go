package handlers

import (
	"errors"
	"log"

	"resto/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors to status codes. Unknown errors are logged and answered with
// a generic message naming action.
func respondError(c *fiber.Ctx, err error, action string) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verr.Errors,
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Resource not found",
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrDuplicate),
		errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrStatusConflict),
		errors.Is(err, models.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Could not " + action,
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid email or password",
		})
	case errors.Is(err, models.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
		})
	}

	log.Printf("Error trying to %s: %v", action, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not " + action,
	})
}

// badBody answers a request whose body could not be decoded. Values rejected while decoding,
// like a fractional quantity, are reported as validation failures.
func badBody(c *fiber.Ctx, err error) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return respondError(c, verr, "decode request")
	}
	log.Printf("Error parsing request body: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
