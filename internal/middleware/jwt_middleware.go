package middleware

import (
	"errors"
	"log"
	"strings"

	"resto/internal/models"
	"resto/internal/services"

	"github.com/gofiber/fiber/v2"
)

const requestContextKey = "request_context"

// AuthRequired is a Fiber middleware to check for a valid JWT token backed by a live session.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		rc, err := authService.ValidateToken(c.UserContext(), parts[1])
		if err != nil {
			if !errors.Is(err, models.ErrUnauthorized) {
				log.Printf("Session lookup failed: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Could not verify session",
				})
			}
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(requestContextKey, *rc)
		return c.Next()
	}
}

// RequireRole lets the request through only when the caller holds one of roles. It must run
// after AuthRequired.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CurrentUser(c).HasRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "You do not have permission to perform this action",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the caller stored by AuthRequired, or the zero value on public routes.
func CurrentUser(c *fiber.Ctx) models.RequestContext {
	rc, _ := c.Locals(requestContextKey).(models.RequestContext)
	return rc
}
