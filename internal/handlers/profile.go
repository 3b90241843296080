package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/thaihana/internal/middleware"
)

// Me returns the authenticated user's profile. Sensitive fields are
// excluded by the model's JSON tags.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}
