package handlers

import (
	"saccohub/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// actor builds the acting principal from the auth middleware locals.
func actor(c *fiber.Ctx) domain.Principal {
	id, _ := c.Locals("userID").(string)
	role, _ := c.Locals("role").(string)
	return domain.Principal{ID: id, Role: role}
}
