package middleware

import (
	"cryptopay/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ClaimsFromContext returns the verified claims set by AuthMiddleware,
// or nil when the request was not authenticated.
func ClaimsFromContext(c *fiber.Ctx) *models.UserClaims {
	claims, _ := c.Locals("claims").(*models.UserClaims)
	return claims
}

// AccountIDFromContext returns the authenticated account ID, or the
// empty string when the request was not authenticated.
func AccountIDFromContext(c *fiber.Ctx) string {
	id, _ := c.Locals("account_id").(string)
	return id
}
