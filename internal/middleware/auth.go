// Package middleware provides HTTP middleware for the fiber app:
// JWT authentication and request metrics.
package middleware

import (
	"log"
	"strings"

	"cryptopay/internal/services/auth"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates the Bearer token and places the verified
// claims in the request locals for handlers to read.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := m.authService.VerifyToken(tokenString)
	if err != nil {
		log.Printf("middleware: token rejected: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	c.Locals("claims", claims)
	c.Locals("account_id", claims.AccountID)
	return c.Next()
}

// AdminOnly requires the authenticated claims to carry the admin flag.
// Must run after Handler.
func (m *AuthMiddleware) AdminOnly(c *fiber.Ctx) error {
	claims := ClaimsFromContext(c)
	if claims == nil || !claims.IsAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
	}
	return c.Next()
}
