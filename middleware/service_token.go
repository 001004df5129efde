// middleware/service_token.go
package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ServiceTokenMiddleware gates mutating endpoints behind a shared token when
// SERVICE_TOKEN is set. With the variable unset it passes everything through
// unchanged.
func ServiceTokenMiddleware() fiber.Handler {
	expectedToken := os.Getenv("SERVICE_TOKEN")
	if expectedToken == "" {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	log.Println("🔐 SERVICE_TOKEN set, mutating endpoints require a token")
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Printf("🚫 [SERVICE_TOKEN] Missing Authorization header for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "service token missing",
			})
		}

		// Accept "Bearer <token>" or the raw token value.
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if token != expectedToken {
			log.Printf("❌ [SERVICE_TOKEN] Invalid token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "invalid service token",
			})
		}

		return c.Next()
	}
}
