package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/golang-jwt/jwt/v4"
)

// RateLimit throttles a route per authenticated user. Create endpoints stack
// an hourly and a daily instance to get the combined limits (skills and
// offers: 10/hour + 100/day, feedback: 5/hour + 30/day). Must run after
// Protected so the JWT claims are available; unauthenticated callers fall
// back to their IP.
func RateLimit(scope string, max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if token, ok := c.Locals("user").(*jwt.Token); ok {
				if claims, ok := token.Claims.(jwt.MapClaims); ok {
					if userID, ok := claims["user_id"].(string); ok {
						return fmt.Sprintf("%s:%s:%s", scope, window, userID)
					}
				}
			}
			return fmt.Sprintf("%s:%s:%s", scope, window, c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Request was throttled. Please try again later.",
			})
		},
	})
}
