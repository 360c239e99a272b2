package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/CarlosSalomon/Celebrate/internal/auth"
)

const (
	// Locals keys set for authenticated requests.
	UserIDKey = "userID"
	ClaimsKey = "claims"
)

// Auth validates the bearer token and stores the caller identity in
// request locals. Websocket upgrades can't set headers from browsers,
// so a ?token= query parameter is accepted as a fallback.
func Auth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "no token")
		}

		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "bad token")
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// UserID returns the authenticated user id, or "" outside Auth.
func UserID(c *fiber.Ctx) string {
	uid, _ := c.Locals(UserIDKey).(string)
	return uid
}

// Claims returns the parsed token claims, or nil outside Auth.
func Claims(c *fiber.Ctx) *auth.Claims {
	cl, _ := c.Locals(ClaimsKey).(*auth.Claims)
	return cl
}
