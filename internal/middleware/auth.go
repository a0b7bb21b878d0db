package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/vladimiradmaev/wellnourish/internal/auth"
	"github.com/vladimiradmaev/wellnourish/internal/logger"
)

const userIDKey = "user_id"

// AuthRequired rejects requests without a valid bearer token. Every failure
// gets the same 401 body so callers cannot tell the cases apart.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c)
		}

		claims, err := auth.ValidateToken(parts[1], secret)
		if err != nil {
			logger.FromContext(c.UserContext()).Debug("Rejected token", "error", err)
			return unauthorized(c)
		}

		c.Locals(userIDKey, claims.UserID)
		c.SetUserContext(logger.NewContext(c.UserContext(),
			logger.FromContext(c.UserContext()).With("user_id", claims.UserID.String())))

		return c.Next()
	}
}

// UserID returns the id stored by AuthRequired.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(userIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}
