package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	apperrors "github.com/vladimiradmaev/wellnourish/internal/errors"
	"github.com/vladimiradmaev/wellnourish/internal/logger"
	"github.com/vladimiradmaev/wellnourish/internal/middleware"
)

const msgInvalidData = "Invalid data"

func logError(c *fiber.Ctx, err error) {
	ctx := c.UserContext()
	apperrors.NewHandler(logger.FromContext(ctx)).Handle(ctx, err)
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func unauthorized(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
}

func currentUser(c *fiber.Ctx) (uuid.UUID, bool) {
	return middleware.UserID(c)
}

// hasCode reports whether err is an AppError carrying code.
func hasCode(err error, code string) bool {
	appErr, ok := apperrors.As(err)
	return ok && appErr.Code == code
}
