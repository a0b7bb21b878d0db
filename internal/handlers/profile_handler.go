package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/vladimiradmaev/wellnourish/internal/domain"
	apperrors "github.com/vladimiradmaev/wellnourish/internal/errors"
	"github.com/vladimiradmaev/wellnourish/internal/validation"
)

type profileApplicationService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	SaveProfile(ctx context.Context, userID uuid.UUID, profile domain.UserProfile) error
}

type ProfileHandler struct {
	service profileApplicationService
}

func NewProfileHandler(service profileApplicationService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	profile, err := h.service.GetProfile(c.UserContext(), userID)
	if err != nil {
		if hasCode(err, apperrors.CodeNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Profile not found")
		}
		logError(c, err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load profile")
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	profile, err := validation.ValidateJSON(c.Body())
	if err != nil {
		logError(c, err)
		return validationError(c, err)
	}

	if err := h.service.SaveProfile(c.UserContext(), userID, *profile); err != nil {
		logError(c, err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to update profile. Please try again.")
	}
	return c.JSON(profile)
}

// validationError reports which field failed along with the generic message.
func validationError(c *fiber.Ctx, err error) error {
	body := fiber.Map{"error": msgInvalidData}
	if appErr, ok := apperrors.As(err); ok {
		if field := appErr.Field(); field != "" {
			body["field"] = field
		}
		body["message"] = appErr.Message
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}
