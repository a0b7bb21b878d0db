package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/vladimiradmaev/wellnourish/internal/domain"
	apperrors "github.com/vladimiradmaev/wellnourish/internal/errors"
	"github.com/vladimiradmaev/wellnourish/internal/services"
	"github.com/vladimiradmaev/wellnourish/internal/validation"
)

type planApplicationService interface {
	GeneratePlan(ctx context.Context, profile domain.UserProfile) (*domain.GeneratedPlan, error)
	Onboard(ctx context.Context, userID uuid.UUID, profile domain.UserProfile) (*services.OnboardResult, error)
	SavePlan(ctx context.Context, userID uuid.UUID, planDuration int, plan *domain.GeneratedPlan) (*domain.PlanRecord, error)
	ListPlans(ctx context.Context, userID uuid.UUID) ([]domain.PlanRecord, error)
	GetPlan(ctx context.Context, userID, planID uuid.UUID) (*domain.PlanRecord, error)
	DeletePlan(ctx context.Context, userID, planID uuid.UUID) error
	LatestPlan(ctx context.Context, userID uuid.UUID) (*domain.CachedPlan, error)
}

type planRecordResponse struct {
	ID           uuid.UUID            `json:"id"`
	CreatedAt    time.Time            `json:"created_at"`
	PlanDuration int                  `json:"plan_duration"`
	Plan         domain.GeneratedPlan `json:"plan"`
}

type onboardingResponse struct {
	Plan    *domain.GeneratedPlan `json:"plan"`
	PlanID  *uuid.UUID            `json:"plan_id"`
	Saved   bool                  `json:"saved"`
	Warning string                `json:"warning,omitempty"`
}

type latestPlanResponse struct {
	PlanID      *uuid.UUID           `json:"plan_id"`
	Saved       bool                 `json:"saved"`
	GeneratedAt time.Time            `json:"generated_at"`
	Plan        domain.GeneratedPlan `json:"plan"`
}

type savePlanRequest struct {
	PlanDuration domain.FlexInt        `json:"planDuration"`
	Plan         *domain.GeneratedPlan `json:"plan"`
}

type PlanHandler struct {
	service planApplicationService
}

func NewPlanHandler(service planApplicationService) *PlanHandler {
	return &PlanHandler{service: service}
}

// GeneratePlan validates the profile in the body and returns a freshly
// generated plan without storing it.
func (h *PlanHandler) GeneratePlan(c *fiber.Ctx) error {
	if _, ok := currentUser(c); !ok {
		return unauthorized(c)
	}

	profile, err := validation.ValidateJSON(c.Body())
	if err != nil {
		logError(c, err)
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidData)
	}

	plan, err := h.service.GeneratePlan(c.UserContext(), *profile)
	if err != nil {
		logError(c, err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to generate plan")
	}
	return c.JSON(plan)
}

// Onboarding saves the profile, generates a plan and stores it. A plan that
// could not be stored is still returned with saved=false.
func (h *PlanHandler) Onboarding(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	profile, err := validation.ValidateJSON(c.Body())
	if err != nil {
		logError(c, err)
		return validationError(c, err)
	}

	result, err := h.service.Onboard(c.UserContext(), userID, *profile)
	if err != nil {
		logError(c, err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to generate plan")
	}

	resp := onboardingResponse{
		Plan:    result.Plan,
		Saved:   result.Saved,
		Warning: result.Warning,
	}
	if result.Saved {
		id := result.PlanID
		resp.PlanID = &id
	}
	return c.JSON(resp)
}

func (h *PlanHandler) SavePlan(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req savePlanRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.Plan == nil {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidData)
	}

	record, err := h.service.SavePlan(c.UserContext(), userID, req.PlanDuration.Int(), req.Plan)
	if err != nil {
		logError(c, err)
		if apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			return validationError(c, err)
		}
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to save plan")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":         record.ID,
		"created_at": record.CreatedAt,
	})
}

func (h *PlanHandler) ListPlans(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	records, err := h.service.ListPlans(c.UserContext(), userID)
	if err != nil {
		logError(c, err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load plans")
	}

	plans := make([]planRecordResponse, 0, len(records))
	for _, r := range records {
		plans = append(plans, toPlanRecordResponse(r))
	}
	return c.JSON(fiber.Map{"plans": plans})
}

func (h *PlanHandler) GetLatestPlan(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	latest, err := h.service.LatestPlan(c.UserContext(), userID)
	if err != nil {
		if hasCode(err, apperrors.CodeNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "No recent plan found")
		}
		logError(c, err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load plan")
	}

	resp := latestPlanResponse{
		Saved:       latest.PlanID != uuid.Nil,
		GeneratedAt: latest.GeneratedAt,
		Plan:        latest.Plan,
	}
	if resp.Saved {
		id := latest.PlanID
		resp.PlanID = &id
	}
	return c.JSON(resp)
}

func (h *PlanHandler) GetPlan(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	planID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid plan id")
	}

	record, err := h.service.GetPlan(c.UserContext(), userID, planID)
	if err != nil {
		if hasCode(err, apperrors.CodeNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Plan not found")
		}
		logError(c, err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load plan")
	}
	return c.JSON(toPlanRecordResponse(*record))
}

func (h *PlanHandler) DeletePlan(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	planID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid plan id")
	}

	if err := h.service.DeletePlan(c.UserContext(), userID, planID); err != nil {
		logError(c, err)
		if hasCode(err, apperrors.CodeDeleteDenied) {
			return errorJSON(c, fiber.StatusForbidden, "Could not delete plan. You might not have permission.")
		}
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to delete plan")
	}
	return c.JSON(fiber.Map{"deleted": true})
}

func toPlanRecordResponse(r domain.PlanRecord) planRecordResponse {
	return planRecordResponse{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		PlanDuration: r.PlanDuration,
		Plan:         r.Plan,
	}
}
