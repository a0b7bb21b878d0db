package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vladimiradmaev/wellnourish/internal/domain"
	apperrors "github.com/vladimiradmaev/wellnourish/internal/errors"
	"github.com/vladimiradmaev/wellnourish/internal/logger"
	"github.com/vladimiradmaev/wellnourish/internal/parser"
	"github.com/vladimiradmaev/wellnourish/internal/prompt"
)

const (
	msgSaveFailed   = "Failed to save plan"
	msgDeleteFailed = "Failed to delete plan"
	msgDeleteDenied = "Could not delete plan. You might not have permission."

	// Shown to the user when onboarding produced a plan that could not be stored.
	unsavedPlanWarning = "Your plan was generated but could not be saved. It is kept as your latest plan; try saving it again later."

	maxLoggedRawText = 4000
)

// PlanOptions tunes plan generation.
type PlanOptions struct {
	Depth   parser.Depth
	Timeout time.Duration
}

// OnboardResult is the outcome of Onboard. Plan is always set; Saved reports
// whether it also reached the plan store.
type OnboardResult struct {
	Plan    *domain.GeneratedPlan
	PlanID  uuid.UUID
	Saved   bool
	Warning string
}

type PlanService struct {
	generator *Generator
	profiles  domain.ProfileStore
	plans     domain.PlanStore
	cache     domain.PlanCache
	opts      PlanOptions
}

func NewPlanService(generator *Generator, profiles domain.ProfileStore, plans domain.PlanStore, cache domain.PlanCache, opts PlanOptions) *PlanService {
	if opts.Depth == "" {
		opts.Depth = parser.Shallow
	}
	return &PlanService{
		generator: generator,
		profiles:  profiles,
		plans:     plans,
		cache:     cache,
		opts:      opts,
	}
}

// GeneratePlan runs prompt building, model generation and parsing for an
// already validated profile. Nothing is persisted.
func (s *PlanService) GeneratePlan(ctx context.Context, profile domain.UserProfile) (*domain.GeneratedPlan, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	log := logger.FromContext(ctx)
	start := time.Now()

	raw, err := s.generator.Generate(ctx, prompt.Build(profile))
	if err != nil {
		return nil, err
	}

	plan, err := parser.Parse(raw, parser.Options{
		Depth:        s.opts.Depth,
		ExpectedDays: profile.PlanDurationDays,
	})
	if err != nil {
		log.Error("Failed to parse model response",
			"error", err,
			"raw_text", truncate(raw, maxLoggedRawText),
		)
		return nil, err
	}

	log.Info("Plan generated",
		"days", len(plan.DailyPlan),
		"daily_calories", plan.NutritionSummary.DailyCalories.Int(),
		"duration", time.Since(start),
	)
	return plan, nil
}

// Onboard saves the profile, generates a plan and then tries to persist it.
// Only generation failures are returned as errors; persistence problems are
// logged and reported through OnboardResult.
func (s *PlanService) Onboard(ctx context.Context, userID uuid.UUID, profile domain.UserProfile) (*OnboardResult, error) {
	log := logger.FromContext(ctx).With("user_id", userID.String())

	if err := s.profiles.UpsertProfile(ctx, userID, profile); err != nil {
		log.Warn("Failed to save profile during onboarding", "error", err)
	}

	plan, err := s.GeneratePlan(ctx, profile)
	if err != nil {
		return nil, err
	}
	plan.UserProfile = profile.Summary(plan.NutritionSummary.DailyCalories.Int())

	result := &OnboardResult{Plan: plan}
	cached := domain.CachedPlan{GeneratedAt: time.Now().UTC(), Plan: *plan}
	if err := s.cache.SetLatest(ctx, userID, cached); err != nil {
		log.Warn("Failed to cache latest plan", "error", err)
	}

	record, err := s.plans.InsertPlan(ctx, userID, profile.PlanDurationDays, plan)
	if err != nil {
		log.Error("Failed to save generated plan", "error", err)
		result.Warning = unsavedPlanWarning
		return result, nil
	}

	result.PlanID = record.ID
	result.Saved = true
	cached.PlanID = record.ID
	if err := s.cache.SetLatest(ctx, userID, cached); err != nil {
		log.Warn("Failed to cache latest plan", "error", err)
	}
	return result, nil
}

// SavePlan stores a plan the client already holds, e.g. one kept after a
// failed onboarding save.
func (s *PlanService) SavePlan(ctx context.Context, userID uuid.UUID, planDuration int, plan *domain.GeneratedPlan) (*domain.PlanRecord, error) {
	if plan == nil || len(plan.DailyPlan) == 0 {
		return nil, apperrors.NewValidationError("plan", "plan must contain a daily_plan")
	}
	if planDuration <= 0 {
		planDuration = len(plan.DailyPlan)
	}

	record, err := s.plans.InsertPlan(ctx, userID, planDuration, plan)
	if err != nil {
		return nil, apperrors.NewPersistenceError(apperrors.CodeSaveFailed, err, msgSaveFailed)
	}

	cached := domain.CachedPlan{PlanID: record.ID, GeneratedAt: record.CreatedAt, Plan: record.Plan}
	if err := s.cache.SetLatest(ctx, userID, cached); err != nil {
		logger.FromContext(ctx).Warn("Failed to cache latest plan", "user_id", userID.String(), "error", err)
	}
	return record, nil
}

func (s *PlanService) ListPlans(ctx context.Context, userID uuid.UUID) ([]domain.PlanRecord, error) {
	records, err := s.plans.ListPlans(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("failed to list plans: %w", err))
	}
	return records, nil
}

func (s *PlanService) GetPlan(ctx context.Context, userID, planID uuid.UUID) (*domain.PlanRecord, error) {
	record, err := s.plans.GetPlan(ctx, userID, planID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypePersistence) {
			return nil, err
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("failed to get plan: %w", err))
	}
	return record, nil
}

// DeletePlan removes a plan owned by userID. Zero affected rows means the
// plan is missing or not owned and is reported as DELETE_DENIED.
func (s *PlanService) DeletePlan(ctx context.Context, userID, planID uuid.UUID) error {
	rows, err := s.plans.DeletePlan(ctx, userID, planID)
	if err != nil {
		return apperrors.NewPersistenceError(apperrors.CodeDeleteFailed, err, msgDeleteFailed)
	}
	if rows == 0 {
		return apperrors.NewPersistenceError(apperrors.CodeDeleteDenied, nil, msgDeleteDenied).
			WithContext("plan_id", planID.String())
	}

	latest, ok, err := s.cache.GetLatest(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to read latest plan after delete", "user_id", userID.String(), "error", err)
		return nil
	}
	if ok && latest.PlanID == planID {
		if err := s.cache.ClearLatest(ctx, userID); err != nil {
			logger.FromContext(ctx).Warn("Failed to evict deleted plan from cache", "user_id", userID.String(), "error", err)
		}
	}
	return nil
}

// LatestPlan returns the most recently generated plan, saved or not.
func (s *PlanService) LatestPlan(ctx context.Context, userID uuid.UUID) (*domain.CachedPlan, error) {
	latest, ok, err := s.cache.GetLatest(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("failed to read latest plan: %w", err))
	}
	if !ok {
		return nil, apperrors.NewPersistenceError(apperrors.CodeNotFound, nil, "No recent plan found")
	}
	return latest, nil
}

func (s *PlanService) SaveProfile(ctx context.Context, userID uuid.UUID, profile domain.UserProfile) error {
	if err := s.profiles.UpsertProfile(ctx, userID, profile); err != nil {
		return apperrors.NewPersistenceError(apperrors.CodeSaveFailed, err, "Failed to update profile. Please try again.")
	}
	return nil
}

func (s *PlanService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if appErr, ok := apperrors.As(err); ok && appErr.Code == apperrors.CodeNotFound {
			return nil, err
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("failed to get profile: %w", err))
	}
	return profile, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
