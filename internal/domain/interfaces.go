package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProfileStore persists the profile behind an authenticated user id
type ProfileStore interface {
	UpsertProfile(ctx context.Context, userID uuid.UUID, profile UserProfile) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
}

// PlanStore persists generated plans. It assigns ids and timestamps and is
// append-only apart from DeletePlan.
type PlanStore interface {
	InsertPlan(ctx context.Context, userID uuid.UUID, planDuration int, plan *GeneratedPlan) (*PlanRecord, error)
	ListPlans(ctx context.Context, userID uuid.UUID) ([]PlanRecord, error)
	GetPlan(ctx context.Context, userID, planID uuid.UUID) (*PlanRecord, error)
	// DeletePlan returns the number of rows removed. Zero means the plan does
	// not exist or belongs to someone else.
	DeletePlan(ctx context.Context, userID, planID uuid.UUID) (int64, error)
}

// PlanCache keeps the most recent plan per user so it can be shown even when
// saving it failed
type PlanCache interface {
	SetLatest(ctx context.Context, userID uuid.UUID, plan CachedPlan) error
	GetLatest(ctx context.Context, userID uuid.UUID) (*CachedPlan, bool, error)
	ClearLatest(ctx context.Context, userID uuid.UUID) error
}
