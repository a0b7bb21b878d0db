package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vladimiradmaev/wellnourish/internal/database"
	"github.com/vladimiradmaev/wellnourish/internal/domain"
	apperrors "github.com/vladimiradmaev/wellnourish/internal/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlanRepository handles generated plan data operations
type PlanRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db, now: time.Now}
}

// InsertPlan stores a plan and returns it with its assigned id and timestamp
func (r *PlanRepository) InsertPlan(ctx context.Context, userID uuid.UUID, planDuration int, plan *domain.GeneratedPlan) (*domain.PlanRecord, error) {
	data, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}

	row := database.GeneratedPlan{
		ID:           uuid.New(),
		UserID:       userID,
		PlanDuration: planDuration,
		PlanData:     datatypes.JSON(data),
		CreatedAt:    r.now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to insert plan: %w", err)
	}

	return &domain.PlanRecord{
		ID:           row.ID,
		UserID:       row.UserID,
		PlanDuration: row.PlanDuration,
		CreatedAt:    row.CreatedAt,
		Plan:         *plan,
	}, nil
}

// ListPlans returns the user's plans, newest first
func (r *PlanRepository) ListPlans(ctx context.Context, userID uuid.UUID) ([]domain.PlanRecord, error) {
	var rows []database.GeneratedPlan
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]domain.PlanRecord, 0, len(rows))
	for _, row := range rows {
		record, err := rowToRecord(row)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// GetPlan gets a single plan owned by userID
func (r *PlanRepository) GetPlan(ctx context.Context, userID, planID uuid.UUID) (*domain.PlanRecord, error) {
	var row database.GeneratedPlan
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewPersistenceError(apperrors.CodeNotFound, err, "Plan not found")
		}
		return nil, err
	}
	return rowToRecord(row)
}

// DeletePlan deletes a plan only if it belongs to userID and reports how
// many rows were removed
func (r *PlanRepository) DeletePlan(ctx context.Context, userID, planID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		Delete(&database.GeneratedPlan{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func rowToRecord(row database.GeneratedPlan) (*domain.PlanRecord, error) {
	var plan domain.GeneratedPlan
	if err := json.Unmarshal(row.PlanData, &plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan %s: %w", row.ID, err)
	}
	return &domain.PlanRecord{
		ID:           row.ID,
		UserID:       row.UserID,
		PlanDuration: row.PlanDuration,
		CreatedAt:    row.CreatedAt,
		Plan:         plan,
	}, nil
}
