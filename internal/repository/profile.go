package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vladimiradmaev/wellnourish/internal/database"
	"github.com/vladimiradmaev/wellnourish/internal/domain"
	apperrors "github.com/vladimiradmaev/wellnourish/internal/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository handles profile data operations
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// UpsertProfile inserts the profile or replaces the existing one for userID
func (r *ProfileRepository) UpsertProfile(ctx context.Context, userID uuid.UUID, profile domain.UserProfile) error {
	row, err := profileToRow(userID, profile)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"age",
			"gender",
			"height",
			"weight",
			"activity_level",
			"goals",
			"dietary_preferences",
			"cuisine_preferences",
			"allergies",
			"medical_conditions",
			"plan_duration",
			"updated_at",
		}),
	}).Create(&row).Error
}

// GetProfile gets the profile stored for userID
func (r *ProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	var row database.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewPersistenceError(apperrors.CodeNotFound, err, "Profile not found")
		}
		return nil, err
	}
	return rowToProfile(row)
}

func profileToRow(userID uuid.UUID, p domain.UserProfile) (database.Profile, error) {
	row := database.Profile{
		UserID:        userID,
		Age:           p.Age,
		Gender:        string(p.Gender),
		Height:        p.HeightCM,
		Weight:        p.WeightKG,
		ActivityLevel: string(p.ActivityLevel),
		PlanDuration:  p.PlanDurationDays,
	}

	lists := []struct {
		dst *datatypes.JSON
		src []string
	}{
		{&row.Goals, p.Goals},
		{&row.DietaryPreferences, p.DietaryPreferences},
		{&row.CuisinePreferences, p.CuisinePreferences},
		{&row.Allergies, p.Allergies},
		{&row.MedicalConditions, p.MedicalConditions},
	}
	for _, l := range lists {
		data, err := encodeList(l.src)
		if err != nil {
			return database.Profile{}, err
		}
		*l.dst = data
	}
	return row, nil
}

func rowToProfile(row database.Profile) (*domain.UserProfile, error) {
	p := &domain.UserProfile{
		Age:              row.Age,
		Gender:           domain.Gender(row.Gender),
		HeightCM:         row.Height,
		WeightKG:         row.Weight,
		ActivityLevel:    domain.ActivityLevel(row.ActivityLevel),
		PlanDurationDays: row.PlanDuration,
	}

	lists := []struct {
		dst *[]string
		src datatypes.JSON
	}{
		{&p.Goals, row.Goals},
		{&p.DietaryPreferences, row.DietaryPreferences},
		{&p.CuisinePreferences, row.CuisinePreferences},
		{&p.Allergies, row.Allergies},
		{&p.MedicalConditions, row.MedicalConditions},
	}
	for _, l := range lists {
		list, err := decodeList(l.src)
		if err != nil {
			return nil, err
		}
		*l.dst = list
	}
	return p, nil
}

func encodeList(list []string) (datatypes.JSON, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to encode list: %w", err)
	}
	return datatypes.JSON(data), nil
}

func decodeList(raw datatypes.JSON) ([]string, error) {
	list := []string{}
	if len(raw) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return list, nil
}
