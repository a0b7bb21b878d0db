package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vladimiradmaev/wellnourish/internal/config"
	"github.com/vladimiradmaev/wellnourish/internal/database/migrations"
	"github.com/vladimiradmaev/wellnourish/internal/logger"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Profile is the stored health profile, one row per user.
type Profile struct {
	UserID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Age                int            `gorm:"not null"`
	Gender             string         `gorm:"not null"`
	Height             float64        `gorm:"not null"`
	Weight             float64        `gorm:"not null"`
	ActivityLevel      string         `gorm:"not null"`
	Goals              datatypes.JSON `gorm:"type:jsonb;not null"`
	DietaryPreferences datatypes.JSON `gorm:"type:jsonb;not null"`
	CuisinePreferences datatypes.JSON `gorm:"type:jsonb;not null"`
	Allergies          datatypes.JSON `gorm:"type:jsonb;not null"`
	MedicalConditions  datatypes.JSON `gorm:"type:jsonb;not null"`
	PlanDuration       int            `gorm:"not null;default:7"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Profile) TableName() string { return "profiles" }

// GeneratedPlan is one saved plan. PlanData holds the plan JSON as returned
// to clients, including the user_profile summary.
type GeneratedPlan struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	PlanDuration int            `gorm:"not null"`
	PlanData     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time      `gorm:"not null"`
}

func (GeneratedPlan) TableName() string { return "generated_plans" }

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrations.LoadEmbedded(); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database connection established and migrations completed",
		"host", cfg.Host,
		"database", cfg.DBName,
	)
	return db, nil
}

// Close closes the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
