package domain

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtraActive      ActivityLevel = "extra_active"
)

// DefaultPlanDuration is the number of days the onboarding flow asks for.
const DefaultPlanDuration = 7

// UserProfile is the validated input to plan generation
type UserProfile struct {
	Age                int           `json:"age"`
	Gender             Gender        `json:"gender"`
	HeightCM           float64       `json:"height"`
	WeightKG           float64       `json:"weight"`
	ActivityLevel      ActivityLevel `json:"activityLevel"`
	Goals              []string      `json:"goals"`
	DietaryPreferences []string      `json:"dietaryPreferences"`
	CuisinePreferences []string      `json:"cuisinePreferences"`
	Allergies          []string      `json:"allergies"`
	MedicalConditions  []string      `json:"medicalConditions"`
	PlanDurationDays   int           `json:"planDuration"`
}

// Summary is the trimmed copy of the profile embedded in a saved plan.
func (p UserProfile) Summary(dailyCalories int) *ProfileSummary {
	return &ProfileSummary{
		Goals:              p.Goals,
		DietaryPreferences: p.DietaryPreferences,
		CuisinePreferences: p.CuisinePreferences,
		Calories:           dailyCalories,
	}
}

// GeneratedPlan is the nutrition and workout plan returned by the model
type GeneratedPlan struct {
	NutritionSummary NutritionSummary   `json:"nutrition_summary"`
	DailyPlan        []DayPlan          `json:"daily_plan"`
	Tips             []string           `json:"tips"`
	ShoppingList     []ShoppingCategory `json:"shopping_list"`
	UserProfile      *ProfileSummary    `json:"user_profile,omitempty"`
}

type NutritionSummary struct {
	DailyCalories FlexInt `json:"daily_calories"`
	Macros        Macros  `json:"macros"`
	HydrationGoal string  `json:"hydration_goal"`
}

type Macros struct {
	Protein FlexString `json:"protein"`
	Carbs   FlexString `json:"carbs"`
	Fats    FlexString `json:"fats"`
}

type DayPlan struct {
	Day     FlexInt `json:"day"`
	Meals   Meals   `json:"meals"`
	Workout Workout `json:"workout"`
}

type Meals struct {
	Breakfast MealDetailed `json:"breakfast"`
	Lunch     MealDetailed `json:"lunch"`
	Dinner    MealDetailed `json:"dinner"`
	Snack     MealDetailed `json:"snack"`
}

// All returns the meals of a day in serving order.
func (m Meals) All() []MealDetailed {
	return []MealDetailed{m.Breakfast, m.Lunch, m.Dinner, m.Snack}
}

// MealDetailed describes one meal; the snack usually omits preparation.
type MealDetailed struct {
	Name        string   `json:"name"`
	Calories    FlexInt  `json:"calories"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Preparation string   `json:"preparation,omitempty"`
}

type Workout struct {
	Type      string          `json:"type"`
	Duration  FlexString      `json:"duration"`
	Warmup    string          `json:"warmup"`
	Exercises []ExerciseEntry `json:"exercises"`
	Cooldown  string          `json:"cooldown"`
}

type ShoppingCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// ProfileSummary is attached to a plan for history display.
type ProfileSummary struct {
	Goals              []string `json:"goals"`
	DietaryPreferences []string `json:"dietary_preferences"`
	CuisinePreferences []string `json:"cuisine_preferences"`
	Calories           int      `json:"calories"`
}

// PlanRecord is a persisted plan with the identity assigned by the store.
type PlanRecord struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	PlanDuration int
	CreatedAt    time.Time
	Plan         GeneratedPlan
}

// CachedPlan is the latest plan generated for a user. PlanID is uuid.Nil
// when the plan could not be saved.
type CachedPlan struct {
	PlanID      uuid.UUID     `json:"plan_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Plan        GeneratedPlan `json:"plan"`
}
