package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/wellnourish/internal/domain"
	apperrors "github.com/vladimiradmaev/wellnourish/internal/errors"
)

const (
	minAge, maxAge                   = 10, 100
	minHeightCM, maxHeightCM         = 50, 300
	minWeightKG, maxWeightKG         = 20, 500
	minPlanDuration, maxPlanDuration = 1, 30
)

var allowedGenders = map[string]struct{}{
	string(domain.GenderMale):   {},
	string(domain.GenderFemale): {},
	string(domain.GenderOther):  {},
}

var allowedActivityLevels = map[string]struct{}{
	string(domain.ActivitySedentary):        {},
	string(domain.ActivityLightlyActive):    {},
	string(domain.ActivityModeratelyActive): {},
	string(domain.ActivityVeryActive):       {},
	string(domain.ActivityExtraActive):      {},
}

// Validate turns the untyped request payload into a UserProfile. It stops at
// the first violated field, checking fields in a fixed order so the same
// input always reports the same error.
func Validate(raw map[string]any) (*domain.UserProfile, error) {
	if raw == nil {
		return nil, apperrors.NewValidationError("body", "profile data is required")
	}

	var (
		p   domain.UserProfile
		err error
	)

	if p.Age, err = intInRange(raw, "age", minAge, maxAge); err != nil {
		return nil, err
	}
	gender, err := enum(raw, "gender", allowedGenders, "male, female, other")
	if err != nil {
		return nil, err
	}
	p.Gender = domain.Gender(gender)
	if p.HeightCM, err = numberInRange(raw, "height", minHeightCM, maxHeightCM); err != nil {
		return nil, err
	}
	if p.WeightKG, err = numberInRange(raw, "weight", minWeightKG, maxWeightKG); err != nil {
		return nil, err
	}
	activity, err := enum(raw, "activityLevel", allowedActivityLevels,
		"sedentary, lightly_active, moderately_active, very_active, extra_active")
	if err != nil {
		return nil, err
	}
	p.ActivityLevel = domain.ActivityLevel(activity)

	if p.Goals, err = stringList(raw, "goals", true); err != nil {
		return nil, err
	}
	if p.DietaryPreferences, err = stringList(raw, "dietaryPreferences", false); err != nil {
		return nil, err
	}
	if p.CuisinePreferences, err = stringList(raw, "cuisinePreferences", true); err != nil {
		return nil, err
	}
	if p.Allergies, err = stringList(raw, "allergies", false); err != nil {
		return nil, err
	}
	if p.MedicalConditions, err = stringList(raw, "medicalConditions", false); err != nil {
		return nil, err
	}
	if p.PlanDurationDays, err = planDuration(raw); err != nil {
		return nil, err
	}

	return &p, nil
}

// ValidateJSON decodes body into an untyped map and validates it. Malformed
// JSON is reported as a validation error on the body.
func ValidateJSON(body []byte) (*domain.UserProfile, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperrors.NewValidationError("body", "request body must be a JSON object")
	}
	return Validate(raw)
}

func invalid(field, format string, args ...any) error {
	return apperrors.NewValidationError(field, fmt.Sprintf(format, args...))
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func numberInRange(raw map[string]any, field string, min, max float64) (float64, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return 0, invalid(field, "%s is required", field)
	}
	n, ok := toNumber(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, invalid(field, "%s must be a number", field)
	}
	if n < min || n > max {
		return 0, invalid(field, "%s must be between %g and %g", field, min, max)
	}
	return n, nil
}

func intInRange(raw map[string]any, field string, min, max int) (int, error) {
	n, err := numberInRange(raw, field, float64(min), float64(max))
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) {
		return 0, invalid(field, "%s must be a whole number", field)
	}
	return int(n), nil
}

func enum(raw map[string]any, field string, allowed map[string]struct{}, choices string) (string, error) {
	s, ok := raw[field].(string)
	if !ok {
		return "", invalid(field, "%s must be one of: %s", field, choices)
	}
	s = strings.TrimSpace(s)
	if _, ok := allowed[s]; !ok {
		return "", invalid(field, "%s must be one of: %s", field, choices)
	}
	return s, nil
}

func stringList(raw map[string]any, field string, required bool) ([]string, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		if required {
			return nil, invalid(field, "%s must contain at least one item", field)
		}
		return []string{}, nil
	}

	var items []any
	switch list := v.(type) {
	case []any:
		items = list
	case []string:
		for _, s := range list {
			items = append(items, s)
		}
	default:
		return nil, invalid(field, "%s must be a list of strings", field)
	}

	if required && len(items) == 0 {
		return nil, invalid(field, "%s must contain at least one item", field)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, invalid(field, "%s must be a list of strings", field)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, invalid(field, "%s must not contain empty values", field)
		}
		out = append(out, s)
	}
	return out, nil
}

// planDuration accepts a number or a numeric string; the onboarding form
// posts it as the string "7".
func planDuration(raw map[string]any) (int, error) {
	const field = "planDuration"
	v, ok := raw[field]
	if !ok || v == nil {
		return domain.DefaultPlanDuration, nil
	}

	var n float64
	switch val := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, invalid(field, "%s must be a whole number of days", field)
		}
		n = f
	default:
		f, ok := toNumber(val)
		if !ok {
			return 0, invalid(field, "%s must be a whole number of days", field)
		}
		n = f
	}

	if n != math.Trunc(n) || n < minPlanDuration || n > maxPlanDuration {
		return 0, invalid(field, "%s must be a whole number of days between %d and %d", field, minPlanDuration, maxPlanDuration)
	}
	return int(n), nil
}
