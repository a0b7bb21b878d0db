package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vladimiradmaev/wellnourish/internal/domain"
	apperrors "github.com/vladimiradmaev/wellnourish/internal/errors"
)

// Depth controls how much of the decoded plan is checked.
type Depth string

const (
	// Shallow checks only that nutrition_summary exists and daily_plan is a
	// non-empty array; everything below is trusted.
	Shallow Depth = "shallow"
	// Strict additionally checks day numbering, plan length and meals.
	Strict Depth = "strict"
)

// ParseDepth maps a config value onto a Depth, defaulting to Shallow.
func ParseDepth(s string) Depth {
	if strings.EqualFold(strings.TrimSpace(s), string(Strict)) {
		return Strict
	}
	return Shallow
}

type Options struct {
	Depth Depth
	// ExpectedDays is the requested plan duration; strict mode requires
	// daily_plan to have exactly this many entries when it is positive.
	ExpectedDays int
}

const (
	fence     = "```"
	jsonFence = "```json"
)

// Sanitize removes leading and trailing Markdown code fences and surrounding
// whitespace. It strips until nothing changes, so Sanitize(Sanitize(x)) ==
// Sanitize(x).
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		before := s
		switch {
		case len(s) >= len(jsonFence) && strings.EqualFold(s[:len(jsonFence)], jsonFence):
			s = s[len(jsonFence):]
		case strings.HasPrefix(s, fence):
			s = s[len(fence):]
		}
		s = strings.TrimSuffix(s, fence)
		s = strings.TrimSpace(s)
		if s == before {
			return s
		}
	}
}

// Parse sanitizes raw model output and decodes it into a plan. Failures are
// generation errors of kind invalid_json or invalid_shape; the raw text is
// attached to the error so callers can log it.
func Parse(raw string, opts Options) (*domain.GeneratedPlan, error) {
	cleaned := Sanitize(raw)

	var top any
	if err := json.Unmarshal([]byte(cleaned), &top); err != nil {
		return nil, apperrors.NewGenerationError(apperrors.KindInvalidJSON, err, "Invalid JSON response from AI").
			WithContext("raw_text", raw)
	}

	if err := checkTopLevel(top); err != nil {
		return nil, shapeError(err, raw)
	}

	var plan domain.GeneratedPlan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, shapeError(err, raw)
	}

	if opts.Depth == Strict {
		if err := checkStrict(&plan, opts.ExpectedDays); err != nil {
			return nil, shapeError(err, raw)
		}
	}

	return &plan, nil
}

func shapeError(err error, raw string) error {
	return apperrors.NewGenerationError(apperrors.KindInvalidShape, err, "AI response does not match the plan schema").
		WithContext("raw_text", raw)
}

func checkTopLevel(top any) error {
	obj, ok := top.(map[string]any)
	if !ok {
		return fmt.Errorf("expected a JSON object, got %T", top)
	}
	if summary, ok := obj["nutrition_summary"]; !ok || summary == nil {
		return fmt.Errorf("missing nutrition_summary")
	}
	days, ok := obj["daily_plan"].([]any)
	if !ok {
		return fmt.Errorf("daily_plan must be an array")
	}
	if len(days) == 0 {
		return fmt.Errorf("daily_plan is empty")
	}
	return nil
}

func checkStrict(plan *domain.GeneratedPlan, expectedDays int) error {
	if expectedDays > 0 && len(plan.DailyPlan) != expectedDays {
		return fmt.Errorf("daily_plan has %d days, expected %d", len(plan.DailyPlan), expectedDays)
	}
	if plan.NutritionSummary.DailyCalories < 0 {
		return fmt.Errorf("daily_calories must not be negative")
	}
	for i, day := range plan.DailyPlan {
		if day.Day.Int() != i+1 {
			return fmt.Errorf("daily_plan[%d] has day %d, expected %d", i, day.Day.Int(), i+1)
		}
		for j, meal := range day.Meals.All() {
			if strings.TrimSpace(meal.Name) == "" {
				return fmt.Errorf("day %d meal %d has no name", day.Day.Int(), j+1)
			}
			if meal.Calories < 0 {
				return fmt.Errorf("day %d meal %q has negative calories", day.Day.Int(), meal.Name)
			}
		}
	}
	return nil
}
