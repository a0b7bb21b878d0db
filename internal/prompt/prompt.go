// Package prompt renders a validated profile into the plan-generation
// instruction sent to the model.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/wellnourish/internal/domain"
)

const noneSentinel = "None"

// OutputSchema is the JSON shape the model is told to return.
const OutputSchema = `{
  "nutrition_summary": {
    "daily_calories": number,
    "macros": { "protein": "string", "carbs": "string", "fats": "string" },
    "hydration_goal": "string"
  },
  "daily_plan": [
    {
      "day": number,
      "meals": {
        "breakfast": {
          "name": "string",
          "calories": number,
          "description": "string",
          "ingredients": ["string", "string"],
          "preparation": "string"
        },
        "lunch": {
          "name": "string",
          "calories": number,
          "description": "string",
          "ingredients": ["string", "string"],
          "preparation": "string"
        },
        "dinner": {
          "name": "string",
          "calories": number,
          "description": "string",
          "ingredients": ["string", "string"],
          "preparation": "string"
        },
        "snack": {
          "name": "string",
          "calories": number,
          "description": "string",
          "ingredients": ["string", "string"]
        }
      },
      "workout": {
        "type": "string",
        "duration": "string",
        "warmup": "string",
        "exercises": [
          {
            "name": "string",
            "sets": "string",
            "reps": "string",
            "notes": "string"
          }
        ],
        "cooldown": "string"
      }
    }
  ],
  "tips": ["string", "string", "string"],
  "shopping_list": [
    {
      "category": "string",
      "items": ["string", "string"]
    }
  ]
}`

// JSONOnlyInstruction closes every prompt.
const JSONOnlyInstruction = "IMPORTANT: Return ONLY the JSON. No markdown formatting, no code fences, no text before or after it."

// Build renders p into the instruction text. It is deterministic: identical
// profiles always produce byte-identical prompts.
func Build(p domain.UserProfile) string {
	days := p.PlanDurationDays
	if days <= 0 {
		days = domain.DefaultPlanDuration
	}

	var b strings.Builder
	b.WriteString("You are an expert nutritionist and fitness coach.\n")
	fmt.Fprintf(&b, "Generate a %d-day diet and workout plan for a user with the following profile:\n", days)
	fmt.Fprintf(&b, "- Age: %d\n", p.Age)
	fmt.Fprintf(&b, "- Gender: %s\n", p.Gender)
	fmt.Fprintf(&b, "- Height: %scm\n", formatNumber(p.HeightCM))
	fmt.Fprintf(&b, "- Weight: %skg\n", formatNumber(p.WeightKG))
	fmt.Fprintf(&b, "- Activity Level: %s\n", p.ActivityLevel)
	fmt.Fprintf(&b, "- Goals: %s\n", strings.Join(p.Goals, ", "))
	fmt.Fprintf(&b, "- Dietary Preferences: %s\n", joinOrNone(p.DietaryPreferences))
	fmt.Fprintf(&b, "- Cuisines: %s\n", strings.Join(p.CuisinePreferences, ", "))
	fmt.Fprintf(&b, "- Allergies: %s\n", joinOrNone(p.Allergies))
	fmt.Fprintf(&b, "- Medical Conditions: %s\n", joinOrNone(p.MedicalConditions))
	b.WriteString("\n")
	b.WriteString("The output MUST be valid JSON with the following structure:\n")
	b.WriteString(OutputSchema)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "The \"daily_plan\" array MUST contain exactly %d entries with \"day\" numbered 1 to %d.\n", days, days)
	b.WriteString(JSONOnlyInstruction)
	b.WriteString("\n")
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return noneSentinel
	}
	return strings.Join(items, ", ")
}

// formatNumber prints 175 as "175" and 175.5 as "175.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
