package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ExerciseKind tags which shape an ExerciseEntry holds.
type ExerciseKind int

const (
	ExerciseSimple ExerciseKind = iota
	ExerciseDetailed
)

func (k ExerciseKind) String() string {
	if k == ExerciseDetailed {
		return "detailed"
	}
	return "simple"
}

type ExerciseDetail struct {
	Name  string     `json:"name"`
	Sets  FlexString `json:"sets"`
	Reps  FlexString `json:"reps"`
	Notes string     `json:"notes"`
}

// ExerciseEntry is either a plain string (older plans) or a detailed object.
// Switch on Kind before reading Text or Detail.
type ExerciseEntry struct {
	Kind   ExerciseKind
	Text   string
	Detail ExerciseDetail
}

func SimpleExercise(text string) ExerciseEntry {
	return ExerciseEntry{Kind: ExerciseSimple, Text: text}
}

func DetailedExercise(detail ExerciseDetail) ExerciseEntry {
	return ExerciseEntry{Kind: ExerciseDetailed, Detail: detail}
}

// Name returns the display name regardless of shape.
func (e ExerciseEntry) Name() string {
	if e.Kind == ExerciseDetailed {
		return e.Detail.Name
	}
	return e.Text
}

func (e ExerciseEntry) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case ExerciseSimple:
		return json.Marshal(e.Text)
	case ExerciseDetailed:
		return json.Marshal(e.Detail)
	default:
		return nil, fmt.Errorf("unknown exercise kind %d", e.Kind)
	}
}

func (e *ExerciseEntry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty exercise entry")
	}
	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*e = SimpleExercise(text)
		return nil
	case '{':
		var detail ExerciseDetail
		if err := json.Unmarshal(trimmed, &detail); err != nil {
			return err
		}
		*e = DetailedExercise(detail)
		return nil
	default:
		return fmt.Errorf("exercise entry must be a string or an object, got %s", trimmed)
	}
}
