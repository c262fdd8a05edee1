package model

import "strings"

// Validation constants
const (
	MaxExerciseNameLength  = 100
	MaxExerciseFieldLength = 50
)

// Exercise represents a catalog exercise
type Exercise struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MuscleGroup  string `json:"muscle_group,omitempty"`
	Equipment    string `json:"equipment,omitempty"`
	IsIsometric  bool   `json:"is_isometric"`
	MovementType string `json:"movement_type"`
}

// Validate checks catalog constraints on an exercise definition
func (e *Exercise) Validate() []FieldError {
	var errors []FieldError

	if strings.TrimSpace(e.Name) == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if len(e.Name) > MaxExerciseNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be 100 characters or less"})
	}
	if len(e.MuscleGroup) > MaxExerciseFieldLength {
		errors = append(errors, FieldError{Field: "muscle_group", Message: "muscle_group must be 50 characters or less"})
	}
	if len(e.Equipment) > MaxExerciseFieldLength {
		errors = append(errors, FieldError{Field: "equipment", Message: "equipment must be 50 characters or less"})
	}
	if strings.TrimSpace(e.MovementType) == "" {
		errors = append(errors, FieldError{Field: "movement_type", Message: "movement_type is required"})
	} else if len(e.MovementType) > MaxExerciseFieldLength {
		errors = append(errors, FieldError{Field: "movement_type", Message: "movement_type must be 50 characters or less"})
	}

	return errors
}

// ExerciseFilter narrows an exercise listing. Empty fields do not filter.
type ExerciseFilter struct {
	Search      string // case-insensitive substring of name
	MuscleGroup string
	Equipment   string
	IsIsometric *bool
}

// Matches reports whether e passes the filter
func (f ExerciseFilter) Matches(e *Exercise) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.MuscleGroup != "" && !strings.EqualFold(e.MuscleGroup, f.MuscleGroup) {
		return false
	}
	if f.Equipment != "" && !strings.EqualFold(e.Equipment, f.Equipment) {
		return false
	}
	if f.IsIsometric != nil && e.IsIsometric != *f.IsIsometric {
		return false
	}
	return true
}
