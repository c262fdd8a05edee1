package model

import (
	"strings"
	"time"
	_ "time/tzdata" // IANA zone validation without host tzdata
)

// Validation constants
const (
	MaxTimezoneLength = 64
	MaxNotesLength    = 500
	MinRPE            = 1
	MaxRPE            = 10

	DefaultWorkoutPageSize = 20
	MaxWorkoutPageSize     = 100
)

// WorkoutSession represents a single training session owned by a user
type WorkoutSession struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Timezone  string     `json:"timezone"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedOn time.Time  `json:"created_on"`
	UpdatedOn time.Time  `json:"updated_on"`
}

// WorkoutSet represents one set of an exercise inside a session
type WorkoutSet struct {
	ID           string   `json:"id"`
	WorkoutID    string   `json:"workout_id"`
	ExerciseID   string   `json:"exercise_id"`
	ExerciseName string   `json:"exercise_name"`
	SetNumber    int      `json:"set_number"`
	Reps         int      `json:"reps"`
	Weight       float64  `json:"weight"`
	RPE          *float64 `json:"rpe,omitempty"`
	RestSeconds  *int     `json:"rest_seconds,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

// Volume returns reps × weight
func (s *WorkoutSet) Volume() float64 {
	return float64(s.Reps) * s.Weight
}

// WorkoutSessionRequest is the body of both create and full-replace updates
type WorkoutSessionRequest struct {
	StartedAt *time.Time `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Timezone  string     `json:"timezone"`
	Notes     *string    `json:"notes,omitempty"`
}

// Validate checks field constraints. Ordering of the timestamps against each
// other and the clock is checked by the service.
func (r *WorkoutSessionRequest) Validate() []FieldError {
	var errors []FieldError

	if r.StartedAt == nil {
		errors = append(errors, FieldError{Field: "started_at", Message: "started_at is required"})
	}
	tz := strings.TrimSpace(r.Timezone)
	if tz == "" {
		errors = append(errors, FieldError{Field: "timezone", Message: "timezone is required"})
	} else if len(tz) > MaxTimezoneLength {
		errors = append(errors, FieldError{Field: "timezone", Message: "timezone must be 64 characters or less"})
	} else if _, err := time.LoadLocation(tz); err != nil {
		errors = append(errors, FieldError{Field: "timezone", Message: "timezone must be an IANA time zone"})
	}
	if r.Notes != nil && len(*r.Notes) > MaxNotesLength {
		errors = append(errors, FieldError{Field: "notes", Message: "notes must be 500 characters or less"})
	}

	return errors
}

// CreateWorkoutSetRequest represents a request to add a set to a session
type CreateWorkoutSetRequest struct {
	ExerciseID  string   `json:"exercise_id"`
	SetNumber   int      `json:"set_number"`
	Reps        int      `json:"reps"`
	Weight      float64  `json:"weight"`
	RPE         *float64 `json:"rpe,omitempty"`
	RestSeconds *int     `json:"rest_seconds,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

// Validate checks the set request
func (r *CreateWorkoutSetRequest) Validate() []FieldError {
	var errors []FieldError

	if strings.TrimSpace(r.ExerciseID) == "" {
		errors = append(errors, FieldError{Field: "exercise_id", Message: "exercise_id is required"})
	}
	if r.SetNumber <= 0 {
		errors = append(errors, FieldError{Field: "set_number", Message: "set_number must be positive"})
	}
	if r.Reps <= 0 {
		errors = append(errors, FieldError{Field: "reps", Message: "reps must be positive"})
	}
	if r.Weight <= 0 {
		errors = append(errors, FieldError{Field: "weight", Message: "weight must be positive"})
	}
	if r.RPE != nil && (*r.RPE < MinRPE || *r.RPE > MaxRPE) {
		errors = append(errors, FieldError{Field: "rpe", Message: "rpe must be between 1 and 10"})
	}
	if r.RestSeconds != nil && *r.RestSeconds < 0 {
		errors = append(errors, FieldError{Field: "rest_seconds", Message: "rest_seconds cannot be negative"})
	}
	if r.Notes != nil && len(*r.Notes) > MaxNotesLength {
		errors = append(errors, FieldError{Field: "notes", Message: "notes must be 500 characters or less"})
	}

	return errors
}

// WorkoutFilter narrows a session listing for one user
type WorkoutFilter struct {
	From   *time.Time // inclusive lower bound on started_at
	To     *time.Time // inclusive upper bound on started_at
	Limit  int
	Offset int
}

// Normalize clamps paging to sane bounds
func (f *WorkoutFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultWorkoutPageSize
	}
	if f.Limit > MaxWorkoutPageSize {
		f.Limit = MaxWorkoutPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// WorkoutFull is a session with its sets ordered by set number
type WorkoutFull struct {
	*WorkoutSession
	Sets []*WorkoutSet `json:"sets"`
}

// ExerciseVolume is one exercise's share of a session's volume
type ExerciseVolume struct {
	ExerciseID   string  `json:"exercise_id"`
	ExerciseName string  `json:"exercise_name"`
	Volume       float64 `json:"volume"`
	SetsCount    int     `json:"sets_count"`
}

// WorkoutSummary is a session with derived volume statistics
type WorkoutSummary struct {
	*WorkoutSession
	TotalVolume       float64           `json:"total_volume"`
	SetsCount         int               `json:"sets_count"`
	UniqueExercises   int               `json:"unique_exercises"`
	ExerciseBreakdown []*ExerciseVolume `json:"exercise_breakdown"`
}
