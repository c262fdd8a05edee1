package model

import (
	"strings"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func hasFieldError(errors []FieldError, field string) bool {
	for _, e := range errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// ============================================================================
// RegisterRequest Tests
// ============================================================================

func TestRegisterRequest_Validate_Valid(t *testing.T) {
	t.Parallel()

	req := &RegisterRequest{Email: "a@example.com", Password: "password1", DisplayName: ptr("Alex")}

	if errors := req.Validate(); len(errors) > 0 {
		t.Errorf("expected no errors, got %v", errors)
	}
}

func TestRegisterRequest_Validate_InvalidEmail(t *testing.T) {
	t.Parallel()

	for _, email := range []string{"", "not-an-email", "Alex <a@example.com>", strings.Repeat("a", 250) + "@x.io"} {
		req := &RegisterRequest{Email: email, Password: "password1"}
		if !hasFieldError(req.Validate(), "email") {
			t.Errorf("expected email error for %q", email)
		}
	}
}

func TestRegisterRequest_Validate_EmailWithSurroundingSpace_Valid(t *testing.T) {
	t.Parallel()

	req := &RegisterRequest{Email: "  a@example.com ", Password: "password1"}

	if errors := req.Validate(); len(errors) > 0 {
		t.Errorf("expected trimmed email to validate, got %v", errors)
	}
}

func TestRegisterRequest_Validate_PasswordBounds(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"":                      true,
		"short":                 true,
		"12345678":              false,
		strings.Repeat("p", 64): false,
		strings.Repeat("p", 65): true,
	}
	for password, wantErr := range cases {
		req := &RegisterRequest{Email: "a@example.com", Password: password}
		if got := hasFieldError(req.Validate(), "password"); got != wantErr {
			t.Errorf("password length %d: expected error=%v, got %v", len(password), wantErr, got)
		}
	}
}

func TestRegisterRequest_Validate_DisplayNameTooLong(t *testing.T) {
	t.Parallel()

	req := &RegisterRequest{Email: "a@example.com", Password: "password1", DisplayName: ptr(strings.Repeat("n", 65))}

	if !hasFieldError(req.Validate(), "display_name") {
		t.Error("expected display_name error")
	}
}

func TestLoginRequest_Validate_MissingFields(t *testing.T) {
	t.Parallel()

	errors := (&LoginRequest{}).Validate()

	if !hasFieldError(errors, "email") || !hasFieldError(errors, "password") {
		t.Errorf("expected email and password errors, got %v", errors)
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	if got := NormalizeEmail("  Alex@Example.COM "); got != "alex@example.com" {
		t.Errorf("expected alex@example.com, got %q", got)
	}
}

// ============================================================================
// Exercise Tests
// ============================================================================

func TestExercise_Validate_Valid(t *testing.T) {
	t.Parallel()

	e := &Exercise{Name: "Back Squat", MuscleGroup: "legs", Equipment: "barbell", MovementType: "compound"}

	if errors := e.Validate(); len(errors) > 0 {
		t.Errorf("expected no errors, got %v", errors)
	}
}

func TestExercise_Validate_LengthLimits(t *testing.T) {
	t.Parallel()

	e := &Exercise{
		Name:         strings.Repeat("n", 101),
		MuscleGroup:  strings.Repeat("m", 51),
		Equipment:    strings.Repeat("e", 51),
		MovementType: strings.Repeat("t", 51),
	}
	errors := e.Validate()

	for _, field := range []string{"name", "muscle_group", "equipment", "movement_type"} {
		if !hasFieldError(errors, field) {
			t.Errorf("expected %s error", field)
		}
	}
}

func TestExerciseFilter_Matches(t *testing.T) {
	t.Parallel()

	squat := &Exercise{Name: "Back Squat", MuscleGroup: "legs", Equipment: "barbell"}
	plank := &Exercise{Name: "Plank", MuscleGroup: "core", Equipment: "bodyweight", IsIsometric: true}

	tests := []struct {
		name   string
		filter ExerciseFilter
		want   []bool
	}{
		{"empty", ExerciseFilter{}, []bool{true, true}},
		{"search case-insensitive", ExerciseFilter{Search: "SQU"}, []bool{true, false}},
		{"muscle group", ExerciseFilter{MuscleGroup: "core"}, []bool{false, true}},
		{"equipment", ExerciseFilter{Equipment: "Barbell"}, []bool{true, false}},
		{"isometric", ExerciseFilter{IsIsometric: ptr(true)}, []bool{false, true}},
		{"not isometric", ExerciseFilter{IsIsometric: ptr(false)}, []bool{true, false}},
		{"combined", ExerciseFilter{Search: "plank", MuscleGroup: "legs"}, []bool{false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(squat); got != tt.want[0] {
				t.Errorf("squat: expected %v, got %v", tt.want[0], got)
			}
			if got := tt.filter.Matches(plank); got != tt.want[1] {
				t.Errorf("plank: expected %v, got %v", tt.want[1], got)
			}
		})
	}
}

// ============================================================================
// WorkoutSessionRequest Tests
// ============================================================================

func TestWorkoutSessionRequest_Validate_Valid(t *testing.T) {
	t.Parallel()

	req := &WorkoutSessionRequest{StartedAt: ptr(time.Now()), Timezone: "America/Toronto", Notes: ptr("leg day")}

	if errors := req.Validate(); len(errors) > 0 {
		t.Errorf("expected no errors, got %v", errors)
	}
}

func TestWorkoutSessionRequest_Validate_PaddedTimezone(t *testing.T) {
	t.Parallel()

	for _, tz := range []string{" Europe/Berlin ", "\tUTC\n", "  Asia/Tokyo"} {
		req := &WorkoutSessionRequest{StartedAt: ptr(time.Now()), Timezone: tz}
		if errors := req.Validate(); len(errors) > 0 {
			t.Errorf("expected %q to be accepted, got %v", tz, errors)
		}
	}

	// Surrounding space does not count toward the length limit
	padded := &WorkoutSessionRequest{StartedAt: ptr(time.Now()), Timezone: "   " + strings.Repeat("z", MaxTimezoneLength+1) + "   "}
	if !hasFieldError(padded.Validate(), "timezone") {
		t.Error("expected timezone error for an over-long zone")
	}
}

func TestWorkoutSessionRequest_Validate_MissingStartedAt(t *testing.T) {
	t.Parallel()

	req := &WorkoutSessionRequest{Timezone: "UTC"}

	if !hasFieldError(req.Validate(), "started_at") {
		t.Error("expected started_at error")
	}
}

func TestWorkoutSessionRequest_Validate_Timezone(t *testing.T) {
	t.Parallel()

	for _, tz := range []string{"", "   ", "Mars/Olympus_Mons", strings.Repeat("z", 65)} {
		req := &WorkoutSessionRequest{StartedAt: ptr(time.Now()), Timezone: tz}
		if !hasFieldError(req.Validate(), "timezone") {
			t.Errorf("expected timezone error for %q", tz)
		}
	}
}

func TestWorkoutSessionRequest_Validate_NotesTooLong(t *testing.T) {
	t.Parallel()

	req := &WorkoutSessionRequest{StartedAt: ptr(time.Now()), Timezone: "UTC", Notes: ptr(strings.Repeat("n", 501))}

	if !hasFieldError(req.Validate(), "notes") {
		t.Error("expected notes error")
	}
}

// ============================================================================
// CreateWorkoutSetRequest Tests
// ============================================================================

func TestCreateWorkoutSetRequest_Validate_Valid(t *testing.T) {
	t.Parallel()

	req := &CreateWorkoutSetRequest{
		ExerciseID:  "exercise:squat",
		SetNumber:   1,
		Reps:        5,
		Weight:      100,
		RPE:         ptr(8.5),
		RestSeconds: ptr(0),
	}

	if errors := req.Validate(); len(errors) > 0 {
		t.Errorf("expected no errors, got %v", errors)
	}
}

func TestCreateWorkoutSetRequest_Validate_AllInvalid(t *testing.T) {
	t.Parallel()

	req := &CreateWorkoutSetRequest{
		RPE:         ptr(11.0),
		RestSeconds: ptr(-1),
		Notes:       ptr(strings.Repeat("n", 501)),
	}
	errors := req.Validate()

	for _, field := range []string{"exercise_id", "set_number", "reps", "weight", "rpe", "rest_seconds", "notes"} {
		if !hasFieldError(errors, field) {
			t.Errorf("expected %s error", field)
		}
	}
}

func TestCreateWorkoutSetRequest_Validate_RPEBounds(t *testing.T) {
	t.Parallel()

	for rpe, wantErr := range map[float64]bool{0.5: true, 1: false, 10: false, 10.5: true} {
		req := &CreateWorkoutSetRequest{ExerciseID: "e", SetNumber: 1, Reps: 1, Weight: 1, RPE: ptr(rpe)}
		if got := hasFieldError(req.Validate(), "rpe"); got != wantErr {
			t.Errorf("rpe %v: expected error=%v, got %v", rpe, wantErr, got)
		}
	}
}

// ============================================================================
// WorkoutFilter / WorkoutSet Tests
// ============================================================================

func TestWorkoutFilter_Normalize(t *testing.T) {
	t.Parallel()

	f := WorkoutFilter{Limit: 0, Offset: -5}
	f.Normalize()
	if f.Limit != DefaultWorkoutPageSize || f.Offset != 0 {
		t.Errorf("unexpected normalized filter %+v", f)
	}

	f = WorkoutFilter{Limit: 1000}
	f.Normalize()
	if f.Limit != MaxWorkoutPageSize {
		t.Errorf("expected limit clamped to %d, got %d", MaxWorkoutPageSize, f.Limit)
	}
}

func TestWorkoutSet_Volume(t *testing.T) {
	t.Parallel()

	s := &WorkoutSet{Reps: 5, Weight: 102.5}

	if s.Volume() != 512.5 {
		t.Errorf("expected 512.5, got %v", s.Volume())
	}
}
