package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/sgt/fitapi/internal/database"
	"github.com/sgt/fitapi/internal/model"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the password of every fixture user unless overridden
const DefaultPassword = "testpass123"

// Factory creates test entities in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with timeout bound to the test
func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Email       string
	Password    string
	DisplayName string
	Role        model.UserRole
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	o := &UserOpts{
		Email:    fmt.Sprintf("user_%s@test.local", randomID()),
		Password: DefaultPassword,
		Role:     model.UserRoleUser,
	}
	for _, fn := range opts {
		fn(o)
	}

	// MinCost keeps fixtures fast; production uses cost 12
	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	query := `
		CREATE user CONTENT {
			email: $email,
			display_name: IF $display_name != "" THEN $display_name ELSE NONE END,
			hash: $hash,
			role: $role,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"email":        model.NormalizeEmail(o.Email),
		"display_name": o.DisplayName,
		"hash":         string(hash),
		"role":         string(o.Role),
	}

	results, err := f.db.Query(ctx(t), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}

	data := extractFirstResult(t, results)
	user := &model.User{
		ID:    parseID(data["id"]),
		Email: getString(data, "email"),
		Role:  model.UserRole(getString(data, "role")),
	}
	if o.DisplayName != "" {
		name := o.DisplayName
		user.DisplayName = &name
	}
	return user
}

// WithEmail sets the user's email
func WithEmail(email string) func(*UserOpts) {
	return func(o *UserOpts) { o.Email = email }
}

// WithPassword sets the user's password
func WithPassword(password string) func(*UserOpts) {
	return func(o *UserOpts) { o.Password = password }
}

// ============================================================================
// Exercise Fixtures
// ============================================================================

// ExerciseOpts customizes exercise creation
type ExerciseOpts struct {
	Name         string
	MuscleGroup  string
	Equipment    string
	IsIsometric  bool
	MovementType string
}

// CreateExercise creates a catalog exercise
func (f *Factory) CreateExercise(t *testing.T, opts ...func(*ExerciseOpts)) *model.Exercise {
	t.Helper()

	o := &ExerciseOpts{
		Name:         fmt.Sprintf("Exercise %s", randomID()),
		MuscleGroup:  "chest",
		Equipment:    "barbell",
		MovementType: "push",
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE exercise CONTENT {
			name: $name,
			muscle_group: $muscle_group,
			equipment: $equipment,
			is_isometric: $is_isometric,
			movement_type: $movement_type,
			created_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(t), query, map[string]interface{}{
		"name":          o.Name,
		"muscle_group":  o.MuscleGroup,
		"equipment":     o.Equipment,
		"is_isometric":  o.IsIsometric,
		"movement_type": o.MovementType,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create exercise: %v", err)
	}

	data := extractFirstResult(t, results)
	return &model.Exercise{
		ID:           parseID(data["id"]),
		Name:         o.Name,
		MuscleGroup:  o.MuscleGroup,
		Equipment:    o.Equipment,
		IsIsometric:  o.IsIsometric,
		MovementType: o.MovementType,
	}
}

// WithExerciseName sets the exercise name
func WithExerciseName(name string) func(*ExerciseOpts) {
	return func(o *ExerciseOpts) { o.Name = name }
}

// ============================================================================
// Workout Fixtures
// ============================================================================

// WorkoutOpts customizes workout session creation
type WorkoutOpts struct {
	StartedAt time.Time
	EndedAt   *time.Time
	Timezone  string
}

// WithStartedAt sets the session start
func WithStartedAt(at time.Time) func(*WorkoutOpts) {
	return func(o *WorkoutOpts) { o.StartedAt = at }
}

// CreateWorkout creates a workout session owned by user
func (f *Factory) CreateWorkout(t *testing.T, user *model.User, opts ...func(*WorkoutOpts)) *model.WorkoutSession {
	t.Helper()

	o := &WorkoutOpts{
		StartedAt: time.Now().Add(-time.Hour).UTC().Truncate(time.Second),
		Timezone:  "UTC",
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE workout_session CONTENT {
			user: type::record($user_id),
			started_at: <datetime> $started_at,
			ended_at: IF $ended_at IS NOT NULL THEN <datetime> $ended_at ELSE NONE END,
			timezone: $timezone,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"user_id":    user.ID,
		"started_at": o.StartedAt.Format(time.RFC3339),
		"timezone":   o.Timezone,
		"ended_at":   nil,
	}
	if o.EndedAt != nil {
		vars["ended_at"] = o.EndedAt.Format(time.RFC3339)
	}

	results, err := f.db.Query(ctx(t), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create workout: %v", err)
	}

	data := extractFirstResult(t, results)
	return &model.WorkoutSession{
		ID:        parseID(data["id"]),
		UserID:    user.ID,
		StartedAt: o.StartedAt,
		EndedAt:   o.EndedAt,
		Timezone:  o.Timezone,
	}
}

// CreateSet adds a set to a workout
func (f *Factory) CreateSet(t *testing.T, workout *model.WorkoutSession, exercise *model.Exercise, setNumber, reps int, weight float64) *model.WorkoutSet {
	t.Helper()

	query := `
		CREATE workout_set CONTENT {
			workout: type::record($workout_id),
			exercise: type::record($exercise_id),
			set_number: $set_number,
			reps: $reps,
			weight: $weight,
			created_on: time::now()
		}
	`
	results, err := f.db.Query(ctx(t), query, map[string]interface{}{
		"workout_id":  workout.ID,
		"exercise_id": exercise.ID,
		"set_number":  setNumber,
		"reps":        reps,
		"weight":      weight,
	})
	if err != nil {
		t.Fatalf("fixtures: failed to create set: %v", err)
	}

	data := extractFirstResult(t, results)
	return &model.WorkoutSet{
		ID:           parseID(data["id"]),
		WorkoutID:    workout.ID,
		ExerciseID:   exercise.ID,
		ExerciseName: exercise.Name,
		SetNumber:    setNumber,
		Reps:         reps,
		Weight:       weight,
	}
}

// ============================================================================
// Result parsing
// ============================================================================

func extractFirstResult(t *testing.T, results []interface{}) map[string]interface{} {
	t.Helper()

	if len(results) == 0 {
		t.Fatalf("fixtures: empty result")
	}
	resp, ok := results[0].(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result format: %T", results[0])
	}
	rows, ok := resp["result"].([]interface{})
	if !ok || len(rows) == 0 {
		t.Fatalf("fixtures: no record returned")
	}
	data, ok := rows[0].(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected record format: %T", rows[0])
	}
	return data
}

func parseID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
	}
	return fmt.Sprintf("%v", id)
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
