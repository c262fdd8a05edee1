package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sgt/fitapi/internal/database"
	"github.com/sgt/fitapi/internal/model"
)

// WorkoutSetRepository handles workout set data access
type WorkoutSetRepository struct {
	db database.Database
}

// NewWorkoutSetRepository creates a new workout set repository
func NewWorkoutSetRepository(db database.Database) *WorkoutSetRepository {
	return &WorkoutSetRepository{db: db}
}

// Create adds a set to a session. ExerciseName is left as given by the caller.
func (r *WorkoutSetRepository) Create(ctx context.Context, set *model.WorkoutSet) error {
	query := `
		CREATE workout_set CONTENT {
			workout: type::record($workout_id),
			exercise: type::record($exercise_id),
			set_number: $set_number,
			reps: $reps,
			weight: $weight,
			rpe: IF $rpe IS NOT NULL THEN $rpe ELSE NONE END,
			rest_seconds: IF $rest_seconds IS NOT NULL THEN $rest_seconds ELSE NONE END,
			notes: IF $notes IS NOT NULL THEN $notes ELSE NONE END,
			created_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"workout_id":   set.WorkoutID,
		"exercise_id":  set.ExerciseID,
		"set_number":   set.SetNumber,
		"reps":         set.Reps,
		"weight":       set.Weight,
		"rpe":          ptrToNone(set.RPE),
		"rest_seconds": ptrToNone(set.RestSeconds),
		"notes":        ptrToNone(set.Notes),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return fmt.Errorf("failed to create workout set: %w", err)
	}

	id, err := extractCreatedID(result)
	if err != nil {
		return err
	}
	set.ID = id
	return nil
}

// GetByID retrieves a set with its exercise name
func (r *WorkoutSetRepository) GetByID(ctx context.Context, id string) (*model.WorkoutSet, error) {
	rid := recordID(tableWorkoutSet, id)
	if rid == "" {
		return nil, nil
	}

	query := `SELECT *, exercise.name AS exercise_name FROM type::record($id)`
	vars := map[string]interface{}{"id": rid}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := unwrapRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseWorkoutSet(data), nil
}

// ListByWorkout returns a session's sets ordered by set number, optionally
// narrowed to one exercise.
func (r *WorkoutSetRepository) ListByWorkout(ctx context.Context, workoutID, exerciseID string) ([]*model.WorkoutSet, error) {
	conditions := []string{"workout = type::record($workout_id)"}
	vars := map[string]interface{}{"workout_id": workoutID}

	if exerciseID != "" {
		rid := recordID(tableExercise, exerciseID)
		if rid == "" {
			return []*model.WorkoutSet{}, nil
		}
		conditions = append(conditions, "exercise = type::record($exercise_id)")
		vars["exercise_id"] = rid
	}

	query := fmt.Sprintf(
		"SELECT *, exercise.name AS exercise_name FROM workout_set WHERE %s ORDER BY set_number ASC, created_on ASC",
		strings.Join(conditions, " AND "),
	)

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records := extractQueryResults(result)
	sets := make([]*model.WorkoutSet, 0, len(records))
	for _, data := range records {
		sets = append(sets, parseWorkoutSet(data))
	}
	return sets, nil
}

// Delete removes a single set
func (r *WorkoutSetRepository) Delete(ctx context.Context, id string) error {
	rid := recordID(tableWorkoutSet, id)
	if rid == "" {
		return database.ErrNotFound
	}

	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": rid}

	return r.db.Execute(ctx, query, vars)
}

func parseWorkoutSet(data map[string]interface{}) *model.WorkoutSet {
	return &model.WorkoutSet{
		ID:           convertSurrealID(data["id"]),
		WorkoutID:    getRecordID(data, "workout"),
		ExerciseID:   getRecordID(data, "exercise"),
		ExerciseName: getString(data, "exercise_name"),
		SetNumber:    getInt(data, "set_number"),
		Reps:         getInt(data, "reps"),
		Weight:       getFloat(data, "weight"),
		RPE:          getFloatPtr(data, "rpe"),
		RestSeconds:  getIntPtr(data, "rest_seconds"),
		Notes:        getStringPtr(data, "notes"),
	}
}
