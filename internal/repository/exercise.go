package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sgt/fitapi/internal/database"
	"github.com/sgt/fitapi/internal/model"
)

// ExerciseRepository handles exercise catalog data access
type ExerciseRepository struct {
	db database.Database
}

// NewExerciseRepository creates a new exercise repository
func NewExerciseRepository(db database.Database) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

// List returns exercises matching the filter ordered by name. Search is a
// case-insensitive substring of the name; the other fields match exactly
// ignoring case.
func (r *ExerciseRepository) List(ctx context.Context, filter model.ExerciseFilter) ([]*model.Exercise, error) {
	var conditions []string
	vars := map[string]interface{}{}

	if filter.Search != "" {
		conditions = append(conditions, "string::contains(string::lowercase(name), $search)")
		vars["search"] = strings.ToLower(filter.Search)
	}
	if filter.MuscleGroup != "" {
		conditions = append(conditions, "string::lowercase(muscle_group ?? '') = $muscle_group")
		vars["muscle_group"] = strings.ToLower(filter.MuscleGroup)
	}
	if filter.Equipment != "" {
		conditions = append(conditions, "string::lowercase(equipment ?? '') = $equipment")
		vars["equipment"] = strings.ToLower(filter.Equipment)
	}
	if filter.IsIsometric != nil {
		conditions = append(conditions, "is_isometric = $is_isometric")
		vars["is_isometric"] = *filter.IsIsometric
	}

	query := "SELECT * FROM exercise"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name ASC"

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records := extractQueryResults(result)
	exercises := make([]*model.Exercise, 0, len(records))
	for _, data := range records {
		exercises = append(exercises, parseExercise(data))
	}
	return exercises, nil
}

// GetByID retrieves an exercise by ID
func (r *ExerciseRepository) GetByID(ctx context.Context, id string) (*model.Exercise, error) {
	rid := recordID(tableExercise, id)
	if rid == "" {
		return nil, nil
	}

	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": rid}

	return r.getOne(ctx, query, vars)
}

// GetByName retrieves an exercise by its unique name
func (r *ExerciseRepository) GetByName(ctx context.Context, name string) (*model.Exercise, error) {
	query := `SELECT * FROM exercise WHERE name = $name LIMIT 1`
	vars := map[string]interface{}{"name": name}

	return r.getOne(ctx, query, vars)
}

// Create creates a new exercise
func (r *ExerciseRepository) Create(ctx context.Context, exercise *model.Exercise) error {
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

	result, err := r.db.Query(ctx, query, exerciseVars(exercise))
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: exercise %q already exists", database.ErrDuplicate, exercise.Name)
		}
		return fmt.Errorf("failed to create exercise: %w", err)
	}

	id, err := extractCreatedID(result)
	if err != nil {
		return err
	}
	exercise.ID = id
	return nil
}

// Update overwrites the catalog fields of an existing exercise
func (r *ExerciseRepository) Update(ctx context.Context, exercise *model.Exercise) error {
	rid := recordID(tableExercise, exercise.ID)
	if rid == "" {
		return database.ErrNotFound
	}

	query := `
		UPDATE type::record($id) SET
			name = $name,
			muscle_group = $muscle_group,
			equipment = $equipment,
			is_isometric = $is_isometric,
			movement_type = $movement_type
	`

	vars := exerciseVars(exercise)
	vars["id"] = rid

	return r.db.Execute(ctx, query, vars)
}

// Upsert creates the exercise or updates the one with the same name. It
// reports whether a new record was created.
func (r *ExerciseRepository) Upsert(ctx context.Context, exercise *model.Exercise) (bool, error) {
	existing, err := r.GetByName(ctx, exercise.Name)
	if err != nil {
		return false, err
	}

	if existing == nil {
		if err := r.Create(ctx, exercise); err != nil {
			return false, err
		}
		return true, nil
	}

	exercise.ID = existing.ID
	if *existing == *exercise {
		return false, nil
	}
	return false, r.Update(ctx, exercise)
}

func (r *ExerciseRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.Exercise, error) {
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
	return parseExercise(data), nil
}

func exerciseVars(exercise *model.Exercise) map[string]interface{} {
	return map[string]interface{}{
		"name":          exercise.Name,
		"muscle_group":  exercise.MuscleGroup,
		"equipment":     exercise.Equipment,
		"is_isometric":  exercise.IsIsometric,
		"movement_type": exercise.MovementType,
	}
}

func parseExercise(data map[string]interface{}) *model.Exercise {
	return &model.Exercise{
		ID:           convertSurrealID(data["id"]),
		Name:         getString(data, "name"),
		MuscleGroup:  getString(data, "muscle_group"),
		Equipment:    getString(data, "equipment"),
		IsIsometric:  getBool(data, "is_isometric"),
		MovementType: getString(data, "movement_type"),
	}
}
