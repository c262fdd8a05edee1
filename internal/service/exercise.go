package service

import (
	"context"

	"github.com/sgt/fitapi/internal/model"
)

// ExerciseRepository defines the interface for exercise catalog reads
type ExerciseRepository interface {
	List(ctx context.Context, filter model.ExerciseFilter) ([]*model.Exercise, error)
	GetByID(ctx context.Context, id string) (*model.Exercise, error)
}

// ExerciseService serves the exercise catalog
type ExerciseService struct {
	repo ExerciseRepository
}

// NewExerciseService creates a new exercise service
func NewExerciseService(repo ExerciseRepository) *ExerciseService {
	return &ExerciseService{repo: repo}
}

// List returns exercises matching filter ordered by name
func (s *ExerciseService) List(ctx context.Context, filter model.ExerciseFilter) ([]*model.Exercise, error) {
	exercises, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if exercises == nil {
		exercises = []*model.Exercise{}
	}
	return exercises, nil
}

// Get returns a single exercise
func (s *ExerciseService) Get(ctx context.Context, id string) (*model.Exercise, error) {
	exercise, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exercise == nil {
		return nil, ErrExerciseNotFound
	}
	return exercise, nil
}
