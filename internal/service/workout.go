package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sgt/fitapi/internal/model"
)

// WorkoutSessionRepository defines the interface for session storage
type WorkoutSessionRepository interface {
	Create(ctx context.Context, session *model.WorkoutSession) error
	GetByID(ctx context.Context, id string) (*model.WorkoutSession, error)
	ListByUser(ctx context.Context, userID string, filter model.WorkoutFilter) ([]*model.WorkoutSession, int, error)
	Update(ctx context.Context, session *model.WorkoutSession) error
	Delete(ctx context.Context, id string) error
}

// WorkoutSetRepository defines the interface for set storage
type WorkoutSetRepository interface {
	Create(ctx context.Context, set *model.WorkoutSet) error
	GetByID(ctx context.Context, id string) (*model.WorkoutSet, error)
	ListByWorkout(ctx context.Context, workoutID, exerciseID string) ([]*model.WorkoutSet, error)
	Delete(ctx context.Context, id string) error
}

// WorkoutService manages a user's workout sessions and their sets. Every
// operation is scoped to the calling user: a session owned by someone else
// is reported exactly like a missing one.
type WorkoutService struct {
	sessions  WorkoutSessionRepository
	sets      WorkoutSetRepository
	exercises ExerciseRepository
	now       func() time.Time
	logger    *slog.Logger
}

// WorkoutServiceConfig holds configuration for the workout service
type WorkoutServiceConfig struct {
	Sessions  WorkoutSessionRepository
	Sets      WorkoutSetRepository
	Exercises ExerciseRepository
	Now       func() time.Time // clock, defaults to time.Now
	Logger    *slog.Logger
}

// NewWorkoutService creates a new workout service
func NewWorkoutService(cfg WorkoutServiceConfig) *WorkoutService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &WorkoutService{
		sessions:  cfg.Sessions,
		sets:      cfg.Sets,
		exercises: cfg.Exercises,
		now:       now,
		logger:    logger,
	}
}

// ============================================================================
// Sessions
// ============================================================================

// Create starts a new session for userID
func (s *WorkoutService) Create(ctx context.Context, userID string, req model.WorkoutSessionRequest) (*model.WorkoutSession, error) {
	if err := s.validateSession(req); err != nil {
		return nil, err
	}

	session := &model.WorkoutSession{UserID: userID}
	applySessionRequest(session, req)

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Debug("workout created", "workout_id", session.ID, "user_id", userID)
	return session, nil
}

// Get returns one of the user's sessions
func (s *WorkoutService) Get(ctx context.Context, userID, workoutID string) (*model.WorkoutSession, error) {
	session, err := s.sessions.GetByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		return nil, ErrWorkoutNotFound
	}
	return session, nil
}

// List returns a page of the user's sessions newest first and the total
// matching count
func (s *WorkoutService) List(ctx context.Context, userID string, filter model.WorkoutFilter) ([]*model.WorkoutSession, int, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, 0, ErrInvalidDateRange
	}
	filter.Normalize()

	sessions, total, err := s.sessions.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}
	if sessions == nil {
		sessions = []*model.WorkoutSession{}
	}
	return sessions, total, nil
}

// Update replaces the session's times, timezone and notes
func (s *WorkoutService) Update(ctx context.Context, userID, workoutID string, req model.WorkoutSessionRequest) (*model.WorkoutSession, error) {
	if err := s.validateSession(req); err != nil {
		return nil, err
	}

	session, err := s.Get(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}

	applySessionRequest(session, req)
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Delete removes the session and all of its sets
func (s *WorkoutService) Delete(ctx context.Context, userID, workoutID string) error {
	session, err := s.Get(ctx, userID, workoutID)
	if err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return err
	}

	s.logger.Debug("workout deleted", "workout_id", session.ID, "user_id", userID)
	return nil
}

func (s *WorkoutService) validateSession(req model.WorkoutSessionRequest) error {
	if err := validationError(req.Validate()); err != nil {
		return err
	}
	if req.StartedAt.After(s.now()) {
		return ErrStartInFuture
	}
	if req.EndedAt != nil && req.EndedAt.Before(*req.StartedAt) {
		return ErrInvalidTimeRange
	}
	return nil
}

func applySessionRequest(session *model.WorkoutSession, req model.WorkoutSessionRequest) {
	session.StartedAt = *req.StartedAt
	session.EndedAt = req.EndedAt
	session.Timezone = strings.TrimSpace(req.Timezone)
	session.Notes = req.Notes
}

// ============================================================================
// Sets
// ============================================================================

// ListSets returns the sets of one of the user's sessions ordered by set
// number, optionally narrowed to one exercise
func (s *WorkoutService) ListSets(ctx context.Context, userID, workoutID, exerciseID string) ([]*model.WorkoutSet, error) {
	if strings.TrimSpace(workoutID) == "" {
		return nil, ErrWorkoutIDRequired
	}

	session, err := s.Get(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}

	sets, err := s.sets.ListByWorkout(ctx, session.ID, exerciseID)
	if err != nil {
		return nil, err
	}
	if sets == nil {
		sets = []*model.WorkoutSet{}
	}
	return sets, nil
}

// AddSet records a set in one of the user's sessions
func (s *WorkoutService) AddSet(ctx context.Context, userID, workoutID string, req model.CreateWorkoutSetRequest) (*model.WorkoutSet, error) {
	if err := validationError(req.Validate()); err != nil {
		return nil, err
	}

	session, err := s.Get(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}

	exercise, err := s.exercises.GetByID(ctx, req.ExerciseID)
	if err != nil {
		return nil, err
	}
	if exercise == nil {
		return nil, ErrExerciseNotFound
	}

	set := &model.WorkoutSet{
		WorkoutID:    session.ID,
		ExerciseID:   exercise.ID,
		ExerciseName: exercise.Name,
		SetNumber:    req.SetNumber,
		Reps:         req.Reps,
		Weight:       req.Weight,
		RPE:          req.RPE,
		RestSeconds:  req.RestSeconds,
		Notes:        req.Notes,
	}
	if err := s.sets.Create(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

// GetSet returns a set whose session belongs to the user
func (s *WorkoutService) GetSet(ctx context.Context, userID, setID string) (*model.WorkoutSet, error) {
	set, err := s.sets.GetByID(ctx, setID)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, ErrWorkoutSetNotFound
	}

	session, err := s.sessions.GetByID(ctx, set.WorkoutID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		return nil, ErrWorkoutSetNotFound
	}
	return set, nil
}

// DeleteSet removes a set whose session belongs to the user
func (s *WorkoutService) DeleteSet(ctx context.Context, userID, setID string) error {
	set, err := s.GetSet(ctx, userID, setID)
	if err != nil {
		return err
	}
	return s.sets.Delete(ctx, set.ID)
}
