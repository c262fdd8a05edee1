package service

import (
	"context"

	"github.com/sgt/fitapi/internal/model"
)

// Full returns one of the user's sessions with its sets ordered by set
// number
func (s *WorkoutService) Full(ctx context.Context, userID, workoutID string) (*model.WorkoutFull, error) {
	session, err := s.Get(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}

	sets, err := s.sets.ListByWorkout(ctx, session.ID, "")
	if err != nil {
		return nil, err
	}
	if sets == nil {
		sets = []*model.WorkoutSet{}
	}

	return &model.WorkoutFull{WorkoutSession: session, Sets: sets}, nil
}

// Summary returns volume statistics for one of the user's sessions.
// Ownership is checked here rather than by the caller.
func (s *WorkoutService) Summary(ctx context.Context, userID, workoutID string) (*model.WorkoutSummary, error) {
	session, err := s.Get(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}

	sets, err := s.sets.ListByWorkout(ctx, session.ID, "")
	if err != nil {
		return nil, err
	}

	return Summarize(session, sets), nil
}

// Summarize computes total volume (sum of reps × weight), set count and a
// per-exercise breakdown in order of each exercise's first set
func Summarize(session *model.WorkoutSession, sets []*model.WorkoutSet) *model.WorkoutSummary {
	summary := &model.WorkoutSummary{
		WorkoutSession:    session,
		SetsCount:         len(sets),
		ExerciseBreakdown: []*model.ExerciseVolume{},
	}

	byExercise := make(map[string]*model.ExerciseVolume)
	for _, set := range sets {
		volume := set.Volume()
		summary.TotalVolume += volume

		ev, ok := byExercise[set.ExerciseID]
		if !ok {
			ev = &model.ExerciseVolume{
				ExerciseID:   set.ExerciseID,
				ExerciseName: set.ExerciseName,
			}
			byExercise[set.ExerciseID] = ev
			summary.ExerciseBreakdown = append(summary.ExerciseBreakdown, ev)
		}
		ev.Volume += volume
		ev.SetsCount++
	}

	summary.UniqueExercises = len(summary.ExerciseBreakdown)
	return summary
}
