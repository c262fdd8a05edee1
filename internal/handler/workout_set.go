package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sgt/fitapi/internal/model"
)

// WorkoutSetService is the set side of the workout service
type WorkoutSetService interface {
	ListSets(ctx context.Context, userID, workoutID, exerciseID string) ([]*model.WorkoutSet, error)
	AddSet(ctx context.Context, userID, workoutID string, req model.CreateWorkoutSetRequest) (*model.WorkoutSet, error)
	GetSet(ctx context.Context, userID, setID string) (*model.WorkoutSet, error)
	DeleteSet(ctx context.Context, userID, setID string) error
}

// WorkoutSetHandler handles workout set endpoints, both nested under a
// session and at the top level
type WorkoutSetHandler struct {
	svc    WorkoutSetService
	logger *slog.Logger
}

// NewWorkoutSetHandler creates a new workout set handler
func NewWorkoutSetHandler(svc WorkoutSetService, logger *slog.Logger) *WorkoutSetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkoutSetHandler{svc: svc, logger: logger}
}

// ListForWorkout handles GET /v1/workouts/{id}/sets
func (h *WorkoutSetHandler) ListForWorkout(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.PathValue("id"))
}

// List handles GET /v1/workout-sets?workout_id=
func (h *WorkoutSetHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("workout_id"))
}

func (h *WorkoutSetHandler) list(w http.ResponseWriter, r *http.Request, workoutID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	exerciseID := strings.TrimSpace(r.URL.Query().Get("exercise_id"))
	sets, err := h.svc.ListSets(r.Context(), userID, workoutID, exerciseID)
	if err != nil {
		writeServiceError(w, h.logger, err, "list workout sets")
		return
	}

	WriteCollection(w, http.StatusOK, sets, nil, map[string]string{
		"workout": "/v1/workouts/" + workoutID,
	})
}

// Create handles POST /v1/workouts/{id}/sets
func (h *WorkoutSetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.CreateWorkoutSetRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	set, err := h.svc.AddSet(r.Context(), userID, r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "add workout set")
		return
	}

	links := setLinks(set)
	w.Header().Set("Location", links["self"])
	WriteData(w, http.StatusCreated, set, links)
}

// Get handles GET /v1/workout-sets/{id}
func (h *WorkoutSetHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	set, err := h.svc.GetSet(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "get workout set")
		return
	}

	WriteData(w, http.StatusOK, set, setLinks(set))
}

// Delete handles DELETE /v1/workout-sets/{id}
func (h *WorkoutSetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteSet(r.Context(), userID, r.PathValue("id")); err != nil {
		writeServiceError(w, h.logger, err, "delete workout set")
		return
	}

	WriteNoContent(w)
}

func setLinks(set *model.WorkoutSet) map[string]string {
	return map[string]string{
		"self":     "/v1/workout-sets/" + set.ID,
		"workout":  "/v1/workouts/" + set.WorkoutID,
		"exercise": "/v1/exercises/" + set.ExerciseID,
	}
}
