package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/sgt/fitapi/internal/model"
)

// ExerciseService is the subset of the exercise service used by ExerciseHandler
type ExerciseService interface {
	List(ctx context.Context, filter model.ExerciseFilter) ([]*model.Exercise, error)
	Get(ctx context.Context, id string) (*model.Exercise, error)
}

// ExerciseHandler serves the exercise catalog
type ExerciseHandler struct {
	svc    ExerciseService
	logger *slog.Logger
}

// NewExerciseHandler creates a new exercise handler
func NewExerciseHandler(svc ExerciseService, logger *slog.Logger) *ExerciseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExerciseHandler{svc: svc, logger: logger}
}

// List handles GET /v1/exercises
func (h *ExerciseHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ExerciseFilter{
		Search:      strings.TrimSpace(q.Get("search")),
		MuscleGroup: strings.TrimSpace(q.Get("muscle_group")),
		Equipment:   strings.TrimSpace(q.Get("equipment")),
	}
	if raw := q.Get("is_isometric"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			WriteError(w, model.NewBadRequestError("is_isometric must be true or false"))
			return
		}
		filter.IsIsometric = &v
	}

	exercises, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.logger, err, "list exercises")
		return
	}

	WriteCollection(w, http.StatusOK, exercises, nil, map[string]string{
		"self": "/v1/exercises",
	})
}

// Get handles GET /v1/exercises/{id}
func (h *ExerciseHandler) Get(w http.ResponseWriter, r *http.Request) {
	exercise, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "get exercise")
		return
	}

	WriteData(w, http.StatusOK, exercise, map[string]string{
		"self":       "/v1/exercises/" + exercise.ID,
		"collection": "/v1/exercises",
	})
}
