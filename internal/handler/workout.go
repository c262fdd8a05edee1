package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sgt/fitapi/internal/model"
)

// WorkoutService is the session side of the workout service
type WorkoutService interface {
	Create(ctx context.Context, userID string, req model.WorkoutSessionRequest) (*model.WorkoutSession, error)
	Get(ctx context.Context, userID, workoutID string) (*model.WorkoutSession, error)
	List(ctx context.Context, userID string, filter model.WorkoutFilter) ([]*model.WorkoutSession, int, error)
	Update(ctx context.Context, userID, workoutID string, req model.WorkoutSessionRequest) (*model.WorkoutSession, error)
	Delete(ctx context.Context, userID, workoutID string) error
	Full(ctx context.Context, userID, workoutID string) (*model.WorkoutFull, error)
	Summary(ctx context.Context, userID, workoutID string) (*model.WorkoutSummary, error)
}

// WorkoutHandler handles workout session endpoints
type WorkoutHandler struct {
	svc    WorkoutService
	logger *slog.Logger
}

// NewWorkoutHandler creates a new workout handler
func NewWorkoutHandler(svc WorkoutService, logger *slog.Logger) *WorkoutHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkoutHandler{svc: svc, logger: logger}
}

// Create handles POST /v1/workouts
func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.WorkoutSessionRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	session, err := h.svc.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, h.logger, err, "create workout")
		return
	}

	links := workoutLinks(session.ID)
	w.Header().Set("Location", links["self"])
	WriteData(w, http.StatusCreated, session, links)
}

// List handles GET /v1/workouts
func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	filter, problem := parseWorkoutFilter(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	sessions, total, err := h.svc.List(r.Context(), userID, filter)
	if err != nil {
		writeServiceError(w, h.logger, err, "list workouts")
		return
	}

	// The service clamps paging; echo the effective values
	filter.Normalize()
	WriteCollection(w, http.StatusOK, sessions,
		NewPaginationInfo(total, filter.Limit, filter.Offset, len(sessions)),
		map[string]string{"self": "/v1/workouts"},
	)
}

// Get handles GET /v1/workouts/{id}
func (h *WorkoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	session, err := h.svc.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "get workout")
		return
	}

	WriteData(w, http.StatusOK, session, workoutLinks(session.ID))
}

// Update handles PUT /v1/workouts/{id}
func (h *WorkoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.WorkoutSessionRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	session, err := h.svc.Update(r.Context(), userID, r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "update workout")
		return
	}

	WriteData(w, http.StatusOK, session, workoutLinks(session.ID))
}

// Delete handles DELETE /v1/workouts/{id}
func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeServiceError(w, h.logger, err, "delete workout")
		return
	}

	WriteNoContent(w)
}

// Full handles GET /v1/workouts/{id}/full
func (h *WorkoutHandler) Full(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	full, err := h.svc.Full(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "get full workout")
		return
	}

	WriteData(w, http.StatusOK, full, workoutLinks(full.ID))
}

// Summary handles GET /v1/workouts/{id}/summary
func (h *WorkoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.Summary(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "get workout summary")
		return
	}

	WriteData(w, http.StatusOK, summary, workoutLinks(summary.ID))
}

func workoutLinks(id string) map[string]string {
	self := "/v1/workouts/" + id
	return map[string]string{
		"self":    self,
		"sets":    self + "/sets",
		"full":    self + "/full",
		"summary": self + "/summary",
	}
}

func parseWorkoutFilter(r *http.Request) (model.WorkoutFilter, *model.ProblemDetails) {
	q := r.URL.Query()
	var filter model.WorkoutFilter

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, model.NewBadRequestError("from must be an RFC 3339 timestamp")
		}
		filter.From = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, model.NewBadRequestError("to must be an RFC 3339 timestamp")
		}
		filter.To = &t
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, model.NewBadRequestError("limit must be an integer")
		}
		filter.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, model.NewBadRequestError("offset must be an integer")
		}
		filter.Offset = n
	}

	return filter, nil
}
