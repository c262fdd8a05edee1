package handler

import (
	"errors"
	"math"

	"github.com/sgt/fitapi/internal/model"
	"github.com/sgt/fitapi/internal/service"
	"github.com/sgt/fitapi/pkg/throttle"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var validationErr *service.ValidationError

	switch {
	// ===== Authentication Errors → 401 / 429 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewLoginFailedError()
	case errors.Is(err, service.ErrTooManyAttempts):
		return model.NewLoginBlockedError(retryAfterSeconds(err))

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrExerciseNotFound):
		return model.NewNotFoundError("exercise")
	case errors.Is(err, service.ErrWorkoutNotFound):
		return model.NewNotFoundError("workout")
	case errors.Is(err, service.ErrWorkoutSetNotFound):
		return model.NewNotFoundError("workout set")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.As(err, &validationErr):
		return model.NewValidationError(validationErr.Fields)

	// ===== Semantic Request Errors → 400 =====
	case errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrStartInFuture),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrWorkoutIDRequired):
		return model.NewBadRequestError(err.Error())

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails response
// with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == 500 {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}

// retryAfterSeconds rounds the throttle's wait up to whole seconds, at least 1
func retryAfterSeconds(err error) int {
	var blocked *throttle.BlockedError
	if !errors.As(err, &blocked) {
		return 1
	}
	seconds := int(math.Ceil(blocked.RetryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
