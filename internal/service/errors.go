package service

import (
	"errors"
	"strings"

	"github.com/sgt/fitapi/internal/model"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here so handlers can
// map them with errors.Is.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// ===== Exercise Errors =====
var (
	ErrExerciseNotFound = errors.New("exercise not found")
)

// ===== Workout Errors =====
var (
	ErrWorkoutNotFound    = errors.New("workout not found")
	ErrWorkoutSetNotFound = errors.New("workout set not found")
	ErrInvalidTimeRange   = errors.New("ended_at must not be before started_at")
	ErrStartInFuture      = errors.New("started_at must not be in the future")
	ErrInvalidDateRange   = errors.New("from must not be after to")
	ErrWorkoutIDRequired  = errors.New("workout_id is required")
)

// ===== Validation Errors =====
var (
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries the field errors of a rejected request
type ValidationError struct {
	Fields []model.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

// Is matches ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationError(fields []model.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
