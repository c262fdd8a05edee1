// Package service implements the business logic layer for the fitness API.
//
// Services sit between HTTP handlers and repositories. They validate
// requests, enforce ownership and assemble derived views.
//
// # Service Pattern
//
//   - Constructor function (NewXxxService) accepts a config struct with its
//     dependencies, or the single repository it needs
//   - Services declare the repository interfaces they consume, so tests use
//     in-memory mocks
//   - Context is passed through for cancellation and request-scoped values
//
// # Authentication
//
// AuthService.Login consults the login throttle before touching the user
// store. Unknown emails and wrong passwords both become
// ErrInvalidCredentials and both count as a failure; a blocked key wraps
// throttle.BlockedError inside ErrTooManyAttempts so the handler can report
// Retry-After.
//
// # Ownership
//
// A workout or set that belongs to another user is reported as not found,
// never as forbidden.
//
// # Example Usage
//
//	svc := NewWorkoutService(WorkoutServiceConfig{
//	    Sessions:  sessionRepo,
//	    Sets:      setRepo,
//	    Exercises: exerciseRepo,
//	})
//	summary, err := svc.Summary(ctx, userID, workoutID)
package service
