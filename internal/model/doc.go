// Package model defines domain entities and request/response types for the
// fitness API.
//
// # Domain Entities
//
//   - User: account with bcrypt credentials and a role
//   - Exercise: catalog entry referenced by workout sets
//   - WorkoutSession: a user's training session
//   - WorkoutSet: one set of an exercise inside a session
//
// Derived views (WorkoutFull, WorkoutSummary) are assembled by the service
// layer and never stored.
//
// # Validation
//
// Request types expose Validate() []FieldError. A non-empty result becomes a
// 422 problem details response via NewValidationError.
//
// # Errors
//
// ProblemDetails implements RFC 9457 and is the only error body the API
// writes.
package model
