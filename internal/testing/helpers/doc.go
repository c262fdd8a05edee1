// Package helpers provides HTTP and database test utilities.
//
// # Tokens
//
// JWTHelper mints HS256 tokens with TestSecret, carrying the uid and role
// claims the auth middleware reads:
//
//	jh := helpers.NewJWTHelper(t)
//	req := helpers.NewRequest(t, http.MethodGet, "/v1/workouts").
//	    WithAuth(jh, user).
//	    Build()
//
// # Assertions
//
//	helpers.AssertProblemDetails(t, rec, http.StatusNotFound, model.ErrCodeNotFound)
//	helpers.AssertValidationError(t, rec, "reps")
//	helpers.AssertRecordNotExists(t, db, "workout_session:abc")
package helpers
