// Package middleware provides HTTP middleware for the fitness API.
//
// # Available Middleware
//
//   - Auth / OptionalAuth: bearer token validation and user extraction
//   - RateLimit: per-client token buckets backed by golang.org/x/time/rate
//   - RequestID, Logger, Recovery, CORS, Compress: request plumbing
//
// # Authentication
//
// Auth verifies the bearer token with any TokenValidator (normally
// *jwt.Service) and stores the uid claim, the subject and the full claims
// in the request context:
//
//	mux.Handle("GET /v1/workouts", middleware.Auth(tokens)(h))
//
//	userID := middleware.GetUserID(r.Context())
//
// Rejected tokens get a 401 problem response whose code distinguishes an
// expired token from every other failure.
//
// # Rate Limiting
//
// RateLimit keys buckets by user ID when one is in the context and by
// client IP otherwise. The user ID is only there once Auth has run, so mount
// RateLimit per route behind Auth rather than in the global Chain:
//
//	mux.Handle("GET /v1/workouts", Auth(tokens)(RateLimit(limiter)(list)))
//
// Denied requests get a 429 with Retry-After.
package middleware
