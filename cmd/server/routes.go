package main

import (
	"net/http"

	"github.com/sgt/fitapi/internal/handler"
	"github.com/sgt/fitapi/internal/middleware"
)

// handlers groups every HTTP handler the server mounts
type handlers struct {
	health      *handler.HealthHandler
	auth        *handler.AuthHandler
	exercise    *handler.ExerciseHandler
	workout     *handler.WorkoutHandler
	workoutSets *handler.WorkoutSetHandler
}

// registerRoutes mounts every endpoint. Rate limiting runs inside the auth
// middleware so authenticated callers get a bucket per user; public routes
// are limited per client IP. /health is never limited.
func registerRoutes(mux *http.ServeMux, h handlers, tokens middleware.TokenValidator, limiter *middleware.RateLimiter) {
	authMiddleware := middleware.Auth(tokens)
	optionalAuth := middleware.OptionalAuth(tokens)
	rateLimit := middleware.RateLimit(limiter)

	public := func(fn http.HandlerFunc) http.Handler {
		return rateLimit(fn)
	}
	optional := func(fn http.HandlerFunc) http.Handler {
		return optionalAuth(rateLimit(fn))
	}
	protected := func(fn http.HandlerFunc) http.Handler {
		return authMiddleware(rateLimit(fn))
	}

	// Health check endpoint
	mux.HandleFunc("GET /health", h.health.Health)

	// Auth endpoints
	mux.Handle("POST /v1/auth/register", public(h.auth.Register))
	mux.Handle("POST /v1/auth/login", public(h.auth.Login))
	mux.Handle("GET /v1/auth/ping", public(h.auth.Ping))
	mux.Handle("GET /v1/auth/me", optional(h.auth.Me))

	// Exercise catalog (public)
	mux.Handle("GET /v1/exercises", public(h.exercise.List))
	mux.Handle("GET /v1/exercises/{id}", public(h.exercise.Get))

	// Workout sessions
	mux.Handle("POST /v1/workouts", protected(h.workout.Create))
	mux.Handle("GET /v1/workouts", protected(h.workout.List))
	mux.Handle("GET /v1/workouts/{id}", protected(h.workout.Get))
	mux.Handle("PUT /v1/workouts/{id}", protected(h.workout.Update))
	mux.Handle("DELETE /v1/workouts/{id}", protected(h.workout.Delete))
	mux.Handle("GET /v1/workouts/{id}/full", protected(h.workout.Full))
	mux.Handle("GET /v1/workouts/{id}/summary", protected(h.workout.Summary))

	// Workout sets
	mux.Handle("GET /v1/workouts/{id}/sets", protected(h.workoutSets.ListForWorkout))
	mux.Handle("POST /v1/workouts/{id}/sets", protected(h.workoutSets.Create))
	mux.Handle("GET /v1/workout-sets", protected(h.workoutSets.List))
	mux.Handle("GET /v1/workout-sets/{id}", protected(h.workoutSets.Get))
	mux.Handle("DELETE /v1/workout-sets/{id}", protected(h.workoutSets.Delete))
}
