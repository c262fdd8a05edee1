// Package handler provides HTTP request handlers for the fitness API.
//
// Each handler struct depends on a small service interface declared next to
// it, so tests can swap in func-field mocks.
//
// # Response Format
//
//   - WriteData: single resource with optional HATEOAS links
//   - WriteCollection: list of resources with optional offset pagination
//   - WriteError: RFC 9457 Problem Details; sets Retry-After when the
//     problem carries retry_after
//
// Service errors go through MapServiceError. Field validation failures are
// 422, semantic request errors such as an end time before the start time
// are 400, and anything unrecognized is a 500 that gets logged.
//
// # Authentication
//
// Workout and set handlers expect middleware.Auth in front of them and read
// the caller with middleware.GetUserID. AuthHandler.Me sits behind
// middleware.OptionalAuth.
package handler
