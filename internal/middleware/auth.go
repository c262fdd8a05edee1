package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sgt/fitapi/internal/model"
	"github.com/sgt/fitapi/pkg/jwt"
)

// TokenValidator defines the interface for bearer token validation
type TokenValidator interface {
	Verify(token string) (*jwt.Claims, error)
}

// Auth returns a middleware that requires a valid bearer token
func Auth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				model.NewUnauthorizedError("missing authorization header").WriteJSON(w)
				return
			}

			token, ok := bearerToken(authHeader)
			if !ok {
				model.NewUnauthorizedError("invalid authorization header format").WriteJSON(w)
				return
			}

			claims, err := validator.Verify(token)
			if err != nil {
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					model.NewTokenError("token expired", model.ErrCodeTokenExpired).WriteJSON(w)
				case errors.Is(err, jwt.ErrInvalidSignature):
					model.NewTokenError("invalid token signature", model.ErrCodeTokenInvalid).WriteJSON(w)
				default:
					model.NewTokenError("invalid token", model.ErrCodeTokenInvalid).WriteJSON(w)
				}
				return
			}

			// Tokens without a uid claim carry an identity this API cannot scope data to
			if claims.String("uid") == "" {
				model.NewTokenError("invalid token", model.ErrCodeTokenInvalid).WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth is like Auth but doesn't require authentication.
// It will set user info in context if a token is present and valid.
func OptionalAuth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := validator.Verify(token)
			if err != nil {
				// Invalid token, but optional so continue without auth
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func withClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.String("uid"))
	ctx = context.WithValue(ctx, UserEmailKey, claims.Subject)
	return context.WithValue(ctx, ClaimsKey, claims)
}

// ClaimsKey is the context key for JWT claims
const ClaimsKey contextKey = "claims"

// UserEmailKey is the context key for the token subject
const UserEmailKey contextKey = "userEmail"

// GetUserID extracts the user ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetUserEmail extracts the user email from context
func GetUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(UserEmailKey).(string); ok {
		return email
	}
	return ""
}

// GetClaims extracts the JWT claims from context
func GetClaims(ctx context.Context) *jwt.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}
