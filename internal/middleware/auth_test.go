package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sgt/fitapi/internal/model"
	"github.com/sgt/fitapi/pkg/jwt"
)

// ============================================================================
// Mock TokenValidator
// ============================================================================

type mockValidator struct {
	verifyFunc func(token string) (*jwt.Claims, error)
}

func (m *mockValidator) Verify(token string) (*jwt.Claims, error) {
	return m.verifyFunc(token)
}

// successValidator returns valid claims for any token
func successValidator(userID, email string) *mockValidator {
	return &mockValidator{
		verifyFunc: func(token string) (*jwt.Claims, error) {
			return &jwt.Claims{
				Subject: email,
				Extra:   map[string]any{"uid": userID},
			}, nil
		},
	}
}

// errorValidator returns the specified error
func errorValidator(err error) *mockValidator {
	return &mockValidator{
		verifyFunc: func(token string) (*jwt.Claims, error) {
			return nil, err
		},
	}
}

// ============================================================================
// Test Helpers
// ============================================================================

func newTestRequest(authHeader string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	return req
}

// captureHandler captures the request context for inspection
type captureHandler struct {
	called bool
	ctx    context.Context
}

func (h *captureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

func decodeProblem(t *testing.T, rr *httptest.ResponseRecorder) model.ProblemDetails {
	t.Helper()
	var problem model.ProblemDetails
	if err := json.NewDecoder(rr.Body).Decode(&problem); err != nil {
		t.Fatalf("failed to decode problem details: %v", err)
	}
	return problem
}

// ============================================================================
// Auth() Middleware Tests
// ============================================================================

func TestAuth_RejectsBadHeaders(t *testing.T) {
	t.Parallel()

	headers := map[string]string{
		"missing":      "",
		"wrong scheme": "Basic sometoken",
		"scheme only":  "Bearer",
		"no space":     "Bearertoken",
		"blank token":  "Bearer   ",
	}

	for name, header := range headers {
		handler := &captureHandler{}
		rr := httptest.NewRecorder()

		Auth(successValidator("user:123", "test@example.com"))(handler).ServeHTTP(rr, newTestRequest(header))

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected status %d, got %d", name, http.StatusUnauthorized, rr.Code)
		}
		if handler.called {
			t.Errorf("%s: handler should not have been called", name)
		}
	}
}

func TestAuth_ValidToken_SetsContext_CallsNext(t *testing.T) {
	t.Parallel()
	handler := &captureHandler{}
	rr := httptest.NewRecorder()

	Auth(successValidator("user:123", "test@example.com"))(handler).ServeHTTP(rr, newTestRequest("Bearer valid-token"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !handler.called {
		t.Fatal("handler should have been called")
	}
	if got := GetUserID(handler.ctx); got != "user:123" {
		t.Errorf("expected user ID user:123, got %q", got)
	}
	if got := GetUserEmail(handler.ctx); got != "test@example.com" {
		t.Errorf("expected email test@example.com, got %q", got)
	}
	if claims := GetClaims(handler.ctx); claims == nil || claims.Subject != "test@example.com" {
		t.Errorf("expected claims in context, got %+v", claims)
	}
}

func TestAuth_LowercaseBearer_Accepted(t *testing.T) {
	t.Parallel()
	handler := &captureHandler{}
	rr := httptest.NewRecorder()

	Auth(successValidator("user:123", "test@example.com"))(handler).ServeHTTP(rr, newTestRequest("bearer valid-token"))

	if !handler.called {
		t.Error("expected case-insensitive scheme to be accepted")
	}
}

func TestAuth_VerifyErrors_MapToCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantDetail string
		wantCode   model.ErrorCode
	}{
		{"expired", jwt.ErrTokenExpired, "token expired", model.ErrCodeTokenExpired},
		{"bad signature", jwt.ErrInvalidSignature, "invalid token signature", model.ErrCodeTokenInvalid},
		{"malformed", jwt.ErrMalformedToken, "invalid token", model.ErrCodeTokenInvalid},
	}

	for _, tt := range tests {
		handler := &captureHandler{}
		rr := httptest.NewRecorder()

		Auth(errorValidator(tt.err))(handler).ServeHTTP(rr, newTestRequest("Bearer some-token"))

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", tt.name, rr.Code)
			continue
		}
		problem := decodeProblem(t, rr)
		if problem.Detail != tt.wantDetail || problem.Code != tt.wantCode {
			t.Errorf("%s: got detail %q code %d", tt.name, problem.Detail, problem.Code)
		}
		if handler.called {
			t.Errorf("%s: handler should not have been called", tt.name)
		}
	}
}

func TestAuth_TokenWithoutUID_Rejected(t *testing.T) {
	t.Parallel()
	tokens, err := jwt.NewService(jwt.Config{Secret: []byte("middleware-test-secret")})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	token, err := tokens.Issue("someone@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	handler := &captureHandler{}
	rr := httptest.NewRecorder()
	Auth(tokens)(handler).ServeHTTP(rr, newTestRequest("Bearer "+token))

	if rr.Code != http.StatusUnauthorized || handler.called {
		t.Errorf("expected 401 without calling handler, got %d", rr.Code)
	}
}

func TestAuth_RealService_EndToEnd(t *testing.T) {
	t.Parallel()
	now := time.Now()
	tokens, err := jwt.NewService(jwt.Config{
		Secret:       []byte("middleware-test-secret"),
		ExpirationMs: 1000,
		Now:          func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	token, err := tokens.IssueWithClaims("lifter@example.com", map[string]any{"uid": "user:lifter"})
	if err != nil {
		t.Fatalf("IssueWithClaims: %v", err)
	}

	handler := &captureHandler{}
	rr := httptest.NewRecorder()
	Auth(tokens)(handler).ServeHTTP(rr, newTestRequest("Bearer "+token))

	if !handler.called || GetUserID(handler.ctx) != "user:lifter" {
		t.Fatalf("expected authenticated request, got status %d", rr.Code)
	}

	now = now.Add(2 * time.Second)
	handler = &captureHandler{}
	rr = httptest.NewRecorder()
	Auth(tokens)(handler).ServeHTTP(rr, newTestRequest("Bearer "+token))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after expiry, got %d", rr.Code)
	}
	if problem := decodeProblem(t, rr); problem.Code != model.ErrCodeTokenExpired {
		t.Errorf("expected token expired code, got %d", problem.Code)
	}
}

// ============================================================================
// OptionalAuth() Middleware Tests
// ============================================================================

func TestOptionalAuth_NoHeader_ContinuesAnonymously(t *testing.T) {
	t.Parallel()
	handler := &captureHandler{}
	rr := httptest.NewRecorder()

	OptionalAuth(successValidator("user:123", "test@example.com"))(handler).ServeHTTP(rr, newTestRequest(""))

	if !handler.called {
		t.Fatal("handler should have been called")
	}
	if GetUserID(handler.ctx) != "" {
		t.Error("expected no user in context")
	}
}

func TestOptionalAuth_InvalidToken_ContinuesAnonymously(t *testing.T) {
	t.Parallel()
	handler := &captureHandler{}
	rr := httptest.NewRecorder()

	OptionalAuth(errorValidator(jwt.ErrInvalidSignature))(handler).ServeHTTP(rr, newTestRequest("Bearer forged"))

	if !handler.called || rr.Code != http.StatusOK {
		t.Fatalf("expected anonymous pass-through, got %d", rr.Code)
	}
	if GetUserID(handler.ctx) != "" {
		t.Error("expected no user in context")
	}
}

func TestOptionalAuth_ValidToken_SetsContext(t *testing.T) {
	t.Parallel()
	handler := &captureHandler{}
	rr := httptest.NewRecorder()

	OptionalAuth(successValidator("user:123", "test@example.com"))(handler).ServeHTTP(rr, newTestRequest("Bearer valid"))

	if GetUserID(handler.ctx) != "user:123" {
		t.Errorf("expected user:123 in context, got %q", GetUserID(handler.ctx))
	}
}

// ============================================================================
// Context Helper Tests
// ============================================================================

func TestContextHelpers_EmptyContext(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	if GetUserID(ctx) != "" || GetUserEmail(ctx) != "" || GetClaims(ctx) != nil {
		t.Error("expected zero values from empty context")
	}
}
