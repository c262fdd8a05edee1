package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sgt/fitapi/internal/database"
	"github.com/sgt/fitapi/internal/model"
	"github.com/sgt/fitapi/pkg/jwt"
)

// TestSecret signs every token minted by the helpers
const TestSecret = "fitapi-test-secret-0123456789abcdef"

// ============================================================================
// JWT Helpers
// ============================================================================

// JWTHelper provides token generation for tests
type JWTHelper struct {
	Service *jwt.Service
	secret  []byte
}

// NewJWTHelper creates a helper backed by an HS256 service using TestSecret
func NewJWTHelper(t *testing.T) *JWTHelper {
	t.Helper()
	return &JWTHelper{
		Service: NewTestJWTService(t),
		secret:  []byte(TestSecret),
	}
}

// GenerateToken creates a valid token for user with the claims the auth
// middleware reads.
func (h *JWTHelper) GenerateToken(user *model.User) string {
	token, err := h.Service.IssueWithClaims(user.Email, map[string]any{
		"uid":  user.ID,
		"role": string(user.Role),
	})
	if err != nil {
		panic("helpers: issue token: " + err.Error())
	}
	return token
}

// GenerateExpiredToken creates a token for user that expired an hour ago
func (h *JWTHelper) GenerateExpiredToken(user *model.User) string {
	past, err := jwt.NewService(jwt.Config{
		Secret:       h.secret,
		ExpirationMs: time.Hour.Milliseconds(),
		Now:          func() time.Time { return time.Now().Add(-2 * time.Hour) },
	})
	if err != nil {
		panic("helpers: build service: " + err.Error())
	}
	token, err := past.IssueWithClaims(user.Email, map[string]any{"uid": user.ID})
	if err != nil {
		panic("helpers: issue token: " + err.Error())
	}
	return token
}

// ============================================================================
// HTTP Request Helpers
// ============================================================================

// RequestBuilder helps construct HTTP requests for testing
type RequestBuilder struct {
	t       *testing.T
	method  string
	path    string
	body    interface{}
	headers map[string]string
	jwt     *JWTHelper
	user    *model.User
}

// NewRequest creates a new request builder
func NewRequest(t *testing.T, method, path string) *RequestBuilder {
	t.Helper()
	return &RequestBuilder{
		t:       t,
		method:  method,
		path:    path,
		headers: make(map[string]string),
	}
}

// WithBody sets the request body (will be JSON encoded)
func (rb *RequestBuilder) WithBody(body interface{}) *RequestBuilder {
	rb.body = body
	return rb
}

// WithHeader adds a header to the request
func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.headers[key] = value
	return rb
}

// WithAuth adds authentication for the given user
func (rb *RequestBuilder) WithAuth(jwt *JWTHelper, user *model.User) *RequestBuilder {
	rb.jwt = jwt
	rb.user = user
	return rb
}

// Build creates the HTTP request
func (rb *RequestBuilder) Build() *http.Request {
	rb.t.Helper()

	var bodyReader io.Reader
	if rb.body != nil {
		if raw, ok := rb.body.(string); ok {
			bodyReader = bytes.NewReader([]byte(raw))
		} else {
			bodyBytes, err := json.Marshal(rb.body)
			if err != nil {
				rb.t.Fatalf("helpers: failed to marshal body: %v", err)
			}
			bodyReader = bytes.NewReader(bodyBytes)
		}
	}

	req := httptest.NewRequest(rb.method, rb.path, bodyReader)

	if rb.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range rb.headers {
		req.Header.Set(k, v)
	}
	if rb.jwt != nil && rb.user != nil {
		req.Header.Set("Authorization", "Bearer "+rb.jwt.GenerateToken(rb.user))
	}

	return req
}

// ============================================================================
// Response Assertion Helpers
// ============================================================================

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, resp *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if resp.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, resp.Code, resp.Body.String())
	}
}

// AssertProblemDetails validates an RFC 9457 Problem Details error response
func AssertProblemDetails(t *testing.T, resp *httptest.ResponseRecorder, expectedStatus int, expectedCode model.ErrorCode) {
	t.Helper()

	AssertStatus(t, resp, expectedStatus)

	var problem model.ProblemDetails
	bodyBytes := resp.Body.Bytes()
	if err := json.Unmarshal(bodyBytes, &problem); err != nil {
		t.Fatalf("failed to decode problem details: %v. Body: %s", err, string(bodyBytes))
	}

	if problem.Status != expectedStatus {
		t.Errorf("expected problem.status %d, got %d", expectedStatus, problem.Status)
	}
	if expectedCode != 0 && problem.Code != expectedCode {
		t.Errorf("expected problem.code %d, got %d", expectedCode, problem.Code)
	}
}

// AssertValidationError checks for a validation error on a specific field
func AssertValidationError(t *testing.T, resp *httptest.ResponseRecorder, field string) {
	t.Helper()

	AssertStatus(t, resp, http.StatusUnprocessableEntity)

	var problem model.ProblemDetails
	if err := json.Unmarshal(resp.Body.Bytes(), &problem); err != nil {
		t.Fatalf("failed to decode problem details: %v", err)
	}

	for _, fe := range problem.Errors {
		if fe.Field == field {
			return
		}
	}

	t.Errorf("expected validation error on field %q, but not found. Errors: %+v", field, problem.Errors)
}

// DecodeResponse decodes the response body into the given struct
func DecodeResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	bodyBytes := resp.Body.Bytes()
	if err := json.Unmarshal(bodyBytes, v); err != nil {
		t.Fatalf("failed to decode response: %v. Body: %s", err, string(bodyBytes))
	}
}

// GetDataFromResponse extracts the "data" field from a standard response
func GetDataFromResponse(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var response struct {
		Data map[string]interface{} `json:"data"`
	}
	DecodeResponse(t, resp, &response)
	return response.Data
}

// ============================================================================
// Database Assertion Helpers
// ============================================================================

// AssertRecordExists checks that a record exists in the database
func AssertRecordExists(t *testing.T, db database.Database, id string) {
	t.Helper()

	if !recordExists(t, db, id) {
		t.Errorf("expected record %s to exist, but it doesn't", id)
	}
}

// AssertRecordNotExists checks that a record does not exist
func AssertRecordNotExists(t *testing.T, db database.Database, id string) {
	t.Helper()

	if recordExists(t, db, id) {
		t.Errorf("expected record %s to not exist, but it does", id)
	}
}

func recordExists(t *testing.T, db database.Database, id string) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	results, err := db.Query(ctx, "SELECT * FROM type::record($id)", map[string]interface{}{"id": id})
	if err != nil {
		t.Fatalf("failed to query for record: %v", err)
	}
	return hasResults(results)
}

// hasResults checks if SurrealDB query returned any results
func hasResults(results []interface{}) bool {
	if len(results) == 0 {
		return false
	}

	resp, ok := results[0].(map[string]interface{})
	if !ok {
		return false
	}

	switch v := resp["result"].(type) {
	case []interface{}:
		return len(v) > 0
	case nil:
		return false
	default:
		return true
	}
}

// ============================================================================
// Service Factory Helpers
// ============================================================================

// NewTestJWTService creates an HS256 service signing with TestSecret
func NewTestJWTService(t *testing.T) *jwt.Service {
	t.Helper()

	svc, err := jwt.NewService(jwt.Config{Secret: []byte(TestSecret)})
	if err != nil {
		t.Fatalf("helpers: failed to create jwt service: %v", err)
	}
	return svc
}

// ============================================================================
// Utility Helpers
// ============================================================================

// StringPtr returns a pointer to the string
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to the int
func IntPtr(i int) *int {
	return &i
}

// Float64Ptr returns a pointer to the float
func Float64Ptr(f float64) *float64 {
	return &f
}

// BoolPtr returns a pointer to the bool
func BoolPtr(b bool) *bool {
	return &b
}

// TimePtr returns a pointer to the time
func TimePtr(t time.Time) *time.Time {
	return &t
}
