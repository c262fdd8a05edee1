package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, rps float64, burst int, clock *fakeClock) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(RateLimitConfig{RPS: rps, Burst: burst, Now: clock.Now})
	t.Cleanup(rl.Stop)
	return rl
}

// ============================================================================
// NewRateLimiter Tests (Configuration)
// ============================================================================

func TestNewRateLimiter_DefaultConfig(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{})
	defer rl.Stop()

	if rl.rps != 10 {
		t.Errorf("expected default rps 10, got %v", rl.rps)
	}
	if rl.burst != 20 {
		t.Errorf("expected default burst 20, got %d", rl.burst)
	}
	if rl.idleTTL != 10*time.Minute || rl.cleanup != 5*time.Minute {
		t.Errorf("unexpected cleanup defaults: ttl %v interval %v", rl.idleTTL, rl.cleanup)
	}
}

func TestRateLimiter_Stop_Idempotent(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{})

	rl.Stop()
	rl.Stop()
}

// ============================================================================
// Allow() Tests
// ============================================================================

func TestAllow_BurstThenDeny(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rl := newTestLimiter(t, 1, 3, clock)

	for i := 0; i < 3; i++ {
		allowed, remaining, _ := rl.Allow("client")
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if want := 2 - i; remaining != want {
			t.Errorf("request %d: expected remaining %d, got %d", i+1, want, remaining)
		}
	}

	allowed, remaining, retryAfter := rl.Allow("client")
	if allowed {
		t.Fatal("request beyond burst should be denied")
	}
	if remaining != 0 {
		t.Errorf("expected remaining 0, got %d", remaining)
	}
	if retryAfter <= 0 || retryAfter > time.Second {
		t.Errorf("expected retryAfter in (0, 1s], got %v", retryAfter)
	}
}

func TestAllow_RefillsOverTime(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rl := newTestLimiter(t, 2, 1, clock)

	if allowed, _, _ := rl.Allow("client"); !allowed {
		t.Fatal("first request should be allowed")
	}
	if allowed, _, _ := rl.Allow("client"); allowed {
		t.Fatal("second request should be denied")
	}

	clock.Advance(500 * time.Millisecond)

	if allowed, _, _ := rl.Allow("client"); !allowed {
		t.Error("request after refill should be allowed")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rl := newTestLimiter(t, 1, 1, clock)

	if allowed, _, _ := rl.Allow("a"); !allowed {
		t.Fatal("a should be allowed")
	}
	if allowed, _, _ := rl.Allow("b"); !allowed {
		t.Error("b should not be affected by a")
	}
	if rl.Len() != 2 {
		t.Errorf("expected 2 tracked clients, got %d", rl.Len())
	}
}

func TestCleanupIdle_RemovesStaleClients(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rl := newTestLimiter(t, 1, 1, clock)

	rl.Allow("stale")
	clock.Advance(11 * time.Minute)
	rl.Allow("fresh")

	rl.cleanupIdle()

	if rl.Len() != 1 {
		t.Fatalf("expected 1 client after cleanup, got %d", rl.Len())
	}
	if _, ok := rl.clients["fresh"]; !ok {
		t.Error("expected fresh client to survive cleanup")
	}
}

// ============================================================================
// RateLimit() Middleware Tests
// ============================================================================

func TestRateLimit_SetsHeaders(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rl := newTestLimiter(t, 1, 5, clock)
	handler := &captureHandler{}

	req := httptest.NewRequest(http.MethodGet, "/v1/exercises", nil)
	rr := httptest.NewRecorder()
	RateLimit(rl)(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("X-RateLimit-Limit"); got != "5" {
		t.Errorf("expected X-RateLimit-Limit 5, got %q", got)
	}
	if got := rr.Header().Get("X-RateLimit-Remaining"); got != "4" {
		t.Errorf("expected X-RateLimit-Remaining 4, got %q", got)
	}
}

func TestRateLimit_Denied_Returns429WithRetryAfter(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rl := newTestLimiter(t, 0.5, 1, clock)
	handler := &captureHandler{}
	mw := RateLimit(rl)(handler)

	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "2" {
		t.Errorf("expected Retry-After 2, got %q", got)
	}
	if rr.Header().Get("X-RateLimit-Reset") == "" {
		t.Error("expected X-RateLimit-Reset header")
	}
	if problem := decodeProblem(t, rr); problem.RetryAfter == nil || *problem.RetryAfter != 2 {
		t.Errorf("expected retry_after 2 in body, got %v", problem.RetryAfter)
	}
}

func TestRateLimit_KeysByUserThenIP(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rl := newTestLimiter(t, 1, 1, clock)
	handler := &captureHandler{}
	mw := RateLimit(rl)(handler)

	anon := httptest.NewRequest(http.MethodGet, "/", nil)
	anon.RemoteAddr = "10.0.0.1:5555"
	mw.ServeHTTP(httptest.NewRecorder(), anon)

	// Same IP, different port shares the bucket
	again := httptest.NewRequest(http.MethodGet, "/", nil)
	again.RemoteAddr = "10.0.0.1:6666"
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, again)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("expected same IP to be limited, got %d", rr.Code)
	}

	// An authenticated user from the same IP has its own bucket
	authed := httptest.NewRequest(http.MethodGet, "/", nil)
	authed.RemoteAddr = "10.0.0.1:7777"
	authed = authed.WithContext(context.WithValue(authed.Context(), UserIDKey, "user:123"))
	rr = httptest.NewRecorder()
	mw.ServeHTTP(rr, authed)
	if rr.Code != http.StatusOK {
		t.Errorf("expected authenticated user to have own bucket, got %d", rr.Code)
	}
}
