package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sgt/fitapi/internal/model"
	"golang.org/x/time/rate"
)

// RateLimiter applies a token bucket per client key
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*client
	rps      rate.Limit
	burst    int
	idleTTL  time.Duration
	cleanup  time.Duration
	now      func() time.Time
	stopOnce sync.Once
	stopChan chan struct{}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitConfig holds rate limiter configuration
type RateLimitConfig struct {
	RPS     float64          // sustained requests per second (default 10)
	Burst   int              // bucket size (default 20)
	IdleTTL time.Duration    // forget clients idle this long (default 10 minutes)
	Cleanup time.Duration    // cleanup interval (default 5 minutes)
	Now     func() time.Time // clock, defaults to time.Now
}

// NewRateLimiter creates a new rate limiter and starts its cleanup loop
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.RPS <= 0 {
		cfg.RPS = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	if cfg.Cleanup <= 0 {
		cfg.Cleanup = 5 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	rl := &RateLimiter{
		clients:  make(map[string]*client),
		rps:      rate.Limit(cfg.RPS),
		burst:    cfg.Burst,
		idleTTL:  cfg.IdleTTL,
		cleanup:  cfg.Cleanup,
		now:      cfg.Now,
		stopChan: make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupIdle()
		case <-rl.stopChan:
			return
		}
	}
}

func (rl *RateLimiter) cleanupIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.idleTTL)
	for key, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}

// Len returns the number of tracked clients
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Allow takes a token for key. When denied, retryAfter is how long until the
// next token is available.
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now

	if c.limiter.AllowN(now, 1) {
		return true, int(math.Floor(c.limiter.TokensAt(now))), 0
	}

	missing := 1 - c.limiter.TokensAt(now)
	retryAfter = time.Duration(missing / float64(rl.rps) * float64(time.Second))
	return false, 0, retryAfter
}

// RateLimit returns a middleware that applies rate limiting per user when
// the context carries a user ID and per client IP otherwise. It has to sit
// inside Auth or OptionalAuth to see the user.
func RateLimit(limiter *RateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := GetUserID(r.Context())
			if key == "" {
				key = clientIP(r)
			}

			allowed, remaining, retryAfter := limiter.Allow(key)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(limiter.now().Add(retryAfter).Unix(), 10))
				w.Header().Set("Retry-After", strconv.Itoa(seconds))

				model.NewRateLimitError(seconds).WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
