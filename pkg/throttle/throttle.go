package throttle

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"
)

// ErrRateLimited is matched by every *BlockedError
var ErrRateLimited = errors.New("too many failed attempts")

// BlockedError reports a blocked key and how long until its window ends
type BlockedError struct {
	Key        string
	RetryAfter time.Duration
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s: retry after %s", ErrRateLimited.Error(), e.RetryAfter)
}

// Is lets errors.Is(err, ErrRateLimited) match
func (e *BlockedError) Is(target error) bool {
	return target == ErrRateLimited
}

const (
	DefaultMaxAttempts = 5
	DefaultWindow      = 10 * time.Minute
	DefaultShards      = 32
)

// Config holds throttle configuration
type Config struct {
	MaxAttempts int              // failures allowed per window (default 5)
	Window      time.Duration    // fixed window from the first failure (default 10m)
	Shards      int              // lock shards (default 32)
	Now         func() time.Time // clock, defaults to time.Now
}

type bucket struct {
	windowStart time.Time
	count       int
}

type shard struct {
	mu      sync.Mutex
	buckets map[string]bucket
}

// Throttle counts failed attempts per key in fixed windows. Keys hash onto
// independently locked shards.
type Throttle struct {
	maxAttempts int
	window      time.Duration
	now         func() time.Time
	shards      []*shard
}

// New creates a throttle. Zero config values take the defaults.
func New(cfg Config) *Throttle {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Shards <= 0 {
		cfg.Shards = DefaultShards
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	shards := make([]*shard, cfg.Shards)
	for i := range shards {
		shards[i] = &shard{buckets: make(map[string]bucket)}
	}

	return &Throttle{
		maxAttempts: cfg.MaxAttempts,
		window:      cfg.Window,
		now:         cfg.Now,
		shards:      shards,
	}
}

// MaxAttempts returns the failure threshold
func (t *Throttle) MaxAttempts() int {
	return t.maxAttempts
}

// Window returns the window length
func (t *Throttle) Window() time.Duration {
	return t.window
}

// CheckNotBlocked returns a *BlockedError when key has reached the failure
// threshold inside a window that has not expired.
func (t *Throttle) CheckNotBlocked(key string) error {
	s := t.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := t.now()
	b, ok := s.buckets[key]
	if !ok || t.expired(b, now) || b.count < t.maxAttempts {
		return nil
	}

	retryAfter := b.windowStart.Add(t.window).Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return &BlockedError{Key: key, RetryAfter: retryAfter}
}

// RecordFailure counts a failed attempt for key and returns the count in
// the current window.
func (t *Throttle) RecordFailure(key string) int {
	s := t.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := t.now()
	b, ok := s.buckets[key]
	if !ok || t.expired(b, now) {
		b = bucket{windowStart: now}
	}
	b.count++
	s.buckets[key] = b
	return b.count
}

// RecordSuccess clears the failure history for key
func (t *Throttle) RecordSuccess(key string) {
	s := t.shardFor(key)
	s.mu.Lock()
	delete(s.buckets, key)
	s.mu.Unlock()
}

// Count returns the failures counted in key's current window, 0 when the
// window has expired.
func (t *Throttle) Count(key string) int {
	s := t.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok || t.expired(b, t.now()) {
		return 0
	}
	return b.count
}

// Len returns the number of stored buckets, expired ones included
func (t *Throttle) Len() int {
	n := 0
	for _, s := range t.shards {
		s.mu.Lock()
		n += len(s.buckets)
		s.mu.Unlock()
	}
	return n
}

// Sweep drops expired buckets and returns how many were removed. Expired
// buckets already behave as absent, so sweeping only reclaims memory.
func (t *Throttle) Sweep() int {
	removed := 0
	for _, s := range t.shards {
		s.mu.Lock()
		now := t.now()
		for key, b := range s.buckets {
			if t.expired(b, now) {
				delete(s.buckets, key)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

func (t *Throttle) expired(b bucket, now time.Time) bool {
	return now.After(b.windowStart.Add(t.window))
}

func (t *Throttle) shardFor(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return t.shards[h.Sum32()%uint32(len(t.shards))]
}
