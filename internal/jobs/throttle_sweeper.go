package jobs

import (
	"log/slog"
	"sync"
	"time"
)

// Sweeper is implemented by stores that can drop expired entries
type Sweeper interface {
	Sweep() int
	Len() int
}

// ThrottleSweeper periodically removes expired login throttle buckets
type ThrottleSweeper struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *slog.Logger
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewThrottleSweeper creates a new sweeper job
func NewThrottleSweeper(sweeper Sweeper, interval time.Duration, logger *slog.Logger) *ThrottleSweeper {
	if interval == 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ThrottleSweeper{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the sweeper job
func (s *ThrottleSweeper) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()
	s.logger.Info("throttle sweeper started", slog.Duration("interval", s.interval))
}

// Stop gracefully stops the sweeper job
func (s *ThrottleSweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("throttle sweeper stopped")
}

func (s *ThrottleSweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce()
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce sweeps once and returns the number of removed buckets
func (s *ThrottleSweeper) RunOnce() int {
	removed := s.sweeper.Sweep()
	if removed > 0 {
		s.logger.Debug("swept expired throttle buckets",
			slog.Int("removed", removed),
			slog.Int("remaining", s.sweeper.Len()),
		)
	}
	return removed
}

// IsRunning returns whether the sweeper is running
func (s *ThrottleSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
