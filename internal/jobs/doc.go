// Package jobs implements background maintenance tasks for the API.
//
// Jobs run on their own goroutine with a ticker and expose Start, Stop,
// RunOnce and IsRunning. Start and Stop are idempotent, and Stop waits for
// the loop to exit.
//
//	sweeper := jobs.NewThrottleSweeper(loginThrottle, 5*time.Minute, logger)
//	sweeper.Start()
//	defer sweeper.Stop()
//
// Jobs log failures and keep running.
package jobs
