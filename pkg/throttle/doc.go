// Package throttle bounds failed authentication attempts per key.
//
// Each key owns a fixed window that starts at its first failure. Once
// MaxAttempts failures land inside the window, CheckNotBlocked returns a
// *BlockedError until the window ends. The window does not slide: a failure
// after it ends starts a new window with a count of one.
//
//	t := throttle.New(throttle.Config{MaxAttempts: 5, Window: 10 * time.Minute})
//
//	if err := t.CheckNotBlocked(email); err != nil {
//	    return err // errors.Is(err, throttle.ErrRateLimited)
//	}
//	if !passwordOK {
//	    t.RecordFailure(email)
//	    return ErrInvalidCredentials
//	}
//	t.RecordSuccess(email)
//
// State lives in memory only and is lost on restart. Keys are spread over
// independently locked shards so unrelated keys do not contend. Expired
// buckets behave as absent; Sweep removes them to reclaim memory.
package throttle
