package api

import (
	"context"
	"sync"
	"time"
)

// RetryPolicy is the bounded retry state machine driven by the pipeline:
//
//	Initial → AuthRetry (401) → Terminal
//	Initial → BackoffRetry (5xx/408/429) → Terminal
//
// Both arms share one attempt counter, so interleaved 401s and 5xxs drain
// the same budget. The counter survives across calls and is reset on a
// successful top-level call and on app foregrounding.
type RetryPolicy struct {
	maxAttempts int
	authDelay   time.Duration
	backoffStep time.Duration

	mu       sync.Mutex
	attempts int
}

func NewRetryPolicy(maxAttempts int, authDelay, backoffStep time.Duration) *RetryPolicy {
	return &RetryPolicy{
		maxAttempts: maxAttempts,
		authDelay:   authDelay,
		backoffStep: backoffStep,
	}
}

// RecordAttempt counts one executed attempt and returns the total so far.
func (r *RetryPolicy) RecordAttempt() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
	return r.attempts
}

// AuthRetryDelay reports whether a forced-reauth retry is allowed for the
// descriptor and the delay to sleep before it. Allowed at most once per
// call and only while the shared budget lasts.
func (r *RetryPolicy) AuthRetryDelay(d *RequestDescriptor) (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.isRetry || r.attempts >= r.maxAttempts {
		return 0, false
	}
	return r.authDelay, true
}

// BackoffDelay reports whether a backoff retry is allowed and the delay
// before the next attempt: attempts-made * step, so the wait grows with
// every attempt.
func (r *RetryPolicy) BackoffDelay() (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.attempts >= r.maxAttempts {
		return 0, false
	}
	return time.Duration(r.attempts) * r.backoffStep, true
}

// Reset clears the shared attempt counter.
func (r *RetryPolicy) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = 0
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
