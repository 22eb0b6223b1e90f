package engine

import (
	"context"
	"time"
)

// RetryPolicy is the single bounded-retry discipline used by every
// conditional-write path in the engine. MaxAttempts counts the total number
// of tries, not the number of retries; BaseDelay grows linearly with the
// attempt number so racing bidders spread out instead of re-colliding.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy matches the bounded-retry guidance for contended bids.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, BaseDelay: 25 * time.Millisecond}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts <= 0 {
		return 1
	}
	return p.MaxAttempts
}

// wait sleeps for the backoff of the given (zero-based) attempt, or returns
// early with the context error if the caller gave up.
func (p RetryPolicy) wait(ctx context.Context, attempt int) error {
	if p.BaseDelay <= 0 {
		return ctx.Err()
	}
	delay := p.BaseDelay * time.Duration(attempt+1)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
