package engine

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/shaladdle/rcopy/internal/copyerr"
)

// Retry defaults.
const (
	DefaultBackoffUnit = time.Millisecond
	DefaultMaxWait     = 4 * time.Second
)

// Retrier re-runs an operation with exponential backoff until it succeeds
// or fails with an error that copyerr does not classify as retryable.
// There is no attempt limit; only the per-attempt delay is capped.
type Retrier struct {
	// Clock drives the backoff waits. Defaults to the real clock.
	Clock clockwork.Clock
	// OnRetry, if set, is called after a retryable failure and before the wait.
	OnRetry func(attempt int, delay time.Duration, err error)
	// MaxWait caps the delay between attempts. Defaults to DefaultMaxWait.
	MaxWait time.Duration
	// Unit is the delay after the first failure. Defaults to DefaultBackoffUnit.
	Unit time.Duration
}

// Backoff returns the delay after failed attempt n (0-indexed):
// min(2^n * unit, maxWait).
func Backoff(n int, unit, maxWait time.Duration) time.Duration {
	d := unit
	for range n {
		if d > maxWait/2 {
			return maxWait
		}
		d *= 2
	}
	return min(d, maxWait)
}

// Do runs op until it returns nil or a non-retryable error, or ctx is done.
// The attempt counter passed to op starts at 0 and never resets.
func (r Retrier) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) error {
	clock := r.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	maxWait := r.MaxWait
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	unit := r.Unit
	if unit <= 0 {
		unit = DefaultBackoffUnit
	}

	for attempt := 0; ; attempt++ {
		err := op(ctx, attempt)
		if err == nil {
			return nil
		}
		if !copyerr.IsRetryable(err) {
			return err
		}

		delay := Backoff(attempt, unit, maxWait)
		if r.OnRetry != nil {
			r.OnRetry(attempt, delay, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.After(delay):
		}
	}
}

// RetryWithBackoff runs op under a default Retrier capped at maxWait.
func RetryWithBackoff(ctx context.Context, maxWait time.Duration, op func(ctx context.Context) error) error {
	return Retrier{MaxWait: maxWait}.Do(ctx, func(ctx context.Context, _ int) error {
		return op(ctx)
	})
}
