package retry

import (
	"context"
	"time"
)

// Backoff computes the delay before the next attempt.
type Backoff interface {
	Next(attempt int) time.Duration
}

// ExponentialBackoff doubles Base on every attempt, capped at Max.
type ExponentialBackoff struct {
	Base time.Duration
	Max  time.Duration
}

// Next returns the delay after the given 1-based attempt.
func (b ExponentialBackoff) Next(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := b.Base
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	delay := base << (attempt - 1)
	if delay <= 0 || (b.Max > 0 && delay > b.Max) {
		return b.Max
	}
	return delay
}

// Do calls fn up to attempts times, sleeping per backoff between failures.
// onRetry, when set, sees each failure that will be retried. The last error
// is returned, or ctx.Err() if the context ends while waiting.
func Do(ctx context.Context, attempts int, backoff Backoff, fn func(context.Context) error, onRetry func(attempt int, delay time.Duration, err error)) error {
	if attempts <= 0 {
		attempts = 1
	}
	if backoff == nil {
		backoff = ExponentialBackoff{}
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		delay := backoff.Next(attempt)
		if onRetry != nil {
			onRetry(attempt, delay, err)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
