package crawl

import (
	"context"
	"time"
)

// RetryFunc is a single attempt of a retried operation.
type RetryFunc func(ctx context.Context) error

// Retry runs fn once and then once more per entry in delays, sleeping for
// that delay before each retry. It returns nil on the first success and the
// last error otherwise. A nil or empty delays slice means a single attempt.
func Retry(ctx context.Context, delays []time.Duration, fn RetryFunc) error {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return lastErr
}

// BackoffDelays returns n exponentially growing delays starting at base.
func BackoffDelays(n int, base time.Duration) []time.Duration {
	if n <= 0 {
		return nil
	}
	delays := make([]time.Duration, n)
	d := base
	for i := range delays {
		delays[i] = d
		d *= 2
	}
	return delays
}
