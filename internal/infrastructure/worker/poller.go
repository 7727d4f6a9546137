package worker

import (
	"context"
	"fmt"
	"time"
)

// Poll invokes fn every interval until it reports done, the attempt ceiling is
// hit, or ctx is cancelled. The first call happens immediately.
func Poll(ctx context.Context, interval time.Duration, maxAttempts int, fn func(ctx context.Context) (bool, error)) error {
	if interval <= 0 {
		interval = time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	var lastErr error
	for attempt := 1; ; attempt++ {
		done, err := fn(ctx)
		if done {
			return nil
		}
		if err != nil {
			lastErr = err
		}
		if attempt >= maxAttempts {
			if lastErr != nil {
				return fmt.Errorf("gave up after %d attempts: %w", attempt, lastErr)
			}
			return fmt.Errorf("gave up after %d attempts", attempt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}
