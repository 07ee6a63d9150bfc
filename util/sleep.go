package util

import (
	"context"
	"time"
)

// SleepContext waits for dur or until ctx is done, whichever comes first.
// It returns the context's cancellation cause in the latter case. A
// non-positive dur only checks the context.
func SleepContext(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
		return nil
	}

	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-timer.C:
		return nil
	}
}
