// Package clock holds time helpers shared by the sync services and the
// provider transport.
package clock

import (
	"context"
	"time"
)

// Sleep waits for d or until ctx is done, returning ctx.Err() in that case.
// A non-positive d returns immediately.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
