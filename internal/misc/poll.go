// Package misc holds small shared helpers.
package misc

import (
	"context"
	"time"
)

// Poll runs probe at a fixed interval until it returns true, the budget is
// spent, or ctx is cancelled. It reports whether the condition was met.
// There is no backoff: the wait loop tolerates probes that fail while the
// target warms up, so a fixed cadence is enough.
func Poll(ctx context.Context, interval, budget time.Duration, probe func() bool) bool {
	deadline := time.Now().Add(budget)
	for time.Now().Before(deadline) {
		if probe() {
			return true
		}
		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return false
		case <-t.C:
		}
	}
	return false
}
