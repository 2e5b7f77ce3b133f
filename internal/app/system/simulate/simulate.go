// Package simulate provides the fixed latencies that stand in for wallet and
// chain round trips.
package simulate

import (
	"context"
	"time"
)

// Delays are the per-action latencies applied before a simulated call
// completes. A zero value completes immediately.
type Delays struct {
	Connect    time.Duration
	Create     time.Duration
	Join       time.Duration
	Contribute time.Duration
}

// DefaultDelays match the wallet connect (2s) and pool creation (1.5s)
// latencies; join and contribute are immediate.
func DefaultDelays() Delays {
	return Delays{
		Connect: 2 * time.Second,
		Create:  1500 * time.Millisecond,
	}
}

// Wait blocks for d or until ctx is done, whichever comes first.
// It returns ctx.Err() when the wait was cut short.
func Wait(ctx context.Context, d time.Duration) error {
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
