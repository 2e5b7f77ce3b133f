// internal/app/system/workers/payouts.go
package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/suvana/suvana/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// DefaultPayoutSchedule runs the payout sweep once a minute.
const DefaultPayoutSchedule = "@every 1m"

// CycleAdvancer moves every active pool whose payout is due into its next
// cycle and reports how many pools changed. poolstore.Store satisfies it.
type CycleAdvancer interface {
	AdvanceDue(ctx context.Context, now time.Time) (int, error)
}

// PayoutScheduler is a background worker that advances pool cycles on a
// cron schedule.
type PayoutScheduler struct {
	pools    CycleAdvancer
	log      *zap.Logger
	schedule string
	cron     *cron.Cron
	now      func() time.Time

	// OnAdvance, when set, is called with the number of pools advanced by a run.
	OnAdvance func(n int)
}

// NewPayoutScheduler creates the worker and validates the schedule spec
// (standard five-field cron or descriptors such as "@every 1m").
func NewPayoutScheduler(pools CycleAdvancer, logger *zap.Logger, schedule string) (*PayoutScheduler, error) {
	if schedule == "" {
		schedule = DefaultPayoutSchedule
	}
	w := &PayoutScheduler{
		pools:    pools,
		log:      logger,
		schedule: schedule,
		cron:     cron.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	if _, err := w.cron.AddFunc(schedule, w.RunOnce); err != nil {
		return nil, fmt.Errorf("register payout schedule %q: %w", schedule, err)
	}
	return w, nil
}

// Start begins running the schedule in the background.
func (w *PayoutScheduler) Start() {
	w.cron.Start()
	w.log.Info("payout scheduler started", zap.String("schedule", w.schedule))
}

// Stop halts the schedule and waits for a running sweep to finish.
func (w *PayoutScheduler) Stop() {
	<-w.cron.Stop().Done()
	w.log.Info("payout scheduler stopped")
}

// RunOnce performs a single sweep over due pools.
func (w *PayoutScheduler) RunOnce() {
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Sweep(), w.log, "payout sweep")
	defer cancel()

	n, err := w.pools.AdvanceDue(ctx, w.now())
	if err != nil {
		w.log.Error("failed to advance due pools", zap.Error(err))
	}
	if n > 0 {
		w.log.Info("advanced pool cycles", zap.Int("count", n))
		if w.OnAdvance != nil {
			w.OnAdvance(n)
		}
	}
}
