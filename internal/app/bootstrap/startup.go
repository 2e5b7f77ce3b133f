// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/suvana/suvana/internal/app/resources"
	"github.com/suvana/suvana/internal/app/system/ratelimit"
	"github.com/suvana/suvana/internal/app/system/workers"
	"go.uber.org/zap"
)

var timeNow = func() time.Time { return time.Now().UTC() }

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It loads
// the shared templates and starts the payout scheduler and the connect
// rate limiter.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	sched, err := workers.NewPayoutScheduler(deps.Pools, logger, appCfg.PayoutSchedule)
	if err != nil {
		return err
	}
	sched.OnAdvance = func(n int) {
		deps.Metrics.CyclesAdvanced.Add(float64(n))
	}

	// Catch up on payouts that fell due while the app was down.
	sched.RunOnce()
	sched.Start()

	deps.Background.Payouts = sched
	deps.Background.ConnectLimiter = ratelimit.New(appCfg.ConnectRateLimit, appCfg.ConnectRateWindow)
	return nil
}
