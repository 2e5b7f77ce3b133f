// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	poolstore "github.com/suvana/suvana/internal/app/store/pools"
	"github.com/suvana/suvana/internal/app/system/metrics"
	"github.com/suvana/suvana/internal/app/system/ratelimit"
	"github.com/suvana/suvana/internal/app/system/workers"
	"github.com/suvana/suvana/internal/domain/seed"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// MongoClient and MongoDatabase are nil when pools are kept in memory.
// Background is allocated by ConnectDB and filled by Startup; it is a
// pointer so later hooks see what Startup started.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Pools   poolstore.Store
	Seed    *seed.Data
	Metrics *metrics.Metrics

	Background *Background
}

// Background holds the long-running pieces stopped by Shutdown.
type Background struct {
	Payouts        *workers.PayoutScheduler
	ConnectLimiter *ratelimit.Limiter
}
