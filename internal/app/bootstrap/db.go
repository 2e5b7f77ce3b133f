// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	poolstore "github.com/suvana/suvana/internal/app/store/pools"
	"github.com/suvana/suvana/internal/app/system/indexes"
	"github.com/suvana/suvana/internal/app/system/metrics"
	"github.com/suvana/suvana/internal/app/system/timeouts"
	"github.com/suvana/suvana/internal/app/system/validators"
	"github.com/suvana/suvana/internal/domain/seed"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the pool store named by pool_store and loads the seed file.
// It is the first hook to touch the store, so it also applies the configured
// timeouts.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	timeouts.Configure(timeouts.Config{
		Medium: appCfg.StoreTimeout,
		Sweep:  appCfg.SweepTimeout,
	})

	sd, err := seed.Load(appCfg.SeedFile)
	if err != nil {
		return DBDeps{}, err
	}

	deps := DBDeps{
		Seed:       sd,
		Metrics:    metrics.New(),
		Background: &Background{},
	}

	if appCfg.PoolStore != poolStoreMongo {
		logger.Info("using in-memory pool store; pools reset on restart")
		deps.Pools = poolstore.NewMemory()
		return deps, nil
	}

	cctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), logger, "mongo connect")
	defer cancel()

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)
	client, err := mongo.Connect(cctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	db := client.Database(appCfg.MongoDatabase)
	deps.MongoClient = client
	deps.MongoDatabase = db
	deps.Pools = poolstore.NewMongo(db)
	return deps, nil
}

// EnsureSchema attaches validators and indexes when pools live in MongoDB,
// then loads the seed pools into an empty store.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), logger, "ensure schema")
	defer cancel()

	if deps.MongoDatabase != nil {
		if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
			return fmt.Errorf("ensure validators: %w", err)
		}
		if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}
	return seedPools(ctx, deps, logger)
}

// seedPools inserts the seed pools when the store has none.
func seedPools(ctx context.Context, deps DBDeps, logger *zap.Logger) error {
	n, err := deps.Pools.Count(ctx)
	if err != nil {
		return fmt.Errorf("count pools: %w", err)
	}
	if n > 0 {
		logger.Debug("pool store already populated; skipping seed", zap.Int64("pools", n))
		return nil
	}

	pools := deps.Seed.PoolsAt(timeNow())
	for _, p := range pools {
		if _, err := deps.Pools.Create(ctx, p); err != nil {
			return fmt.Errorf("seed pool %q: %w", p.ID, err)
		}
	}
	logger.Info("seeded demo pools", zap.Int("count", len(pools)))
	return nil
}
