// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/robfig/cron/v3"
	walletfeature "github.com/suvana/suvana/internal/app/features/wallet"
	"github.com/suvana/suvana/internal/app/system/auth"
	"github.com/suvana/suvana/internal/app/system/timeouts"
	"github.com/suvana/suvana/internal/app/system/workers"
	"go.uber.org/zap"
)

const (
	poolStoreMemory = "memory"
	poolStoreMongo  = "mongo"

	devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"
)

// appConfigKeys defines the configuration keys for Suvana.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: pool_store, session_name, etc.
//   - Environment variables: SUVANA_POOL_STORE, SUVANA_SESSION_NAME, etc.
//   - Command-line flags: --pool_store, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "pool_store", Default: poolStoreMemory, Desc: "Pool storage backend: 'memory' or 'mongo'"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "suvana", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: auth.DefaultSessionName, Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "How long a connected wallet is remembered"},
	{Name: "csrf_key", Default: "", Desc: "CSRF token key (blank generates one per process)"},

	{Name: "seed_file", Default: "", Desc: "YAML file of demo pools (blank uses the built-in set)"},

	// Wallet simulation
	{Name: "demo_wallet_address", Default: "", Desc: "Address returned by every wallet connect (blank derives a fresh one)"},
	{Name: "sim_connect_delay", Default: "2s", Desc: "Simulated wallet connect latency"},
	{Name: "sim_create_delay", Default: "1.5s", Desc: "Simulated pool creation latency"},
	{Name: "sim_join_delay", Default: "0s", Desc: "Simulated pool join latency"},
	{Name: "sim_contribute_delay", Default: "0s", Desc: "Simulated contribution latency"},

	{Name: "payout_schedule", Default: workers.DefaultPayoutSchedule, Desc: "Cron spec for advancing pools past their payout date"},
	{Name: "store_timeout", Default: "10s", Desc: "Timeout for pool listings and writes"},
	{Name: "sweep_timeout", Default: "30s", Desc: "Timeout for one payout sweep"},

	{Name: "connect_rate_limit", Default: 20, Desc: "Wallet connects allowed per client per window"},
	{Name: "connect_rate_window", Default: "1m", Desc: "Window for connect_rate_limit"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, SUVANA_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SUVANA", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		PoolStore:        appValues.String("pool_store"),
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),
		CSRFKey:       appValues.String("csrf_key"),

		SeedFile: appValues.String("seed_file"),

		DemoWalletAddress:  appValues.String("demo_wallet_address"),
		SimConnectDelay:    appValues.Duration("sim_connect_delay", 2*time.Second),
		SimCreateDelay:     appValues.Duration("sim_create_delay", 1500*time.Millisecond),
		SimJoinDelay:       appValues.Duration("sim_join_delay", 0),
		SimContributeDelay: appValues.Duration("sim_contribute_delay", 0),

		PayoutSchedule: appValues.String("payout_schedule"),
		StoreTimeout:   appValues.Duration("store_timeout", timeouts.DefaultMedium),
		SweepTimeout:   appValues.Duration("sweep_timeout", timeouts.DefaultSweep),

		ConnectRateLimit:  appValues.Int("connect_rate_limit"),
		ConnectRateWindow: appValues.Duration("connect_rate_window", time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI is only checked when pools are stored in MongoDB.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.PoolStore {
	case poolStoreMemory:
	case poolStoreMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("mongo_database is required when pool_store is %q", poolStoreMongo)
		}
	default:
		return fmt.Errorf("pool_store must be %q or %q, got %q", poolStoreMemory, poolStoreMongo, appCfg.PoolStore)
	}

	if coreCfg != nil && coreCfg.Env == "prod" && (appCfg.SessionKey == "" || appCfg.SessionKey == devSessionKey) {
		return fmt.Errorf("session_key must be set to a strong secret in production")
	}

	if a := appCfg.DemoWalletAddress; a != "" && !walletfeature.ValidAddress(a) {
		return fmt.Errorf("demo_wallet_address %q is not a 0x-prefixed hex address", a)
	}

	if _, err := cron.ParseStandard(appCfg.PayoutSchedule); err != nil {
		return fmt.Errorf("invalid payout_schedule %q: %w", appCfg.PayoutSchedule, err)
	}

	if appCfg.ConnectRateLimit <= 0 || appCfg.ConnectRateWindow <= 0 {
		return fmt.Errorf("connect_rate_limit and connect_rate_window must be positive")
	}

	for name, d := range map[string]time.Duration{
		"sim_connect_delay":    appCfg.SimConnectDelay,
		"sim_create_delay":     appCfg.SimCreateDelay,
		"sim_join_delay":       appCfg.SimJoinDelay,
		"sim_contribute_delay": appCfg.SimContributeDelay,
		"store_timeout":        appCfg.StoreTimeout,
		"sweep_timeout":        appCfg.SweepTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}

	return nil
}
