package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	poolstore "github.com/suvana/suvana/internal/app/store/pools"
	"github.com/suvana/suvana/internal/app/system/metrics"
	"github.com/suvana/suvana/internal/app/system/workers"
	"github.com/suvana/suvana/internal/domain/seed"
	"github.com/suvana/suvana/internal/testutil"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		PoolStore:         poolStoreMemory,
		MongoURI:          "mongodb://localhost:27017",
		MongoDatabase:     "suvana",
		SessionKey:        devSessionKey,
		PayoutSchedule:    workers.DefaultPayoutSchedule,
		ConnectRateLimit:  20,
		ConnectRateWindow: time.Minute,
		SimConnectDelay:   2 * time.Second,
	}
}

func memoryDeps(t *testing.T) DBDeps {
	t.Helper()
	sd, err := seed.Default()
	if err != nil {
		t.Fatalf("seed.Default: %v", err)
	}
	return DBDeps{
		Pools:      poolstore.NewMemory(),
		Seed:       sd,
		Metrics:    metrics.New(),
		Background: &Background{},
	}
}

func TestValidateConfig(t *testing.T) {
	dev := &config.CoreConfig{Env: "dev"}
	prod := &config.CoreConfig{Env: "prod"}

	tests := []struct {
		name    string
		core    *config.CoreConfig
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"defaults", dev, func(*AppConfig) {}, false},
		{"mongo store with valid uri", dev, func(c *AppConfig) { c.PoolStore = poolStoreMongo }, false},
		{"mongo store with bad uri", dev, func(c *AppConfig) {
			c.PoolStore = poolStoreMongo
			c.MongoURI = "localhost:27017"
		}, true},
		{"memory store ignores bad uri", dev, func(c *AppConfig) { c.MongoURI = "nope" }, false},
		{"unknown store", dev, func(c *AppConfig) { c.PoolStore = "redis" }, true},
		{"dev key in prod", prod, func(*AppConfig) {}, true},
		{"strong key in prod", prod, func(c *AppConfig) { c.SessionKey = "a-real-secret-that-is-long-enough-0123" }, false},
		{"bad demo address", dev, func(c *AppConfig) { c.DemoWalletAddress = "wallet" }, true},
		{"good demo address", dev, func(c *AppConfig) { c.DemoWalletAddress = testutil.DemoAddress }, false},
		{"bad schedule", dev, func(c *AppConfig) { c.PayoutSchedule = "every minute" }, true},
		{"cron schedule", dev, func(c *AppConfig) { c.PayoutSchedule = "*/5 * * * *" }, false},
		{"zero rate limit", dev, func(c *AppConfig) { c.ConnectRateLimit = 0 }, true},
		{"negative delay", dev, func(c *AppConfig) { c.SimJoinDelay = -time.Second }, true},
		{"negative store timeout", dev, func(c *AppConfig) { c.StoreTimeout = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(tt.core, cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnsureSchema_SeedsEmptyStore(t *testing.T) {
	deps := memoryDeps(t)
	ctx := context.Background()

	if err := EnsureSchema(ctx, nil, validConfig(), deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	n, err := deps.Pools.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if want := int64(len(deps.Seed.Pools)); n != want {
		t.Errorf("expected %d seeded pools, got %d", want, n)
	}

	// A second run leaves the populated store alone.
	if err := EnsureSchema(ctx, nil, validConfig(), deps, testLogger()); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
	n2, _ := deps.Pools.Count(ctx)
	if n2 != n {
		t.Errorf("expected reseed to be skipped, count went from %d to %d", n, n2)
	}
}

func TestEnsureSchema_Mongo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := memoryDeps(t)
	deps.MongoDatabase = db
	deps.Pools = poolstore.NewMongo(db)

	if err := EnsureSchema(ctx, nil, validConfig(), deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	pools, err := deps.Pools.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pools) != len(deps.Seed.Pools) {
		t.Fatalf("expected %d pools, got %d", len(deps.Seed.Pools), len(pools))
	}
	if pools[0].ID != deps.Seed.Pools[0].ID {
		t.Errorf("expected first seed pool to be newest, got %q", pools[0].ID)
	}
}

func TestStartupAndShutdown(t *testing.T) {
	deps := memoryDeps(t)
	cfg := validConfig()

	if err := Startup(context.Background(), nil, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup: %v", err)
	}
	if deps.Background.Payouts == nil {
		t.Error("expected payout scheduler to be started")
	}
	if deps.Background.ConnectLimiter == nil {
		t.Error("expected connect limiter to be created")
	}

	done := make(chan error, 1)
	go func() { done <- Shutdown(context.Background(), nil, cfg, deps, testLogger()) }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Shutdown: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown did not return")
	}
}

func TestStartup_BadSchedule(t *testing.T) {
	cfg := validConfig()
	cfg.PayoutSchedule = "not a schedule"
	if err := Startup(context.Background(), nil, cfg, memoryDeps(t), testLogger()); err == nil {
		t.Error("expected error for bad schedule")
	}
}

func TestCSRFKey(t *testing.T) {
	a := csrfKey("short", testLogger())
	if len(a) != 32 {
		t.Fatalf("expected 32-byte key, got %d", len(a))
	}
	if string(a) != string(csrfKey("short", testLogger())) {
		t.Error("configured key should be stable")
	}
	if len(csrfKey("", testLogger())) != 32 {
		t.Error("generated key should be 32 bytes")
	}
}

func TestSessionKey(t *testing.T) {
	if got := sessionKey("configured", testLogger()); got != "configured" {
		t.Errorf("expected configured key, got %q", got)
	}
	if got := sessionKey("", testLogger()); len(got) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(got))
	}
}

func TestCSRFMiddleware_RejectsPostWithoutToken(t *testing.T) {
	mws := csrfMiddleware(validConfig(), false, testLogger())

	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/app/pools", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for POST without token, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected GET to pass, got %d", rec.Code)
	}
}
