// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - Request body size limits
//
// AppConfig is where Suvana keeps everything specific to the savings app:
// where pools are stored, how the session cookie is signed, the seed data,
// and the delays used to simulate wallet and chain round trips.
type AppConfig struct {
	// Pool storage: "memory" keeps pools for the life of the process,
	// "mongo" persists them.
	PoolStore string

	// MongoDB connection configuration (only used if PoolStore is "mongo")
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: suvana-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // How long a connected wallet is remembered

	// CSRF protection key; any length, hashed to 32 bytes
	CSRFKey string

	// Seed data
	SeedFile string // YAML file with demo pools; blank uses the embedded set

	// Wallet simulation
	DemoWalletAddress  string // Address every connect resolves to; blank derives one per connect
	SimConnectDelay    time.Duration
	SimCreateDelay     time.Duration
	SimJoinDelay       time.Duration
	SimContributeDelay time.Duration

	// Background work
	PayoutSchedule string // cron spec for advancing due pools

	// Store operation timeouts; zero keeps the built-in default
	StoreTimeout time.Duration // listings and writes
	SweepTimeout time.Duration // one payout sweep

	// Abuse protection for wallet connects
	ConnectRateLimit  int
	ConnectRateWindow time.Duration
}
