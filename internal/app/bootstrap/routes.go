// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	dashboardfeature "github.com/suvana/suvana/internal/app/features/dashboard"
	errorsfeature "github.com/suvana/suvana/internal/app/features/errors"
	healthfeature "github.com/suvana/suvana/internal/app/features/health"
	homefeature "github.com/suvana/suvana/internal/app/features/home"
	walletfeature "github.com/suvana/suvana/internal/app/features/wallet"
	"github.com/suvana/suvana/internal/app/system/auth"
	"github.com/suvana/suvana/internal/app/system/limits"
	"github.com/suvana/suvana/internal/app/system/simulate"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// Suvana initializes the template engine, applies wallet-session and CSRF
// middleware, and mounts the landing page, the pool dashboard at /app and
// the simulated wallet endpoints at /wallet. Unknown paths get the 404 page.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(
		sessionKey(appCfg.SessionKey, logger),
		appCfg.SessionName,
		appCfg.SessionDomain,
		appCfg.SessionMaxAge,
		secure,
		logger,
	)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	r := chi.NewRouter()

	// Health and metrics sit outside the session and CSRF middleware.
	healthHandler := healthfeature.NewHandler(deps.Pools, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", deps.Metrics.Handler())

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(app chi.Router) {
		app.Use(limits.Body(limits.MaxFormSize))

		// Loads the connected wallet into context; see auth.CurrentWallet(r).
		app.Use(sessionMgr.LoadWallet)
		app.Use(csrfMiddleware(appCfg, secure, logger)...)

		homeHandler := homefeature.NewHandler(sessionMgr, logger)
		app.Mount("/", homefeature.Routes(homeHandler))

		delays := simulate.Delays{
			Connect:    appCfg.SimConnectDelay,
			Create:     appCfg.SimCreateDelay,
			Join:       appCfg.SimJoinDelay,
			Contribute: appCfg.SimContributeDelay,
		}

		walletHandler := walletfeature.NewHandler(sessionMgr, deps.Background.ConnectLimiter, deps.Metrics,
			delays.Connect, appCfg.DemoWalletAddress, logger)
		app.Mount("/wallet", walletfeature.Routes(walletHandler))

		dashboardHandler := dashboardfeature.NewHandler(deps.Pools, deps.Seed, sessionMgr, deps.Metrics, delays, logger)
		app.Mount("/app", dashboardfeature.Routes(dashboardHandler, sessionMgr))

		errorsHandler := errorsfeature.NewHandler(logger)
		app.NotFound(errorsHandler.NotFound)
	})

	return r, nil
}

// csrfMiddleware protects every form post. Outside prod the app is served
// over plain HTTP, which gorilla/csrf must be told about or it rejects
// requests for lacking a TLS referer.
func csrfMiddleware(appCfg AppConfig, secure bool, logger *zap.Logger) []func(http.Handler) http.Handler {
	protect := csrf.Protect(
		csrfKey(appCfg.CSRFKey, logger),
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("CSRF check failed",
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)))
			http.Error(w, "Forbidden - the form expired, please reload the page", http.StatusForbidden)
		})),
	)
	if secure {
		return []func(http.Handler) http.Handler{protect}
	}
	plaintext := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
	return []func(http.Handler) http.Handler{plaintext, protect}
}
