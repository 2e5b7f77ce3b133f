// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"
	"github.com/suvana/suvana/internal/app/system/auth"
)

// Routes wires the dashboard feature; it is mounted at "/app".
//
// The dashboard itself shows the wallet gate when no wallet is connected,
// so only the pool actions require one.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeApp)
	r.Get("/pools/summary", h.ServeSummary)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireWallet)
		pr.Post("/pools", h.HandleCreate)
		pr.Post("/pools/{id}/join", h.HandleJoin)
		pr.Post("/pools/{id}/contribute", h.HandleContribute)
	})

	return r
}
