package wallet

import "github.com/go-chi/chi/v5"

// Routes is mounted at /wallet.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/connect", h.HandleConnect)
	r.Post("/disconnect", h.HandleDisconnect)
	return r
}
