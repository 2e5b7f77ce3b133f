// internal/app/features/dashboard/handler.go
package dashboard

import (
	"math/rand/v2"
	"net/http"
	"time"

	poolstore "github.com/suvana/suvana/internal/app/store/pools"
	"github.com/suvana/suvana/internal/app/system/auth"
	"github.com/suvana/suvana/internal/app/system/metrics"
	"github.com/suvana/suvana/internal/app/system/simulate"
	"github.com/suvana/suvana/internal/app/system/toast"
	"github.com/suvana/suvana/internal/domain/seed"
	"go.uber.org/zap"
)

// Handler serves the pool dashboard and the pool actions behind it.
type Handler struct {
	Pools    poolstore.Store
	Seed     *seed.Data
	Sessions *auth.SessionManager
	Metrics  *metrics.Metrics
	Delays   simulate.Delays
	Log      *zap.Logger

	now     func() time.Time
	newRand func() *rand.Rand
}

func NewHandler(pools poolstore.Store, sd *seed.Data, sm *auth.SessionManager, m *metrics.Metrics, delays simulate.Delays, logger *zap.Logger) *Handler {
	return &Handler{
		Pools:    pools,
		Seed:     sd,
		Sessions: sm,
		Metrics:  m,
		Delays:   delays,
		Log:      logger,
		now:      func() time.Time { return time.Now().UTC() },
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
}

// wallet returns the connected wallet. Routes behind RequireWallet always
// have one; the redirect covers direct calls.
func (h *Handler) wallet(w http.ResponseWriter, r *http.Request) (*auth.Wallet, bool) {
	wlt, ok := auth.CurrentWallet(r)
	if !ok {
		http.Redirect(w, r, "/app", http.StatusSeeOther)
	}
	return wlt, ok
}

func (h *Handler) toastAndRedirect(w http.ResponseWriter, r *http.Request, t toast.Toast) {
	if err := h.Sessions.AddToast(w, r, t); err != nil {
		h.Log.Warn("failed to queue toast", zap.Error(err))
	}
	http.Redirect(w, r, "/app", http.StatusSeeOther)
}
