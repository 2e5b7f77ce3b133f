package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	errorsfeature "github.com/suvana/suvana/internal/app/features/errors"
	poolstore "github.com/suvana/suvana/internal/app/store/pools"
	"github.com/suvana/suvana/internal/app/system/auth"
	"github.com/suvana/suvana/internal/app/system/formutil"
	"github.com/suvana/suvana/internal/app/system/timeouts"
	"github.com/suvana/suvana/internal/app/system/viewdata"
	"github.com/suvana/suvana/internal/domain/models"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /app – wallet gate or dashboard                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeApp(w http.ResponseWriter, r *http.Request) {
	wlt, ok := auth.CurrentWallet(r)
	if !ok {
		templates.Render(w, r, "wallet_gate", gateData{
			BaseVM: viewdata.NewBaseVM(w, r, h.Sessions, "Connect Wallet", "/"),
		})
		return
	}
	h.renderDashboard(w, r, wlt.Address, formutil.DefaultPoolForm())
}

// renderDashboard renders the dashboard with the given create form, which
// carries the user's input and error after a rejected submission.
func (h *Handler) renderDashboard(w http.ResponseWriter, r *http.Request, address string, form formutil.PoolForm) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "load dashboard")
	defer cancel()

	data, err := h.loadDashboard(ctx, address, r.URL.Query().Get("all") == "1")
	if err != nil {
		h.Log.Error("failed to load dashboard", zap.String("address", address), zap.Error(err))
		errorsfeature.RenderServerError(w, r, "We couldn't load your pools. Please try again.")
		return
	}
	data.BaseVM = viewdata.NewBaseVM(w, r, h.Sessions, "Your Ajo Dashboard", "/")
	for i := range data.Pools {
		data.Pools[i].CSRFToken = data.CSRFToken
	}
	if data.UserPool != nil {
		data.UserPool.CSRFToken = data.CSRFToken
	}
	data.Form = form
	data.Summary = summaryFromForm(form)

	templates.Render(w, r, "dashboard", data)
}

// loadDashboard gathers everything the dashboard shows for address.
func (h *Handler) loadDashboard(ctx context.Context, address string, showAll bool) (dashboardData, error) {
	now := h.now()
	var data dashboardData

	userPool, err := h.userPool(ctx, address, now)
	if err != nil {
		return data, err
	}
	pools, err := h.Pools.List(ctx)
	if err != nil {
		return data, fmt.Errorf("list pools: %w", err)
	}

	userPoolID := ""
	if userPool != nil {
		userPoolID = userPool.ID
		data.UserPool = newUserPool(*userPool, address, now)
	}

	shown := pools
	if !showAll && len(pools) > previewPools {
		shown = pools[:previewPools]
		data.HasMore = true
	}
	data.Pools = make([]poolCardVM, 0, len(shown))
	for _, p := range shown {
		data.Pools = append(data.Pools, newPoolCard(p, userPoolID, now))
	}
	data.ShowAll = showAll
	data.TotalPools = len(pools)
	data.Stats = newStats(pools)
	return data, nil
}

// userPool resolves the pool address belongs to, with the member's turn and
// last contribution applied. A wallet seen for the first time is given the
// seed's default membership when one is configured. It returns nil when the
// wallet has no pool.
func (h *Handler) userPool(ctx context.Context, address string, now time.Time) (*models.Pool, error) {
	m, err := h.Pools.Membership(ctx, address)
	switch {
	case errors.Is(err, poolstore.ErrNotFound):
		def, ok := h.Seed.Membership(address, now)
		if !ok {
			return nil, nil
		}
		if _, err := h.Pools.Get(ctx, def.PoolID); err != nil {
			if errors.Is(err, poolstore.ErrNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("load default pool: %w", err)
		}
		if m, err = h.Pools.SetMembership(ctx, def); err != nil {
			return nil, fmt.Errorf("assign default membership: %w", err)
		}
		h.Log.Info("assigned default pool",
			zap.String("address", address),
			zap.String("pool_id", m.PoolID))
	case err != nil:
		return nil, fmt.Errorf("load membership: %w", err)
	}

	p, err := h.Pools.Get(ctx, m.PoolID)
	if errors.Is(err, poolstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user pool: %w", err)
	}
	p = m.Apply(p)
	return &p, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /app/pools/summary – create form preview (HTMX)                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	templates.RenderSnippet(w, "pool_summary", summaryFromForm(formutil.PoolFormFrom(r)))
}
