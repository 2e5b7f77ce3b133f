package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	errorsfeature "github.com/suvana/suvana/internal/app/features/errors"
	poolstore "github.com/suvana/suvana/internal/app/store/pools"
	"github.com/suvana/suvana/internal/app/system/format"
	"github.com/suvana/suvana/internal/app/system/formutil"
	"github.com/suvana/suvana/internal/app/system/simulate"
	"github.com/suvana/suvana/internal/app/system/timeouts"
	"github.com/suvana/suvana/internal/app/system/toast"
	"github.com/suvana/suvana/internal/domain/models"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| POST /app/pools – create                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	wlt, ok := h.wallet(w, r)
	if !ok {
		return
	}

	form := formutil.PoolFormFrom(r)
	pp, err := form.Params()
	if err != nil {
		form.SetError(formutil.ErrorMessage(err))
		h.renderDashboard(w, r, wlt.Address, form)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium()+h.Delays.Create, h.Log, "create pool")
	defer cancel()

	if err := simulate.Wait(ctx, h.Delays.Create); err != nil {
		h.Log.Debug("pool creation abandoned", zap.Error(err))
		return
	}

	p, err := h.createPool(ctx, pp, wlt.Address)
	if err != nil {
		h.Log.Error("failed to create pool", zap.Error(err))
		errorsfeature.RenderServerError(w, r, "We couldn't create your pool. Please try again.")
		return
	}
	if _, err := h.Pools.SetMembership(ctx, models.Membership{
		Address:  wlt.Address,
		PoolID:   p.ID,
		Position: 1,
	}); err != nil {
		h.Log.Error("failed to record creator membership", zap.String("pool_id", p.ID), zap.Error(err))
		errorsfeature.RenderServerError(w, r, "")
		return
	}

	if h.Metrics != nil {
		h.Metrics.PoolsCreated.Inc()
	}
	h.Log.Info("pool created",
		zap.String("pool_id", p.ID),
		zap.String("created_by", wlt.Address),
		zap.Int("size", p.Size))

	h.toastAndRedirect(w, r, toast.Success("Ajo Pool Created! 🎉",
		fmt.Sprintf("Pool ID: %s • %d members • %s SUI per cycle", p.ID, p.Size, format.Amount(p.ShareAmount))))
}

// createPoolAttempts bounds retries when a generated pool ID is already taken.
const createPoolAttempts = 3

func (h *Handler) createPool(ctx context.Context, pp models.PoolParams, creator string) (models.Pool, error) {
	rng := h.newRand()
	now := h.now()
	var err error
	for i := 0; i < createPoolAttempts; i++ {
		candidate, nerr := models.NewPool(pp, creator, now, rng)
		if nerr != nil {
			return models.Pool{}, nerr
		}
		var p models.Pool
		if p, err = h.Pools.Create(ctx, candidate); err == nil {
			return p, nil
		}
		if !errors.Is(err, poolstore.ErrDuplicateID) {
			return models.Pool{}, err
		}
		h.Log.Warn("generated pool id already taken", zap.String("pool_id", candidate.ID))
	}
	return models.Pool{}, err
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /app/pools/{id}/join                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	wlt, ok := h.wallet(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	p, m, member, err := h.lookup(r.Context(), id, wlt.Address)
	if errors.Is(err, poolstore.ErrNotFound) {
		errorsfeature.RenderNotFound(w, r)
		return
	}
	if err != nil {
		h.Log.Error("failed to load pool", zap.String("pool_id", id), zap.Error(err))
		errorsfeature.RenderServerError(w, r, "")
		return
	}
	if member && m.PoolID == id {
		h.toastAndRedirect(w, r, toast.Failure("Already a member", "This is already your active pool."))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium()+h.Delays.Join, h.Log, "join pool")
	defer cancel()

	if err := simulate.Wait(ctx, h.Delays.Join); err != nil {
		h.Log.Debug("pool join abandoned", zap.Error(err))
		return
	}

	joined, err := h.Pools.Join(ctx, id)
	switch {
	case errors.Is(err, poolstore.ErrPoolFull):
		if h.Metrics != nil {
			h.Metrics.JoinsRejected.Inc()
		}
		h.toastAndRedirect(w, r, toast.Failure("Pool Full", p.Name+" has no open seats."))
		return
	case errors.Is(err, poolstore.ErrNotFound):
		errorsfeature.RenderNotFound(w, r)
		return
	case err != nil:
		h.Log.Error("failed to join pool", zap.String("pool_id", id), zap.Error(err))
		errorsfeature.RenderServerError(w, r, "")
		return
	}

	if _, err := h.Pools.SetMembership(ctx, models.Membership{
		Address:  wlt.Address,
		PoolID:   id,
		Position: joined.Participants,
	}); err != nil {
		h.Log.Error("failed to record membership", zap.String("pool_id", id), zap.Error(err))
		errorsfeature.RenderServerError(w, r, "")
		return
	}

	if h.Metrics != nil {
		h.Metrics.Joins.Inc()
	}
	h.Log.Info("pool joined",
		zap.String("pool_id", id),
		zap.String("address", wlt.Address),
		zap.Int("participants", joined.Participants))

	h.toastAndRedirect(w, r, toast.Success("Successfully Joined Pool! 🎉",
		fmt.Sprintf("Welcome to %s. Your first contribution is due soon.", joined.Name)))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /app/pools/{id}/contribute                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleContribute(w http.ResponseWriter, r *http.Request) {
	wlt, ok := h.wallet(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	p, m, member, err := h.lookup(r.Context(), id, wlt.Address)
	if errors.Is(err, poolstore.ErrNotFound) {
		errorsfeature.RenderNotFound(w, r)
		return
	}
	if err != nil {
		h.Log.Error("failed to load pool", zap.String("pool_id", id), zap.Error(err))
		errorsfeature.RenderServerError(w, r, "")
		return
	}
	if !member || m.PoolID != id {
		h.toastAndRedirect(w, r, toast.Failure("Not your pool", "You can only contribute to your active pool."))
		return
	}

	// One share per cycle.
	now := h.now()
	if own := m.Apply(p); !own.ContributionDue(now) {
		h.toastAndRedirect(w, r, toast.Failure("Already contributed",
			"Your next contribution is due "+format.Date(own.NextContributionDate(now))+"."))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium()+h.Delays.Contribute, h.Log, "contribute")
	defer cancel()

	if err := simulate.Wait(ctx, h.Delays.Contribute); err != nil {
		h.Log.Debug("contribution abandoned", zap.Error(err))
		return
	}

	// Membership first: a failed pool update restores it below.
	if err := h.Pools.RecordContribution(ctx, wlt.Address, now); err != nil {
		h.Log.Error("failed to record contribution", zap.String("pool_id", id), zap.Error(err))
		errorsfeature.RenderServerError(w, r, "")
		return
	}
	if _, err := h.Pools.Contribute(ctx, id, p.ShareAmount); err != nil {
		h.Log.Error("failed to add contribution", zap.String("pool_id", id), zap.Error(err))
		h.restoreMembership(r.Context(), m)
		errorsfeature.RenderServerError(w, r, "")
		return
	}

	if h.Metrics != nil {
		h.Metrics.Contributions.Inc()
	}
	h.Log.Info("contribution recorded",
		zap.String("pool_id", id),
		zap.String("address", wlt.Address),
		zap.Float64("amount", p.ShareAmount))

	h.toastAndRedirect(w, r, toast.Success("Contribution Sent! ✨",
		"Your Ajo share has been successfully contributed to the pool."))
}

// lookup reads the pool and the caller's membership under the read timeout.
// A missing pool is ErrNotFound; a missing membership reports member=false.
func (h *Handler) lookup(ctx context.Context, id, address string) (p models.Pool, m models.Membership, member bool, err error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), h.Log, "load pool")
	defer cancel()

	if p, err = h.Pools.Get(ctx, id); err != nil {
		return models.Pool{}, models.Membership{}, false, err
	}
	m, err = h.Pools.Membership(ctx, address)
	switch {
	case errors.Is(err, poolstore.ErrNotFound):
		return p, models.Membership{}, false, nil
	case err != nil:
		return p, models.Membership{}, false, err
	}
	return p, m, true, nil
}

// restoreMembership puts back the membership as it was before a failed
// contribution. It runs even when the request context is done.
func (h *Handler) restoreMembership(parent context.Context, m models.Membership) {
	ctx, cancel := timeouts.WithTimeout(context.WithoutCancel(parent), timeouts.Short(), h.Log, "restore membership")
	defer cancel()
	if _, err := h.Pools.SetMembership(ctx, m); err != nil {
		h.Log.Error("failed to restore membership",
			zap.String("pool_id", m.PoolID),
			zap.String("address", m.Address),
			zap.Error(err))
	}
}
