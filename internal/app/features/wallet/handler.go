package wallet

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/httpnav"
	errorsfeature "github.com/suvana/suvana/internal/app/features/errors"
	"github.com/suvana/suvana/internal/app/system/auth"
	"github.com/suvana/suvana/internal/app/system/format"
	"github.com/suvana/suvana/internal/app/system/metrics"
	"github.com/suvana/suvana/internal/app/system/ratelimit"
	"github.com/suvana/suvana/internal/app/system/simulate"
	"github.com/suvana/suvana/internal/app/system/toast"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`)

// Handler serves the simulated wallet provider: connect and disconnect.
type Handler struct {
	Sessions *auth.SessionManager
	Limiter  *ratelimit.Limiter
	Metrics  *metrics.Metrics
	Log      *zap.Logger

	// ConnectDelay stands in for the wallet approval round trip.
	ConnectDelay time.Duration
	// DemoAddress, when set, is used for connections that do not name an
	// address. Otherwise one is derived per connection.
	DemoAddress string

	now     func() time.Time
	entropy io.Reader
}

func NewHandler(sm *auth.SessionManager, limiter *ratelimit.Limiter, m *metrics.Metrics, connectDelay time.Duration, demoAddress string, logger *zap.Logger) *Handler {
	return &Handler{
		Sessions:     sm,
		Limiter:      limiter,
		Metrics:      m,
		Log:          logger,
		ConnectDelay: connectDelay,
		DemoAddress:  demoAddress,
		now:          func() time.Time { return time.Now().UTC() },
		entropy:      rand.Reader,
	}
}

// ValidAddress reports whether s looks like a Sui address: 0x followed by
// one to 64 hex digits.
func ValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// DeriveAddress hashes seed with BLAKE2b-256 into a 0x-prefixed address.
func DeriveAddress(seed []byte) string {
	sum := blake2b.Sum256(seed)
	return "0x" + hex.EncodeToString(sum[:])
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /wallet/connect                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	back := httpnav.ResolveBackURL(r, "/app")

	if h.Limiter != nil && !h.Limiter.Allow(ratelimit.ClientIP(r)) {
		h.Log.Warn("wallet connect rate limited", zap.String("ip", ratelimit.ClientIP(r)))
		if !auth.WantsHTML(r) {
			http.Error(w, "too many connection attempts", http.StatusTooManyRequests)
			return
		}
		h.toastAndRedirect(w, r, toast.Failure("Too many attempts", "Please wait a minute before connecting again."), back)
		return
	}

	address := strings.TrimSpace(r.FormValue("address"))
	if address != "" && !ValidAddress(address) {
		h.toastAndRedirect(w, r, toast.Failure("Invalid address", "A Sui address is 0x followed by up to 64 hex characters."), back)
		return
	}

	if err := simulate.Wait(r.Context(), h.ConnectDelay); err != nil {
		h.Log.Debug("wallet connect abandoned", zap.Error(err))
		return
	}

	if address == "" {
		var err error
		if address, err = h.demoAddress(); err != nil {
			h.Log.Error("failed to derive demo address", zap.Error(err))
			errorsfeature.RenderServerError(w, r, "")
			return
		}
	}
	address = strings.ToLower(address)

	if err := h.Sessions.Connect(w, r, address, h.now()); err != nil {
		h.Log.Error("failed to save wallet session", zap.Error(err))
		errorsfeature.RenderServerError(w, r, "")
		return
	}
	if h.Metrics != nil {
		h.Metrics.WalletConnects.Inc()
	}
	h.Log.Info("wallet connected", zap.String("address", address))

	h.toastAndRedirect(w, r, toast.Success("Wallet Connected!", "Connected to "+format.ShortAddress(address)), back)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /wallet/disconnect                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Disconnect(w, r); err != nil {
		h.Log.Error("failed to clear wallet session", zap.Error(err))
		errorsfeature.RenderServerError(w, r, "")
		return
	}
	if h.Metrics != nil {
		h.Metrics.WalletDisconnects.Inc()
	}
	h.toastAndRedirect(w, r,
		toast.Success("Wallet Disconnected", "Your Sui wallet has been disconnected"),
		httpnav.ResolveBackURL(r, "/app"))
}

func (h *Handler) demoAddress() (string, error) {
	if h.DemoAddress != "" {
		return h.DemoAddress, nil
	}
	seed := make([]byte, 32)
	if _, err := io.ReadFull(h.entropy, seed); err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	return DeriveAddress(seed), nil
}

func (h *Handler) toastAndRedirect(w http.ResponseWriter, r *http.Request, t toast.Toast, to string) {
	if err := h.Sessions.AddToast(w, r, t); err != nil {
		h.Log.Warn("failed to queue toast", zap.Error(err))
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
