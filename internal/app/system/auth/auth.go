package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/suvana/suvana/internal/app/system/toast"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	DefaultSessionName = "suvana-session"

	connectedKey   = "wallet_connected"
	addressKey     = "wallet_address"
	connectedAtKey = "wallet_connected_at"
	toastKey       = "_toast"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-wallet helper                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// Wallet is the connection state the app consumes from the wallet provider:
// a connected flag and the account address.
type Wallet struct {
	Connected   bool
	Address     string
	ConnectedAt time.Time
}

type ctxKey string

const currentWalletKey ctxKey = "currentWallet"

// CurrentWallet returns the connected wallet & "found?" flag.
func CurrentWallet(r *http.Request) (*Wallet, bool) {
	w, ok := r.Context().Value(currentWalletKey).(*Wallet)
	if !ok || w == nil || !w.Connected {
		return nil, false
	}
	return w, true
}

// WithTestWallet injects a wallet into the request context.
// Tests use it to bypass the session cookie.
func WithTestWallet(r *http.Request, w *Wallet) *http.Request {
	return withWallet(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session manager                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the signed cookie store holding wallet state and
// pending toasts.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds the cookie store. The `secure` flag controls
// whether cookies are marked Secure and which SameSite mode is used.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// LoadWallet injects the connected wallet into the request context.
func (sm *SessionManager) LoadWallet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			// A cookie signed with an old key decodes as a fresh session.
			sm.log.Debug("session decode failed", zap.Error(err))
		}
		if connected, _ := sess.Values[connectedKey].(bool); connected {
			wlt := &Wallet{
				Connected: true,
				Address:   getString(sess, addressKey),
			}
			if ts, ok := sess.Values[connectedAtKey].(int64); ok {
				wlt.ConnectedAt = time.Unix(ts, 0).UTC()
			}
			r = withWallet(r, wlt)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireWallet ensures a wallet is connected (set by LoadWallet).
// If not:
//   - HTMX: sends HX-Redirect to /app
//   - HTML: 303 redirect to /app, where the connect gate is shown
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireWallet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentWallet(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", "/app")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if WantsHTML(r) {
			_ = sm.AddToast(w, r, toast.Failure("Wallet not connected", "Connect your Sui wallet to continue."))
			http.Redirect(w, r, "/app", http.StatusSeeOther)
			return
		}

		http.Error(w, "wallet not connected", http.StatusUnauthorized)
	})
}

// Connect records the wallet address in the session.
func (sm *SessionManager) Connect(w http.ResponseWriter, r *http.Request, address string, at time.Time) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[connectedKey] = true
	sess.Values[addressKey] = address
	sess.Values[connectedAtKey] = at.Unix()
	return sess.Save(r, w)
}

// Disconnect clears the wallet from the session but keeps pending toasts.
func (sm *SessionManager) Disconnect(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	delete(sess.Values, connectedKey)
	delete(sess.Values, addressKey)
	delete(sess.Values, connectedAtKey)
	return sess.Save(r, w)
}

// AddToast queues a toast for the next rendered page.
func (sm *SessionManager) AddToast(w http.ResponseWriter, r *http.Request, t toast.Toast) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	sess, _ := sm.store.Get(r, sm.name)
	sess.AddFlash(string(b), toastKey)
	return sess.Save(r, w)
}

// PopToasts returns and clears queued toasts. Call it before writing the
// response body so the updated cookie can still be sent.
func (sm *SessionManager) PopToasts(w http.ResponseWriter, r *http.Request) []toast.Toast {
	sess, _ := sm.store.Get(r, sm.name)
	flashes := sess.Flashes(toastKey)
	if len(flashes) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("failed to clear toasts", zap.Error(err))
	}

	out := make([]toast.Toast, 0, len(flashes))
	for _, f := range flashes {
		s, ok := f.(string)
		if !ok {
			continue
		}
		var t toast.Toast
		if err := json.Unmarshal([]byte(s), &t); err != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

// helpers

func withWallet(r *http.Request, w *Wallet) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentWalletKey, w))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

// WantsHTML treats HTMX requests and callers accepting text/html as browsers.
func WantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
