// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
	"github.com/suvana/suvana/internal/app/system/auth"
	"github.com/suvana/suvana/internal/app/system/format"
	"github.com/suvana/suvana/internal/app/system/toast"
)

// SiteName is shown in the header and page titles.
const SiteName = "Suvana"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(w, r, h.Sessions, "Page Title", "/"),
//	}
type BaseVM struct {
	SiteName string

	// Wallet context (from auth.LoadWallet)
	WalletConnected bool
	WalletAddress   string
	WalletShort     string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string

	// Toasts queued by the previous request
	Toasts []toast.Toast
}

// ToastSource pops queued toasts. *auth.SessionManager satisfies it.
type ToastSource interface {
	PopToasts(w http.ResponseWriter, r *http.Request) []toast.Toast
}

// NewBaseVM creates a fully populated BaseVM for a page. It consumes queued
// toasts, so call it before writing the response. ts may be nil.
func NewBaseVM(w http.ResponseWriter, r *http.Request, ts ToastSource, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
	if wlt, ok := auth.CurrentWallet(r); ok {
		vm.WalletConnected = true
		vm.WalletAddress = wlt.Address
		vm.WalletShort = format.ShortAddress(wlt.Address)
	}
	if ts != nil {
		vm.Toasts = ts.PopToasts(w, r)
	}
	return vm
}
