package viewdata_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/suvana/suvana/internal/app/system/auth"
	"github.com/suvana/suvana/internal/app/system/toast"
	"github.com/suvana/suvana/internal/app/system/viewdata"
)

type stubToasts []toast.Toast

func (s stubToasts) PopToasts(http.ResponseWriter, *http.Request) []toast.Toast { return s }

func TestNewBaseVM_Anonymous(t *testing.T) {
	r := httptest.NewRequest("GET", "/app", nil)
	vm := viewdata.NewBaseVM(httptest.NewRecorder(), r, nil, "Dashboard", "/")

	if vm.WalletConnected {
		t.Error("expected no wallet")
	}
	if vm.Title != "Dashboard" || vm.SiteName != viewdata.SiteName {
		t.Errorf("unexpected title/site: %q %q", vm.Title, vm.SiteName)
	}
	if vm.Toasts != nil {
		t.Error("expected no toasts without a source")
	}
}

func TestNewBaseVM_WalletAndToasts(t *testing.T) {
	addr := "0x8b4f1c2e9d7a6b5c4f3e2d1c0b9a8f7e6d5c4b3a2f1e0d9c8b7a6f5e4d3cc2a9"
	r := httptest.NewRequest("GET", "/app", nil)
	r = auth.WithTestWallet(r, &auth.Wallet{Connected: true, Address: addr})

	src := stubToasts{toast.Success("Wallet Connected!", "Connected to 0x8b4f…c2a9")}
	vm := viewdata.NewBaseVM(httptest.NewRecorder(), r, src, "Dashboard", "/")

	if !vm.WalletConnected || vm.WalletAddress != addr {
		t.Errorf("wallet not populated: %+v", vm)
	}
	if vm.WalletShort != "0x8b4f…c2a9" {
		t.Errorf("WalletShort = %q", vm.WalletShort)
	}
	if len(vm.Toasts) != 1 {
		t.Fatalf("expected 1 toast, got %d", len(vm.Toasts))
	}
}
