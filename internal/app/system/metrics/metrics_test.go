package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/suvana/suvana/internal/app/system/metrics"
)

func TestCounters(t *testing.T) {
	m := metrics.New()
	m.Joins.Inc()
	m.Joins.Inc()
	m.PoolsCreated.Inc()

	if got := testutil.ToFloat64(m.Joins); got != 2 {
		t.Errorf("joins = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.PoolsCreated); got != 1 {
		t.Errorf("pools created = %v, want 1", got)
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := metrics.New()
	b := metrics.New()
	a.Contributions.Inc()

	if got := testutil.ToFloat64(b.Contributions); got != 0 {
		t.Errorf("registries should be independent, got %v", got)
	}
}

func TestHandler_Exposition(t *testing.T) {
	m := metrics.New()
	m.WalletConnects.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "suvana_wallet_connects_total 1") {
		t.Errorf("expected wallet connect counter in output, got:\n%s", body)
	}
}
