// Package metrics exposes Prometheus counters for pool and wallet activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "suvana"

// Metrics holds the application's counters on a private registry so tests
// and multiple app instances do not collide on the global one.
type Metrics struct {
	Registry *prometheus.Registry

	PoolsCreated      prometheus.Counter
	Joins             prometheus.Counter
	JoinsRejected     prometheus.Counter
	Contributions     prometheus.Counter
	WalletConnects    prometheus.Counter
	WalletDisconnects prometheus.Counter
	CyclesAdvanced    prometheus.Counter
}

// New registers the counters plus the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
		reg.MustRegister(c)
		return c
	}

	m := &Metrics{
		Registry:          reg,
		PoolsCreated:      counter("pools_created_total", "Savings pools created."),
		Joins:             counter("pool_joins_total", "Successful pool joins."),
		JoinsRejected:     counter("pool_joins_rejected_total", "Joins rejected because the pool was full."),
		Contributions:     counter("contributions_total", "Contributions recorded."),
		WalletConnects:    counter("wallet_connects_total", "Simulated wallet connections."),
		WalletDisconnects: counter("wallet_disconnects_total", "Wallet disconnections."),
		CyclesAdvanced:    counter("pool_cycles_advanced_total", "Payout cycles advanced by the scheduler."),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
