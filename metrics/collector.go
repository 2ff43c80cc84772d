// Package metrics exposes the accounting core's Prometheus instrumentation,
// following the singleton Collector pattern used for the matching engine's
// own metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds every gauge/counter the accounting core reports. A
// Keeper pushes its state into the gauges through Keeper.MirrorMetrics on a
// timer rather than computing them on scrape, so a slow Prometheus scrape
// never blocks under Keeper.mu.
type Collector struct {
	PoolReserve        prometheus.Gauge
	PoolTotalShares    prometheus.Gauge
	PendingWithdrawals prometheus.Gauge
	AuditLogSize       prometheus.Gauge
	DailyVolume        prometheus.Gauge
	DailyPoolProfit    prometheus.Gauge

	DepositsTotal    *prometheus.CounterVec
	WithdrawalsTotal *prometheus.CounterVec
	BetsSettledTotal *prometheus.CounterVec
	GuardRejections  prometheus.Counter
	LedgerUncertain  prometheus.Counter
}

var (
	instance *Collector
	once     sync.Once
)

// NewCollector builds and registers a fresh Collector against reg. Use
// GetCollector for the process-wide singleton registered against the
// default registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		PoolReserve: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "casino_core",
			Name:      "pool_reserve",
			Help:      "Current liquidity pool reserve, in base units.",
		}),
		PoolTotalShares: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "casino_core",
			Name:      "pool_total_shares",
			Help:      "Total outstanding LP shares.",
		}),
		PendingWithdrawals: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "casino_core",
			Name:      "pending_withdrawals",
			Help:      "Number of withdrawals awaiting phase III resolution.",
		}),
		AuditLogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "casino_core",
			Name:      "audit_log_size",
			Help:      "Number of entries currently held in the bounded audit log.",
		}),
		DailyVolume: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "casino_core",
			Name:      "daily_volume",
			Help:      "Bet volume accumulated for the current day bucket.",
		}),
		DailyPoolProfit: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "casino_core",
			Name:      "daily_pool_profit",
			Help:      "Signed pool profit of the most recently closed day.",
		}),
		DepositsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casino_core",
			Name:      "deposits_total",
			Help:      "Deposit attempts by outcome.",
		}, []string{"outcome"}),
		WithdrawalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casino_core",
			Name:      "withdrawals_total",
			Help:      "Withdrawal resolutions by kind and outcome.",
		}, []string{"kind", "outcome"}),
		BetsSettledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casino_core",
			Name:      "bets_settled_total",
			Help:      "Settled bets by outcome.",
		}, []string{"outcome"}),
		GuardRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "casino_core",
			Name:      "guard_rejections_total",
			Help:      "Operations rejected because a principal already had one in flight.",
		}),
		LedgerUncertain: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "casino_core",
			Name:      "ledger_uncertain_total",
			Help:      "Ledger calls that returned an uncertain outcome.",
		}),
	}

	reg.MustRegister(
		c.PoolReserve, c.PoolTotalShares, c.PendingWithdrawals, c.AuditLogSize,
		c.DailyVolume, c.DailyPoolProfit,
		c.DepositsTotal, c.WithdrawalsTotal, c.BetsSettledTotal,
		c.GuardRejections, c.LedgerUncertain,
	)
	return c
}

// GetCollector returns the process-wide Collector, registering it against
// the default Prometheus registry on first use.
func GetCollector() *Collector {
	once.Do(func() {
		instance = NewCollector(prometheus.DefaultRegisterer)
	})
	return instance
}
