// Package metrics defines backtesting-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backtest counter vectors
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fastbreak",
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by model and status",
	}, []string{"model", "status"})

	BetsPlacedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fastbreak",
		Name:      "bets_placed_total",
		Help:      "Total number of bets placed by market type",
	}, []string{"market_type"})

	BetsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fastbreak",
		Name:      "bets_settled_total",
		Help:      "Total number of bets settled by outcome",
	}, []string{"status"})

	BetsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fastbreak",
		Name:      "bets_rejected_total",
		Help:      "Total number of candidate bets rejected by reason",
	}, []string{"reason"})

	MarketsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fastbreak",
		Name:      "markets_skipped_total",
		Help:      "Total number of malformed market quotes skipped",
	})

	MonteCarloTrialsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fastbreak",
		Name:      "monte_carlo_trials_total",
		Help:      "Total number of Monte Carlo trials executed",
	})
)

// Backtest histogram vectors
var (
	StakeFraction = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fastbreak",
		Name:      "stake_fraction",
		Help:      "Placed stakes as a fraction of bankroll at placement",
		Buckets:   []float64{0.005, 0.01, 0.02, 0.03, 0.04, 0.05, 0.075, 0.1},
	})
)

// Backtest gauge vectors
var (
	CurrentBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fastbreak",
		Name:      "current_bankroll",
		Help:      "Bankroll of the most recent backtest run",
	})
)

// RecordBacktestRun records a backtest run event.
// status should be one of: "completed", "aborted"
func RecordBacktestRun(model, status string) {
	BacktestRunsTotal.WithLabelValues(model, status).Inc()
}

// RecordBetPlaced records a placed bet and its bankroll fraction.
func RecordBetPlaced(marketType string, stakeFraction float64) {
	BetsPlacedTotal.WithLabelValues(marketType).Inc()
	StakeFraction.Observe(stakeFraction)
}

// RecordBetSettled records a settlement outcome.
func RecordBetSettled(status string) {
	BetsSettledTotal.WithLabelValues(status).Inc()
}

// RecordBetRejected records a rejected candidate bet.
func RecordBetRejected(reason string) {
	BetsRejectedTotal.WithLabelValues(reason).Inc()
}

// Register registers all backtest metrics with the given registry.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		BacktestRunsTotal,
		BetsPlacedTotal,
		BetsSettledTotal,
		BetsRejectedTotal,
		MarketsSkippedTotal,
		MonteCarloTrialsTotal,
		StakeFraction,
		CurrentBankroll,
	)
}
