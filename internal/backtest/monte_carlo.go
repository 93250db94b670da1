package backtest

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/yourusername/fastbreak/internal/metrics"
)

// BetTuple is one independent wager in a simulated portfolio
type BetTuple struct {
	Probability float64 `json:"probability"`
	Stake       float64 `json:"stake"`
	ProfitOnWin float64 `json:"profit_on_win"`
}

// MonteCarloConfig configures a simulation. A zero seed falls back to
// the wall clock; any other seed makes the run bit-identical across
// invocations.
type MonteCarloConfig struct {
	Trials          int
	Seed            int64
	InitialBankroll float64
	Percentiles     []float64

	// called every ProgressEvery trials when set
	ProgressEvery int
	OnProgress    func(done, total int)
}

// MonteCarloResult summarizes the simulated profit distribution
type MonteCarloResult struct {
	Trials              int                `json:"trials"`
	Seed                int64              `json:"seed"`
	MeanProfit          float64            `json:"mean_profit"`
	StdProfit           float64            `json:"std_profit"`
	ProbabilityOfProfit float64            `json:"probability_of_profit"`
	ProbabilityOfRuin   float64            `json:"probability_of_ruin"`
	Percentiles         map[string]float64 `json:"percentiles"`
	MinProfit           float64            `json:"min_profit"`
	MaxProfit           float64            `json:"max_profit"`
}

var defaultPercentiles = []float64{5, 25, 50, 75, 95}

// RunMonteCarlo simulates the portfolio by independent Bernoulli draws
// per bet. Correlation between bets is deliberately not modeled.
func RunMonteCarlo(ctx context.Context, bets []BetTuple, cfg MonteCarloConfig) (MonteCarloResult, error) {
	if len(bets) == 0 {
		return MonteCarloResult{}, fmt.Errorf("at least one bet is required")
	}
	for i, bet := range bets {
		if bet.Probability < 0 || bet.Probability > 1 {
			return MonteCarloResult{}, fmt.Errorf("bet %d: probability %v outside [0,1]", i, bet.Probability)
		}
		if bet.Stake < 0 {
			return MonteCarloResult{}, fmt.Errorf("bet %d: negative stake %v", i, bet.Stake)
		}
	}
	if cfg.Trials <= 0 {
		cfg.Trials = 10000
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	percentiles := cfg.Percentiles
	if len(percentiles) == 0 {
		percentiles = defaultPercentiles
	}

	rng := rand.New(rand.NewSource(seed))
	profits := make([]float64, cfg.Trials)

	for i := 0; i < cfg.Trials; i++ {
		if err := ctx.Err(); err != nil {
			return MonteCarloResult{}, err
		}
		total := 0.0
		for _, bet := range bets {
			if rng.Float64() < bet.Probability {
				total += bet.ProfitOnWin
			} else {
				total -= bet.Stake
			}
		}
		profits[i] = total
		if cfg.OnProgress != nil && cfg.ProgressEvery > 0 && (i+1)%cfg.ProgressEvery == 0 {
			cfg.OnProgress(i+1, cfg.Trials)
		}
	}
	metrics.MonteCarloTrialsTotal.Add(float64(cfg.Trials))

	mean, std := meanStd(profits)
	sorted := append([]float64{}, profits...)
	sort.Float64s(sorted)

	pcts := make(map[string]float64, len(percentiles))
	for _, p := range percentiles {
		pcts[fmt.Sprintf("p%02.0f", p)] = percentile(sorted, p/100)
	}

	result := MonteCarloResult{
		Trials:              cfg.Trials,
		Seed:                seed,
		MeanProfit:          mean,
		StdProfit:           std,
		ProbabilityOfProfit: probabilityAbove(profits, 0),
		Percentiles:         pcts,
		MinProfit:           sorted[0],
		MaxProfit:           sorted[len(sorted)-1],
	}
	if cfg.InitialBankroll > 0 {
		result.ProbabilityOfRuin = probabilityAtOrBelow(profits, -cfg.InitialBankroll)
	}
	return result, nil
}

// ToJSON exports the result for downstream tooling
func (m MonteCarloResult) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

// percentile expects sorted input
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func probabilityAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func probabilityAtOrBelow(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v <= threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}
