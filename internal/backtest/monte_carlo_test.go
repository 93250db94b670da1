package backtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePortfolio() []BetTuple {
	return []BetTuple{
		{Probability: 0.55, Stake: 100, ProfitOnWin: 91},
		{Probability: 0.60, Stake: 150, ProfitOnWin: 136},
		{Probability: 0.48, Stake: 80, ProfitOnWin: 96},
	}
}

func TestRunMonteCarlo_SeededReproducibility(t *testing.T) {
	cfg := MonteCarloConfig{Trials: 5000, Seed: 42}

	first, err := RunMonteCarlo(context.Background(), samplePortfolio(), cfg)
	require.NoError(t, err)
	second, err := RunMonteCarlo(context.Background(), samplePortfolio(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first.MeanProfit, second.MeanProfit)
	assert.Equal(t, first.StdProfit, second.StdProfit)
	assert.Equal(t, first.ProbabilityOfProfit, second.ProbabilityOfProfit)
	assert.Equal(t, first.Percentiles, second.Percentiles)
}

func TestRunMonteCarlo_DifferentSeedsDiverge(t *testing.T) {
	a, err := RunMonteCarlo(context.Background(), samplePortfolio(), MonteCarloConfig{Trials: 5000, Seed: 1})
	require.NoError(t, err)
	b, err := RunMonteCarlo(context.Background(), samplePortfolio(), MonteCarloConfig{Trials: 5000, Seed: 2})
	require.NoError(t, err)

	assert.NotEqual(t, a.MeanProfit, b.MeanProfit)
}

func TestRunMonteCarlo_CertainWin(t *testing.T) {
	bets := []BetTuple{{Probability: 1.0, Stake: 100, ProfitOnWin: 50}}

	result, err := RunMonteCarlo(context.Background(), bets, MonteCarloConfig{Trials: 100, Seed: 7})
	require.NoError(t, err)

	assert.Equal(t, 50.0, result.MeanProfit)
	assert.Zero(t, result.StdProfit)
	assert.Equal(t, 1.0, result.ProbabilityOfProfit)
}

func TestRunMonteCarlo_CertainLoss(t *testing.T) {
	bets := []BetTuple{{Probability: 0.0, Stake: 100, ProfitOnWin: 50}}

	result, err := RunMonteCarlo(context.Background(), bets, MonteCarloConfig{Trials: 100, Seed: 7, InitialBankroll: 50})
	require.NoError(t, err)

	assert.Equal(t, -100.0, result.MeanProfit)
	assert.Equal(t, 0.0, result.ProbabilityOfProfit)
	assert.Equal(t, 1.0, result.ProbabilityOfRuin)
}

func TestRunMonteCarlo_PercentilesOrdered(t *testing.T) {
	result, err := RunMonteCarlo(context.Background(), samplePortfolio(), MonteCarloConfig{Trials: 10000, Seed: 99})
	require.NoError(t, err)

	require.Len(t, result.Percentiles, 5)
	assert.LessOrEqual(t, result.Percentiles["p05"], result.Percentiles["p25"])
	assert.LessOrEqual(t, result.Percentiles["p25"], result.Percentiles["p50"])
	assert.LessOrEqual(t, result.Percentiles["p50"], result.Percentiles["p75"])
	assert.LessOrEqual(t, result.Percentiles["p75"], result.Percentiles["p95"])
	assert.LessOrEqual(t, result.MinProfit, result.Percentiles["p05"])
	assert.GreaterOrEqual(t, result.MaxProfit, result.Percentiles["p95"])
}

func TestRunMonteCarlo_InvalidInputs(t *testing.T) {
	_, err := RunMonteCarlo(context.Background(), nil, MonteCarloConfig{Trials: 10})
	assert.Error(t, err)

	_, err = RunMonteCarlo(context.Background(), []BetTuple{{Probability: 1.5, Stake: 10}}, MonteCarloConfig{Trials: 10})
	assert.Error(t, err)

	_, err = RunMonteCarlo(context.Background(), []BetTuple{{Probability: 0.5, Stake: -10}}, MonteCarloConfig{Trials: 10})
	assert.Error(t, err)
}

func TestRunMonteCarlo_ProgressHook(t *testing.T) {
	var calls []int
	cfg := MonteCarloConfig{
		Trials:        100,
		Seed:          3,
		ProgressEvery: 25,
		OnProgress:    func(done, total int) { calls = append(calls, done) },
	}

	_, err := RunMonteCarlo(context.Background(), samplePortfolio(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []int{25, 50, 75, 100}, calls)
}

func TestRunMonteCarlo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunMonteCarlo(ctx, samplePortfolio(), MonteCarloConfig{Trials: 1000, Seed: 5})
	assert.ErrorIs(t, err, context.Canceled)
}
