package odds

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fastbreak/internal/models"
)

func TestAmericanToProbability(t *testing.T) {
	tests := []struct {
		odds float64
		want float64
	}{
		{-110, 110.0 / 210.0},
		{+110, 100.0 / 210.0},
		{-200, 200.0 / 300.0},
		{+200, 100.0 / 300.0},
		{-100, 0.5},
		{+100, 0.5},
	}

	for _, tt := range tests {
		p, err := AmericanToProbability(tt.odds)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, p, 1e-12, "odds %v", tt.odds)
	}
}

func TestAmericanToProbability_InvalidOdds(t *testing.T) {
	for _, odds := range []float64{0, 50, -50, 99, -99, 10001, -10001} {
		_, err := AmericanToProbability(odds)
		require.Error(t, err, "odds %v", odds)
		assert.ErrorIs(t, err, models.ErrInvalidOdds)
	}
}

func TestProbabilityToAmerican_RoundTrip(t *testing.T) {
	for _, odds := range []float64{-110, -150, -250, +120, +180, +300, -105, -100} {
		p, err := AmericanToProbability(odds)
		require.NoError(t, err)

		back, err := ProbabilityToAmerican(p)
		require.NoError(t, err)
		assert.InDelta(t, odds, back, 1e-6, "odds %v", odds)
	}
}

func TestProbabilityToAmerican_EvenMoney(t *testing.T) {
	// p = 0.5 maps to the favorite-side convention
	back, err := ProbabilityToAmerican(0.5)
	require.NoError(t, err)
	assert.InDelta(t, -100, back, 1e-12)
}

func TestProbabilityToAmerican_Bounds(t *testing.T) {
	for _, p := range []float64{0, 1, -0.1, 1.5, math.NaN()} {
		_, err := ProbabilityToAmerican(p)
		assert.Error(t, err, "p %v", p)
	}
}

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		odds float64
		want float64
	}{
		{-110, 1 + 100.0/110.0},
		{+150, 2.5},
		{-200, 1.5},
		{+100, 2.0},
	}

	for _, tt := range tests {
		dec, err := AmericanToDecimal(tt.odds)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, dec, 1e-12, "odds %v", tt.odds)
	}
}

func TestProfitOnWin(t *testing.T) {
	profit, err := ProfitOnWin(110, -110)
	require.NoError(t, err)
	assert.InDelta(t, 100, profit, 1e-9)

	profit, err = ProfitOnWin(100, +150)
	require.NoError(t, err)
	assert.InDelta(t, 150, profit, 1e-9)
}

func TestPayoutOnWin(t *testing.T) {
	payout, err := PayoutOnWin(100, +150)
	require.NoError(t, err)
	assert.InDelta(t, 250, payout, 1e-9)
}
