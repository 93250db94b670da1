package ratings

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWinProbToEloDiff_InvertsLogistic(t *testing.T) {
	for _, diff := range []float64{-300, -100, 0, 60, 250} {
		p := logistic(diff)
		assert.InDelta(t, diff, WinProbToEloDiff(p), 1e-9)
	}
}

func TestWinProbToEloDiff_ClampsExtremes(t *testing.T) {
	// 0 and 1 would blow up the log; they land on the probability bounds
	assert.InDelta(t, WinProbToEloDiff(MinProbability), WinProbToEloDiff(0), 1e-9)
	assert.InDelta(t, WinProbToEloDiff(MaxProbability), WinProbToEloDiff(1), 1e-9)
	assert.False(t, math.IsInf(WinProbToEloDiff(1), 1))
}

func TestExpectedMargin_Scale(t *testing.T) {
	// a 100-Elo favorite projects to a 4-point favorite
	p := logistic(100)
	assert.InDelta(t, 4.0, ExpectedMargin(p), 1e-9)

	// symmetric for the underdog
	assert.InDelta(t, -4.0, ExpectedMargin(logistic(-100)), 1e-9)
	assert.InDelta(t, 0.0, ExpectedMargin(0.5), 1e-9)
}

func TestCoverProbability_PickEmIsCoinFlip(t *testing.T) {
	assert.InDelta(t, 0.5, CoverProbability(0.5, 0), 1e-9)
}

func TestCoverProbability_LineAtExpectedMargin(t *testing.T) {
	// laying exactly the projected margin is a coin flip
	p := logistic(130)
	line := -ExpectedMargin(p)
	assert.InDelta(t, 0.5, CoverProbability(p, line), 1e-9)
}

func TestCoverProbability_MonotonicInLine(t *testing.T) {
	// taking points is always easier than laying them
	assert.Greater(t, CoverProbability(0.5, 5), CoverProbability(0.5, 0))
	assert.Greater(t, CoverProbability(0.5, 0), CoverProbability(0.5, -5))

	// the two sides of the same number complement each other
	home := CoverProbability(0.5, -5)
	away := 1 - CoverProbability(0.5, 5)
	assert.InDelta(t, home, away, 1e-9)
}

func TestCoverProbability_ClampedToBounds(t *testing.T) {
	assert.Equal(t, MaxProbability, CoverProbability(0.98, 60))
	assert.Equal(t, MinProbability, CoverProbability(0.02, -60))
}
