package backtest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCurve() EquityCurve {
	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	return EquityCurve{
		{Time: base, Value: 10000, Drawdown: 0},
		{Time: base.Add(time.Hour), Value: 10500, Drawdown: 0},
		{Time: base.Add(2 * time.Hour), Value: 9975, Drawdown: 0.05},
		{Time: base.Add(3 * time.Hour), Value: 10250, Drawdown: 0.0238},
	}
}

func TestEquityCurve_Returns(t *testing.T) {
	returns := sampleCurve().Returns()
	require.Len(t, returns, 3)
	assert.InDelta(t, 0.05, returns[0], 1e-9)
	assert.InDelta(t, -0.05, returns[1], 1e-9)

	assert.Empty(t, EquityCurve{}.Returns())
	assert.Empty(t, sampleCurve()[:1].Returns())
}

func TestEquityCurve_Volatility(t *testing.T) {
	assert.Greater(t, sampleCurve().Volatility(), 0.0)
	assert.Equal(t, 0.0, EquityCurve{}.Volatility())

	// a flat curve has no volatility
	flat := EquityCurve{
		{Value: 10000}, {Value: 10000}, {Value: 10000},
	}
	assert.InDelta(t, 0.0, flat.Volatility(), 1e-12)
}

func TestEquityCurve_MaxDrawdown(t *testing.T) {
	assert.InDelta(t, 0.05, sampleCurve().MaxDrawdown(), 1e-9)
	assert.Equal(t, 0.0, EquityCurve{}.MaxDrawdown())
}

func TestEquityCurve_ToCSV(t *testing.T) {
	out := sampleCurve().ToCSV()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "time,value,drawdown", lines[0])
	assert.Equal(t, "2024-01-10T00:00:00Z,10000.000000,0.000000", lines[1])
	assert.Equal(t, "2024-01-10T02:00:00Z,9975.000000,0.050000", lines[3])
}
