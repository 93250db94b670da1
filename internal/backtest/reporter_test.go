package backtest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fastbreak/internal/tracking"
)

func reportingState() *State {
	state := NewState(10000)
	state.Status = RunStatusCompleted
	state.CurrentBankroll = 10250
	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	state.EquityCurve = EquityCurve{
		{Time: base, Value: 10000, Drawdown: 0},
		{Time: base.Add(time.Hour), Value: 10500, Drawdown: 0},
		{Time: base.Add(2 * time.Hour), Value: 10250, Drawdown: 0.0238},
	}
	return state
}

func TestGenerateConsoleReport_IncludesEquityVolatility(t *testing.T) {
	state := reportingState()
	out := GenerateConsoleReport(state, tracking.Report{TotalBets: 2, Wins: 1, Losses: 1})

	assert.Contains(t, out, "Final Bankroll: 10250.00")
	assert.Contains(t, out, "Equity Volatility: ")
	assert.NotContains(t, out, "Equity Volatility: 0.0000")
}

func TestGenerateCSVExport_WritesEquityCompanion(t *testing.T) {
	state := reportingState()
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "run.csv")

	require.NoError(t, GenerateCSVExport(state, tracking.Report{}, outputPath))

	summary, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(summary), "final_bankroll,10250.00")

	equity, err := os.ReadFile(filepath.Join(dir, "run_equity.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(equity)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "time,value,drawdown", lines[0])
}

func TestGenerateCSVExport_NoEquityNoCompanion(t *testing.T) {
	state := NewState(10000)
	dir := t.TempDir()

	require.NoError(t, GenerateCSVExport(state, tracking.Report{}, filepath.Join(dir, "run.csv")))

	_, err := os.Stat(filepath.Join(dir, "run_equity.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateJSONExport_EquityMetrics(t *testing.T) {
	state := reportingState()
	outputPath := filepath.Join(t.TempDir(), "run.json")

	require.NoError(t, GenerateJSONExport(state, tracking.Report{}, outputPath))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var payload struct {
		EquityCurve       EquityCurve `json:"equity_curve"`
		EquityVolatility  float64     `json:"equity_volatility"`
		EquityMaxDrawdown float64     `json:"equity_max_drawdown"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Len(t, payload.EquityCurve, 3)
	assert.Greater(t, payload.EquityVolatility, 0.0)
	assert.InDelta(t, 0.0238, payload.EquityMaxDrawdown, 1e-9)
}
