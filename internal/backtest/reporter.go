package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourusername/fastbreak/internal/tracking"
)

// GenerateConsoleReport formats a run summary for terminal output
func GenerateConsoleReport(state *State, report tracking.Report) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Status: %s\n", state.Status))
	builder.WriteString(fmt.Sprintf("Initial Bankroll: %.2f\n", state.InitialBankroll))
	builder.WriteString(fmt.Sprintf("Final Bankroll: %.2f\n", state.CurrentBankroll))
	builder.WriteString(fmt.Sprintf("Bets Settled: %d (W %d / L %d / P %d)\n",
		report.TotalBets, report.Wins, report.Losses, report.Pushes))
	builder.WriteString(fmt.Sprintf("Win Rate: %.2f%%\n", report.WinRate*100))
	builder.WriteString(fmt.Sprintf("ROI: %.2f%%\n", report.ROI*100))
	builder.WriteString(fmt.Sprintf("Sharpe Ratio: %.2f\n", report.SharpeRatio))
	builder.WriteString(fmt.Sprintf("Max Drawdown: %.2f%%\n", report.MaxDrawdown*100))
	builder.WriteString(fmt.Sprintf("Equity Volatility: %.4f\n", state.EquityCurve.Volatility()))
	builder.WriteString(fmt.Sprintf("Calibration Error: %.3f\n", report.CalibrationError))
	builder.WriteString(fmt.Sprintf("Longest Win Streak: %d\n", report.LongestWinStreak))
	builder.WriteString(fmt.Sprintf("Longest Lose Streak: %d\n", report.LongestLoseStreak))

	if len(state.Rejections) > 0 {
		builder.WriteString("Rejections:\n")
		for reason, count := range state.Rejections {
			builder.WriteString(fmt.Sprintf("  %s: %d\n", reason, count))
		}
	}

	if len(report.ByEdgeBucket) > 0 {
		builder.WriteString("By Edge Bucket:\n")
		for _, label := range tracking.EdgeBucketLabels() {
			stats, ok := report.ByEdgeBucket[label]
			if !ok {
				continue
			}
			builder.WriteString(fmt.Sprintf("  %s: %d bets, ROI %.2f%%, win rate %.2f%%\n",
				label, stats.Bets, stats.ROI*100, stats.WinRate*100))
		}
	}
	return builder.String()
}

// GenerateCSVExport exports key metrics for spreadsheets, plus the
// equity curve in a companion file when the run produced one
func GenerateCSVExport(state *State, report tracking.Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	if len(state.EquityCurve) > 0 {
		equityPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "_equity.csv"
		if err := os.WriteFile(equityPath, []byte(state.EquityCurve.ToCSV()), 0o644); err != nil {
			return err
		}
	}
	csv := "metric,value\n" +
		fmt.Sprintf("status,%s\n", state.Status) +
		fmt.Sprintf("initial_bankroll,%.2f\n", state.InitialBankroll) +
		fmt.Sprintf("final_bankroll,%.2f\n", state.CurrentBankroll) +
		fmt.Sprintf("total_bets,%d\n", report.TotalBets) +
		fmt.Sprintf("win_rate,%.4f\n", report.WinRate) +
		fmt.Sprintf("roi,%.4f\n", report.ROI) +
		fmt.Sprintf("sharpe_ratio,%.4f\n", report.SharpeRatio) +
		fmt.Sprintf("max_drawdown,%.4f\n", report.MaxDrawdown) +
		fmt.Sprintf("calibration_error,%.4f\n", report.CalibrationError)
	return os.WriteFile(outputPath, []byte(csv), 0o644)
}

// GenerateJSONExport writes the full report plus the equity curve
func GenerateJSONExport(state *State, report tracking.Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	payload := struct {
		Status            RunStatus       `json:"status"`
		InitialBank       float64         `json:"initial_bankroll"`
		FinalBank         float64         `json:"final_bankroll"`
		Report            tracking.Report `json:"report"`
		EquityCurve       EquityCurve     `json:"equity_curve"`
		EquityVolatility  float64         `json:"equity_volatility"`
		EquityMaxDrawdown float64         `json:"equity_max_drawdown"`
	}{
		Status:            state.Status,
		InitialBank:       state.InitialBankroll,
		FinalBank:         state.CurrentBankroll,
		Report:            report,
		EquityCurve:       state.EquityCurve,
		EquityVolatility:  state.EquityCurve.Volatility(),
		EquityMaxDrawdown: state.EquityCurve.MaxDrawdown(),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
