// Package main provides a CLI for inspecting persisted backtest runs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/fastbreak/internal/config"
	"github.com/yourusername/fastbreak/internal/database"
	"github.com/yourusername/fastbreak/internal/repository"
	"github.com/yourusername/fastbreak/internal/tracking"
)

var (
	configFile string
	listLimit  int
	asJSON     bool
	logger     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "Maximum number of runs to list")
	showCmd.Flags().BoolVar(&asJSON, "json", false, "Emit the report as JSON")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}

var rootCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect persisted backtest runs",
	Long:  `Lists stored backtest runs and rebuilds performance reports from their bet ledgers.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent backtest runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRuns(cmd.Context())
	},
}

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the performance report for a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showRun(cmd.Context(), args[0])
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if !cfg.Database.Enabled {
		return fmt.Errorf("database is not enabled; reports require a persisted ledger")
	}

	logger = logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	return nil
}

func listRuns(ctx context.Context) error {
	runs, err := repos.Run.List(ctx, listLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tMODEL\tSTATUS\tINITIAL\tFINAL\tSTARTED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%s\n",
			run.ID, run.Model, run.Status,
			run.InitialBankroll, run.FinalBankroll,
			run.StartedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func showRun(ctx context.Context, rawID string) error {
	runID, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", rawID, err)
	}

	run, err := repos.Run.GetByID(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}

	bets, err := repos.Bet.GetByRunID(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load bet ledger: %w", err)
	}

	tracker := tracking.NewTracker(run.InitialBankroll)
	tracker.RecordAll(bets)
	report := tracker.Report()

	if asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Run %s (%s, %s)\n", run.ID, run.Model, run.Status)
	fmt.Printf("Bankroll: %.2f -> %.2f\n\n", run.InitialBankroll, run.FinalBankroll)
	printReport(report)
	return nil
}

func printReport(r tracking.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total bets\t%d\n", r.TotalBets)
	fmt.Fprintf(w, "Record\t%d-%d-%d (W-L-P)\n", r.Wins, r.Losses, r.Pushes)
	fmt.Fprintf(w, "Win rate\t%s\n", formatPct(r.WinRate))
	fmt.Fprintf(w, "ROI\t%s\n", formatPct(r.ROI))
	fmt.Fprintf(w, "Net profit\t%.2f\n", r.TotalProfit)
	fmt.Fprintf(w, "Sharpe\t%s\n", formatFloat(r.SharpeRatio))
	fmt.Fprintf(w, "Max drawdown\t%s\n", formatPct(r.MaxDrawdown))
	fmt.Fprintf(w, "Calibration error\t%s\n", formatFloat(r.CalibrationError))
	w.Flush()
}

func formatPct(v float64) string {
	if v != v {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

func formatFloat(v float64) string {
	if v != v {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}
