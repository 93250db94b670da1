// Package main provides the autorun daemon: a scheduler that replays
// the configured backtest on a recurring cron schedule, with health
// and metrics endpoints for operators.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/fastbreak/internal/backtest"
	"github.com/yourusername/fastbreak/internal/config"
	"github.com/yourusername/fastbreak/internal/database"
	"github.com/yourusername/fastbreak/internal/datasource"
	"github.com/yourusername/fastbreak/internal/health"
	"github.com/yourusername/fastbreak/internal/logger"
	"github.com/yourusername/fastbreak/internal/metrics"
	"github.com/yourusername/fastbreak/internal/models"
	"github.com/yourusername/fastbreak/internal/odds"
	"github.com/yourusername/fastbreak/internal/ratings"
	"github.com/yourusername/fastbreak/internal/scheduler"
	"github.com/yourusername/fastbreak/internal/strategy"
	"github.com/yourusername/fastbreak/internal/tracking"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile   string
	runOnce      bool
	everySeconds int
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().BoolVar(&runOnce, "once", false, "Run a single backtest immediately and exit")
	rootCmd.Flags().IntVar(&everySeconds, "every", 0, "Run every N seconds instead of the cron schedule")
}

var rootCmd = &cobra.Command{
	Use:   "autorun",
	Short: "Run recurring backtests on a schedule",
	Long:  `Starts a daemon that replays the configured backtest on a cron schedule and serves health and metrics endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logg := logger.NewLogger(cfg.App.LogLevel)
	logg.WithFields(logrus.Fields{
		"version": Version,
		"commit":  GitCommit,
	}).Info("Autorun daemon starting")

	metrics.Register(prometheus.DefaultRegisterer)

	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
	}

	healthServer := buildHealthServer(cfg, logg, db)
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}
	defer healthServer.Shutdown()

	job := func(jobCtx context.Context) error {
		return executeBacktest(jobCtx, cfg, logg)
	}

	if runOnce {
		healthServer.SetReady(true)
		return job(ctx)
	}

	sched := scheduler.NewScheduler(logg)
	if everySeconds > 0 {
		if err := sched.ScheduleInterval(everySeconds, "interval-backtest", job); err != nil {
			return fmt.Errorf("failed to schedule backtest: %w", err)
		}
	} else {
		schedule := cfg.Scheduler.Schedule
		if schedule == "" {
			schedule = "0 4 * * *"
		}
		if err := sched.ScheduleBacktest(schedule, "nightly-backtest", job); err != nil {
			return fmt.Errorf("failed to schedule backtest: %w", err)
		}
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	healthServer.SetReady(true)
	logg.WithField("next_run", sched.GetNextRun().Format(time.RFC3339)).Info("Scheduler running")

	<-ctx.Done()
	logg.Info("Shutdown signal received")
	return nil
}

func buildHealthServer(cfg *config.Config, logg *logrus.Logger, db *database.DB) *health.Server {
	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      logg,
		MetricsPath: cfg.Metrics.Path,
	}
	if cfg.Metrics.Port > 0 {
		healthCfg.Port = strconv.Itoa(cfg.Metrics.Port)
	} else if port := os.Getenv("HEALTH_PORT"); port != "" {
		healthCfg.Port = port
	}
	if db != nil {
		healthCfg.DB = db
	}
	return health.NewServer(healthCfg)
}

func executeBacktest(ctx context.Context, cfg *config.Config, logg *logrus.Logger) error {
	start, err := time.Parse("2006-01-02", cfg.Backtest.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", cfg.Backtest.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}

	games, err := fetchGames(ctx, cfg, start, end)
	if err != nil {
		return err
	}

	model := buildModel(&cfg.Model)
	engine, err := buildEngine(cfg, model, logg)
	if err != nil {
		return err
	}

	state, err := engine.Run(ctx, games)
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	tracker := tracking.NewTracker(state.InitialBankroll)
	tracker.RecordAll(state.Settled)
	report := tracker.Report()

	if cfg.Backtest.OutputPath != "" {
		if err := backtest.GenerateJSONExport(state, report, cfg.Backtest.OutputPath); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
	}

	logg.WithFields(logrus.Fields{
		"games":          len(games),
		"bets":           report.TotalBets,
		"final_bankroll": state.CurrentBankroll,
	}).Info("Scheduled backtest finished")
	return nil
}

func fetchGames(ctx context.Context, cfg *config.Config, start, end time.Time) ([]*models.Game, error) {
	var src datasource.GameSource
	switch {
	case cfg.StatsAPI.BaseURL != "":
		src = datasource.NewAPISource(cfg.StatsAPI)
	case cfg.Backtest.GamesFile != "":
		src = datasource.NewCSVSource(cfg.Backtest.GamesFile)
	default:
		return nil, fmt.Errorf("no game source configured; set stats_api.base_url or backtest.games_file")
	}

	games, err := src.FetchGames(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch games from %s: %w", src.Name(), err)
	}
	return games, nil
}

func buildModel(mc *config.ModelConfig) ratings.Model {
	// home_advantage_points is configured in court points, the model
	// works in Elo units
	homeAdvantage := ratings.SpreadToElo(mc.HomeAdvantagePoints)
	base := ratings.NewEloModel(mc.KFactor, homeAdvantage, mc.InitialRating, mc.MeanReversion)
	if !mc.Enhanced {
		return base
	}
	return ratings.NewEnhancedEloModel(base, ratings.NewRosterOverrides(), mc.FormWeight)
}

func buildEngine(cfg *config.Config, model ratings.Model, logg *logrus.Logger) (*backtest.Engine, error) {
	screener := strategy.NewScreener()
	screener.MinEdgeThreshold = cfg.Screening.MinEdgeThreshold
	screener.MinEVThreshold = cfg.Screening.MinEVThreshold
	screener.CriticalEdge = cfg.Screening.CriticalEdge
	screener.HighEdge = cfg.Screening.HighEdge
	screener.ModerateEdge = cfg.Screening.ModerateEdge
	screener.HighDiscount = cfg.Screening.HighDiscount
	screener.ModerateDiscount = cfg.Screening.ModerateDiscount

	sizer := strategy.NewSizer()
	sizer.KellyFraction = cfg.Staking.KellyFraction
	sizer.MaxBetPct = cfg.Staking.MaxBetPct
	sizer.MinStake = cfg.Staking.MinStake

	engineCfg := backtest.Config{
		InitialBankroll:     cfg.Backtest.InitialBankroll,
		VigMethod:           odds.VigMethod(cfg.Screening.VigMethod),
		MaxEventExposurePct: cfg.Staking.MaxEventExposurePct,
		MaxBetsPerDay:       cfg.Staking.MaxBetsPerDay,
	}
	if engineCfg.VigMethod == "" {
		engineCfg.VigMethod = odds.VigMethodProportional
	}

	return backtest.NewEngine(engineCfg, model, screener, sizer, logg)
}
