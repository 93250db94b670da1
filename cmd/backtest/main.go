// Package main provides the entry point for the backtesting CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/fastbreak/internal/backtest"
	"github.com/yourusername/fastbreak/internal/config"
	"github.com/yourusername/fastbreak/internal/database"
	"github.com/yourusername/fastbreak/internal/datasource"
	"github.com/yourusername/fastbreak/internal/logger"
	"github.com/yourusername/fastbreak/internal/models"
	"github.com/yourusername/fastbreak/internal/odds"
	"github.com/yourusername/fastbreak/internal/ratings"
	"github.com/yourusername/fastbreak/internal/repository"
	"github.com/yourusername/fastbreak/internal/strategy"
	"github.com/yourusername/fastbreak/internal/tracking"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		source     = flag.String("source", "csv", "Game source: csv, api")
		gamesFile  = flag.String("games", "", "Override path to games CSV file")
		startDate  = flag.String("start-date", "", "Override start date (YYYY-MM-DD)")
		endDate    = flag.String("end-date", "", "Override end date (YYYY-MM-DD)")
		output     = flag.String("output", "", "Override output path for results")
		monteCarlo = flag.Bool("monte-carlo", true, "Run Monte Carlo simulation over the placed bets")
		persist    = flag.Bool("persist", false, "Persist the run and bet ledger to the database")
	)
	flag.Parse()

	ctx := context.Background()
	cfg := loadConfig(ctx, *configPath)
	log := logger.NewLogger(cfg.App.LogLevel)

	applyOverrides(cfg, *gamesFile, *startDate, *endDate, *output)

	start, end := parseDateRange(cfg, log)
	games := fetchGames(ctx, cfg, *source, start, end, log)

	model := buildModel(&cfg.Model)
	engine := buildEngine(cfg, model, log)

	log.WithFields(logrus.Fields{
		"model":    model.Name(),
		"games":    len(games),
		"start":    start.Format("2006-01-02"),
		"end":      end.Format("2006-01-02"),
		"bankroll": cfg.Backtest.InitialBankroll,
	}).Info("Starting backtest")

	state, runErr := engine.Run(ctx, games)
	if runErr != nil {
		log.WithError(runErr).Error("Backtest aborted")
	}
	if state == nil {
		os.Exit(1)
	}

	tracker := tracking.NewTracker(state.InitialBankroll)
	tracker.RecordAll(state.Settled)
	report := tracker.Report()

	fmt.Println(backtest.GenerateConsoleReport(state, report))

	writeExports(cfg, state, report, log)

	if *monteCarlo {
		runMonteCarlo(ctx, cfg, state, log)
	}

	if *persist {
		persistRun(ctx, cfg, model.Name(), state, log)
	}

	if runErr != nil {
		os.Exit(1)
	}
}

func loadConfig(ctx context.Context, path string) *config.Config {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		logrus.Fatalf("Failed to load secrets: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func applyOverrides(cfg *config.Config, gamesFile, startDate, endDate, output string) {
	if gamesFile != "" {
		cfg.Backtest.GamesFile = gamesFile
	}
	if startDate != "" {
		cfg.Backtest.StartDate = startDate
	}
	if endDate != "" {
		cfg.Backtest.EndDate = endDate
	}
	if output != "" {
		cfg.Backtest.OutputPath = output
	}
}

func parseDateRange(cfg *config.Config, log *logrus.Logger) (time.Time, time.Time) {
	start, err := time.Parse("2006-01-02", cfg.Backtest.StartDate)
	if err != nil {
		log.Fatalf("Invalid start date: %v", err)
	}
	end, err := time.Parse("2006-01-02", cfg.Backtest.EndDate)
	if err != nil {
		log.Fatalf("Invalid end date: %v", err)
	}
	if end.Before(start) {
		log.Fatalf("End date %s is before start date %s", cfg.Backtest.EndDate, cfg.Backtest.StartDate)
	}
	return start, end
}

func fetchGames(ctx context.Context, cfg *config.Config, sourceName string, start, end time.Time, log *logrus.Logger) []*models.Game {
	var src datasource.GameSource
	switch sourceName {
	case "csv":
		if cfg.Backtest.GamesFile == "" {
			log.Fatal("No games file configured; set backtest.games_file or pass -games")
		}
		src = datasource.NewCSVSource(cfg.Backtest.GamesFile)
	case "api":
		if cfg.StatsAPI.BaseURL == "" {
			log.Fatal("No stats API configured; set stats_api.base_url")
		}
		src = datasource.NewAPISource(cfg.StatsAPI)
	default:
		log.Fatalf("Unknown source %q; expected csv or api", sourceName)
	}

	games, err := src.FetchGames(ctx, start, end)
	if err != nil {
		log.Fatalf("Failed to fetch games from %s: %v", src.Name(), err)
	}
	if len(games) == 0 {
		log.Fatalf("No games found between %s and %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return games
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

func buildEngine(cfg *config.Config, model ratings.Model, log *logrus.Logger) *backtest.Engine {
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

	engine, err := backtest.NewEngine(engineCfg, model, screener, sizer, log)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	return engine
}

func writeExports(cfg *config.Config, state *backtest.State, report tracking.Report, log *logrus.Logger) {
	if cfg.Backtest.OutputPath == "" {
		return
	}
	jsonPath := cfg.Backtest.OutputPath
	if err := backtest.GenerateJSONExport(state, report, jsonPath); err != nil {
		log.WithError(err).Error("Failed to write JSON export")
	} else {
		log.WithField("path", jsonPath).Info("Wrote JSON export")
	}

	csvPath := jsonPath + ".csv"
	if err := backtest.GenerateCSVExport(state, report, csvPath); err != nil {
		log.WithError(err).Error("Failed to write CSV export")
	} else {
		log.WithField("path", csvPath).Info("Wrote CSV export")
	}
}

func runMonteCarlo(ctx context.Context, cfg *config.Config, state *backtest.State, log *logrus.Logger) {
	bets := betTuples(state.AllBets())
	if len(bets) == 0 {
		log.Info("No bets placed; skipping Monte Carlo simulation")
		return
	}

	result, err := backtest.RunMonteCarlo(ctx, bets, backtest.MonteCarloConfig{
		Trials:          cfg.Backtest.MonteCarloTrials,
		Seed:            cfg.Backtest.MonteCarloSeed,
		InitialBankroll: cfg.Backtest.InitialBankroll,
	})
	if err != nil {
		log.WithError(err).Error("Monte Carlo simulation failed")
		return
	}

	fmt.Println(result.ToJSON())
}

func betTuples(bets []*models.Bet) []backtest.BetTuple {
	tuples := make([]backtest.BetTuple, 0, len(bets))
	for _, bet := range bets {
		profit, err := odds.ProfitOnWin(bet.Stake, bet.Odds)
		if err != nil {
			continue
		}
		tuples = append(tuples, backtest.BetTuple{
			Probability: bet.ModelProb,
			Stake:       bet.Stake,
			ProfitOnWin: profit,
		})
	}
	return tuples
}

func persistRun(ctx context.Context, cfg *config.Config, modelName string, state *backtest.State, log *logrus.Logger) {
	if !cfg.Database.Enabled {
		log.Warn("Database not enabled; skipping persistence")
		return
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		return
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.WithError(err).Error("Failed to initialize repositories")
		return
	}

	run := &repository.Run{
		ID:              uuid.New(),
		Model:           modelName,
		InitialBankroll: state.InitialBankroll,
		FinalBankroll:   state.CurrentBankroll,
		Status:          string(state.Status),
		StartedAt:       time.Now().UTC(),
	}
	if err := repos.Run.Create(ctx, run); err != nil {
		log.WithError(err).Error("Failed to persist run")
		return
	}

	if err := repos.Bet.CreateBatch(ctx, run.ID, state.AllBets()); err != nil {
		log.WithError(err).Error("Failed to persist bet ledger")
		return
	}

	finished := time.Now().UTC()
	if err := repos.Run.Finish(ctx, run.ID, state.CurrentBankroll, string(state.Status), finished); err != nil {
		log.WithError(err).Error("Failed to finalize run record")
		return
	}

	log.WithFields(logrus.Fields{
		"run_id": run.ID,
		"bets":   len(state.AllBets()),
	}).Info("Persisted run to database")
}
