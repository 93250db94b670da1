// Package main provides a standalone Monte Carlo simulator over a
// portfolio of bets described in a JSON file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/fastbreak/internal/backtest"
	"github.com/yourusername/fastbreak/internal/logger"
)

func main() {
	var (
		portfolioPath = flag.String("portfolio", "", "Path to JSON file with the bet portfolio")
		trials        = flag.Int("trials", 10000, "Number of simulation trials")
		seed          = flag.Int64("seed", 0, "Random seed; 0 uses the wall clock")
		bankroll      = flag.Float64("bankroll", 10000, "Starting bankroll for ruin probability")
		logLevel      = flag.String("log-level", "info", "Log level")
	)
	flag.Parse()

	log := logger.NewLogger(*logLevel)

	if *portfolioPath == "" {
		log.Fatal("A portfolio file is required; pass -portfolio")
	}

	bets, err := loadPortfolio(*portfolioPath)
	if err != nil {
		log.Fatalf("Failed to load portfolio: %v", err)
	}

	log.WithFields(logrus.Fields{
		"bets":   len(bets),
		"trials": *trials,
		"seed":   *seed,
	}).Info("Starting simulation")

	result, err := backtest.RunMonteCarlo(context.Background(), bets, backtest.MonteCarloConfig{
		Trials:          *trials,
		Seed:            *seed,
		InitialBankroll: *bankroll,
		ProgressEvery:   *trials / 10,
		OnProgress: func(done, total int) {
			log.WithFields(logrus.Fields{"done": done, "total": total}).Debug("Simulation progress")
		},
	})
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	fmt.Println(result.ToJSON())
}

func loadPortfolio(path string) ([]backtest.BetTuple, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio file: %w", err)
	}

	var bets []backtest.BetTuple
	if err := json.Unmarshal(data, &bets); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio file: %w", err)
	}

	for i, bet := range bets {
		if bet.Probability <= 0 || bet.Probability >= 1 {
			return nil, fmt.Errorf("bet %d: probability must be in (0, 1), got %v", i, bet.Probability)
		}
		if bet.Stake <= 0 {
			return nil, fmt.Errorf("bet %d: stake must be positive, got %v", i, bet.Stake)
		}
	}
	return bets, nil
}
