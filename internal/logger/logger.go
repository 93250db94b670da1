// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/fastbreak/internal/models"
)

// NewLogger creates a new configured logger instance
func NewLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// JSON in production, colored text everywhere else
	if os.Getenv("ENVIRONMENT") == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	return logger
}

// BetFields returns the standard structured fields for a bet, so
// placement and settlement log lines stay greppable across the codebase
func BetFields(bet *models.Bet) logrus.Fields {
	fields := logrus.Fields{
		"bet_id":      bet.ID,
		"game_id":     bet.GameID,
		"market_type": bet.MarketType,
		"side":        bet.Side,
		"stake":       bet.Stake,
		"odds":        bet.Odds,
		"edge":        bet.Edge,
		"status":      bet.Status,
	}
	if bet.Profit != nil {
		fields["profit"] = *bet.Profit
	}
	return fields
}
