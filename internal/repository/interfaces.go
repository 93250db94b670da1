// Package repository persists backtest runs and their bet ledgers.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/fastbreak/internal/models"
)

// BetRepository stores the bet ledger of a run
type BetRepository interface {
	Create(ctx context.Context, runID uuid.UUID, bet *models.Bet) error
	CreateBatch(ctx context.Context, runID uuid.UUID, bets []*models.Bet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error)
	GetByRunID(ctx context.Context, runID uuid.UUID) ([]*models.Bet, error)
	GetByGameID(ctx context.Context, gameID string) ([]*models.Bet, error)
}

// Run summarizes one persisted backtest run
type Run struct {
	ID              uuid.UUID  `db:"id"`
	Model           string     `db:"model"`
	InitialBankroll float64    `db:"initial_bankroll"`
	FinalBankroll   float64    `db:"final_bankroll"`
	Status          string     `db:"status"`
	StartedAt       time.Time  `db:"started_at"`
	FinishedAt      *time.Time `db:"finished_at"`
}

// RunRepository stores run summaries
type RunRepository interface {
	Create(ctx context.Context, run *Run) error
	Finish(ctx context.Context, id uuid.UUID, finalBankroll float64, status string, finishedAt time.Time) error
	GetByID(ctx context.Context, id uuid.UUID) (*Run, error)
	List(ctx context.Context, limit int) ([]*Run, error)
}

// Repositories bundles all repositories behind one constructor
type Repositories struct {
	Bet BetRepository
	Run RunRepository
}
