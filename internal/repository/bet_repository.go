package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/fastbreak/internal/database"
	"github.com/yourusername/fastbreak/internal/models"
)

// PostgresBetRepository implements BetRepository for PostgreSQL
type PostgresBetRepository struct {
	db *database.DB
}

// NewPostgresBetRepository creates a new bet repository
func NewPostgresBetRepository(db *database.DB) BetRepository {
	return &PostgresBetRepository{db: db}
}

const betColumns = `id, run_id, game_id, market_type, side, team, line, stake, odds,
	model_prob, market_fair_prob, edge, expected_value, status, placed_at,
	settled_at, profit, payout, bankroll_before, bankroll_after`

// Create inserts a new bet
func (r *PostgresBetRepository) Create(ctx context.Context, runID uuid.UUID, bet *models.Bet) error {
	query := `
		INSERT INTO bets (` + betColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err := r.db.Exec(ctx, query,
		bet.ID, runID, bet.GameID, bet.MarketType, bet.Side, bet.Team, bet.Line, bet.Stake, bet.Odds,
		bet.ModelProb, bet.MarketFairProb, bet.Edge, bet.ExpectedValue, bet.Status, bet.PlacedAt,
		bet.SettledAt, bet.Profit, bet.Payout, bet.BankrollBefore, bet.BankrollAfter,
	)
	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}
	return nil
}

// CreateBatch inserts a ledger in one transaction
func (r *PostgresBetRepository) CreateBatch(ctx context.Context, runID uuid.UUID, bets []*models.Bet) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO bets (` + betColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		`
		for _, bet := range bets {
			if _, err := tx.Exec(ctx, query,
				bet.ID, runID, bet.GameID, bet.MarketType, bet.Side, bet.Team, bet.Line, bet.Stake, bet.Odds,
				bet.ModelProb, bet.MarketFairProb, bet.Edge, bet.ExpectedValue, bet.Status, bet.PlacedAt,
				bet.SettledAt, bet.Profit, bet.Payout, bet.BankrollBefore, bet.BankrollAfter,
			); err != nil {
				return fmt.Errorf("failed to insert bet %s: %w", bet.ID, err)
			}
		}
		return nil
	})
}

// GetByID retrieves a bet by ID
func (r *PostgresBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`

	bet := &models.Bet{}
	var runID uuid.UUID
	err := r.db.QueryRow(ctx, query, id).Scan(
		&bet.ID, &runID, &bet.GameID, &bet.MarketType, &bet.Side, &bet.Team, &bet.Line, &bet.Stake, &bet.Odds,
		&bet.ModelProb, &bet.MarketFairProb, &bet.Edge, &bet.ExpectedValue, &bet.Status, &bet.PlacedAt,
		&bet.SettledAt, &bet.Profit, &bet.Payout, &bet.BankrollBefore, &bet.BankrollAfter,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	return bet, nil
}

// GetByRunID retrieves the full ledger of a run in placement order
func (r *PostgresBetRepository) GetByRunID(ctx context.Context, runID uuid.UUID) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE run_id = $1 ORDER BY placed_at, id`
	return r.queryBets(ctx, query, runID)
}

// GetByGameID retrieves every bet recorded against a game
func (r *PostgresBetRepository) GetByGameID(ctx context.Context, gameID string) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE game_id = $1 ORDER BY placed_at, id`
	return r.queryBets(ctx, query, gameID)
}

func (r *PostgresBetRepository) queryBets(ctx context.Context, query string, arg any) ([]*models.Bet, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet := &models.Bet{}
		var runID uuid.UUID
		if err := rows.Scan(
			&bet.ID, &runID, &bet.GameID, &bet.MarketType, &bet.Side, &bet.Team, &bet.Line, &bet.Stake, &bet.Odds,
			&bet.ModelProb, &bet.MarketFairProb, &bet.Edge, &bet.ExpectedValue, &bet.Status, &bet.PlacedAt,
			&bet.SettledAt, &bet.Profit, &bet.Payout, &bet.BankrollBefore, &bet.BankrollAfter,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bets: %w", err)
	}
	return bets, nil
}
