package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/fastbreak/internal/database"
	"github.com/yourusername/fastbreak/internal/models"
)

// PostgresRunRepository implements RunRepository for PostgreSQL
type PostgresRunRepository struct {
	db *database.DB
}

// NewPostgresRunRepository creates a new run repository
func NewPostgresRunRepository(db *database.DB) RunRepository {
	return &PostgresRunRepository{db: db}
}

// NewRepositories wires all PostgreSQL repositories against one pool
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	return &Repositories{
		Bet: NewPostgresBetRepository(db),
		Run: NewPostgresRunRepository(db),
	}, nil
}

// Create inserts a run summary row
func (r *PostgresRunRepository) Create(ctx context.Context, run *Run) error {
	query := `
		INSERT INTO runs (id, model, initial_bankroll, final_bankroll, status, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		run.ID, run.Model, run.InitialBankroll, run.FinalBankroll, run.Status, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// Finish marks a run terminal with its final bankroll
func (r *PostgresRunRepository) Finish(ctx context.Context, id uuid.UUID, finalBankroll float64, status string, finishedAt time.Time) error {
	query := `UPDATE runs SET final_bankroll = $2, status = $3, finished_at = $4 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, finalBankroll, status, finishedAt)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetByID retrieves a run summary
func (r *PostgresRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Run, error) {
	query := `
		SELECT id, model, initial_bankroll, final_bankroll, status, started_at, finished_at
		FROM runs WHERE id = $1
	`
	run := &Run{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.Model, &run.InitialBankroll, &run.FinalBankroll, &run.Status, &run.StartedAt, &run.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs
func (r *PostgresRunRepository) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, model, initial_bankroll, final_bankroll, status, started_at, finished_at
		FROM runs ORDER BY started_at DESC LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(
			&run.ID, &run.Model, &run.InitialBankroll, &run.FinalBankroll, &run.Status, &run.StartedAt, &run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}
