package models

import (
	"time"

	"github.com/google/uuid"
)

// BetStatus represents the settlement state of a bet
type BetStatus string

const (
	BetStatusPending BetStatus = "pending"
	BetStatusWon     BetStatus = "won"
	BetStatusLost    BetStatus = "lost"
	BetStatusPush    BetStatus = "push"
)

// Bet represents a wager recorded by the backtester. Stake and odds are
// locked at placement and never altered; the settlement fields transition
// from nil exactly once when the game's outcome becomes available.
type Bet struct {
	ID             uuid.UUID  `db:"id" json:"id" validate:"required,uuid4"`
	GameID         string     `db:"game_id" json:"game_id" validate:"required"`
	MarketType     MarketType `db:"market_type" json:"market_type" validate:"required"`
	Side           MarketSide `db:"side" json:"side" validate:"required"`
	Team           string     `db:"team" json:"team"`
	Line           float64    `db:"line" json:"line"`
	Stake          float64    `db:"stake" json:"stake" validate:"required,gt=0"`
	Odds           float64    `db:"odds" json:"odds" validate:"required"`
	ModelProb      float64    `db:"model_prob" json:"model_prob" validate:"gte=0,lte=1"`
	MarketFairProb float64    `db:"market_fair_prob" json:"market_fair_prob" validate:"gte=0,lte=1"`
	Edge           float64    `db:"edge" json:"edge"`
	ExpectedValue  float64    `db:"expected_value" json:"expected_value"`
	Status         BetStatus  `db:"status" json:"status" validate:"required"`
	PlacedAt       time.Time  `db:"placed_at" json:"placed_at" validate:"required"`
	SettledAt      *time.Time `db:"settled_at" json:"settled_at"`
	Profit         *float64   `db:"profit" json:"profit"`
	Payout         *float64   `db:"payout" json:"payout"`
	BankrollBefore float64    `db:"bankroll_before" json:"bankroll_before"`
	BankrollAfter  *float64   `db:"bankroll_after" json:"bankroll_after"`
}

// IsSettled checks whether the bet has reached a terminal state
func (b *Bet) IsSettled() bool {
	return b.Status != BetStatusPending && b.SettledAt != nil
}

// RealizedProfit returns the settled profit, or 0 for pending bets
func (b *Bet) RealizedProfit() float64 {
	if b.Profit == nil {
		return 0
	}
	return *b.Profit
}

// Return is the per-unit return on stake for a settled bet
func (b *Bet) Return() float64 {
	if b.Stake == 0 || b.Profit == nil {
		return 0
	}
	return *b.Profit / b.Stake
}
