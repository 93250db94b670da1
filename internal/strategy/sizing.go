package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yourusername/fastbreak/internal/models"
	"github.com/yourusername/fastbreak/internal/odds"
)

// Sizer computes stakes with fractional Kelly and hard caps. Caps are
// applied after the Kelly fraction; the minimum stake is a floor that
// rejects rather than rounds up.
type Sizer struct {
	KellyFraction float64
	MaxBetPct     float64
	MinStake      float64
}

// NewSizer creates a sizer with quarter-Kelly defaults
func NewSizer() *Sizer {
	return &Sizer{
		KellyFraction: 0.25,
		MaxBetPct:     0.05,
		MinStake:      1.0,
	}
}

// StakeDecision is the outcome of sizing one opportunity
type StakeDecision struct {
	Stake     float64
	FullKelly float64
	Rejected  bool
	Reason    models.RejectionReason
}

// Size computes the stake for a bet at the given bankroll. modelProb is
// the model's win probability, american the quoted price. A zero stake
// with Rejected set means the bet must not be placed.
func (s *Sizer) Size(bankroll, modelProb, american float64) (StakeDecision, error) {
	if bankroll <= 0 {
		return StakeDecision{}, fmt.Errorf("bankroll %v: %w", bankroll, models.ErrBankrollDepleted)
	}
	if bankroll < s.MinStake {
		// no screening result can produce a placeable stake from here
		return StakeDecision{Rejected: true, Reason: models.RejectionBankroll}, nil
	}
	if modelProb <= 0 || modelProb >= 1 {
		return StakeDecision{}, fmt.Errorf("model probability %v outside (0,1)", modelProb)
	}
	dec, err := odds.AmericanToDecimal(american)
	if err != nil {
		return StakeDecision{}, err
	}

	// full Kelly: f* = (p*d - 1) / (d - 1)
	fullKelly := (modelProb*dec - 1) / (dec - 1)
	if fullKelly <= 0 {
		return StakeDecision{FullKelly: fullKelly, Rejected: true, Reason: models.RejectionNegativeKelly}, nil
	}

	fraction := fullKelly * s.KellyFraction
	if fraction > s.MaxBetPct {
		fraction = s.MaxBetPct
	}

	stake := roundDownToCents(bankroll * fraction)
	if stake < s.MinStake {
		return StakeDecision{FullKelly: fullKelly, Rejected: true, Reason: models.RejectionBelowMinStake}, nil
	}
	if stake > bankroll {
		stake = roundDownToCents(bankroll)
	}

	return StakeDecision{Stake: stake, FullKelly: fullKelly}, nil
}

// GetParameters returns the sizing parameters for reporting
func (s *Sizer) GetParameters() map[string]interface{} {
	return map[string]interface{}{
		"kelly_fraction": s.KellyFraction,
		"max_bet_pct":    s.MaxBetPct,
		"min_stake":      s.MinStake,
	}
}

// Stakes are currency; truncating to cents keeps the ledger exact.
func roundDownToCents(amount float64) float64 {
	d := decimal.NewFromFloat(amount).RoundDown(2)
	f, _ := d.Float64()
	return f
}
