// Package odds provides pure conversion math between American odds,
// decimal odds, and implied probabilities, plus vig removal.
package odds

import (
	"fmt"
	"math"

	"github.com/yourusername/fastbreak/internal/models"
)

// Books do not quote beyond these bounds; anything outside is a data error.
const (
	minAmericanMagnitude = 100.0
	maxAmericanMagnitude = 10000.0
)

// AmericanToProbability converts American odds to implied probability.
// Negative odds are the favorite (bet |odds| to win 100), positive odds
// the underdog (bet 100 to win odds). Values strictly inside (-100, +100)
// are not legal American odds.
func AmericanToProbability(american float64) (float64, error) {
	if err := ValidateAmericanOdds(american); err != nil {
		return 0, err
	}
	if american < 0 {
		return -american / (-american + 100), nil
	}
	return 100 / (american + 100), nil
}

// ProbabilityToAmerican converts a probability back to American odds.
func ProbabilityToAmerican(p float64) (float64, error) {
	if !(p > 0 && p < 1) {
		return 0, fmt.Errorf("probability %v outside (0,1): %w", p, models.ErrInvalidOdds)
	}
	if p >= 0.5 {
		return -100 * p / (1 - p), nil
	}
	return 100 * (1 - p) / p, nil
}

// AmericanToDecimal converts American odds to decimal odds
// (total payout per unit staked, stake included).
func AmericanToDecimal(american float64) (float64, error) {
	if err := ValidateAmericanOdds(american); err != nil {
		return 0, err
	}
	if american < 0 {
		return 1 + 100/-american, nil
	}
	return 1 + american/100, nil
}

// ProfitOnWin returns the profit (excluding stake) of a winning bet.
func ProfitOnWin(stake, american float64) (float64, error) {
	if err := ValidateAmericanOdds(american); err != nil {
		return 0, err
	}
	if american > 0 {
		return stake * american / 100, nil
	}
	return stake * 100 / -american, nil
}

// PayoutOnWin returns the total payout (stake plus profit) of a winning bet.
func PayoutOnWin(stake, american float64) (float64, error) {
	profit, err := ProfitOnWin(stake, american)
	if err != nil {
		return 0, err
	}
	return stake + profit, nil
}

// ValidateAmericanOdds rejects quotes outside the legal American-odds
// domain: zero, magnitudes below 100, and implausible extremes.
func ValidateAmericanOdds(american float64) error {
	mag := math.Abs(american)
	if mag < minAmericanMagnitude || mag > maxAmericanMagnitude {
		return fmt.Errorf("american odds %v: %w", american, models.ErrInvalidOdds)
	}
	return nil
}
