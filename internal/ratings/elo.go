package ratings

import (
	"fmt"
	"math"
)

// EloModel implements the classic Elo rating system with home advantage,
// a margin-of-victory K multiplier, and between-season mean reversion.
//
// Expected win probability: 1 / (1 + 10^(-(ratingDiff + homeAdv) / 400))
type EloModel struct {
	KFactor       float64
	HomeAdvantage float64
	InitialRating float64
	MeanReversion float64

	ratings       map[string]float64
	currentSeason int
	// expected probability captured at Predict time, keyed by matchup,
	// so Update never recomputes it after the fact
	pending map[string]float64
}

// NewEloModel creates an Elo model with the given parameters. Typical
// values: K 16-32, home advantage 100 Elo points (~3-point spread).
func NewEloModel(kFactor, homeAdvantage, initialRating, meanReversion float64) *EloModel {
	return &EloModel{
		KFactor:       kFactor,
		HomeAdvantage: homeAdvantage,
		InitialRating: initialRating,
		MeanReversion: meanReversion,
		ratings:       make(map[string]float64),
		pending:       make(map[string]float64),
	}
}

// Name returns the model identifier
func (m *EloModel) Name() string { return "elo" }

// Rating returns the current rating for a team, or the initial rating
// for teams not yet seen
func (m *EloModel) Rating(team string) float64 {
	if r, ok := m.ratings[team]; ok {
		return r
	}
	return m.InitialRating
}

// Predict returns the home team's win probability. Read-only on ratings.
func (m *EloModel) Predict(home, away string, mods Modifiers) float64 {
	diff := m.Rating(home) - m.Rating(away) + m.HomeAdvantage
	p := logistic(diff)
	m.pending[matchupKey(home, away)] = p
	return clampProbability(p)
}

// Update applies the Elo update rule after a game is final:
// new = old + K * movMultiplier * (actual - expected). The expected value
// is the one captured by the preceding Predict for this matchup.
func (m *EloModel) Update(home, away string, out Outcome) {
	if m.currentSeason != 0 && out.Season != m.currentSeason {
		m.applySeasonReversion()
	}
	m.currentSeason = out.Season

	homeElo := m.Rating(home)
	awayElo := m.Rating(away)
	diff := homeElo - awayElo + m.HomeAdvantage

	key := matchupKey(home, away)
	expected, ok := m.pending[key]
	if !ok {
		expected = logistic(diff)
	}
	delete(m.pending, key)

	actual := 0.0
	if out.HomeWon {
		actual = 1.0
	}

	change := m.KFactor * movMultiplier(out.Margin, homeElo-awayElo) * (actual - expected)
	m.ratings[home] = homeElo + change
	m.ratings[away] = awayElo - change
}

// Ratings returns a copy of all current ratings
func (m *EloModel) Ratings() map[string]float64 {
	out := make(map[string]float64, len(m.ratings))
	for team, r := range m.ratings {
		out[team] = r
	}
	return out
}

// EloToSpread converts an Elo difference to an approximate point spread
// (25 Elo points per point).
func EloToSpread(eloDiff float64) float64 { return eloDiff / 25.0 }

// SpreadToElo converts a point spread to an approximate Elo difference.
func SpreadToElo(spread float64) float64 { return spread * 25.0 }

func (m *EloModel) applySeasonReversion() {
	for team, r := range m.ratings {
		m.ratings[team] = m.MeanReversion*m.InitialRating + (1-m.MeanReversion)*r
	}
}

func logistic(eloDiff float64) float64 {
	return 1 / (1 + math.Pow(10, -eloDiff/400))
}

// movMultiplier scales K by margin of victory; blowouts count for more,
// damped when the favorite wins big so strong ratings don't explode.
func movMultiplier(margin int, eloDiff float64) float64 {
	abs := margin
	if abs < 0 {
		abs = -abs
	}
	if abs < 1 {
		abs = 1
	}
	mult := math.Log(float64(abs) + 1)
	favoriteWon := (margin > 0 && eloDiff > 0) || (margin < 0 && eloDiff < 0)
	if favoriteWon {
		mult *= 0.8
	}
	return mult
}

func matchupKey(home, away string) string {
	return fmt.Sprintf("%s|%s", home, away)
}
