package ratings

import (
	"math"
)

const formHistorySize = 10

// EnhancedEloModel layers situational adjustments on top of the base Elo
// rating difference, in a fixed order: injuries, recent form, rest and
// fatigue, then venue. Each adjustment is expressed in rating points and
// applied to the rating difference before the logistic conversion.
type EnhancedEloModel struct {
	*EloModel
	Overrides  *RosterOverrides
	FormWeight float64

	recentGames map[string][]formGame
}

type formGame struct {
	won       bool
	pointDiff int
}

// NewEnhancedEloModel wraps a base Elo model with modifier support.
// Overrides may be nil, meaning no injuries are known.
func NewEnhancedEloModel(base *EloModel, overrides *RosterOverrides, formWeight float64) *EnhancedEloModel {
	if overrides == nil {
		overrides = NewRosterOverrides()
	}
	return &EnhancedEloModel{
		EloModel:    base,
		Overrides:   overrides,
		FormWeight:  formWeight,
		recentGames: make(map[string][]formGame),
	}
}

// Name returns the model identifier
func (m *EnhancedEloModel) Name() string { return "enhanced_elo" }

// Predict returns the home win probability after applying the modifier
// pipeline. Read-only; the captured expectation feeds the next Update.
func (m *EnhancedEloModel) Predict(home, away string, mods Modifiers) float64 {
	homeStrength := m.Rating(home) - m.Overrides.Penalty(home) + m.formAdjustment(home) + restAdjustment(mods.HomeRest)
	awayStrength := m.Rating(away) - m.Overrides.Penalty(away) + m.formAdjustment(away) + restAdjustment(mods.AwayRest)

	diff := homeStrength - awayStrength + m.venueAdvantage(mods)
	p := logistic(diff)
	m.pending[matchupKey(home, away)] = p
	return clampProbability(p)
}

// Update applies the base Elo update and refreshes the form buffers.
func (m *EnhancedEloModel) Update(home, away string, out Outcome) {
	m.EloModel.Update(home, away, out)
	m.recordForm(home, out.HomeWon, out.Margin)
	m.recordForm(away, !out.HomeWon, -out.Margin)
}

// formAdjustment rewards hot streaks and strong recent point
// differentials, bounded to +/-40 rating points before weighting.
func (m *EnhancedEloModel) formAdjustment(team string) float64 {
	recent := m.recentGames[team]
	if len(recent) == 0 {
		return 0
	}

	streak := 0
	for i := len(recent) - 1; i >= 0; i-- {
		g := recent[i]
		if g.won {
			if streak < 0 {
				break
			}
			streak++
		} else {
			if streak > 0 {
				break
			}
			streak--
		}
	}

	streakAdj := 0.0
	absStreak := math.Abs(float64(streak))
	switch {
	case absStreak >= 4:
		streakAdj = math.Min(40, absStreak*8)
	case absStreak >= 2:
		streakAdj = math.Min(20, absStreak*5)
	}
	if streak < 0 {
		streakAdj = -streakAdj
	}

	last5 := recent
	if len(last5) > 5 {
		last5 = last5[len(last5)-5:]
	}
	sumDiff := 0.0
	for _, g := range last5 {
		sumDiff += float64(g.pointDiff)
	}
	avgDiff := sumDiff / float64(len(last5))

	diffAdj := 0.0
	if math.Abs(avgDiff) > 10 {
		diffAdj = math.Max(-30, math.Min(30, avgDiff*2))
	}

	return (streakAdj*0.6 + diffAdj*0.4) * m.FormWeight
}

// restAdjustment penalizes fatigue: back-to-backs and short rest hurt,
// three or more days off earn a small bonus, long travel costs a little.
func restAdjustment(rest RestContext) float64 {
	adj := 0.0
	if rest.BackToBack {
		adj -= 40
	}
	switch {
	case rest.DaysRest == 0:
		adj -= 30
	case rest.DaysRest == 1:
		adj -= 15
	case rest.DaysRest >= 3:
		adj += 7
	}
	if rest.TravelMiles > 2000 {
		adj -= 10
	} else if rest.TravelMiles > 1000 {
		adj -= 5
	}
	return adj
}

// venueAdvantage scales home court with context; playoff crowds are
// worth more than the regular-season baseline.
func (m *EnhancedEloModel) venueAdvantage(mods Modifiers) float64 {
	adv := m.HomeAdvantage
	if mods.IsPlayoff {
		adv *= 1.2
	}
	return adv
}

func (m *EnhancedEloModel) recordForm(team string, won bool, pointDiff int) {
	games := append(m.recentGames[team], formGame{won: won, pointDiff: pointDiff})
	if len(games) > formHistorySize {
		games = games[len(games)-formHistorySize:]
	}
	m.recentGames[team] = games
}
