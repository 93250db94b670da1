package ratings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestEnhanced(overrides *RosterOverrides) *EnhancedEloModel {
	return NewEnhancedEloModel(newTestElo(), overrides, 1.0)
}

func TestEnhancedElo_InjuryPenaltyLowersProbability(t *testing.T) {
	healthy := newTestEnhanced(nil)
	base := healthy.Predict("BOS", "NYK", Modifiers{})

	hurt := newTestEnhanced(NewRosterOverrides().WithInjury("BOS", "Tatum", InjuryTierStar))
	withInjury := hurt.Predict("BOS", "NYK", Modifiers{})

	assert.Less(t, withInjury, base)
}

func TestEnhancedElo_InjuryTierOrdering(t *testing.T) {
	probFor := func(tier InjuryTier) float64 {
		m := newTestEnhanced(NewRosterOverrides().WithInjury("BOS", "P", tier))
		return m.Predict("BOS", "NYK", Modifiers{})
	}

	assert.Less(t, probFor(InjuryTierStar), probFor(InjuryTierStarter))
	assert.Less(t, probFor(InjuryTierStarter), probFor(InjuryTierRotation))
	assert.Less(t, probFor(InjuryTierRotation), probFor(InjuryTierBench))
}

func TestEnhancedElo_RestAdjustments(t *testing.T) {
	tests := []struct {
		name string
		rest RestContext
		want float64
	}{
		{"back to back", RestContext{DaysRest: 0, BackToBack: true}, -70},
		{"zero days rest", RestContext{DaysRest: 0}, -30},
		{"one day rest", RestContext{DaysRest: 1}, -15},
		{"normal rest", RestContext{DaysRest: 2}, 0},
		{"long rest bonus", RestContext{DaysRest: 4}, 7},
		{"long travel", RestContext{DaysRest: 2, TravelMiles: 2500}, -10},
		{"moderate travel", RestContext{DaysRest: 2, TravelMiles: 1500}, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, restAdjustment(tt.rest))
		})
	}
}

func TestEnhancedElo_FatigueLowersProbability(t *testing.T) {
	m := newTestEnhanced(nil)
	rested := m.Predict("BOS", "NYK", Modifiers{
		HomeRest: RestContext{DaysRest: 2},
		AwayRest: RestContext{DaysRest: 2},
	})

	tired := m.Predict("BOS", "NYK", Modifiers{
		HomeRest: RestContext{DaysRest: 0, BackToBack: true, TravelMiles: 2500},
		AwayRest: RestContext{DaysRest: 2},
	})

	assert.Less(t, tired, rested)
}

func TestEnhancedElo_PlayoffHomeAdvantageBoost(t *testing.T) {
	m := newTestEnhanced(nil)
	regular := m.Predict("BOS", "NYK", Modifiers{})
	playoff := m.Predict("BOS", "NYK", Modifiers{IsPlayoff: true})

	assert.Greater(t, playoff, regular)
}

func TestEnhancedElo_WinStreakRaisesProbability(t *testing.T) {
	m := newTestEnhanced(nil)
	cold := m.Predict("BOS", "NYK", Modifiers{})

	for i := 0; i < 5; i++ {
		m.Predict("BOS", "CHI", Modifiers{})
		m.Update("BOS", "CHI", Outcome{HomeWon: true, Margin: 15, Season: 2024})
	}
	// counteract the Elo gains so only the form signal remains
	m.ratings["BOS"] = 1500
	m.ratings["CHI"] = 1500

	hot := m.Predict("BOS", "NYK", Modifiers{})
	assert.Greater(t, hot, cold)
}

func TestEnhancedElo_LosingStreakLowersProbability(t *testing.T) {
	m := newTestEnhanced(nil)
	base := m.Predict("BOS", "NYK", Modifiers{})

	for i := 0; i < 5; i++ {
		m.Predict("BOS", "CHI", Modifiers{})
		m.Update("BOS", "CHI", Outcome{HomeWon: false, Margin: -15, Season: 2024})
	}
	m.ratings["BOS"] = 1500
	m.ratings["CHI"] = 1500

	slumping := m.Predict("BOS", "NYK", Modifiers{})
	assert.Less(t, slumping, base)
}

func TestEnhancedElo_PredictStaysWithinBounds(t *testing.T) {
	m := newTestEnhanced(NewRosterOverrides().
		WithInjury("DET", "A", InjuryTierStar).
		WithInjury("DET", "B", InjuryTierStar).
		WithInjury("DET", "C", InjuryTierStar))
	m.ratings = map[string]float64{"BOS": 2200, "DET": 900}

	p := m.Predict("BOS", "DET", Modifiers{
		AwayRest: RestContext{DaysRest: 0, BackToBack: true, TravelMiles: 3000},
	})
	assert.Equal(t, MaxProbability, p)

	q := m.Predict("DET", "BOS", Modifiers{
		HomeRest: RestContext{DaysRest: 0, BackToBack: true, TravelMiles: 3000},
	})
	assert.Equal(t, MinProbability, q)
}
