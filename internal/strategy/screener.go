// Package strategy turns model predictions and market quotes into
// screened, sized betting decisions.
package strategy

import (
	"fmt"
	"sort"

	"github.com/yourusername/fastbreak/internal/models"
	"github.com/yourusername/fastbreak/internal/odds"
)

// Screener applies a market reality check to every candidate edge.
// Large disagreements with the closing market are treated as model error
// until proven otherwise: the bigger the edge, the harder it is discounted.
type Screener struct {
	MinEVThreshold   float64
	MinEdgeThreshold float64

	// plausibility tier bounds, in probability points
	CriticalEdge float64
	HighEdge     float64
	ModerateEdge float64

	// confidence multipliers per tier
	HighDiscount     float64
	ModerateDiscount float64

	// model probabilities beyond these bounds draw a caution flag
	ExtremeProbHigh float64
	ExtremeProbLow  float64
}

// NewScreener creates a screener with the default reality-check tiers
func NewScreener() *Screener {
	return &Screener{
		MinEVThreshold:   0.0,
		MinEdgeThreshold: 0.02,
		CriticalEdge:     0.15,
		HighEdge:         0.10,
		ModerateEdge:     0.05,
		HighDiscount:     0.3,
		ModerateDiscount: 0.5,
		ExtremeProbHigh:  0.90,
		ExtremeProbLow:   0.10,
	}
}

// Evaluate screens one market side. modelProb is the model's win
// probability for the side, marketFairProb the de-vigged market
// probability for the same side, american the quoted price. The returned
// opportunity always carries the full diagnostic trail, accepted or not.
func (s *Screener) Evaluate(modelProb, marketFairProb, american float64) (models.Opportunity, error) {
	if modelProb <= 0 || modelProb >= 1 {
		return models.Opportunity{}, fmt.Errorf("model probability %v outside (0,1)", modelProb)
	}
	if marketFairProb <= 0 || marketFairProb >= 1 {
		return models.Opportunity{}, fmt.Errorf("market probability %v outside (0,1)", marketFairProb)
	}
	implied, err := odds.AmericanToProbability(american)
	if err != nil {
		return models.Opportunity{}, err
	}
	decimal, err := odds.AmericanToDecimal(american)
	if err != nil {
		return models.Opportunity{}, err
	}

	edge := modelProb - marketFairProb
	rawEV := modelProb*(decimal-1) - (1 - modelProb)

	opp := models.Opportunity{
		Odds:           american,
		ModelProb:      modelProb,
		MarketFairProb: marketFairProb,
		ImpliedProb:    implied,
		Edge:           edge,
		RawEV:          rawEV,
		Confidence:     1.0,
	}

	absEdge := edge
	if absEdge < 0 {
		absEdge = -absEdge
	}

	switch {
	case absEdge > s.CriticalEdge:
		opp.Confidence = 0
		opp.Warnings = append(opp.Warnings, models.ScreenWarning{
			Level:   models.WarningLevelCritical,
			Message: fmt.Sprintf("edge %.1f pts exceeds plausible model advantage; treating as model error", absEdge*100),
		})
	case absEdge > s.HighEdge:
		opp.Confidence = s.HighDiscount
		opp.Warnings = append(opp.Warnings, models.ScreenWarning{
			Level:   models.WarningLevelHigh,
			Message: fmt.Sprintf("edge %.1f pts is suspiciously large; confidence discounted to %.0f%%", absEdge*100, s.HighDiscount*100),
		})
	case absEdge > s.ModerateEdge:
		opp.Confidence = s.ModerateDiscount
		opp.Warnings = append(opp.Warnings, models.ScreenWarning{
			Level:   models.WarningLevelModerate,
			Message: fmt.Sprintf("edge %.1f pts is above the typical range; confidence discounted to %.0f%%", absEdge*100, s.ModerateDiscount*100),
		})
	}

	if modelProb > s.ExtremeProbHigh || modelProb < s.ExtremeProbLow {
		opp.Warnings = append(opp.Warnings, models.ScreenWarning{
			Level:   models.WarningLevelHigh,
			Message: fmt.Sprintf("model probability %.3f is extreme; near-certain predictions are rarely calibrated", modelProb),
		})
	}

	opp.AdjustedEV = rawEV * opp.Confidence
	opp.Recommendation = s.recommend(&opp, edge)
	return opp, nil
}

func (s *Screener) recommend(opp *models.Opportunity, edge float64) models.Recommendation {
	if opp.Confidence == 0 {
		return models.RecommendationDoNotBet
	}
	if edge < s.MinEdgeThreshold || opp.AdjustedEV <= s.MinEVThreshold {
		return models.RecommendationDoNotBet
	}
	if len(opp.Warnings) > 0 {
		return models.RecommendationCaution
	}
	return models.RecommendationProceed
}

// GetParameters returns the screener tiers for reporting
func (s *Screener) GetParameters() map[string]interface{} {
	return map[string]interface{}{
		"min_ev_threshold":   s.MinEVThreshold,
		"min_edge_threshold": s.MinEdgeThreshold,
		"critical_edge":      s.CriticalEdge,
		"high_edge":          s.HighEdge,
		"moderate_edge":      s.ModerateEdge,
		"high_discount":      s.HighDiscount,
		"moderate_discount":  s.ModerateDiscount,
	}
}

// RankByEV orders opportunities by descending adjusted expected value.
// Ties keep their original placement order, so daily caps resolve
// deterministically.
func RankByEV(opps []models.Opportunity) []models.Opportunity {
	ranked := make([]models.Opportunity, len(opps))
	copy(ranked, opps)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AdjustedEV > ranked[j].AdjustedEV
	})
	return ranked
}
