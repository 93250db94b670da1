package models

// Recommendation classifies a screened opportunity
type Recommendation string

const (
	RecommendationProceed  Recommendation = "PROCEED"
	RecommendationCaution  Recommendation = "PROCEED_WITH_CAUTION"
	RecommendationDoNotBet Recommendation = "DO_NOT_BET"
)

// WarningLevel grades a plausibility flag raised during screening
type WarningLevel string

const (
	WarningLevelModerate WarningLevel = "MODERATE"
	WarningLevelHigh     WarningLevel = "HIGH"
	WarningLevelCritical WarningLevel = "CRITICAL"
)

// ScreenWarning is one plausibility flag attached to an opportunity
type ScreenWarning struct {
	Level   WarningLevel `json:"level"`
	Message string       `json:"message"`
}

// Opportunity is the ephemeral result of screening one market side of a
// game against the model. It is only retained when it clears acceptance.
type Opportunity struct {
	GameID         string          `json:"game_id"`
	MarketType     MarketType      `json:"market_type"`
	Side           MarketSide      `json:"side"`
	Team           string          `json:"team"`
	Line           float64         `json:"line"`
	Odds           float64         `json:"odds"`
	ModelProb      float64         `json:"model_prob"`
	MarketFairProb float64         `json:"market_fair_prob"`
	ImpliedProb    float64         `json:"implied_prob"`
	Edge           float64         `json:"edge"`
	RawEV          float64         `json:"raw_ev"`
	AdjustedEV     float64         `json:"adjusted_ev"`
	Confidence     float64         `json:"confidence_multiplier"`
	Recommendation Recommendation  `json:"recommendation"`
	Warnings       []ScreenWarning `json:"warnings,omitempty"`
}

// Accepted reports whether the opportunity survived screening
func (o *Opportunity) Accepted() bool {
	return o.Recommendation != RecommendationDoNotBet
}
