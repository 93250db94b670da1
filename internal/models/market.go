package models

// MarketType represents the proposition a market prices
type MarketType string

const (
	MarketTypeMoneyline MarketType = "MONEYLINE"
	MarketTypeSpread    MarketType = "SPREAD"
	MarketTypeTotal     MarketType = "TOTAL"
)

// MarketSide identifies which side of a two-way market a quote refers to
type MarketSide string

const (
	MarketSideHome MarketSide = "HOME"
	MarketSideAway MarketSide = "AWAY"
)

// Market is a two-sided price quote on one proposition of a game.
// The raw American odds are immutable inputs; fair probabilities are
// always derived, never stored here.
type Market struct {
	Type     MarketType `json:"type" validate:"required"`
	Line     float64    `json:"line"`
	HomeOdds float64    `json:"home_odds" validate:"required"`
	AwayOdds float64    `json:"away_odds" validate:"required"`
}

// QuoteFor returns the American odds for the requested side
func (m *Market) QuoteFor(side MarketSide) float64 {
	if side == MarketSideHome {
		return m.HomeOdds
	}
	return m.AwayOdds
}

// IsTwoWay reports whether both sides of the market carry a quote
func (m *Market) IsTwoWay() bool {
	return m.HomeOdds != 0 && m.AwayOdds != 0
}
