// Package ratings maintains team strength ratings and win-probability
// prediction. Models are updated strictly after their prediction has been
// consumed for a game; the backtest engine owns that ordering.
package ratings

// Outcome is the finalized result of a game, fed back into a model
type Outcome struct {
	HomeWon bool
	Margin  int // home-team margin, negative when home lost
	Season  int
}

// Modifiers carries the situational context available before tipoff
type Modifiers struct {
	HomeRest  RestContext
	AwayRest  RestContext
	IsPlayoff bool
}

// RestContext captures schedule fatigue for one team
type RestContext struct {
	DaysRest    int
	BackToBack  bool
	TravelMiles float64
}

// Model is a win-probability model with exactly two operations: a
// read-only prediction and a post-outcome update. Implementations must
// never mutate ratings inside Predict.
type Model interface {
	Name() string
	Predict(home, away string, mods Modifiers) float64
	Update(home, away string, out Outcome)
	Rating(team string) float64
}

// Predictions are clamped to this range regardless of rating extremes;
// the bounds are part of the model contract.
const (
	MinProbability = 0.02
	MaxProbability = 0.98
)

func clampProbability(p float64) float64 {
	if p < MinProbability {
		return MinProbability
	}
	if p > MaxProbability {
		return MaxProbability
	}
	return p
}
