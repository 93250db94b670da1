package models

import (
	"time"
)

// GameStatus represents the lifecycle state of a game
type GameStatus string

const (
	GameStatusScheduled GameStatus = "scheduled"
	GameStatusFinal     GameStatus = "final"
)

// Game represents a single matchup between two teams
type Game struct {
	ID        string     `db:"id" json:"id" validate:"required"`
	Season    int        `db:"season" json:"season" validate:"required"`
	Tipoff    time.Time  `db:"tipoff" json:"tipoff" validate:"required"`
	HomeTeam  string     `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string     `db:"away_team" json:"away_team" validate:"required"`
	HomeScore *int       `db:"home_score" json:"home_score"`
	AwayScore *int       `db:"away_score" json:"away_score"`
	Status    GameStatus `db:"status" json:"status" validate:"oneof=scheduled final"`
	IsPlayoff bool       `db:"is_playoff" json:"is_playoff"`
	HomeRest  Rest       `db:"-" json:"home_rest"`
	AwayRest  Rest       `db:"-" json:"away_rest"`
	Markets   []Market   `db:"-" json:"markets,omitempty"`
}

// Rest captures schedule fatigue context for one side of a game
type Rest struct {
	DaysRest    int     `json:"days_rest"`
	BackToBack  bool    `json:"back_to_back"`
	TravelMiles float64 `json:"travel_miles"`
}

// IsFinal checks whether the outcome is known
func (g *Game) IsFinal() bool {
	return g.Status == GameStatusFinal && g.HomeScore != nil && g.AwayScore != nil
}

// Margin returns the home-team margin of victory (negative if home lost)
func (g *Game) Margin() int {
	if g.HomeScore == nil || g.AwayScore == nil {
		return 0
	}
	return *g.HomeScore - *g.AwayScore
}

// HomeWon reports whether the home team won
func (g *Game) HomeWon() bool {
	return g.Margin() > 0
}

// Day returns the calendar day of the tipoff in UTC, used for daily bet caps
func (g *Game) Day() time.Time {
	t := g.Tipoff.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
