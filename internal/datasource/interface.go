// Package datasource loads historical game and odds data from local
// files or external providers and normalizes it into models.Game.
package datasource

import (
	"context"
	"sort"
	"time"

	"github.com/yourusername/fastbreak/internal/models"
)

// GameSource defines the interface for fetching historical game data
type GameSource interface {
	// FetchGames retrieves games with final scores and market quotes for
	// the date range, sorted by tipoff ascending
	FetchGames(ctx context.Context, startDate, endDate time.Time) ([]*models.Game, error)

	// Name returns the name of the data source
	Name() string
}

// sortGamesByTipoff orders games chronologically, which the engine
// requires of its input stream
func sortGamesByTipoff(games []*models.Game) {
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Tipoff.Before(games[j].Tipoff)
	})
}
