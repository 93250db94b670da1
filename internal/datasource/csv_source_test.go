package datasource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fastbreak/internal/models"
)

const csvHeader = "id,season,tipoff,home_team,away_team,home_score,away_score,is_playoff," +
	"home_days_rest,home_b2b,home_travel_miles,away_days_rest,away_b2b,away_travel_miles," +
	"ml_home_odds,ml_away_odds\n"

func writeGamesCSV(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "games.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvHeader+rows), 0o644))
	return path
}

func TestCSVSource_FetchGames(t *testing.T) {
	rows := "0022300001,2024,2024-01-10T19:00:00Z,BOS,NYK,110,102,false,2,false,0,1,true,1200,-150,130\n" +
		"0022300002,2024,2024-01-09T19:30:00Z,MIA,CHI,95,100,true,0,true,2100,3,false,0,-110,-110\n"
	src := NewCSVSource(writeGamesCSV(t, rows))

	games, err := src.FetchGames(context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, games, 2)

	// sorted by tipoff even though the file is not
	assert.Equal(t, "0022300002", games[0].ID)
	assert.Equal(t, "0022300001", games[1].ID)

	g := games[1]
	assert.Equal(t, "BOS", g.HomeTeam)
	require.NotNil(t, g.HomeScore)
	assert.Equal(t, 110, *g.HomeScore)
	assert.True(t, g.IsFinal())
	assert.False(t, g.IsPlayoff)
	assert.Equal(t, 2, g.HomeRest.DaysRest)
	assert.True(t, g.AwayRest.BackToBack)
	require.Len(t, g.Markets, 1)
	assert.Equal(t, models.MarketTypeMoneyline, g.Markets[0].Type)
	assert.Equal(t, -150.0, g.Markets[0].HomeOdds)
	assert.Equal(t, 130.0, g.Markets[0].AwayOdds)

	first := games[0]
	assert.True(t, first.IsPlayoff)
	assert.True(t, first.HomeRest.BackToBack)
	assert.Equal(t, 2100.0, first.HomeRest.TravelMiles)
}

func TestCSVSource_DateRangeFiltering(t *testing.T) {
	rows := "g1,2024,2024-01-10T19:00:00Z,BOS,NYK,110,102,false,2,false,0,2,false,0,-110,-110\n" +
		"g2,2024,2024-02-10T19:00:00Z,BOS,NYK,99,101,false,2,false,0,2,false,0,-110,-110\n"
	src := NewCSVSource(writeGamesCSV(t, rows))

	games, err := src.FetchGames(context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "g1", games[0].ID)
}

func TestCSVSource_MalformedRowFailsLoud(t *testing.T) {
	rows := "g1,2024,not-a-time,BOS,NYK,110,102,false,2,false,0,2,false,0,-110,-110\n"
	src := NewCSVSource(writeGamesCSV(t, rows))

	_, err := src.FetchGames(context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}

func TestCSVSource_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,season\ng1,2024\n"), 0o644))
	src := NewCSVSource(path)

	_, err := src.FetchGames(context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}

func TestCSVSource_MissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"))
	_, err := src.FetchGames(context.Background(), time.Time{}, time.Now())
	assert.Error(t, err)
}

const spreadCSVHeader = "id,season,tipoff,home_team,away_team,home_score,away_score,is_playoff," +
	"home_days_rest,home_b2b,home_travel_miles,away_days_rest,away_b2b,away_travel_miles," +
	"ml_home_odds,ml_away_odds,spread_line,spread_home_odds,spread_away_odds\n"

func TestCSVSource_SpreadColumnsYieldSecondMarket(t *testing.T) {
	rows := "g1,2024,2024-01-10T19:00:00Z,BOS,NYK,110,102,false,2,false,0,2,false,0,-150,130,-5.5,-110,-108\n" +
		"g2,2024,2024-01-11T19:00:00Z,MIA,CHI,95,100,false,2,false,0,2,false,0,-110,-110,,,\n"
	path := filepath.Join(t.TempDir(), "games.csv")
	require.NoError(t, os.WriteFile(path, []byte(spreadCSVHeader+rows), 0o644))
	src := NewCSVSource(path)

	games, err := src.FetchGames(context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, games, 2)

	quoted := games[0]
	require.Len(t, quoted.Markets, 2)
	assert.Equal(t, models.MarketTypeMoneyline, quoted.Markets[0].Type)
	spread := quoted.Markets[1]
	assert.Equal(t, models.MarketTypeSpread, spread.Type)
	assert.Equal(t, -5.5, spread.Line)
	assert.Equal(t, -110.0, spread.HomeOdds)
	assert.Equal(t, -108.0, spread.AwayOdds)

	// an empty spread_line cell means no spread quote for that game
	unquoted := games[1]
	require.Len(t, unquoted.Markets, 1)
	assert.Equal(t, models.MarketTypeMoneyline, unquoted.Markets[0].Type)
}

func TestCSVSource_PartialSpreadQuoteFailsLoud(t *testing.T) {
	// a line with no odds is an unusable quote, not a missing one
	rows := "g1,2024,2024-01-10T19:00:00Z,BOS,NYK,110,102,false,2,false,0,2,false,0,-110,-110,-5.5,,\n"
	path := filepath.Join(t.TempDir(), "games.csv")
	require.NoError(t, os.WriteFile(path, []byte(spreadCSVHeader+rows), 0o644))
	src := NewCSVSource(path)

	_, err := src.FetchGames(context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spread_home_odds")
}
