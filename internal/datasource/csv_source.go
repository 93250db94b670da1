package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/fastbreak/internal/models"
)

// CSVSource reads historical games from a local CSV export. One row per
// game; the closing quotes are embedded in the row. Expected header:
//
//	id,season,tipoff,home_team,away_team,home_score,away_score,is_playoff,
//	home_days_rest,home_b2b,home_travel_miles,
//	away_days_rest,away_b2b,away_travel_miles,
//	ml_home_odds,ml_away_odds
//
// Files may additionally carry spread_line,spread_home_odds,
// spread_away_odds; rows with those cells filled yield a spread market
// next to the moneyline.
type CSVSource struct {
	Path string
}

// NewCSVSource creates a CSV-backed game source
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// Name returns the name of the data source
func (s *CSVSource) Name() string { return "csv" }

// FetchGames reads and filters the file. Rows outside the date range are
// dropped; rows that fail to parse are an error because a silent gap in
// a backtest corrupts every metric downstream.
func (s *CSVSource) FetchGames(ctx context.Context, startDate, endDate time.Time) ([]*models.Game, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open games file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var games []*models.Game
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		line++

		game, err := parseGameRow(record, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if game.Tipoff.Before(startDate) || game.Tipoff.After(endDate) {
			continue
		}
		games = append(games, game)
	}

	sortGamesByTipoff(games)
	return games, nil
}

func parseGameRow(record []string, cols map[string]int) (*models.Game, error) {
	get := func(name string) (string, error) {
		idx, ok := cols[name]
		if !ok {
			return "", fmt.Errorf("missing column %q", name)
		}
		if idx >= len(record) {
			return "", fmt.Errorf("short row, no value for %q", name)
		}
		return strings.TrimSpace(record[idx]), nil
	}

	id, err := get("id")
	if err != nil {
		return nil, err
	}
	season, err := intField(get, "season")
	if err != nil {
		return nil, err
	}
	tipoffStr, err := get("tipoff")
	if err != nil {
		return nil, err
	}
	tipoff, err := time.Parse(time.RFC3339, tipoffStr)
	if err != nil {
		return nil, fmt.Errorf("bad tipoff %q: %w", tipoffStr, err)
	}
	homeTeam, err := get("home_team")
	if err != nil {
		return nil, err
	}
	awayTeam, err := get("away_team")
	if err != nil {
		return nil, err
	}
	homeScore, err := intField(get, "home_score")
	if err != nil {
		return nil, err
	}
	awayScore, err := intField(get, "away_score")
	if err != nil {
		return nil, err
	}
	isPlayoff, err := boolField(get, "is_playoff")
	if err != nil {
		return nil, err
	}
	homeRest, err := parseRest(get, "home")
	if err != nil {
		return nil, err
	}
	awayRest, err := parseRest(get, "away")
	if err != nil {
		return nil, err
	}
	mlHome, err := floatField(get, "ml_home_odds")
	if err != nil {
		return nil, err
	}
	mlAway, err := floatField(get, "ml_away_odds")
	if err != nil {
		return nil, err
	}
	markets := []models.Market{
		{Type: models.MarketTypeMoneyline, HomeOdds: mlHome, AwayOdds: mlAway},
	}
	spread, hasSpread, err := parseSpreadMarket(get, cols)
	if err != nil {
		return nil, err
	}
	if hasSpread {
		markets = append(markets, spread)
	}

	return &models.Game{
		ID:        id,
		Season:    season,
		Tipoff:    tipoff.UTC(),
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		HomeScore: &homeScore,
		AwayScore: &awayScore,
		Status:    models.GameStatusFinal,
		IsPlayoff: isPlayoff,
		HomeRest:  homeRest,
		AwayRest:  awayRest,
		Markets:   markets,
	}, nil
}

// parseSpreadMarket reads the optional spread quote. Absent columns or
// an empty line cell mean the row carries a moneyline only; a partially
// filled quote is an error.
func parseSpreadMarket(get func(string) (string, error), cols map[string]int) (models.Market, bool, error) {
	if _, ok := cols["spread_line"]; !ok {
		return models.Market{}, false, nil
	}
	raw, err := get("spread_line")
	if err != nil {
		return models.Market{}, false, err
	}
	if raw == "" {
		return models.Market{}, false, nil
	}
	line, err := floatField(get, "spread_line")
	if err != nil {
		return models.Market{}, false, err
	}
	home, err := floatField(get, "spread_home_odds")
	if err != nil {
		return models.Market{}, false, err
	}
	away, err := floatField(get, "spread_away_odds")
	if err != nil {
		return models.Market{}, false, err
	}
	return models.Market{
		Type:     models.MarketTypeSpread,
		Line:     line,
		HomeOdds: home,
		AwayOdds: away,
	}, true, nil
}

func parseRest(get func(string) (string, error), prefix string) (models.Rest, error) {
	days, err := intField(get, prefix+"_days_rest")
	if err != nil {
		return models.Rest{}, err
	}
	b2b, err := boolField(get, prefix+"_b2b")
	if err != nil {
		return models.Rest{}, err
	}
	travel, err := floatField(get, prefix+"_travel_miles")
	if err != nil {
		return models.Rest{}, err
	}
	return models.Rest{DaysRest: days, BackToBack: b2b, TravelMiles: travel}, nil
}

func intField(get func(string) (string, error), name string) (int, error) {
	s, err := get(name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", name, s, err)
	}
	return v, nil
}

func floatField(get func(string) (string, error), name string) (float64, error) {
	s, err := get(name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", name, s, err)
	}
	return v, nil
}

func boolField(get func(string) (string, error), name string) (bool, error) {
	s, err := get(name)
	if err != nil {
		return false, err
	}
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("bad %s %q: %w", name, s, err)
	}
	return v, nil
}
