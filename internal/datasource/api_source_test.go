package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fastbreak/internal/config"
	"github.com/yourusername/fastbreak/internal/models"
)

const gamesJSON = `{
	"games": [
		{
			"id": "0022300001",
			"season": 2024,
			"tipoff": "2024-01-10T19:00:00Z",
			"home_team": "BOS",
			"away_team": "NYK",
			"home_score": 110,
			"away_score": 102,
			"is_playoff": false,
			"home_rest": {"days_rest": 2, "back_to_back": false, "travel_miles": 0},
			"away_rest": {"days_rest": 0, "back_to_back": true, "travel_miles": 2100},
			"markets": [
				{"type": "MONEYLINE", "home_odds": -150, "away_odds": 130},
				{"type": "SPREAD", "line": -3.5, "home_odds": -110, "away_odds": -110}
			]
		}
	]
}`

func newAPISourceForTest(t *testing.T, handler http.Handler) (*APISource, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	src := NewAPISource(config.StatsAPIConfig{
		BaseURL:           server.URL,
		APIKey:            "test-key",
		TimeoutSeconds:    5,
		RetryAttempts:     1,
		RequestsPerSecond: 100,
		CacheTTLSeconds:   60,
	})
	t.Cleanup(func() { _ = src.Close() })
	return src, server
}

func TestAPISource_FetchGames(t *testing.T) {
	var gotAuth, gotStart string
	src, _ := newAPISourceForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotStart = r.URL.Query().Get("start")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(gamesJSON))
	}))

	games, err := src.FetchGames(context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "2024-01-01", gotStart)
	require.Len(t, games, 1)

	g := games[0]
	assert.Equal(t, "0022300001", g.ID)
	assert.True(t, g.IsFinal())
	assert.True(t, g.AwayRest.BackToBack)
	require.Len(t, g.Markets, 2)
	assert.Equal(t, -150.0, g.Markets[0].HomeOdds)
	assert.Equal(t, models.MarketTypeSpread, g.Markets[1].Type)
	assert.Equal(t, -3.5, g.Markets[1].Line)
}

func TestAPISource_CachesResponses(t *testing.T) {
	var hits int64
	src, _ := newAPISourceForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		_, _ = w.Write([]byte(gamesJSON))
	}))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	_, err := src.FetchGames(context.Background(), start, end)
	require.NoError(t, err)
	_, err = src.FetchGames(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
}

func TestAPISource_ServerError(t *testing.T) {
	src, _ := newAPISourceForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "teapot", http.StatusTeapot)
	}))

	_, err := src.FetchGames(context.Background(), time.Time{}, time.Now())
	assert.Error(t, err)
}

func TestAPISource_BadJSON(t *testing.T) {
	src, _ := newAPISourceForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))

	_, err := src.FetchGames(context.Background(), time.Time{}, time.Now())
	assert.Error(t, err)
}
