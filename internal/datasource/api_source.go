package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/yourusername/fastbreak/internal/config"
	"github.com/yourusername/fastbreak/internal/models"
)

// APISource fetches historical games from the stats provider's REST API.
// Responses are cached per date range so repeated runs over the same
// season do not hammer the provider.
type APISource struct {
	baseURL string
	apiKey  string
	client  *RateLimitedHTTPClient
	cache   *cache.Cache
}

// NewAPISource creates a stats-API game source from configuration
func NewAPISource(cfg config.StatsAPIConfig) *APISource {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.RetryAttempts > 0 {
		httpCfg.MaxRetries = cfg.RetryAttempts
	}
	if cfg.RequestsPerSecond > 0 {
		httpCfg.RateLimit = float64(cfg.RequestsPerSecond)
	}

	ttl := 15 * time.Minute
	if cfg.CacheTTLSeconds > 0 {
		ttl = time.Duration(cfg.CacheTTLSeconds) * time.Second
	}

	return &APISource{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  NewRateLimitedHTTPClient(httpCfg, nil),
		cache:   cache.New(ttl, 2*ttl),
	}
}

// Name returns the name of the data source
func (s *APISource) Name() string { return "stats_api" }

// gamePayload is the provider's wire format for one game
type gamePayload struct {
	ID        string    `json:"id"`
	Season    int       `json:"season"`
	Tipoff    time.Time `json:"tipoff"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeScore *int      `json:"home_score"`
	AwayScore *int      `json:"away_score"`
	IsPlayoff bool      `json:"is_playoff"`

	HomeRest restPayload `json:"home_rest"`
	AwayRest restPayload `json:"away_rest"`

	Markets []marketPayload `json:"markets"`
}

type restPayload struct {
	DaysRest    int     `json:"days_rest"`
	BackToBack  bool    `json:"back_to_back"`
	TravelMiles float64 `json:"travel_miles"`
}

type marketPayload struct {
	Type     string  `json:"type"`
	Line     float64 `json:"line"`
	HomeOdds float64 `json:"home_odds"`
	AwayOdds float64 `json:"away_odds"`
}

// FetchGames retrieves finished games with closing quotes for the range
func (s *APISource) FetchGames(ctx context.Context, startDate, endDate time.Time) ([]*models.Game, error) {
	cacheKey := fmt.Sprintf("games:%s:%s", startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]*models.Game), nil
	}

	endpoint, err := url.Parse(s.baseURL + "/v1/games")
	if err != nil {
		return nil, fmt.Errorf("bad base URL: %w", err)
	}
	q := endpoint.Query()
	q.Set("start", startDate.Format("2006-01-02"))
	q.Set("end", endDate.Format("2006-01-02"))
	q.Set("status", "final")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("stats API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats API returned %d", resp.StatusCode)
	}

	var payload struct {
		Games []gamePayload `json:"games"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode games response: %w", err)
	}

	games := make([]*models.Game, 0, len(payload.Games))
	for _, p := range payload.Games {
		games = append(games, p.toModel())
	}
	sortGamesByTipoff(games)

	s.cache.Set(cacheKey, games, cache.DefaultExpiration)
	return games, nil
}

// Close releases the underlying HTTP client
func (s *APISource) Close() error {
	return s.client.Close()
}

func (p gamePayload) toModel() *models.Game {
	status := models.GameStatusScheduled
	if p.HomeScore != nil && p.AwayScore != nil {
		status = models.GameStatusFinal
	}
	game := &models.Game{
		ID:        p.ID,
		Season:    p.Season,
		Tipoff:    p.Tipoff.UTC(),
		HomeTeam:  p.HomeTeam,
		AwayTeam:  p.AwayTeam,
		HomeScore: p.HomeScore,
		AwayScore: p.AwayScore,
		Status:    status,
		IsPlayoff: p.IsPlayoff,
		HomeRest:  models.Rest{DaysRest: p.HomeRest.DaysRest, BackToBack: p.HomeRest.BackToBack, TravelMiles: p.HomeRest.TravelMiles},
		AwayRest:  models.Rest{DaysRest: p.AwayRest.DaysRest, BackToBack: p.AwayRest.BackToBack, TravelMiles: p.AwayRest.TravelMiles},
	}
	for _, m := range p.Markets {
		game.Markets = append(game.Markets, models.Market{
			Type:     models.MarketType(m.Type),
			Line:     m.Line,
			HomeOdds: m.HomeOdds,
			AwayOdds: m.AwayOdds,
		})
	}
	return game
}
