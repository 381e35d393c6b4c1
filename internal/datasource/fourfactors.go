package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// FourFactorsClient implements StatsSource against a reference-stats JSON
// API exposing season schedules and team four factors aggregates
type FourFactorsClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *logrus.Logger
}

// fourFactorsGame is a schedule entry from the stats API
type fourFactorsGame struct {
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	StartTime string `json:"start_time"` // RFC 3339
	HomeScore *int   `json:"home_points"`
	AwayScore *int   `json:"away_points"`
}

// fourFactorsTeam is a team aggregate row from the stats API. The opponent
// block carries the same four factors measured for the team's opponents,
// with the opponent rebounding factor expressed as the team's DRB%.
type fourFactorsTeam struct {
	Team        string  `json:"team"`
	GamesPlayed int     `json:"games"`
	EFGPct      float64 `json:"efg_pct"`
	TOVPct      float64 `json:"tov_pct"`
	ORBPct      float64 `json:"orb_pct"`
	FTRate      float64 `json:"ft_rate"`
	Opponent    struct {
		EFGPct float64 `json:"efg_pct"`
		TOVPct float64 `json:"tov_pct"`
		DRBPct float64 `json:"drb_pct"`
		FTRate float64 `json:"ft_rate"`
	} `json:"opponent"`
}

// NewFourFactorsClient creates a new reference-stats API client
func NewFourFactorsClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *logrus.Logger) *FourFactorsClient {
	return &FourFactorsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// Name returns the name of the data source
func (c *FourFactorsClient) Name() string { return "fourfactors" }

// IsEnabled returns whether this data source is currently enabled
func (c *FourFactorsClient) IsEnabled() bool { return c.enabled }

// FetchSchedule retrieves the season's games with scores for played games
func (c *FourFactorsClient) FetchSchedule(ctx context.Context, season int) ([]GameData, error) {
	url := fmt.Sprintf("%s/seasons/%d/schedule", c.baseURL, season)

	var entries []fourFactorsGame
	if err := c.getJSON(ctx, url, &entries); err != nil {
		return nil, err
	}

	var games []GameData
	for _, entry := range entries {
		startTime, err := time.Parse(time.RFC3339, entry.StartTime)
		if err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"home_team": entry.HomeTeam,
				"away_team": entry.AwayTeam,
			}).Warn("Skipping game with unparseable start time")
			continue
		}
		games = append(games, GameData{
			HomeTeam:  entry.HomeTeam,
			AwayTeam:  entry.AwayTeam,
			StartTime: startTime.UTC(),
			HomeScore: entry.HomeScore,
			AwayScore: entry.AwayScore,
		})
	}

	return games, nil
}

// FetchTeamStats retrieves current four factors aggregates for every team
func (c *FourFactorsClient) FetchTeamStats(ctx context.Context, season int) ([]TeamStatsData, error) {
	url := fmt.Sprintf("%s/seasons/%d/four-factors", c.baseURL, season)

	var teams []fourFactorsTeam
	if err := c.getJSON(ctx, url, &teams); err != nil {
		return nil, err
	}

	scrapedAt := time.Now().UTC()
	stats := make([]TeamStatsData, 0, len(teams))
	for _, team := range teams {
		stats = append(stats, TeamStatsData{
			Team:        team.Team,
			GamesPlayed: team.GamesPlayed,
			EFGPct:      team.EFGPct,
			TOVPct:      team.TOVPct,
			ORBPct:      team.ORBPct,
			FTRate:      team.FTRate,
			OppEFGPct:   team.Opponent.EFGPct,
			OppTOVPct:   team.Opponent.TOVPct,
			DRBPct:      team.Opponent.DRBPct,
			OppFTRate:   team.Opponent.FTRate,
			ScrapedAt:   scrapedAt,
		})
	}

	return stats, nil
}

func (c *FourFactorsClient) getJSON(ctx context.Context, url string, out interface{}) error {
	if !c.enabled {
		return NewDataSourceError("fourfactors", ErrCodeDisabled, "data source is disabled", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewDataSourceError("fourfactors", ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewDataSourceError("fourfactors", ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return NewDataSourceError("fourfactors", ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError("fourfactors", ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return NewDataSourceError("fourfactors", ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError("fourfactors", ErrCodeInvalidData, "failed to parse response", err)
	}

	return nil
}
