package datasource

import (
	"context"
	"errors"
	"time"
)

// StatsSource fetches season schedules and team four factors aggregates
// from an external provider
type StatsSource interface {
	// FetchSchedule retrieves the season's games, including final scores
	// for games already played
	FetchSchedule(ctx context.Context, season int) ([]GameData, error)

	// FetchTeamStats retrieves the current four factors aggregates for
	// every team in the season
	FetchTeamStats(ctx context.Context, season int) ([]TeamStatsData, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// LinesSource fetches posted betting lines from a sportsbook
type LinesSource interface {
	// FetchLines retrieves spreads and moneylines for upcoming games.
	// Games that have already tipped off are not returned.
	FetchLines(ctx context.Context) ([]LineData, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// GameData represents a normalized scheduled or completed game from any source
type GameData struct {
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	StartTime time.Time `json:"start_time"` // tip-off UTC
	HomeScore *int      `json:"home_score"` // nil until the game is final
	AwayScore *int      `json:"away_score"`
}

// TeamStatsData represents normalized four factors aggregates for one team.
// Percentages are fractions in [0, 1]; rates are per field goal attempt.
type TeamStatsData struct {
	Team        string    `json:"team"`
	GamesPlayed int       `json:"games_played"`
	EFGPct      float64   `json:"efg_pct"`
	TOVPct      float64   `json:"tov_pct"`
	ORBPct      float64   `json:"orb_pct"`
	FTRate      float64   `json:"ft_rate"`
	OppEFGPct   float64   `json:"opp_efg_pct"`
	OppTOVPct   float64   `json:"opp_tov_pct"`
	DRBPct      float64   `json:"drb_pct"`
	OppFTRate   float64   `json:"opp_ft_rate"`
	ScrapedAt   time.Time `json:"scraped_at"`
}

// LineData represents normalized betting lines for one upcoming game.
// Spread is the home handicap; prices use the American convention.
type LineData struct {
	HomeTeam        string    `json:"home_team"`
	AwayTeam        string    `json:"away_team"`
	StartTime       time.Time `json:"start_time"`
	Spread          *float64  `json:"spread"`
	HomeSpreadPrice *int      `json:"home_spread_price"`
	AwaySpreadPrice *int      `json:"away_spread_price"`
	HomeMoneyline   *int      `json:"home_moneyline"`
	AwayMoneyline   *int      `json:"away_moneyline"`
	ScrapedAt       time.Time `json:"scraped_at"`
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeDisabled             = "source_disabled"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrSourceDisabled       = errors.New("data source disabled")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
