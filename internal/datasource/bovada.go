package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// BovadaClient implements LinesSource against the Bovada coupon API.
// The endpoint is public JSON; no API key is required.
type BovadaClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	enabled    bool
	logger     *logrus.Logger
}

// bovadaGroup is one coupon group in the API response
type bovadaGroup struct {
	Events []bovadaEvent `json:"events"`
}

// bovadaEvent is one game with its posted markets
type bovadaEvent struct {
	ID          string             `json:"id"`
	Description string             `json:"description"`
	StartTime   int64              `json:"startTime"` // epoch millis
	Live        bool               `json:"live"`
	Competitors []bovadaCompetitor `json:"competitors"`
	DisplayGroups []struct {
		Description string         `json:"description"`
		Markets     []bovadaMarket `json:"markets"`
	} `json:"displayGroups"`
}

type bovadaCompetitor struct {
	Home bool   `json:"home"`
	Name string `json:"name"`
}

type bovadaMarket struct {
	Description string `json:"description"`
	Period      struct {
		Description string `json:"description"`
		Live        bool   `json:"live"`
	} `json:"period"`
	Outcomes []bovadaOutcome `json:"outcomes"`
}

type bovadaOutcome struct {
	Type        string `json:"type"` // "H" home, "A" away
	Description string `json:"description"`
	Price       struct {
		Handicap string `json:"handicap"`
		American string `json:"american"`
	} `json:"price"`
}

// NewBovadaClient creates a new Bovada lines client
func NewBovadaClient(httpClient *RateLimitedHTTPClient, baseURL string, enabled bool, logger *logrus.Logger) *BovadaClient {
	if baseURL == "" {
		baseURL = "https://www.bovada.lv/services/sports/event/coupon/events/A/description/basketball/nba"
	}
	return &BovadaClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		enabled:    enabled,
		logger:     logger,
	}
}

// Name returns the name of the data source
func (c *BovadaClient) Name() string { return "bovada" }

// IsEnabled returns whether this data source is currently enabled
func (c *BovadaClient) IsEnabled() bool { return c.enabled }

// FetchLines retrieves spreads and moneylines for upcoming games. Live and
// already started games are skipped; their lines no longer describe the
// pre-game market the model is compared against.
func (c *BovadaClient) FetchLines(ctx context.Context) ([]LineData, error) {
	if !c.enabled {
		return nil, NewDataSourceError("bovada", ErrCodeDisabled, "data source is disabled", nil)
	}

	resp, err := c.httpClient.Get(ctx, c.baseURL)
	if err != nil {
		return nil, NewDataSourceError("bovada", ErrCodeNetworkError, "failed to fetch lines", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError("bovada", ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError("bovada", ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var groups []bovadaGroup
	if err := json.NewDecoder(resp.Body).Decode(&groups); err != nil {
		return nil, NewDataSourceError("bovada", ErrCodeInvalidData, "failed to parse response", err)
	}

	scrapedAt := time.Now().UTC()
	var lines []LineData
	for _, group := range groups {
		for _, event := range group.Events {
			startTime := time.UnixMilli(event.StartTime).UTC()
			if event.Live || !startTime.After(scrapedAt) {
				continue
			}

			line, err := c.convertEvent(&event, startTime, scrapedAt)
			if err != nil {
				c.logger.WithError(err).WithField("event", event.Description).
					Warn("Skipping unparseable event")
				continue
			}
			lines = append(lines, *line)
		}
	}

	return lines, nil
}

func (c *BovadaClient) convertEvent(event *bovadaEvent, startTime, scrapedAt time.Time) (*LineData, error) {
	var homeTeam, awayTeam string
	for _, comp := range event.Competitors {
		if comp.Home {
			homeTeam = comp.Name
		} else {
			awayTeam = comp.Name
		}
	}
	if homeTeam == "" || awayTeam == "" {
		return nil, fmt.Errorf("event %s missing competitors", event.ID)
	}

	line := &LineData{
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		StartTime: startTime,
		ScrapedAt: scrapedAt,
	}

	for _, displayGroup := range event.DisplayGroups {
		if displayGroup.Description != "Game Lines" {
			continue
		}
		for _, market := range displayGroup.Markets {
			// Only full-game pre-match markets; quarter and half
			// period markets share the same descriptions.
			if market.Period.Description != "Game" || market.Period.Live {
				continue
			}
			switch market.Description {
			case "Point Spread":
				c.applySpread(line, market.Outcomes)
			case "Moneyline":
				c.applyMoneyline(line, market.Outcomes)
			}
		}
	}

	return line, nil
}

func (c *BovadaClient) applySpread(line *LineData, outcomes []bovadaOutcome) {
	for _, outcome := range outcomes {
		price, err := parseAmericanPrice(outcome.Price.American)
		if err != nil {
			continue
		}
		switch outcome.Type {
		case "H":
			handicap, err := parseHandicap(outcome.Price.Handicap)
			if err != nil {
				continue
			}
			line.Spread = &handicap
			line.HomeSpreadPrice = &price
		case "A":
			line.AwaySpreadPrice = &price
		}
	}
}

func (c *BovadaClient) applyMoneyline(line *LineData, outcomes []bovadaOutcome) {
	for _, outcome := range outcomes {
		price, err := parseAmericanPrice(outcome.Price.American)
		if err != nil {
			continue
		}
		switch outcome.Type {
		case "H":
			line.HomeMoneyline = &price
		case "A":
			line.AwayMoneyline = &price
		}
	}
}

// parseHandicap parses a spread handicap such as "-7.5" or "+3". Decimal
// parsing avoids accepting junk like "7.5.5" that ParseFloat variants of
// upstream feeds have produced.
func parseHandicap(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return 0, fmt.Errorf("invalid handicap %q: %w", s, err)
	}
	return d.InexactFloat64(), nil
}

// parseAmericanPrice parses American odds such as "-110", "+150" or "EVEN"
func parseAmericanPrice(s string) (int, error) {
	if strings.EqualFold(s, "EVEN") {
		return 100, nil
	}
	price, err := strconv.Atoi(strings.TrimPrefix(s, "+"))
	if err != nil {
		return 0, fmt.Errorf("invalid american price %q: %w", s, err)
	}
	return price, nil
}
