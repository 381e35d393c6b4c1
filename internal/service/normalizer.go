package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/nba-predict/internal/datasource"
	"github.com/yourusername/nba-predict/internal/models"
)

// DataNormalizer converts source payloads to internal models and maps
// provider team names onto one canonical spelling. The schedule source and
// the sportsbook disagree on several franchises; game ids are derived from
// team names, so both must land on the same string.
type DataNormalizer struct {
	teamNameMap map[string]string
	logger      *logrus.Logger
}

// NewDataNormalizer creates a new data normalizer
func NewDataNormalizer(logger *logrus.Logger) *DataNormalizer {
	return &DataNormalizer{
		teamNameMap: buildTeamNameMap(),
		logger:      logger,
	}
}

// NormalizeTeam returns the canonical form of a provider team name
func (n *DataNormalizer) NormalizeTeam(name string) string {
	cleaned := strings.Join(strings.Fields(name), " ")
	if canonical, ok := n.teamNameMap[strings.ToLower(cleaned)]; ok {
		return canonical
	}
	return cleaned
}

// NormalizeGame converts a schedule entry to the internal Game model
func (n *DataNormalizer) NormalizeGame(sourceGame *datasource.GameData, season int) (*models.Game, error) {
	if sourceGame == nil {
		return nil, fmt.Errorf("source game is nil")
	}
	if sourceGame.HomeTeam == "" || sourceGame.AwayTeam == "" {
		return nil, fmt.Errorf("game is missing a team name")
	}

	homeTeam := n.NormalizeTeam(sourceGame.HomeTeam)
	awayTeam := n.NormalizeTeam(sourceGame.AwayTeam)
	startTime := sourceGame.StartTime.UTC()

	game := &models.Game{
		ID:        models.GameID(homeTeam, awayTeam, startTime),
		Season:    season,
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		StartTime: startTime,
		HomeScore: sourceGame.HomeScore,
		AwayScore: sourceGame.AwayScore,
		Status:    models.GameStatusScheduled,
	}
	if game.HomeScore != nil && game.AwayScore != nil {
		game.Status = models.GameStatusFinal
	}

	return game, nil
}

// NormalizeTeamStats converts a source aggregate row to the internal model
func (n *DataNormalizer) NormalizeTeamStats(sourceStats *datasource.TeamStatsData, season int) (*models.TeamStats, error) {
	if sourceStats == nil {
		return nil, fmt.Errorf("source stats is nil")
	}

	scrapedAt := sourceStats.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now().UTC()
	}

	return &models.TeamStats{
		ID:          uuid.New(),
		Team:        n.NormalizeTeam(sourceStats.Team),
		Season:      season,
		GamesPlayed: sourceStats.GamesPlayed,
		EFGPct:      sourceStats.EFGPct,
		TOVPct:      sourceStats.TOVPct,
		ORBPct:      sourceStats.ORBPct,
		FTRate:      sourceStats.FTRate,
		OppEFGPct:   sourceStats.OppEFGPct,
		OppTOVPct:   sourceStats.OppTOVPct,
		DRBPct:      sourceStats.DRBPct,
		OppFTRate:   sourceStats.OppFTRate,
		ScrapedAt:   scrapedAt,
	}, nil
}

// NormalizeLine converts a sportsbook line to the internal model, keyed to
// an already persisted game
func (n *DataNormalizer) NormalizeLine(sourceLine *datasource.LineData, gameID uuid.UUID) (*models.BettingLine, error) {
	if sourceLine == nil {
		return nil, fmt.Errorf("source line is nil")
	}

	return &models.BettingLine{
		GameID:          gameID,
		Spread:          sourceLine.Spread,
		HomeSpreadPrice: sourceLine.HomeSpreadPrice,
		AwaySpreadPrice: sourceLine.AwaySpreadPrice,
		HomeMoneyline:   sourceLine.HomeMoneyline,
		AwayMoneyline:   sourceLine.AwayMoneyline,
		ScrapedAt:       sourceLine.ScrapedAt,
	}, nil
}

// buildTeamNameMap maps provider spellings, keyed lowercase, to canonical
// franchise names
func buildTeamNameMap() map[string]string {
	return map[string]string{
		"la clippers":            "Los Angeles Clippers",
		"l.a. clippers":          "Los Angeles Clippers",
		"la lakers":              "Los Angeles Lakers",
		"l.a. lakers":            "Los Angeles Lakers",
		"ny knicks":              "New York Knicks",
		"golden state":           "Golden State Warriors",
		"san antonio":            "San Antonio Spurs",
		"okc thunder":            "Oklahoma City Thunder",
		"portland trailblazers":  "Portland Trail Blazers",
		"portland trail blazers": "Portland Trail Blazers",
		"philadelphia sixers":    "Philadelphia 76ers",
		"phila 76ers":            "Philadelphia 76ers",
	}
}
