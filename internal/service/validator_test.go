package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/yourusername/nba-predict/internal/datasource"
	"github.com/yourusername/nba-predict/internal/models"
)

func validGame() *models.Game {
	return &models.Game{
		ID:        uuid.New(),
		Season:    2024,
		HomeTeam:  "Denver Nuggets",
		AwayTeam:  "Boston Celtics",
		StartTime: time.Now().Add(24 * time.Hour),
		Status:    models.GameStatusScheduled,
	}
}

func TestValidateGame(t *testing.T) {
	v := NewDataValidator(testServiceLogger())

	assert.Empty(t, v.ValidateGame(validGame()))

	same := validGame()
	same.AwayTeam = same.HomeTeam
	assert.NotEmpty(t, v.ValidateGame(same))

	halfScored := validGame()
	score := 110
	halfScored.HomeScore = &score
	assert.NotEmpty(t, v.ValidateGame(halfScored))

	negative := validGame()
	bad := -3
	ok := 100
	negative.HomeScore = &bad
	negative.AwayScore = &ok
	assert.NotEmpty(t, v.ValidateGame(negative))
}

func TestValidateTeamStats(t *testing.T) {
	v := NewDataValidator(testServiceLogger())

	stats := &models.TeamStats{
		ID:          uuid.New(),
		Team:        "Denver Nuggets",
		Season:      2024,
		GamesPlayed: 20,
		EFGPct:      0.53,
		TOVPct:      0.13,
		ORBPct:      0.25,
		FTRate:      0.21,
		OppEFGPct:   0.50,
		OppTOVPct:   0.12,
		DRBPct:      0.78,
		OppFTRate:   0.19,
		ScrapedAt:   time.Now(),
	}
	assert.Empty(t, v.ValidateTeamStats(stats))

	outOfRange := *stats
	outOfRange.EFGPct = 1.4
	assert.NotEmpty(t, v.ValidateTeamStats(&outOfRange))

	negativeRate := *stats
	negativeRate.FTRate = -0.1
	assert.NotEmpty(t, v.ValidateTeamStats(&negativeRate))
}

func TestValidateLine(t *testing.T) {
	v := NewDataValidator(testServiceLogger())

	spread := -7.5
	price := -110
	line := &models.BettingLine{
		GameID:          uuid.New(),
		Spread:          &spread,
		HomeSpreadPrice: &price,
		AwaySpreadPrice: &price,
		ScrapedAt:       time.Now(),
	}
	assert.Empty(t, v.ValidateLine(line))

	hugeSpread := *line
	bad := 85.0
	hugeSpread.Spread = &bad
	assert.NotEmpty(t, v.ValidateLine(&hugeSpread))

	badPrice := *line
	odd := 50
	badPrice.HomeMoneyline = &odd
	assert.NotEmpty(t, v.ValidateLine(&badPrice), "american odds never fall inside (-100, 100)")

	missingGame := *line
	missingGame.GameID = uuid.Nil
	assert.NotEmpty(t, v.ValidateLine(&missingGame))
}

func TestNormalizeTeam(t *testing.T) {
	n := NewDataNormalizer(testServiceLogger())

	assert.Equal(t, "Los Angeles Clippers", n.NormalizeTeam("LA Clippers"))
	assert.Equal(t, "Los Angeles Clippers", n.NormalizeTeam("  la   clippers "))
	assert.Equal(t, "Portland Trail Blazers", n.NormalizeTeam("Portland Trailblazers"))
	assert.Equal(t, "Denver Nuggets", n.NormalizeTeam("Denver Nuggets"), "unknown names pass through cleaned")
}

func TestNormalizeGameDerivesStableID(t *testing.T) {
	n := NewDataNormalizer(testServiceLogger())
	tipOff := time.Date(2024, 12, 1, 2, 0, 0, 0, time.UTC)

	first, err := n.NormalizeGame(&datasource.GameData{
		HomeTeam:  "Denver Nuggets",
		AwayTeam:  "LA Clippers",
		StartTime: tipOff,
	}, 2024)
	assert.NoError(t, err)

	// Same matchup from a source with a different team spelling
	second, err := n.NormalizeGame(&datasource.GameData{
		HomeTeam:  "Denver Nuggets",
		AwayTeam:  "Los Angeles Clippers",
		StartTime: tipOff,
	}, 2024)
	assert.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "canonical names keep ids stable across sources")
	assert.Equal(t, models.GameStatusScheduled, first.Status)
}

func TestNormalizeGameMarksFinals(t *testing.T) {
	n := NewDataNormalizer(testServiceLogger())
	homeScore, awayScore := 112, 104

	game, err := n.NormalizeGame(&datasource.GameData{
		HomeTeam:  "Denver Nuggets",
		AwayTeam:  "Boston Celtics",
		StartTime: time.Date(2024, 11, 10, 2, 0, 0, 0, time.UTC),
		HomeScore: &homeScore,
		AwayScore: &awayScore,
	}, 2024)
	assert.NoError(t, err)

	assert.Equal(t, models.GameStatusFinal, game.Status)
	margin, ok := game.MarginOfVictory()
	assert.True(t, ok)
	assert.Equal(t, 8, margin)
}
