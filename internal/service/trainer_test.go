package service

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/nba-predict/internal/models"
	"github.com/yourusername/nba-predict/internal/repository"
)

// seedSeason populates completed games with team stats snapshots taken
// before each tip-off. Factor values drift per game so the design matrix
// has full rank.
func seedSeason(t *testing.T, repos *repository.Repositories, gameCount int) {
	t.Helper()
	ctx := context.Background()
	seasonStart := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)

	teams := []string{
		"Denver Nuggets", "Boston Celtics", "Miami Heat",
		"Utah Jazz", "Phoenix Suns", "Chicago Bulls",
	}

	for i := 0; i < gameCount; i++ {
		tipOff := seasonStart.Add(time.Duration(i) * 12 * time.Hour)
		homeTeam := teams[i%3]
		awayTeam := teams[3+i%3]

		for side, team := range map[int]string{0: homeTeam, 1: awayTeam} {
			drift := func(factor int) float64 {
				return 0.04 * math.Sin(float64(i)*(0.29+0.13*float64(factor))+float64(side))
			}
			require.NoError(t, repos.TeamStats.Insert(ctx, &models.TeamStats{
				ID:          uuid.New(),
				Team:        team,
				Season:      testSeason,
				GamesPlayed: i + 1,
				EFGPct:      0.52 + drift(0),
				TOVPct:      0.13 + drift(1),
				ORBPct:      0.24 + drift(2),
				FTRate:      0.20 + drift(3),
				OppEFGPct:   0.51 + drift(4),
				OppTOVPct:   0.12 + drift(5),
				DRBPct:      0.77 + drift(6),
				OppFTRate:   0.19 + drift(7),
				ScrapedAt:   tipOff.Add(-2 * time.Hour),
			}))
		}

		margin := i%15 - 7
		if margin == 0 {
			margin = 4
		}
		homeScore := 105 + margin
		awayScore := 105
		require.NoError(t, repos.Games.Upsert(ctx, &models.Game{
			ID:        models.GameID(homeTeam, awayTeam, tipOff),
			Season:    testSeason,
			HomeTeam:  homeTeam,
			AwayTeam:  awayTeam,
			StartTime: tipOff,
			HomeScore: &homeScore,
			AwayScore: &awayScore,
			Status:    models.GameStatusFinal,
		}))
	}
}

func TestTrainerTrainsAndActivates(t *testing.T) {
	ctx := context.Background()
	repos := newMemRepositories()
	seedSeason(t, repos, 120)

	trainer := NewTrainer(repos, testServiceConfig(), testServiceLogger())

	record, err := trainer.Train(ctx, "v1", true)
	require.NoError(t, err)

	assert.Equal(t, "four-factor", record.Name)
	assert.Equal(t, "v1", record.Version)
	assert.Equal(t, 120, record.GamesUsed)
	assert.Greater(t, record.ResidualStdDev, 0.0)
	assert.GreaterOrEqual(t, record.RSquared, 0.0)
	assert.LessOrEqual(t, record.RSquared, 1.0)
	assert.True(t, record.Active)

	active, err := repos.Models.GetActive(ctx, "four-factor")
	require.NoError(t, err)
	assert.Equal(t, record.ID, active.ID)

	// A trained and activated model must be loadable by the predictor
	predictor := NewPredictor(repos, testServiceConfig(), testServiceLogger())
	_, err = predictor.loadModel(ctx)
	require.NoError(t, err)
}

func TestTrainerRetrainReplacesActiveVersion(t *testing.T) {
	ctx := context.Background()
	repos := newMemRepositories()
	seedSeason(t, repos, 120)

	trainer := NewTrainer(repos, testServiceConfig(), testServiceLogger())

	first, err := trainer.Train(ctx, "v1", true)
	require.NoError(t, err)
	second, err := trainer.Train(ctx, "v2", true)
	require.NoError(t, err)

	active, err := repos.Models.GetActive(ctx, "four-factor")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	stored, err := repos.Models.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active, "only one version is active at a time")
}

func TestTrainerRejectsThinSeasons(t *testing.T) {
	repos := newMemRepositories()
	seedSeason(t, repos, 10)

	trainer := NewTrainer(repos, testServiceConfig(), testServiceLogger())

	_, err := trainer.Train(context.Background(), "v1", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "training games")
}

func TestTrainerExcludesGamesWithoutPriorStats(t *testing.T) {
	ctx := context.Background()
	repos := newMemRepositories()
	seedSeason(t, repos, 120)

	// One extra final game for a team with no snapshots
	tipOff := time.Date(2024, 12, 25, 20, 0, 0, 0, time.UTC)
	homeScore, awayScore := 110, 100
	require.NoError(t, repos.Games.Upsert(ctx, &models.Game{
		ID:        models.GameID("Toronto Raptors", "Boston Celtics", tipOff),
		Season:    testSeason,
		HomeTeam:  "Toronto Raptors",
		AwayTeam:  "Boston Celtics",
		StartTime: tipOff,
		HomeScore: &homeScore,
		AwayScore: &awayScore,
		Status:    models.GameStatusFinal,
	}))

	trainer := NewTrainer(repos, testServiceConfig(), testServiceLogger())

	record, err := trainer.Train(ctx, "v1", false)
	require.NoError(t, err)
	assert.Equal(t, 120, record.GamesUsed, "game without pre-game stats is excluded")
	assert.False(t, record.Active)

	_, err = repos.Models.GetActive(ctx, "four-factor")
	assert.ErrorIs(t, err, models.ErrNoActiveModel)
}

func TestGradeSpreadBet(t *testing.T) {
	spread := -6.0 // home favored by 6, cover threshold 6

	makeGame := func(margin int) *models.Game {
		homeScore := 100 + margin
		awayScore := 100
		return &models.Game{
			HomeScore: &homeScore,
			AwayScore: &awayScore,
			Status:    models.GameStatusFinal,
		}
	}

	tests := []struct {
		name         string
		predictedMOV float64
		actualMargin int
		want         string
	}{
		{"picked home cover, home covered", 9.0, 10, models.BetResultWin},
		{"picked home cover, home missed", 9.0, 3, models.BetResultLoss},
		{"picked away, home missed", 2.0, 3, models.BetResultWin},
		{"picked away, home covered", 2.0, 10, models.BetResultLoss},
		{"landed on the number", 9.0, 6, models.BetResultPush},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prediction := &models.Prediction{
				GameID:           uuid.New(),
				Spread:           &spread,
				PredictedHomeMOV: tt.predictedMOV,
			}
			result, ok := GradeSpreadBet(prediction, makeGame(tt.actualMargin))
			require.True(t, ok, fmt.Sprintf("case %d", i))
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestGradeSpreadBetRequiresFinalScores(t *testing.T) {
	spread := -3.5
	prediction := &models.Prediction{Spread: &spread, PredictedHomeMOV: 5}

	_, ok := GradeSpreadBet(prediction, &models.Game{Status: models.GameStatusScheduled})
	assert.False(t, ok)

	_, ok = GradeSpreadBet(&models.Prediction{PredictedHomeMOV: 5}, &models.Game{})
	assert.False(t, ok)
}

func TestSettleBets(t *testing.T) {
	ctx := context.Background()
	repos := newMemRepositories()
	now := time.Now().UTC()

	spread := -4.0
	tipOff := now.Add(-24 * time.Hour)
	game := seedGame(t, repos, "Denver Nuggets", "Boston Celtics", tipOff)
	require.NoError(t, repos.Games.UpdateScore(ctx, game.ID, 112, 101))

	require.NoError(t, repos.Predictions.Upsert(ctx, &models.Prediction{
		GameID:           game.ID,
		ModelID:          uuid.New(),
		HomeTeam:         game.HomeTeam,
		AwayTeam:         game.AwayTeam,
		StartTime:        tipOff,
		PredictedHomeMOV: 7.0,
		PredictedAwayMOV: -7.0,
		Spread:           &spread,
		PredictedAt:      tipOff.Add(-time.Hour),
	}))

	results := NewResultsService(repos, testServiceLogger())

	settled, err := results.SettleBets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, settled)

	stored, err := repos.Predictions.GetByGameID(ctx, game.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.BetResult)
	// picked home past the 4-point threshold, home won by 11
	assert.Equal(t, models.BetResultWin, *stored.BetResult)

	// Second run finds nothing left to grade
	settled, err = results.SettleBets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, settled)
}
