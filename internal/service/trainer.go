package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/nba-predict/internal/config"
	"github.com/yourusername/nba-predict/internal/features"
	"github.com/yourusername/nba-predict/internal/metrics"
	"github.com/yourusername/nba-predict/internal/models"
	"github.com/yourusername/nba-predict/internal/regression"
	"github.com/yourusername/nba-predict/internal/repository"
)

// Trainer fits the margin-of-victory regression from completed games and
// persists the result
type Trainer struct {
	repos     *repository.Repositories
	logger    *logrus.Logger
	modelName string
	season    int
	minGames  int
}

// NewTrainer creates a new model trainer
func NewTrainer(repos *repository.Repositories, cfg *config.Config, logger *logrus.Logger) *Trainer {
	return &Trainer{
		repos:     repos,
		logger:    logger,
		modelName: cfg.Model.Name,
		season:    cfg.Model.Season,
		minGames:  cfg.Model.MinTrainingGames,
	}
}

// Train fits a new model version on the season's completed games and, when
// activate is set, makes it the active version for predictions.
//
// Each training game pairs its final margin with the team stats snapshots
// current at tip-off, not today's. Using current stats would leak the
// outcome of the game into its own features.
func (t *Trainer) Train(ctx context.Context, version string, activate bool) (*models.RegressionModelRecord, error) {
	startTime := time.Now()

	games, err := t.repos.Games.GetCompleted(ctx, t.season)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed games: %w", err)
	}

	observations := make([]regression.Observation, 0, len(games))
	skipped := 0
	for _, game := range games {
		obs, err := t.buildObservation(ctx, game)
		if err != nil {
			skipped++
			t.logger.WithError(err).WithFields(logrus.Fields{
				"home_team": game.HomeTeam,
				"away_team": game.AwayTeam,
			}).Debug("Excluding game from training set")
			continue
		}
		observations = append(observations, *obs)
	}

	if len(observations) < t.minGames {
		return nil, fmt.Errorf("only %d usable training games, need at least %d", len(observations), t.minGames)
	}

	result, err := regression.Fit(t.modelName, version, observations)
	if err != nil {
		return nil, fmt.Errorf("failed to fit model: %w", err)
	}

	if err := t.repos.Models.Create(ctx, result.Record); err != nil {
		return nil, fmt.Errorf("failed to store model: %w", err)
	}

	if activate {
		if err := t.repos.Models.SetActive(ctx, result.Record.ID); err != nil {
			return nil, fmt.Errorf("failed to activate model: %w", err)
		}
		result.Record.Active = true
	}

	metrics.RecordModelTrained(time.Since(startTime).Seconds(), result.Record.ResidualStdDev, result.Record.RSquared)
	t.logger.WithFields(logrus.Fields{
		"model":        t.modelName,
		"version":      version,
		"games_used":   result.Record.GamesUsed,
		"skipped":      skipped,
		"residual_std": result.Record.ResidualStdDev,
		"r_squared":    result.Record.RSquared,
		"active":       activate,
	}).Info("Model trained")

	return result.Record, nil
}

// buildObservation assembles one training row from a completed game
func (t *Trainer) buildObservation(ctx context.Context, game *models.Game) (*regression.Observation, error) {
	margin, ok := game.MarginOfVictory()
	if !ok {
		return nil, fmt.Errorf("game %s has no recorded scores", game.ID)
	}

	homeStats, err := t.statsAsOf(ctx, game, game.HomeTeam)
	if err != nil {
		return nil, err
	}
	awayStats, err := t.statsAsOf(ctx, game, game.AwayTeam)
	if err != nil {
		return nil, err
	}

	vector, err := features.BuildFeatureVector(homeStats, awayStats)
	if err != nil {
		return nil, err
	}

	return &regression.Observation{
		Features: vector,
		HomeMOV:  float64(margin),
	}, nil
}

func (t *Trainer) statsAsOf(ctx context.Context, game *models.Game, team string) (*models.TeamStats, error) {
	stats, err := t.repos.TeamStats.GetLatestAsOf(ctx, team, t.season, game.StartTime)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &models.DataUnavailableError{
			GameID:  game.ID.String(),
			Missing: fmt.Sprintf("pre-game team stats for %s", team),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load team stats: %w", err)
	}
	return stats, nil
}
