package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/nba-predict/internal/metrics"
	"github.com/yourusername/nba-predict/internal/models"
	"github.com/yourusername/nba-predict/internal/repository"
)

// ResultsService grades spread predictions against final scores
type ResultsService struct {
	repos  *repository.Repositories
	logger *logrus.Logger
}

// NewResultsService creates a new results service
func NewResultsService(repos *repository.Repositories, logger *logrus.Logger) *ResultsService {
	return &ResultsService{repos: repos, logger: logger}
}

// SettleBets grades every unsettled spread prediction whose game has gone
// final. The bet being graded is on the side the model favored against the
// spread. Returns the number of predictions settled.
func (s *ResultsService) SettleBets(ctx context.Context) (int, error) {
	unsettled, err := s.repos.Predictions.GetUnsettled(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load unsettled predictions: %w", err)
	}

	settled := 0
	for _, prediction := range unsettled {
		game, err := s.repos.Games.GetByID(ctx, prediction.GameID)
		if err != nil {
			s.logger.WithError(err).WithField("game_id", prediction.GameID).
				Warn("Failed to load game for settlement")
			continue
		}

		result, ok := GradeSpreadBet(prediction, game)
		if !ok {
			continue
		}

		if err := s.repos.Predictions.SetBetResult(ctx, prediction.GameID, result); err != nil {
			s.logger.WithError(err).WithField("game_id", prediction.GameID).
				Warn("Failed to record bet result")
			continue
		}

		metrics.RecordBetSettled(result)
		settled++

		s.logger.WithFields(logrus.Fields{
			"home_team": prediction.HomeTeam,
			"away_team": prediction.AwayTeam,
			"result":    result,
		}).Info("Bet settled")
	}

	return settled, nil
}

// GradeSpreadBet grades a spread prediction against a final score.
//
// The spread converts to the home cover threshold (home -7.5 posts a
// threshold of 7.5) and the model's pick is the side its predicted margin
// puts past that threshold. A final margin landing exactly on the
// threshold is a push; otherwise the bet wins when the final margin falls
// on the same side of the threshold as the prediction.
func GradeSpreadBet(prediction *models.Prediction, game *models.Game) (string, bool) {
	if prediction.Spread == nil {
		return "", false
	}
	margin, ok := game.MarginOfVictory()
	if !ok {
		return "", false
	}

	threshold := -*prediction.Spread
	actualMargin := float64(margin)

	if actualMargin == threshold {
		return models.BetResultPush, true
	}

	pickedHome := prediction.PredictedHomeMOV > threshold
	homeCovered := actualMargin > threshold
	if pickedHome == homeCovered {
		return models.BetResultWin, true
	}
	return models.BetResultLoss, true
}
