package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/nba-predict/internal/config"
	"github.com/yourusername/nba-predict/internal/features"
	"github.com/yourusername/nba-predict/internal/lines"
	"github.com/yourusername/nba-predict/internal/metrics"
	"github.com/yourusername/nba-predict/internal/models"
	"github.com/yourusername/nba-predict/internal/regression"
	"github.com/yourusername/nba-predict/internal/repository"
)

// Predictor orchestrates prediction runs: it loads the active model, builds
// feature vectors from the latest team stats, evaluates posted lines and
// persists one prediction per game.
//
// Per-game data gaps skip only the affected game. A feature vector whose
// shape disagrees with the model is a deployment fault and aborts the whole
// run instead.
type Predictor struct {
	repos      *repository.Repositories
	comparator *lines.Comparator
	statsCache *cache.Cache
	cacheMax   int
	logger     *logrus.Logger
	modelName  string
	season     int
}

// NewPredictor creates a new prediction orchestrator
func NewPredictor(repos *repository.Repositories, cfg *config.Config, logger *logrus.Logger) *Predictor {
	ttl := time.Duration(cfg.Prediction.StatsCacheTTLSecs) * time.Second

	return &Predictor{
		repos:      repos,
		comparator: lines.NewComparator(),
		statsCache: cache.New(ttl, 2*ttl),
		cacheMax:   cfg.Prediction.StatsCacheMaxSize,
		logger:     logger,
		modelName:  cfg.Model.Name,
		season:     cfg.Model.Season,
	}
}

// PredictDate predicts every scheduled game tipping off on a calendar date
func (p *Predictor) PredictDate(ctx context.Context, date time.Time) ([]*models.Prediction, error) {
	games, err := p.repos.Games.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}

	scheduled := make([]*models.Game, 0, len(games))
	for _, game := range games {
		if game.Status == models.GameStatusScheduled {
			scheduled = append(scheduled, game)
		}
	}

	return p.predictBatch(ctx, scheduled)
}

// GamesOn returns the games tipping off on a calendar date, predicted or
// not. The scheduler uses this to find the day's first tip-off.
func (p *Predictor) GamesOn(ctx context.Context, date time.Time) ([]*models.Game, error) {
	return p.repos.Games.GetByDate(ctx, date)
}

// PredictMatchup predicts the next scheduled game between two teams
func (p *Predictor) PredictMatchup(ctx context.Context, homeTeam, awayTeam string) (*models.Prediction, error) {
	game, err := p.repos.Games.GetByMatchup(ctx, homeTeam, awayTeam, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to find matchup %s vs %s: %w", homeTeam, awayTeam, err)
	}

	predictions, err := p.predictBatch(ctx, []*models.Game{game})
	if err != nil {
		return nil, err
	}
	if len(predictions) == 0 {
		return nil, &models.DataUnavailableError{GameID: game.ID.String(), Missing: "prediction inputs"}
	}

	return predictions[0], nil
}

// PredictUpcoming predicts every upcoming game that has a posted line
func (p *Predictor) PredictUpcoming(ctx context.Context) ([]*models.Prediction, error) {
	gameIDs, err := p.repos.Lines.GetGameIDsWithLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games with lines: %w", err)
	}

	var games []*models.Game
	for _, id := range gameIDs {
		game, err := p.repos.Games.GetByID(ctx, id)
		if err == models.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load game %s: %w", id, err)
		}
		if game.IsUpcoming() {
			games = append(games, game)
		}
	}

	metrics.UpcomingGamesWithLines.Set(float64(len(games)))
	return p.predictBatch(ctx, games)
}

// predictBatch runs the model over a set of games, persisting each
// prediction as it is produced
func (p *Predictor) predictBatch(ctx context.Context, games []*models.Game) ([]*models.Prediction, error) {
	startTime := time.Now()

	model, err := p.loadModel(ctx)
	if err != nil {
		return nil, err
	}

	predictions := make([]*models.Prediction, 0, len(games))
	for _, game := range games {
		prediction, err := p.predictGame(ctx, model, game)
		if err != nil {
			var dimErr *models.DimensionMismatchError
			if errors.As(err, &dimErr) {
				return nil, fmt.Errorf("aborting run: %w", err)
			}

			metrics.RecordSkippedGame(skipReason(err))
			p.logger.WithError(err).WithFields(logrus.Fields{
				"home_team": game.HomeTeam,
				"away_team": game.AwayTeam,
			}).Warn("Skipping game")
			continue
		}

		if err := p.repos.Predictions.Upsert(ctx, prediction); err != nil {
			return nil, fmt.Errorf("failed to store prediction: %w", err)
		}
		predictions = append(predictions, prediction)
	}

	metrics.RecordPredictionBatch(time.Since(startTime).Seconds())
	p.logger.WithFields(logrus.Fields{
		"games":     len(games),
		"predicted": len(predictions),
		"model":     model.Name(),
		"version":   model.Version(),
	}).Info("Prediction batch complete")

	return predictions, nil
}

// predictGame produces one game's prediction: margins always, line
// probabilities for whichever line types are posted and well formed
func (p *Predictor) predictGame(ctx context.Context, model *regression.Model, game *models.Game) (*models.Prediction, error) {
	homeStats, err := p.teamStats(ctx, game, game.HomeTeam)
	if err != nil {
		return nil, err
	}
	awayStats, err := p.teamStats(ctx, game, game.AwayTeam)
	if err != nil {
		return nil, err
	}

	vector, err := features.BuildFeatureVector(homeStats, awayStats)
	if err != nil {
		return nil, err
	}

	homeMOV, awayMOV, err := model.PredictMargins(vector)
	if err != nil {
		return nil, err
	}

	prediction := &models.Prediction{
		GameID:           game.ID,
		ModelID:          model.ID(),
		HomeTeam:         game.HomeTeam,
		AwayTeam:         game.AwayTeam,
		StartTime:        game.StartTime,
		PredictedHomeMOV: homeMOV,
		PredictedAwayMOV: awayMOV,
		PredictedAt:      time.Now().UTC(),
	}

	// The moneyline comparison needs no posted price, only the model.
	mlHome, mlAway, err := p.comparator.WinProbabilities(homeMOV, model.ResidualStdDev())
	if err != nil {
		return nil, err
	}
	prediction.MoneylineProbHome = &mlHome
	prediction.MoneylineProbAway = &mlAway
	metrics.RecordPrediction(lines.LineTypeMoneyline.String())

	line, err := p.repos.Lines.GetByGameID(ctx, game.ID)
	if err != nil && err != models.ErrNotFound {
		return nil, fmt.Errorf("failed to load line: %w", err)
	}

	if line.HasSpread() {
		threshold, _ := line.CoverThreshold()
		if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
			p.logger.WithError(&models.InvalidLineError{
				GameID:   game.ID.String(),
				LineType: lines.LineTypeSpread.String(),
				Reason:   "spread is not a finite number",
			}).Warn("Skipping line type")
		} else {
			spHome, spAway, err := p.comparator.CoverProbabilities(homeMOV, model.ResidualStdDev(), threshold)
			if err != nil {
				return nil, err
			}
			prediction.Spread = line.Spread
			prediction.SpreadProbHome = &spHome
			prediction.SpreadProbAway = &spAway
			metrics.RecordPrediction(lines.LineTypeSpread.String())
		}
	}

	return prediction, nil
}

// loadModel loads and verifies the active regression model
func (p *Predictor) loadModel(ctx context.Context) (*regression.Model, error) {
	record, err := p.repos.Models.GetActive(ctx, p.modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to load active model %q: %w", p.modelName, err)
	}

	model, err := regression.FromRecord(record)
	if err != nil {
		return nil, err
	}

	metrics.UpdateActiveModel(record.ResidualStdDev, record.RSquared)
	return model, nil
}

// teamStats returns the latest aggregates for a team, memoized for the
// batch so thirty games do not trigger sixty identical queries
func (p *Predictor) teamStats(ctx context.Context, game *models.Game, team string) (*models.TeamStats, error) {
	key := fmt.Sprintf("%s|%d", team, p.season)
	if cached, ok := p.statsCache.Get(key); ok {
		return cached.(*models.TeamStats), nil
	}

	stats, err := p.repos.TeamStats.GetLatest(ctx, team, p.season)
	if err == models.ErrNotFound {
		return nil, &models.DataUnavailableError{
			GameID:  game.ID.String(),
			Missing: fmt.Sprintf("team stats for %s", team),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load team stats: %w", err)
	}

	if p.statsCache.ItemCount() >= p.cacheMax {
		p.statsCache.Flush()
	}
	p.statsCache.Set(key, stats, cache.DefaultExpiration)

	return stats, nil
}

// skipReason maps per-game errors onto the skip counter's label values
func skipReason(err error) string {
	var insufficientErr *models.InsufficientDataError
	if errors.As(err, &insufficientErr) {
		return "insufficient_data"
	}
	var unavailableErr *models.DataUnavailableError
	if errors.As(err, &unavailableErr) {
		return "data_unavailable"
	}
	return "error"
}
