package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/nba-predict/internal/database"
	"github.com/yourusername/nba-predict/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

const predictionColumns = `game_id, model_id, home_team, away_team, start_time, predicted_home_mov, predicted_away_mov, spread, spread_prob_home, spread_prob_away, moneyline_prob_home, moneyline_prob_away, bet_result, predicted_at`

// Upsert stores a prediction. The table is keyed by game id, so re-running a
// prediction for a game replaces the earlier row rather than adding one.
func (r *PostgresPredictionRepository) Upsert(ctx context.Context, prediction *models.Prediction) error {
	query := `
		INSERT INTO predictions (` + predictionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (game_id) DO UPDATE SET
			model_id = EXCLUDED.model_id,
			predicted_home_mov = EXCLUDED.predicted_home_mov,
			predicted_away_mov = EXCLUDED.predicted_away_mov,
			spread = EXCLUDED.spread,
			spread_prob_home = EXCLUDED.spread_prob_home,
			spread_prob_away = EXCLUDED.spread_prob_away,
			moneyline_prob_home = EXCLUDED.moneyline_prob_home,
			moneyline_prob_away = EXCLUDED.moneyline_prob_away,
			bet_result = EXCLUDED.bet_result,
			predicted_at = EXCLUDED.predicted_at
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		prediction.GameID, prediction.ModelID, prediction.HomeTeam, prediction.AwayTeam,
		prediction.StartTime, prediction.PredictedHomeMOV, prediction.PredictedAwayMOV,
		prediction.Spread, prediction.SpreadProbHome, prediction.SpreadProbAway,
		prediction.MoneylineProbHome, prediction.MoneylineProbAway,
		prediction.BetResult, prediction.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert prediction: %w", err)
	}

	return nil
}

// GetByGameID retrieves the prediction for a game
func (r *PostgresPredictionRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) (*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE game_id = $1`

	prediction := &models.Prediction{}
	err := r.db.GetPool().QueryRow(ctx, query, gameID).Scan(
		&prediction.GameID, &prediction.ModelID, &prediction.HomeTeam, &prediction.AwayTeam,
		&prediction.StartTime, &prediction.PredictedHomeMOV, &prediction.PredictedAwayMOV,
		&prediction.Spread, &prediction.SpreadProbHome, &prediction.SpreadProbAway,
		&prediction.MoneylineProbHome, &prediction.MoneylineProbAway,
		&prediction.BetResult, &prediction.PredictedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return prediction, nil
}

// GetByDate retrieves predictions for games tipping off on a calendar date (UTC)
func (r *PostgresPredictionRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Prediction, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE start_time >= $1 AND start_time < $2
		ORDER BY start_time ASC
	`

	return r.queryPredictions(ctx, query, dayStart, dayEnd)
}

// GetUnsettled retrieves spread predictions whose game has gone final but
// whose bet result has not been graded yet
func (r *PostgresPredictionRepository) GetUnsettled(ctx context.Context) ([]*models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions p
		JOIN games g ON g.id = p.game_id
		WHERE p.bet_result IS NULL
		  AND p.spread IS NOT NULL
		  AND g.status = 'final'
		ORDER BY p.start_time ASC
	`

	return r.queryPredictions(ctx, query)
}

// GetSettled retrieves graded spread predictions tipping off inside the
// given time window, ordered by start time
func (r *PostgresPredictionRepository) GetSettled(ctx context.Context, from, to time.Time) ([]*models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE bet_result IS NOT NULL
		  AND start_time >= $1 AND start_time < $2
		ORDER BY start_time ASC
	`

	return r.queryPredictions(ctx, query, from, to)
}

// SetBetResult records the graded outcome for a prediction
func (r *PostgresPredictionRepository) SetBetResult(ctx context.Context, gameID uuid.UUID, result string) error {
	commandTag, err := r.db.GetPool().Exec(ctx,
		`UPDATE predictions SET bet_result = $2 WHERE game_id = $1`,
		gameID, result,
	)
	if err != nil {
		return fmt.Errorf("failed to set bet result: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *PostgresPredictionRepository) queryPredictions(ctx context.Context, query string, args ...interface{}) ([]*models.Prediction, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.Prediction
	for rows.Next() {
		prediction := &models.Prediction{}
		err := rows.Scan(
			&prediction.GameID, &prediction.ModelID, &prediction.HomeTeam, &prediction.AwayTeam,
			&prediction.StartTime, &prediction.PredictedHomeMOV, &prediction.PredictedAwayMOV,
			&prediction.Spread, &prediction.SpreadProbHome, &prediction.SpreadProbAway,
			&prediction.MoneylineProbHome, &prediction.MoneylineProbAway,
			&prediction.BetResult, &prediction.PredictedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, prediction)
	}

	return predictions, rows.Err()
}
