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

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

const gameColumns = `id, season, home_team, away_team, start_time, home_score, away_score, status, created_at, updated_at`

// Upsert inserts a game or refreshes its mutable fields on conflict
func (r *PostgresGameRepository) Upsert(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (id, season, home_team, away_team, start_time, home_score, away_score, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			status = EXCLUDED.status,
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		game.ID, game.Season, game.HomeTeam, game.AwayTeam, game.StartTime,
		game.HomeScore, game.AwayScore, game.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	return nil
}

// GetByID retrieves a game by ID
func (r *PostgresGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game := &models.Game{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&game.ID, &game.Season, &game.HomeTeam, &game.AwayTeam, &game.StartTime,
		&game.HomeScore, &game.AwayScore, &game.Status, &game.CreatedAt, &game.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetByMatchup retrieves the next game between two teams at or after a time
func (r *PostgresGameRepository) GetByMatchup(ctx context.Context, homeTeam, awayTeam string, onOrAfter time.Time) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE LOWER(home_team) = LOWER($1) AND LOWER(away_team) = LOWER($2) AND start_time >= $3
		ORDER BY start_time ASC
		LIMIT 1
	`

	game := &models.Game{}
	err := r.db.GetPool().QueryRow(ctx, query, homeTeam, awayTeam, onOrAfter).Scan(
		&game.ID, &game.Season, &game.HomeTeam, &game.AwayTeam, &game.StartTime,
		&game.HomeScore, &game.AwayScore, &game.Status, &game.CreatedAt, &game.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by matchup: %w", err)
	}

	return game, nil
}

// GetByDate retrieves all games tipping off on a calendar date (UTC)
func (r *PostgresGameRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Game, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE start_time >= $1 AND start_time < $2
		ORDER BY start_time ASC
	`

	return r.queryGames(ctx, query, dayStart, dayEnd)
}

// GetCompleted retrieves all final games for a season, used for training
func (r *PostgresGameRepository) GetCompleted(ctx context.Context, season int) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1 AND status = 'final' AND home_score IS NOT NULL AND away_score IS NOT NULL
		ORDER BY start_time ASC
	`

	return r.queryGames(ctx, query, season)
}

// UpdateScore records a game's final score
func (r *PostgresGameRepository) UpdateScore(ctx context.Context, id uuid.UUID, homeScore, awayScore int) error {
	query := `
		UPDATE games SET home_score = $2, away_score = $3, status = 'final', updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, homeScore, awayScore)
	if err != nil {
		return fmt.Errorf("failed to update game score: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *PostgresGameRepository) queryGames(ctx context.Context, query string, args ...interface{}) ([]*models.Game, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game := &models.Game{}
		err := rows.Scan(
			&game.ID, &game.Season, &game.HomeTeam, &game.AwayTeam, &game.StartTime,
			&game.HomeScore, &game.AwayScore, &game.Status, &game.CreatedAt, &game.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}
