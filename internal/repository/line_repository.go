package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/nba-predict/internal/database"
	"github.com/yourusername/nba-predict/internal/models"
)

// PostgresLineRepository implements LineRepository for PostgreSQL
type PostgresLineRepository struct {
	db *database.DB
}

// NewPostgresLineRepository creates a new betting line repository
func NewPostgresLineRepository(db *database.DB) LineRepository {
	return &PostgresLineRepository{db: db}
}

// Upsert stores a betting line, replacing any earlier snapshot for the game
func (r *PostgresLineRepository) Upsert(ctx context.Context, line *models.BettingLine) error {
	query := `
		INSERT INTO betting_lines (game_id, spread, home_spread_price, away_spread_price, home_moneyline, away_moneyline, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (game_id) DO UPDATE SET
			spread = EXCLUDED.spread,
			home_spread_price = EXCLUDED.home_spread_price,
			away_spread_price = EXCLUDED.away_spread_price,
			home_moneyline = EXCLUDED.home_moneyline,
			away_moneyline = EXCLUDED.away_moneyline,
			scraped_at = EXCLUDED.scraped_at
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		line.GameID, line.Spread, line.HomeSpreadPrice, line.AwaySpreadPrice,
		line.HomeMoneyline, line.AwayMoneyline, line.ScrapedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert betting line: %w", err)
	}

	return nil
}

// GetByGameID retrieves the stored line for a game
func (r *PostgresLineRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) (*models.BettingLine, error) {
	query := `
		SELECT game_id, spread, home_spread_price, away_spread_price, home_moneyline, away_moneyline, scraped_at
		FROM betting_lines
		WHERE game_id = $1
	`

	line := &models.BettingLine{}
	err := r.db.GetPool().QueryRow(ctx, query, gameID).Scan(
		&line.GameID, &line.Spread, &line.HomeSpreadPrice, &line.AwaySpreadPrice,
		&line.HomeMoneyline, &line.AwayMoneyline, &line.ScrapedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get betting line: %w", err)
	}

	return line, nil
}

// GetGameIDsWithLines lists games that have a stored line
func (r *PostgresLineRepository) GetGameIDsWithLines(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.GetPool().Query(ctx, `SELECT game_id FROM betting_lines`)
	if err != nil {
		return nil, fmt.Errorf("failed to query betting lines: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan game id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
