package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/nba-predict/internal/database"
	"github.com/yourusername/nba-predict/internal/models"
)

// PostgresTeamStatsRepository implements TeamStatsRepository for PostgreSQL
type PostgresTeamStatsRepository struct {
	db *database.DB
}

// NewPostgresTeamStatsRepository creates a new team stats repository
func NewPostgresTeamStatsRepository(db *database.DB) TeamStatsRepository {
	return &PostgresTeamStatsRepository{db: db}
}

const teamStatsColumns = `id, team, season, games_played, efg_pct, tov_pct, orb_pct, ft_rate, opp_efg_pct, opp_tov_pct, drb_pct, opp_ft_rate, scraped_at`

// Insert stores a new team stats snapshot
func (r *PostgresTeamStatsRepository) Insert(ctx context.Context, stats *models.TeamStats) error {
	query := `
		INSERT INTO team_stats (` + teamStatsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (team, season, scraped_at) DO NOTHING
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		stats.ID, stats.Team, stats.Season, stats.GamesPlayed,
		stats.EFGPct, stats.TOVPct, stats.ORBPct, stats.FTRate,
		stats.OppEFGPct, stats.OppTOVPct, stats.DRBPct, stats.OppFTRate,
		stats.ScrapedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert team stats: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recent stats snapshot for a team
func (r *PostgresTeamStatsRepository) GetLatest(ctx context.Context, team string, season int) (*models.TeamStats, error) {
	return r.GetLatestAsOf(ctx, team, season, time.Now().UTC())
}

// GetLatestAsOf retrieves the most recent snapshot at or before a point in
// time, which keeps training frames from leaking future stats into past games
func (r *PostgresTeamStatsRepository) GetLatestAsOf(ctx context.Context, team string, season int, asOf time.Time) (*models.TeamStats, error) {
	query := `
		SELECT ` + teamStatsColumns + `
		FROM team_stats
		WHERE LOWER(team) = LOWER($1) AND season = $2 AND scraped_at <= $3
		ORDER BY scraped_at DESC
		LIMIT 1
	`

	stats := &models.TeamStats{}
	err := r.db.GetPool().QueryRow(ctx, query, team, season, asOf).Scan(
		&stats.ID, &stats.Team, &stats.Season, &stats.GamesPlayed,
		&stats.EFGPct, &stats.TOVPct, &stats.ORBPct, &stats.FTRate,
		&stats.OppEFGPct, &stats.OppTOVPct, &stats.DRBPct, &stats.OppFTRate,
		&stats.ScrapedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team stats: %w", err)
	}

	return stats, nil
}

// GetAllLatest retrieves the freshest snapshot per team for a season
func (r *PostgresTeamStatsRepository) GetAllLatest(ctx context.Context, season int) ([]*models.TeamStats, error) {
	query := `
		SELECT DISTINCT ON (team) ` + teamStatsColumns + `
		FROM team_stats
		WHERE season = $1
		ORDER BY team, scraped_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query team stats: %w", err)
	}
	defer rows.Close()

	var result []*models.TeamStats
	for rows.Next() {
		stats := &models.TeamStats{}
		err := rows.Scan(
			&stats.ID, &stats.Team, &stats.Season, &stats.GamesPlayed,
			&stats.EFGPct, &stats.TOVPct, &stats.ORBPct, &stats.FTRate,
			&stats.OppEFGPct, &stats.OppTOVPct, &stats.DRBPct, &stats.OppFTRate,
			&stats.ScrapedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team stats: %w", err)
		}
		result = append(result, stats)
	}

	return result, rows.Err()
}
