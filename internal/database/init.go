package database

import (
	"context"
	"fmt"
)

// schemaVersion is bumped whenever the statements below change shape
const schemaVersion = 1

// schemaStatements define the explicit, versioned schema. Every entity has
// named columns; nothing about the table layout is inferred from the data
// being inserted.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS schema_info (
		version     INTEGER PRIMARY KEY,
		applied_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS games (
		id          UUID PRIMARY KEY,
		season      INTEGER NOT NULL,
		home_team   TEXT NOT NULL,
		away_team   TEXT NOT NULL,
		start_time  TIMESTAMPTZ NOT NULL,
		home_score  INTEGER,
		away_score  INTEGER,
		status      TEXT NOT NULL DEFAULT 'scheduled',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (home_team, away_team, start_time)
	)`,
	`CREATE TABLE IF NOT EXISTS team_stats (
		id            UUID PRIMARY KEY,
		team          TEXT NOT NULL,
		season        INTEGER NOT NULL,
		games_played  INTEGER NOT NULL,
		efg_pct       DOUBLE PRECISION NOT NULL,
		tov_pct       DOUBLE PRECISION NOT NULL,
		orb_pct       DOUBLE PRECISION NOT NULL,
		ft_rate       DOUBLE PRECISION NOT NULL,
		opp_efg_pct   DOUBLE PRECISION NOT NULL,
		opp_tov_pct   DOUBLE PRECISION NOT NULL,
		drb_pct       DOUBLE PRECISION NOT NULL,
		opp_ft_rate   DOUBLE PRECISION NOT NULL,
		scraped_at    TIMESTAMPTZ NOT NULL,
		UNIQUE (team, season, scraped_at)
	)`,
	`CREATE TABLE IF NOT EXISTS betting_lines (
		game_id            UUID PRIMARY KEY REFERENCES games(id),
		spread             DOUBLE PRECISION,
		home_spread_price  INTEGER,
		away_spread_price  INTEGER,
		home_moneyline     INTEGER,
		away_moneyline     INTEGER,
		scraped_at         TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS models (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		version       TEXT NOT NULL,
		intercept     DOUBLE PRECISION NOT NULL,
		coefficients  JSONB NOT NULL,
		feature_names JSONB NOT NULL,
		residual_std  DOUBLE PRECISION NOT NULL,
		r_squared     DOUBLE PRECISION NOT NULL,
		games_used    INTEGER NOT NULL,
		trained_at    TIMESTAMPTZ NOT NULL,
		active        BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (name, version)
	)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		game_id              UUID PRIMARY KEY REFERENCES games(id),
		model_id             UUID NOT NULL REFERENCES models(id),
		home_team            TEXT NOT NULL,
		away_team            TEXT NOT NULL,
		start_time           TIMESTAMPTZ NOT NULL,
		predicted_home_mov   DOUBLE PRECISION NOT NULL,
		predicted_away_mov   DOUBLE PRECISION NOT NULL,
		spread               DOUBLE PRECISION,
		spread_prob_home     DOUBLE PRECISION,
		spread_prob_away     DOUBLE PRECISION,
		moneyline_prob_home  DOUBLE PRECISION,
		moneyline_prob_away  DOUBLE PRECISION,
		bet_result           TEXT,
		predicted_at         TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_games_start_time ON games (start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_team_stats_team_season ON team_stats (team, season, scraped_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_models_active ON models (name) WHERE active`,
}

// Initialize creates a connection pool and applies the schema
func Initialize(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO schema_info (version) VALUES ($1) ON CONFLICT (version) DO NOTHING`,
		schemaVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return nil
}
