// Package repository provides PostgreSQL-backed data access for the
// prediction pipeline's entities.
package repository

import (
	"github.com/yourusername/nba-predict/internal/database"
)

// NewRepositories wires all PostgreSQL repositories against one pool
func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Games:       NewPostgresGameRepository(db),
		TeamStats:   NewPostgresTeamStatsRepository(db),
		Lines:       NewPostgresLineRepository(db),
		Models:      NewPostgresModelRepository(db),
		Predictions: NewPostgresPredictionRepository(db),
	}
}
