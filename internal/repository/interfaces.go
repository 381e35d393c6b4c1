package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/nba-predict/internal/models"
)

// GameRepository defines the interface for game data access
type GameRepository interface {
	Upsert(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error)
	GetByMatchup(ctx context.Context, homeTeam, awayTeam string, onOrAfter time.Time) (*models.Game, error)
	GetByDate(ctx context.Context, date time.Time) ([]*models.Game, error)
	GetCompleted(ctx context.Context, season int) ([]*models.Game, error)
	UpdateScore(ctx context.Context, id uuid.UUID, homeScore, awayScore int) error
}

// TeamStatsRepository defines the interface for team stats data access
type TeamStatsRepository interface {
	Insert(ctx context.Context, stats *models.TeamStats) error
	GetLatest(ctx context.Context, team string, season int) (*models.TeamStats, error)
	GetLatestAsOf(ctx context.Context, team string, season int, asOf time.Time) (*models.TeamStats, error)
	GetAllLatest(ctx context.Context, season int) ([]*models.TeamStats, error)
}

// LineRepository defines the interface for betting line data access
type LineRepository interface {
	Upsert(ctx context.Context, line *models.BettingLine) error
	GetByGameID(ctx context.Context, gameID uuid.UUID) (*models.BettingLine, error)
	GetGameIDsWithLines(ctx context.Context) ([]uuid.UUID, error)
}

// ModelRepository defines the interface for regression model data access
type ModelRepository interface {
	Create(ctx context.Context, record *models.RegressionModelRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RegressionModelRecord, error)
	GetActive(ctx context.Context, name string) (*models.RegressionModelRecord, error)
	SetActive(ctx context.Context, id uuid.UUID) error
}

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	Upsert(ctx context.Context, prediction *models.Prediction) error
	GetByGameID(ctx context.Context, gameID uuid.UUID) (*models.Prediction, error)
	GetByDate(ctx context.Context, date time.Time) ([]*models.Prediction, error)
	GetUnsettled(ctx context.Context) ([]*models.Prediction, error)
	GetSettled(ctx context.Context, from, to time.Time) ([]*models.Prediction, error)
	SetBetResult(ctx context.Context, gameID uuid.UUID, result string) error
}

// Repositories aggregates all repository implementations
type Repositories struct {
	Games       GameRepository
	TeamStats   TeamStatsRepository
	Lines       LineRepository
	Models      ModelRepository
	Predictions PredictionRepository
}
