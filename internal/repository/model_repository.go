package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/nba-predict/internal/database"
	"github.com/yourusername/nba-predict/internal/models"
)

// PostgresModelRepository implements ModelRepository for PostgreSQL
type PostgresModelRepository struct {
	db *database.DB
}

// NewPostgresModelRepository creates a new regression model repository
func NewPostgresModelRepository(db *database.DB) ModelRepository {
	return &PostgresModelRepository{db: db}
}

const modelColumns = `id, name, version, intercept, coefficients, feature_names, residual_std, r_squared, games_used, trained_at, active, created_at`

// Create inserts a trained model record
func (r *PostgresModelRepository) Create(ctx context.Context, record *models.RegressionModelRecord) error {
	query := `
		INSERT INTO models (id, name, version, intercept, coefficients, feature_names, residual_std, r_squared, games_used, trained_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		record.ID, record.Name, record.Version, record.Intercept,
		record.Coefficients, record.FeatureNames, record.ResidualStdDev,
		record.RSquared, record.GamesUsed, record.TrainedAt, record.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to create model: %w", err)
	}

	return nil
}

// GetByID retrieves a model by ID
func (r *PostgresModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RegressionModelRecord, error) {
	query := `SELECT ` + modelColumns + ` FROM models WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

// GetActive retrieves the active model for a name. Returns
// models.ErrNoActiveModel when no version has been activated.
func (r *PostgresModelRepository) GetActive(ctx context.Context, name string) (*models.RegressionModelRecord, error) {
	query := `SELECT ` + modelColumns + ` FROM models WHERE name = $1 AND active`

	record, err := r.queryOne(ctx, query, name)
	if err == models.ErrNotFound {
		return nil, models.ErrNoActiveModel
	}
	return record, err
}

// SetActive marks one model version active and deactivates its siblings.
// Both updates run inside one transaction so there is never a window with
// two active versions of the same name.
func (r *PostgresModelRepository) SetActive(ctx context.Context, id uuid.UUID) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		var name string
		err := tx.QueryRow(ctx, `SELECT name FROM models WHERE id = $1`, id).Scan(&name)
		if err == pgx.ErrNoRows {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to look up model: %w", err)
		}

		if _, err := tx.Exec(ctx, `UPDATE models SET active = FALSE WHERE name = $1 AND id <> $2`, name, id); err != nil {
			return fmt.Errorf("failed to deactivate models: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE models SET active = TRUE WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to activate model: %w", err)
		}

		return nil
	})
}

func (r *PostgresModelRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*models.RegressionModelRecord, error) {
	record := &models.RegressionModelRecord{}
	err := r.db.GetPool().QueryRow(ctx, query, args...).Scan(
		&record.ID, &record.Name, &record.Version, &record.Intercept,
		&record.Coefficients, &record.FeatureNames, &record.ResidualStdDev,
		&record.RSquared, &record.GamesUsed, &record.TrainedAt,
		&record.Active, &record.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}

	return record, nil
}
