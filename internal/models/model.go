package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RegressionModelRecord is the persisted form of a fitted margin-of-victory
// regression: an intercept, one coefficient per feature, and the residual
// standard deviation measured over the training games. Immutable after
// training; a retrain inserts a new row and flips the active flag.
type RegressionModelRecord struct {
	ID             uuid.UUID       `db:"id" json:"id" validate:"required"`
	Name           string          `db:"name" json:"name" validate:"required"`
	Version        string          `db:"version" json:"version" validate:"required"`
	Intercept      float64         `db:"intercept" json:"intercept"`
	Coefficients   json.RawMessage `db:"coefficients" json:"coefficients" validate:"required"`
	FeatureNames   json.RawMessage `db:"feature_names" json:"feature_names" validate:"required"`
	ResidualStdDev float64         `db:"residual_std" json:"residual_std" validate:"required,gt=0"`
	RSquared       float64         `db:"r_squared" json:"r_squared" validate:"gte=0,lte=1"`
	GamesUsed      int             `db:"games_used" json:"games_used" validate:"gt=0"`
	TrainedAt      time.Time       `db:"trained_at" json:"trained_at" validate:"required"`
	Active         bool            `db:"active" json:"active"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// CoefficientValues decodes the stored coefficient slice
func (r *RegressionModelRecord) CoefficientValues() ([]float64, error) {
	var coefs []float64
	if err := json.Unmarshal(r.Coefficients, &coefs); err != nil {
		return nil, err
	}
	return coefs, nil
}

// FeatureNameValues decodes the stored feature ordering
func (r *RegressionModelRecord) FeatureNameValues() ([]string, error) {
	var names []string
	if err := json.Unmarshal(r.FeatureNames, &names); err != nil {
		return nil, err
	}
	return names, nil
}
