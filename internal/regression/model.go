// Package regression implements the four-factor margin-of-victory model:
// an ordinary-least-squares fit of home margin on the sixteen home/away
// four-factor features, plus the residual spread used for line
// probabilities.
package regression

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/nba-predict/internal/features"
	"github.com/yourusername/nba-predict/internal/models"
)

// Model is a loaded, immutable regression model. Coefficients are matched
// to features by position against the canonical ordering in the features
// package; FromRecord refuses records fitted against any other ordering.
type Model struct {
	id             uuid.UUID
	name           string
	version        string
	intercept      float64
	coefficients   []float64
	featureNames   []string
	residualStdDev float64
}

// FromRecord builds a Model from its persisted record, verifying the
// feature-ordering contract between the stored coefficients and the
// aggregator's schema.
func FromRecord(rec *models.RegressionModelRecord) (*Model, error) {
	coefs, err := rec.CoefficientValues()
	if err != nil {
		return nil, fmt.Errorf("failed to decode model coefficients: %w", err)
	}
	names, err := rec.FeatureNameValues()
	if err != nil {
		return nil, fmt.Errorf("failed to decode model feature names: %w", err)
	}

	if len(coefs) != len(names) {
		return nil, fmt.Errorf("model %s has %d coefficients for %d features", rec.ID, len(coefs), len(names))
	}

	canonical := features.Names()
	if len(names) != len(canonical) {
		return nil, &models.DimensionMismatchError{Want: len(canonical), Got: len(names)}
	}
	for i, name := range names {
		if name != canonical[i] {
			return nil, fmt.Errorf("model %s feature %d is %q, schema expects %q", rec.ID, i, name, canonical[i])
		}
	}

	if rec.ResidualStdDev <= 0 {
		return nil, fmt.Errorf("model %s has non-positive residual std %f", rec.ID, rec.ResidualStdDev)
	}

	return &Model{
		id:             rec.ID,
		name:           rec.Name,
		version:        rec.Version,
		intercept:      rec.Intercept,
		coefficients:   coefs,
		featureNames:   names,
		residualStdDev: rec.ResidualStdDev,
	}, nil
}

// Predict returns the predicted home margin of victory for the feature
// vector: intercept + dot(coefficients, features). Returns
// DimensionMismatchError when the vector's shape does not match the model.
func (m *Model) Predict(v features.Vector) (float64, error) {
	if len(v) != len(m.coefficients) {
		return 0, &models.DimensionMismatchError{Want: len(m.coefficients), Got: len(v)}
	}

	prediction := m.intercept
	for i, coef := range m.coefficients {
		prediction += coef * v[i]
	}
	return prediction, nil
}

// PredictMargins returns the predicted home and away margins. The away
// margin is defined as the exact negation of the home margin; it is never
// modeled separately.
func (m *Model) PredictMargins(v features.Vector) (home, away float64, err error) {
	home, err = m.Predict(v)
	if err != nil {
		return 0, 0, err
	}
	return home, -home, nil
}

// ResidualStdDev returns the model's fixed residual standard deviation
func (m *Model) ResidualStdDev() float64 {
	return m.residualStdDev
}

// ID returns the persisted model id
func (m *Model) ID() uuid.UUID {
	return m.id
}

// Name returns the model name
func (m *Model) Name() string {
	return m.name
}

// Version returns the model version
func (m *Model) Version() string {
	return m.version
}

// Intercept returns the fitted intercept
func (m *Model) Intercept() float64 {
	return m.intercept
}

// Coefficients returns a copy of the fitted coefficients
func (m *Model) Coefficients() []float64 {
	out := make([]float64, len(m.coefficients))
	copy(out, m.coefficients)
	return out
}
