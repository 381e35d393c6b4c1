package regression

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/yourusername/nba-predict/internal/features"
	"github.com/yourusername/nba-predict/internal/models"
)

// Observation is one training example: a completed game's feature vector
// and the home margin of victory that resulted.
type Observation struct {
	Features features.Vector
	HomeMOV  float64
}

// FitResult carries the fitted model and its persistable record
type FitResult struct {
	Model  *Model
	Record *models.RegressionModelRecord
}

// Fit runs an ordinary-least-squares regression of home margin of victory
// on the canonical feature vectors. The residual standard deviation is the
// population standard deviation of the fit residuals.
func Fit(name, version string, observations []Observation) (*FitResult, error) {
	dim := features.Dimension()
	n := len(observations)
	if n <= dim+1 {
		return nil, fmt.Errorf("need more than %d observations to fit %d coefficients, got %d", dim+1, dim, n)
	}

	// Design matrix with a leading constant column for the intercept.
	x := mat.NewDense(n, dim+1, nil)
	y := mat.NewVecDense(n, nil)
	for i, obs := range observations {
		if len(obs.Features) != dim {
			return nil, &models.DimensionMismatchError{Want: dim, Got: len(obs.Features)}
		}
		x.Set(i, 0, 1.0)
		for j, value := range obs.Features {
			x.Set(i, j+1, value)
		}
		y.SetVec(i, obs.HomeMOV)
	}

	var qr mat.QR
	qr.Factorize(x)

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, y); err != nil {
		return nil, fmt.Errorf("least squares solve failed: %w", err)
	}

	intercept := beta.At(0, 0)
	coefs := make([]float64, dim)
	for j := 0; j < dim; j++ {
		coefs[j] = beta.At(j+1, 0)
	}

	residualStd, rSquared := fitDiagnostics(x, y, &beta)
	if residualStd <= 0 {
		return nil, fmt.Errorf("degenerate fit: residual standard deviation is %f", residualStd)
	}

	coefsJSON, err := json.Marshal(coefs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode coefficients: %w", err)
	}
	namesJSON, err := json.Marshal(features.Names())
	if err != nil {
		return nil, fmt.Errorf("failed to encode feature names: %w", err)
	}

	record := &models.RegressionModelRecord{
		ID:             uuid.New(),
		Name:           name,
		Version:        version,
		Intercept:      intercept,
		Coefficients:   coefsJSON,
		FeatureNames:   namesJSON,
		ResidualStdDev: residualStd,
		RSquared:       rSquared,
		GamesUsed:      n,
		TrainedAt:      time.Now().UTC(),
		Active:         false,
	}

	model, err := FromRecord(record)
	if err != nil {
		return nil, err
	}

	return &FitResult{Model: model, Record: record}, nil
}

// fitDiagnostics computes the population residual standard deviation and
// the coefficient of determination for the fitted coefficients.
func fitDiagnostics(x *mat.Dense, y *mat.VecDense, beta *mat.Dense) (residualStd, rSquared float64) {
	n, _ := x.Dims()

	var fitted mat.Dense
	fitted.Mul(x, beta)

	meanY := 0.0
	for i := 0; i < n; i++ {
		meanY += y.AtVec(i)
	}
	meanY /= float64(n)

	ssResidual := 0.0
	ssTotal := 0.0
	for i := 0; i < n; i++ {
		residual := y.AtVec(i) - fitted.At(i, 0)
		ssResidual += residual * residual
		deviation := y.AtVec(i) - meanY
		ssTotal += deviation * deviation
	}

	residualStd = math.Sqrt(ssResidual / float64(n))
	if ssTotal > 0 {
		rSquared = 1 - ssResidual/ssTotal
	}
	return residualStd, rSquared
}
