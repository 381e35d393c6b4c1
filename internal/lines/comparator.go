// Package lines turns a predicted margin of victory into probabilities
// against posted betting lines. Outcomes are modeled as
// Normal(predicted margin, residual std²) around the point prediction; the
// normality of regression residuals is an assumption, not something
// re-derived per game.
package lines

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// Side selects which team a probability query is about
type Side int

// Sides of a bet
const (
	SideHome Side = iota
	SideAway
)

func (s Side) String() string {
	if s == SideAway {
		return "away"
	}
	return "home"
}

// LineType distinguishes spread bets from moneyline bets
type LineType int

// Line types
const (
	LineTypeSpread LineType = iota
	LineTypeMoneyline
)

func (t LineType) String() string {
	if t == LineTypeMoneyline {
		return "moneyline"
	}
	return "spread"
}

// Comparator evaluates predicted margins against lines
type Comparator struct{}

// NewComparator creates a line comparator
func NewComparator() *Comparator {
	return &Comparator{}
}

// ProbabilityAgainstLine returns the probability that the queried side
// beats the line, under actual home MOV ~ Normal(predictedMOV, stdDev²).
//
// The line argument is the home cover threshold in margin-of-victory
// space: the home team covers at MOV >= line. A posted home spread is the
// negation of this threshold (home -7.5 posts as line 7.5 here). For
// moneyline queries the line is forced to zero, reducing to the outright
// win probability.
//
// The home side always evaluates the survival function at the line and
// the away side always evaluates the CDF there. The branch depends only
// on which side is asked about, never on how the prediction compares to
// the line, so the home and away probabilities of any pair complement
// each other.
func (c *Comparator) ProbabilityAgainstLine(predictedMOV, stdDev, line float64, lineType LineType, side Side) (float64, error) {
	if stdDev <= 0 {
		return 0, fmt.Errorf("residual standard deviation must be positive, got %f", stdDev)
	}
	if lineType == LineTypeMoneyline {
		line = 0
	}

	dist := distuv.Normal{Mu: predictedMOV, Sigma: stdDev}
	if side == SideAway {
		return dist.CDF(line), nil
	}
	return dist.Survival(line), nil
}

// CoverProbabilities returns the home and away probabilities of covering
// the spread threshold as an exactly complementary pair: the away value is
// one minus the home value.
func (c *Comparator) CoverProbabilities(predictedMOV, stdDev, line float64) (home, away float64, err error) {
	home, err = c.ProbabilityAgainstLine(predictedMOV, stdDev, line, LineTypeSpread, SideHome)
	if err != nil {
		return 0, 0, err
	}
	return home, 1 - home, nil
}

// WinProbabilities returns the home and away outright win probabilities,
// the moneyline case: a spread comparison with the line at zero.
func (c *Comparator) WinProbabilities(predictedMOV, stdDev float64) (home, away float64, err error) {
	home, err = c.ProbabilityAgainstLine(predictedMOV, stdDev, 0, LineTypeMoneyline, SideHome)
	if err != nil {
		return 0, 0, err
	}
	return home, 1 - home, nil
}
