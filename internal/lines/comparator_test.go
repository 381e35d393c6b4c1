package lines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbabilityAgainstLineDocumentedScenario(t *testing.T) {
	// A team projected to win by 6 against an 8 point cover threshold with
	// residual std 13 covers about 44% of the time.
	c := NewComparator()

	home, err := c.ProbabilityAgainstLine(6, 13, 8, LineTypeSpread, SideHome)
	require.NoError(t, err)
	assert.InDelta(t, 0.44, home, 0.01)

	away, err := c.ProbabilityAgainstLine(6, 13, 8, LineTypeSpread, SideAway)
	require.NoError(t, err)
	assert.InDelta(t, 0.56, away, 0.01)
}

func TestComplementaryProbabilities(t *testing.T) {
	c := NewComparator()
	cases := []struct {
		name string
		mov  float64
		std  float64
		line float64
	}{
		{"favorite over small line", 6, 13, 2},
		{"underdog", -4.5, 13, 3},
		{"line equals prediction", 6, 13, 6},
		{"pickem", 0, 11, 0},
		{"large line", 12, 9, 25},
		{"negative line", 3, 14, -7.5},
		{"tiny std", 1, 1e-6, 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			home, err := c.ProbabilityAgainstLine(tc.mov, tc.std, tc.line, LineTypeSpread, SideHome)
			require.NoError(t, err)
			away, err := c.ProbabilityAgainstLine(tc.mov, tc.std, tc.line, LineTypeSpread, SideAway)
			require.NoError(t, err)

			assert.InDelta(t, 1.0, home+away, 1e-9)
			assert.GreaterOrEqual(t, home, 0.0)
			assert.LessOrEqual(t, home, 1.0)

			pairHome, pairAway, err := c.CoverProbabilities(tc.mov, tc.std, tc.line)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, pairHome+pairAway, 1e-15, "pair form must sum to one")
			assert.InDelta(t, home, pairHome, 1e-12)
			assert.InDelta(t, away, pairAway, 1e-9)
		})
	}
}

func TestMoneylineIsZeroSpread(t *testing.T) {
	c := NewComparator()

	moneyline, err := c.ProbabilityAgainstLine(5.5, 12, 99, LineTypeMoneyline, SideHome)
	require.NoError(t, err)
	spreadAtZero, err := c.ProbabilityAgainstLine(5.5, 12, 0, LineTypeSpread, SideHome)
	require.NoError(t, err)

	assert.Equal(t, spreadAtZero, moneyline, "moneyline ignores the line value and evaluates at zero")

	winHome, winAway, err := c.WinProbabilities(5.5, 12)
	require.NoError(t, err)
	assert.InDelta(t, moneyline, winHome, 1e-12)
	assert.InDelta(t, 1.0, winHome+winAway, 1e-15)
}

func TestMonotonicityInLine(t *testing.T) {
	c := NewComparator()

	previous := 1.1
	for line := -20.0; line <= 20.0; line += 2.5 {
		home, err := c.ProbabilityAgainstLine(4, 13, line, LineTypeSpread, SideHome)
		require.NoError(t, err)
		assert.Less(t, home, previous, "raising the line must strictly lower the cover probability (line=%f)", line)
		previous = home
	}
}

func TestVanishingStdApproachesStep(t *testing.T) {
	c := NewComparator()
	std := 1e-9

	above, err := c.ProbabilityAgainstLine(6, std, 3, LineTypeSpread, SideHome)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, above, 1e-9)

	below, err := c.ProbabilityAgainstLine(6, std, 9, LineTypeSpread, SideHome)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, below, 1e-9)

	at, err := c.ProbabilityAgainstLine(6, std, 6, LineTypeSpread, SideHome)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, at, 1e-9)
}

func TestBranchSelectionIgnoresNumericComparison(t *testing.T) {
	// Whether the prediction sits above or below the line, the home query
	// stays on the survival function: probabilities never jump when the
	// prediction crosses the line.
	c := NewComparator()

	justUnder, err := c.ProbabilityAgainstLine(7.999999, 13, 8, LineTypeSpread, SideHome)
	require.NoError(t, err)
	atLine, err := c.ProbabilityAgainstLine(8, 13, 8, LineTypeSpread, SideHome)
	require.NoError(t, err)
	justOver, err := c.ProbabilityAgainstLine(8.000001, 13, 8, LineTypeSpread, SideHome)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, atLine, 1e-9)
	assert.InDelta(t, atLine, justUnder, 1e-6)
	assert.InDelta(t, atLine, justOver, 1e-6)
}

func TestNonPositiveStdRejected(t *testing.T) {
	c := NewComparator()

	_, err := c.ProbabilityAgainstLine(6, 0, 8, LineTypeSpread, SideHome)
	require.Error(t, err)
	_, err = c.ProbabilityAgainstLine(6, -1, 8, LineTypeSpread, SideHome)
	require.Error(t, err)
}

func TestImpliedProbability(t *testing.T) {
	cases := []struct {
		odds int
		want float64
	}{
		{-150, 0.6},
		{150, 0.4},
		{-110, 110.0 / 210.0},
		{100, 0.5},
		{-100, 0.5},
	}
	for _, tc := range cases {
		got, err := ImpliedProbability(tc.odds)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, got, 1e-12, "odds %d", tc.odds)
	}

	_, err := ImpliedProbability(0)
	require.Error(t, err)
}

func TestEdge(t *testing.T) {
	edge, err := Edge(0.65, -150)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, edge, 1e-12)
}
