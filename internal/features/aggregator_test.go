package features

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/nba-predict/internal/models"
)

func statsFixture(team string, games int, base float64) *models.TeamStats {
	return &models.TeamStats{
		Team:        team,
		Season:      2019,
		GamesPlayed: games,
		EFGPct:      base + 1,
		TOVPct:      base + 2,
		ORBPct:      base + 3,
		FTRate:      base + 4,
		OppEFGPct:   base + 5,
		OppTOVPct:   base + 6,
		DRBPct:      base + 7,
		OppFTRate:   base + 8,
	}
}

func TestBuildFeatureVectorOrdering(t *testing.T) {
	home := statsFixture("Milwaukee Bucks", 40, 10)
	away := statsFixture("Orlando Magic", 38, 20)

	v, err := BuildFeatureVector(home, away)
	require.NoError(t, err)
	require.Len(t, v, Dimension())

	// Home factors occupy the first eight slots, away the last eight, in
	// the fourFactors order.
	assert.Equal(t, []float64{11, 12, 13, 14, 15, 16, 17, 18}, []float64(v[:8]))
	assert.Equal(t, []float64{21, 22, 23, 24, 25, 26, 27, 28}, []float64(v[8:]))
}

func TestNamesMatchVectorLayout(t *testing.T) {
	names := Names()
	require.Len(t, names, Dimension())

	assert.Equal(t, "home_efg_pct", names[0])
	assert.Equal(t, "home_opp_ft_rate", names[7])
	assert.Equal(t, "away_efg_pct", names[8])
	assert.Equal(t, "away_opp_ft_rate", names[15])

	// Every name is prefixed and unique.
	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n], "duplicate feature name %s", n)
		seen[n] = true
	}
}

func TestBuildFeatureVectorInsufficientData(t *testing.T) {
	home := statsFixture("Milwaukee Bucks", 0, 10)
	away := statsFixture("Orlando Magic", 38, 20)

	_, err := BuildFeatureVector(home, away)
	require.Error(t, err)

	var insufficientErr *models.InsufficientDataError
	require.True(t, errors.As(err, &insufficientErr))
	assert.Equal(t, "Milwaukee Bucks", insufficientErr.Team)

	_, err = BuildFeatureVector(away, home)
	require.Error(t, err)
	require.True(t, errors.As(err, &insufficientErr))
	assert.Equal(t, "Milwaukee Bucks", insufficientErr.Team)
}

func TestBuildFeatureVectorIsPure(t *testing.T) {
	home := statsFixture("Denver Nuggets", 41, 30)
	away := statsFixture("Utah Jazz", 40, 40)

	first, err := BuildFeatureVector(home, away)
	require.NoError(t, err)
	second, err := BuildFeatureVector(home, away)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
