package features

import (
	"github.com/yourusername/nba-predict/internal/models"
)

// Vector is an ordered feature vector matching the schema in Names()
type Vector []float64

// BuildFeatureVector combines the home and away teams' aggregated four
// factors into the canonical 16-element vector. Pure function of its
// inputs. Returns InsufficientDataError if either team has no played games
// in its aggregation window.
func BuildFeatureVector(home, away *models.TeamStats) (Vector, error) {
	if !home.HasHistory() {
		return nil, &models.InsufficientDataError{Team: home.Team, GamesPlayed: home.GamesPlayed}
	}
	if !away.HasHistory() {
		return nil, &models.InsufficientDataError{Team: away.Team, GamesPlayed: away.GamesPlayed}
	}

	v := make(Vector, 0, Dimension())
	v = append(v, factorValues(home)...)
	v = append(v, factorValues(away)...)
	return v, nil
}

// factorValues extracts a team's factors in the fourFactors order
func factorValues(s *models.TeamStats) []float64 {
	return []float64{
		s.EFGPct,
		s.TOVPct,
		s.ORBPct,
		s.FTRate,
		s.OppEFGPct,
		s.OppTOVPct,
		s.DRBPct,
		s.OppFTRate,
	}
}
