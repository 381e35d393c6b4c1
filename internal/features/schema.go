// Package features builds regression feature vectors from team four-factor
// statistics. The canonical feature ordering lives here and nowhere else:
// the aggregator emits vectors in this order and the regression package
// fits and predicts against the same names.
package features

// Four-factor keys as aggregated per team: the team's own shooting,
// turnover, rebounding and free-throw rates plus the rates of the
// opponents it has faced.
const (
	FactorEFGPct    = "efg_pct"
	FactorTOVPct    = "tov_pct"
	FactorORBPct    = "orb_pct"
	FactorFTRate    = "ft_rate"
	FactorOppEFGPct = "opp_efg_pct"
	FactorOppTOVPct = "opp_tov_pct"
	FactorDRBPct    = "drb_pct"
	FactorOppFTRate = "opp_ft_rate"
)

// Side prefixes for the two teams in a matchup
const (
	PrefixHome = "home_"
	PrefixAway = "away_"
)

// fourFactors is the per-team ordering. Changing this order invalidates
// every stored model; coefficients are matched to features by position.
var fourFactors = []string{
	FactorEFGPct,
	FactorTOVPct,
	FactorORBPct,
	FactorFTRate,
	FactorOppEFGPct,
	FactorOppTOVPct,
	FactorDRBPct,
	FactorOppFTRate,
}

// Names returns the canonical 16-element feature ordering: the home team's
// eight factors followed by the away team's eight.
func Names() []string {
	names := make([]string, 0, 2*len(fourFactors))
	for _, f := range fourFactors {
		names = append(names, PrefixHome+f)
	}
	for _, f := range fourFactors {
		names = append(names, PrefixAway+f)
	}
	return names
}

// Dimension returns the length of a feature vector
func Dimension() int {
	return 2 * len(fourFactors)
}
