package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamStats holds a team's season-to-date four factors, own and faced.
// Shooting, turnover and rebound percentages are fractions in [0, 1];
// free-throw rate is FT per field goal attempt. A row is immutable once
// scraped; fresher aggregates get new rows.
type TeamStats struct {
	ID          uuid.UUID `db:"id" json:"id" validate:"required"`
	Team        string    `db:"team" json:"team" validate:"required"`
	Season      int       `db:"season" json:"season" validate:"required,gt=1945"`
	GamesPlayed int       `db:"games_played" json:"games_played" validate:"gte=0"`

	EFGPct    float64 `db:"efg_pct" json:"efg_pct"`
	TOVPct    float64 `db:"tov_pct" json:"tov_pct"`
	ORBPct    float64 `db:"orb_pct" json:"orb_pct"`
	FTRate    float64 `db:"ft_rate" json:"ft_rate"`
	OppEFGPct float64 `db:"opp_efg_pct" json:"opp_efg_pct"`
	OppTOVPct float64 `db:"opp_tov_pct" json:"opp_tov_pct"`
	DRBPct    float64 `db:"drb_pct" json:"drb_pct"`
	OppFTRate float64 `db:"opp_ft_rate" json:"opp_ft_rate"`

	ScrapedAt time.Time `db:"scraped_at" json:"scraped_at" validate:"required"`
}

// HasHistory reports whether the aggregate covers at least one played game.
// Feature construction refuses rows without history.
func (s *TeamStats) HasHistory() bool {
	return s.GamesPlayed > 0
}
