package models

import (
	"time"

	"github.com/google/uuid"
)

// BettingLine holds the posted spread and moneylines for a game.
//
// Spread is the home handicap: negative when the home team is favored
// (home -7.5 means the home team must win by 8 to cover). Moneylines use
// the American convention, negative for the favorite. Away values derive
// from the home values; the away spread is the exact negation while away
// moneylines carry the book's vig and are stored as posted.
type BettingLine struct {
	GameID          uuid.UUID `db:"game_id" json:"game_id" validate:"required"`
	Spread          *float64  `db:"spread" json:"spread"`
	HomeSpreadPrice *int      `db:"home_spread_price" json:"home_spread_price"`
	AwaySpreadPrice *int      `db:"away_spread_price" json:"away_spread_price"`
	HomeMoneyline   *int      `db:"home_moneyline" json:"home_moneyline"`
	AwayMoneyline   *int      `db:"away_moneyline" json:"away_moneyline"`
	ScrapedAt       time.Time `db:"scraped_at" json:"scraped_at" validate:"required"`
}

// HasSpread reports whether a point spread was posted
func (l *BettingLine) HasSpread() bool {
	return l != nil && l.Spread != nil
}

// HasMoneyline reports whether a home moneyline was posted
func (l *BettingLine) HasMoneyline() bool {
	return l != nil && l.HomeMoneyline != nil
}

// AwaySpread returns the away team's handicap, the negation of the home
// spread. Returns false if no spread was posted.
func (l *BettingLine) AwaySpread() (float64, bool) {
	if !l.HasSpread() {
		return 0, false
	}
	return -*l.Spread, true
}

// CoverThreshold returns the home margin of victory needed to cover the
// spread. A home -7.5 spread means the home team covers at MOV >= 7.5.
func (l *BettingLine) CoverThreshold() (float64, bool) {
	if !l.HasSpread() {
		return 0, false
	}
	return -*l.Spread, true
}
