package models

import (
	"time"

	"github.com/google/uuid"
)

// Game statuses
const (
	GameStatusScheduled = "scheduled"
	GameStatusFinal     = "final"
	GameStatusCancelled = "cancelled"
)

// Game represents a single scheduled or completed NBA game
type Game struct {
	ID        uuid.UUID `db:"id" json:"id" validate:"required"`
	Season    int       `db:"season" json:"season" validate:"required,gt=1945"`
	HomeTeam  string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string    `db:"away_team" json:"away_team" validate:"required"`
	StartTime time.Time `db:"start_time" json:"start_time" validate:"required"`
	HomeScore *int      `db:"home_score" json:"home_score"`
	AwayScore *int      `db:"away_score" json:"away_score"`
	Status    string    `db:"status" json:"status" validate:"oneof=scheduled final cancelled"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// GameID derives a stable identifier from the matchup and tip-off time so
// that re-ingesting the same schedule maps onto the same rows.
func GameID(homeTeam, awayTeam string, startTime time.Time) uuid.UUID {
	key := homeTeam + "@" + awayTeam + "@" + startTime.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
}

// IsFinal checks whether the game has completed with scores recorded
func (g *Game) IsFinal() bool {
	return g.Status == GameStatusFinal && g.HomeScore != nil && g.AwayScore != nil
}

// IsUpcoming checks whether the game has not tipped off yet
func (g *Game) IsUpcoming() bool {
	return g.Status == GameStatusScheduled && time.Now().Before(g.StartTime)
}

// MarginOfVictory returns the home team's margin of victory. The second
// return value is false until both scores are recorded.
func (g *Game) MarginOfVictory() (int, bool) {
	if g.HomeScore == nil || g.AwayScore == nil {
		return 0, false
	}
	return *g.HomeScore - *g.AwayScore, true
}
