package models

import (
	"time"

	"github.com/google/uuid"
)

// Bet results recorded after final scores arrive
const (
	BetResultWin  = "WIN"
	BetResultLoss = "LOSS"
	BetResultPush = "PUSH"
)

// Prediction represents a model's projection for one game, keyed by game
// id. Re-running a prediction overwrites the previous row for the game.
//
// Probability fields are nil when the corresponding line type was not
// posted; nil means "not evaluated", never zero probability.
type Prediction struct {
	GameID    uuid.UUID `db:"game_id" json:"game_id" validate:"required"`
	ModelID   uuid.UUID `db:"model_id" json:"model_id" validate:"required"`
	HomeTeam  string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string    `db:"away_team" json:"away_team" validate:"required"`
	StartTime time.Time `db:"start_time" json:"start_time" validate:"required"`

	// PredictedAwayMOV is always the exact negation of PredictedHomeMOV.
	PredictedHomeMOV float64 `db:"predicted_home_mov" json:"predicted_home_mov"`
	PredictedAwayMOV float64 `db:"predicted_away_mov" json:"predicted_away_mov"`

	Spread            *float64 `db:"spread" json:"spread"`
	SpreadProbHome    *float64 `db:"spread_prob_home" json:"spread_prob_home" validate:"omitempty,gte=0,lte=1"`
	SpreadProbAway    *float64 `db:"spread_prob_away" json:"spread_prob_away" validate:"omitempty,gte=0,lte=1"`
	MoneylineProbHome *float64 `db:"moneyline_prob_home" json:"moneyline_prob_home" validate:"omitempty,gte=0,lte=1"`
	MoneylineProbAway *float64 `db:"moneyline_prob_away" json:"moneyline_prob_away" validate:"omitempty,gte=0,lte=1"`

	BetResult   *string   `db:"bet_result" json:"bet_result"`
	PredictedAt time.Time `db:"predicted_at" json:"predicted_at" validate:"required"`
}

// HomeFavored reports whether the model projects a home win
func (p *Prediction) HomeFavored() bool {
	return p.PredictedHomeMOV > 0
}

// HasSpreadProbabilities reports whether a spread comparison was evaluated
func (p *Prediction) HasSpreadProbabilities() bool {
	return p.SpreadProbHome != nil && p.SpreadProbAway != nil
}

// IsSettled reports whether a bet result has been graded for the game
func (p *Prediction) IsSettled() bool {
	return p.BetResult != nil
}
