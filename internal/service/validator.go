package service

import (
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/nba-predict/internal/models"
)

// DataValidator validates ingested games, team stats and betting lines
// before they reach the database
type DataValidator struct {
	validate *validator.Validate
	logger   *logrus.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *logrus.Logger) *DataValidator {
	return &DataValidator{
		validate: validator.New(),
		logger:   logger,
	}
}

// ValidateGame validates game data for required fields and constraints
func (v *DataValidator) ValidateGame(game *models.Game) []string {
	var errors []string

	if err := v.validate.Struct(game); err != nil {
		errors = append(errors, err.Error())
	}

	if game.HomeTeam == game.AwayTeam {
		errors = append(errors, "home and away team are the same")
	}

	if (game.HomeScore == nil) != (game.AwayScore == nil) {
		errors = append(errors, "scores must be recorded for both teams or neither")
	}

	if game.HomeScore != nil && (*game.HomeScore < 0 || *game.AwayScore < 0) {
		errors = append(errors, "scores cannot be negative")
	}

	return errors
}

// ValidateTeamStats validates aggregate rows. The rate factors are per
// field goal attempt and can exceed one on unusual nights, but the
// percentage factors are fractions and must stay in [0, 1].
func (v *DataValidator) ValidateTeamStats(stats *models.TeamStats) []string {
	var errors []string

	if err := v.validate.Struct(stats); err != nil {
		errors = append(errors, err.Error())
	}

	if stats.GamesPlayed < 0 {
		errors = append(errors, fmt.Sprintf("games_played cannot be negative, got %d", stats.GamesPlayed))
	}

	fractions := map[string]float64{
		"efg_pct":     stats.EFGPct,
		"tov_pct":     stats.TOVPct,
		"orb_pct":     stats.ORBPct,
		"opp_efg_pct": stats.OppEFGPct,
		"opp_tov_pct": stats.OppTOVPct,
		"drb_pct":     stats.DRBPct,
	}
	for name, value := range fractions {
		if value < 0 || value > 1 {
			errors = append(errors, fmt.Sprintf("%s out of range [0,1], got %f", name, value))
		}
	}

	if stats.FTRate < 0 || stats.OppFTRate < 0 {
		errors = append(errors, "free throw rates cannot be negative")
	}

	return errors
}

// ValidateLine validates a betting line. NBA spreads beyond 60 points have
// never been posted; anything past that is a feed glitch.
func (v *DataValidator) ValidateLine(line *models.BettingLine) []string {
	var errors []string

	if line.GameID == uuid.Nil {
		errors = append(errors, "game_id is required")
	}

	if line.ScrapedAt.IsZero() {
		errors = append(errors, "scraped_at is required")
	}

	if line.ScrapedAt.After(time.Now().Add(time.Hour)) {
		errors = append(errors, "scraped_at is in the future")
	}

	if line.Spread != nil {
		if math.IsNaN(*line.Spread) || math.IsInf(*line.Spread, 0) {
			errors = append(errors, "spread is not a finite number")
		} else if math.Abs(*line.Spread) > 60 {
			errors = append(errors, fmt.Sprintf("spread out of range, got %f", *line.Spread))
		}
	}

	for name, price := range map[string]*int{
		"home_spread_price": line.HomeSpreadPrice,
		"away_spread_price": line.AwaySpreadPrice,
		"home_moneyline":    line.HomeMoneyline,
		"away_moneyline":    line.AwayMoneyline,
	} {
		if price != nil && *price > -100 && *price < 100 {
			errors = append(errors, fmt.Sprintf("%s is not valid american odds, got %d", name, *price))
		}
	}

	return errors
}
