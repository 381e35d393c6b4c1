package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key violation")
	ErrInvalidID    = errors.New("invalid ID format")
	ErrNoActiveModel = errors.New("no active regression model")
)

// InsufficientDataError indicates a team has no aggregated games to build
// features from. Aborts only the affected game's prediction.
type InsufficientDataError struct {
	Team        string
	GamesPlayed int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: %d games in aggregation window", e.Team, e.GamesPlayed)
}

// DimensionMismatchError indicates a feature vector whose shape does not
// match the model it is being fed to. This is a contract violation, not a
// data gap, and callers treat it as fatal for the whole run.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("feature vector dimension mismatch: model expects %d, got %d", e.Want, e.Got)
}

// DataUnavailableError indicates stats or a betting line are missing for a
// specific game. The game is skipped; the batch continues.
type DataUnavailableError struct {
	GameID  string
	Missing string
	Err     error
}

func (e *DataUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data unavailable for game %s: %s: %v", e.GameID, e.Missing, e.Err)
	}
	return fmt.Sprintf("data unavailable for game %s: %s", e.GameID, e.Missing)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// InvalidLineError indicates a malformed or absent line value where one was
// expected. Only the affected line type is skipped; other comparisons for
// the same game proceed.
type InvalidLineError struct {
	GameID   string
	LineType string
	Reason   string
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("invalid %s line for game %s: %s", e.LineType, e.GameID, e.Reason)
}
