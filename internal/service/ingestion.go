package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/nba-predict/internal/datasource"
	"github.com/yourusername/nba-predict/internal/metrics"
	"github.com/yourusername/nba-predict/internal/models"
	"github.com/yourusername/nba-predict/internal/repository"
)

// IngestionService drives the data ingestion workflow: season schedules and
// four factors aggregates from the stats source, spreads and moneylines
// from the sportsbook.
type IngestionService struct {
	sources    *datasource.Sources
	repos      *repository.Repositories
	validator  *DataValidator
	normalizer *DataNormalizer
	metrics    *IngestionMetrics
	logger     *logrus.Logger
	season     int
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	sources *datasource.Sources,
	repos *repository.Repositories,
	validator *DataValidator,
	normalizer *DataNormalizer,
	logger *logrus.Logger,
	season int,
) *IngestionService {
	return &IngestionService{
		sources:    sources,
		repos:      repos,
		validator:  validator,
		normalizer: normalizer,
		metrics:    NewIngestionMetrics(),
		logger:     logger,
		season:     season,
	}
}

// SyncSchedule fetches the season schedule and upserts every game. Games
// that have gone final since the last sync get their scores recorded.
func (s *IngestionService) SyncSchedule(ctx context.Context) error {
	if s.sources.Stats == nil {
		return fmt.Errorf("no stats source configured")
	}
	startTime := time.Now()

	games, err := s.sources.Stats.FetchSchedule(ctx, s.season)
	if err != nil {
		s.metrics.RecordError()
		metrics.RecordIngestionError(s.sources.Stats.Name())
		return fmt.Errorf("failed to fetch schedule: %w", err)
	}

	s.metrics.mu.Lock()
	s.metrics.GamesFetched += len(games)
	s.metrics.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"source": s.sources.Stats.Name(),
		"season": s.season,
		"games":  len(games),
	}).Info("Fetched season schedule")

	for i := range games {
		if err := s.processGame(ctx, &games[i]); err != nil {
			s.metrics.RecordError()
			s.logger.WithError(err).WithFields(logrus.Fields{
				"home_team": games[i].HomeTeam,
				"away_team": games[i].AwayTeam,
			}).Warn("Failed to process game")
		}
	}

	metrics.RecordIngestionRun(s.sources.Stats.Name(), time.Since(startTime).Seconds())
	return nil
}

// SyncTeamStats fetches current four factors aggregates and stores a new
// snapshot per team. Snapshots are append-only; predictions and training
// always read the latest one at or before the relevant time.
func (s *IngestionService) SyncTeamStats(ctx context.Context) error {
	if s.sources.Stats == nil {
		return fmt.Errorf("no stats source configured")
	}
	startTime := time.Now()

	teamStats, err := s.sources.Stats.FetchTeamStats(ctx, s.season)
	if err != nil {
		s.metrics.RecordError()
		metrics.RecordIngestionError(s.sources.Stats.Name())
		return fmt.Errorf("failed to fetch team stats: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"source": s.sources.Stats.Name(),
		"season": s.season,
		"teams":  len(teamStats),
	}).Info("Fetched team stats")

	for i := range teamStats {
		stats, err := s.normalizer.NormalizeTeamStats(&teamStats[i], s.season)
		if err != nil {
			s.metrics.RecordError()
			continue
		}

		if validationErrors := s.validator.ValidateTeamStats(stats); len(validationErrors) > 0 {
			s.metrics.RecordValidationError()
			s.logger.WithFields(logrus.Fields{
				"team":   stats.Team,
				"errors": validationErrors,
			}).Warn("Team stats failed validation")
			continue
		}

		if err := s.repos.TeamStats.Insert(ctx, stats); err != nil {
			s.metrics.RecordError()
			s.logger.WithError(err).WithField("team", stats.Team).Warn("Failed to store team stats")
			continue
		}
		s.metrics.RecordStats()
	}

	metrics.RecordIngestionRun(s.sources.Stats.Name(), time.Since(startTime).Seconds())
	return nil
}

// SyncLines fetches posted lines and attaches each to its scheduled game.
// Lines for matchups the schedule does not know about are counted and
// dropped; the sportsbook occasionally posts exhibition games.
func (s *IngestionService) SyncLines(ctx context.Context) error {
	if s.sources.Lines == nil {
		return fmt.Errorf("no lines source configured")
	}
	startTime := time.Now()

	sourceLines, err := s.sources.Lines.FetchLines(ctx)
	if err != nil {
		s.metrics.RecordError()
		metrics.RecordIngestionError(s.sources.Lines.Name())
		return fmt.Errorf("failed to fetch lines: %w", err)
	}

	s.metrics.mu.Lock()
	s.metrics.LinesFetched += len(sourceLines)
	s.metrics.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"source": s.sources.Lines.Name(),
		"lines":  len(sourceLines),
	}).Info("Fetched betting lines")

	for i := range sourceLines {
		if err := s.processLine(ctx, &sourceLines[i]); err != nil {
			s.metrics.RecordError()
			s.logger.WithError(err).WithFields(logrus.Fields{
				"home_team": sourceLines[i].HomeTeam,
				"away_team": sourceLines[i].AwayTeam,
			}).Warn("Failed to process line")
		}
	}

	metrics.RecordIngestionRun(s.sources.Lines.Name(), time.Since(startTime).Seconds())
	return nil
}

// processGame normalizes, validates and persists one schedule entry
func (s *IngestionService) processGame(ctx context.Context, sourceGame *datasource.GameData) error {
	game, err := s.normalizer.NormalizeGame(sourceGame, s.season)
	if err != nil {
		return fmt.Errorf("failed to normalize game: %w", err)
	}

	if validationErrors := s.validator.ValidateGame(game); len(validationErrors) > 0 {
		s.metrics.RecordValidationError()
		return fmt.Errorf("game validation failed: %v", validationErrors)
	}

	if err := s.repos.Games.Upsert(ctx, game); err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}
	s.metrics.RecordGame()

	if game.IsFinal() {
		s.metrics.RecordScore()
	}

	return nil
}

// processLine matches a line to its game by matchup and persists it
func (s *IngestionService) processLine(ctx context.Context, sourceLine *datasource.LineData) error {
	homeTeam := s.normalizer.NormalizeTeam(sourceLine.HomeTeam)
	awayTeam := s.normalizer.NormalizeTeam(sourceLine.AwayTeam)

	// Match on the calendar day rather than the exact millisecond; the
	// sportsbook and the schedule source disagree on tip-off times by a
	// few minutes.
	game, err := s.repos.Games.GetByMatchup(ctx, homeTeam, awayTeam, sourceLine.StartTime.Add(-12*time.Hour))
	if err == models.ErrNotFound {
		s.metrics.RecordUnmatchedLine()
		s.logger.WithFields(logrus.Fields{
			"home_team": homeTeam,
			"away_team": awayTeam,
		}).Debug("No scheduled game for posted line")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to match line to game: %w", err)
	}

	line, err := s.normalizer.NormalizeLine(sourceLine, game.ID)
	if err != nil {
		return fmt.Errorf("failed to normalize line: %w", err)
	}

	if validationErrors := s.validator.ValidateLine(line); len(validationErrors) > 0 {
		s.metrics.RecordValidationError()
		return fmt.Errorf("line validation failed: %v", validationErrors)
	}

	if err := s.repos.Lines.Upsert(ctx, line); err != nil {
		return fmt.Errorf("failed to upsert line: %w", err)
	}
	s.metrics.RecordLine()

	return nil
}

// GetMetrics returns current ingestion metrics
func (s *IngestionService) GetMetrics() *IngestionMetrics {
	return s.metrics
}

// ResetMetrics resets ingestion metrics
func (s *IngestionService) ResetMetrics() {
	s.metrics.Reset()
}
