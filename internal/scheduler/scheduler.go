// Package scheduler wires the recurring pipeline jobs: stats and line
// syncs, the daily prediction run and bet settlement.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/nba-predict/internal/models"
	"github.com/yourusername/nba-predict/internal/service"
)

// Scheduler manages the pipeline's scheduled jobs
type Scheduler struct {
	cron            *cron.Cron
	ingestion       *service.IngestionService
	predictor       *service.Predictor
	results         *service.ResultsService
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(
	ingestion *service.IngestionService,
	predictor *service.Predictor,
	results *service.ResultsService,
	logger *logrus.Logger,
) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		ingestion:       ingestion,
		predictor:       predictor,
		results:         results,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleStatsSync schedules the schedule and team stats synchronization
func (s *Scheduler) ScheduleStatsSync(cronExpression string) error {
	return s.addJob(cronExpression, "stats_sync", func(ctx context.Context) {
		if err := s.ingestion.SyncSchedule(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled schedule sync failed")
		}
		if err := s.ingestion.SyncTeamStats(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled team stats sync failed")
		}
		s.logger.WithField("metrics", s.ingestion.GetMetrics().String()).Info("Stats sync complete")
	})
}

// ScheduleLineSync schedules betting line synchronization
func (s *Scheduler) ScheduleLineSync(cronExpression string) error {
	return s.addJob(cronExpression, "line_sync", func(ctx context.Context) {
		if err := s.ingestion.SyncLines(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled line sync failed")
		}
	})
}

// SchedulePredictionRun schedules the daily prediction planner. The
// planner fires early in the day, finds the first tip-off, and holds the
// actual run until lead time before it so predictions use the freshest
// stats and lines that still precede the games.
func (s *Scheduler) SchedulePredictionRun(cronExpression string, leadTime time.Duration) error {
	return s.addJob(cronExpression, "prediction_run", func(ctx context.Context) {
		if err := s.runDailyPredictions(ctx, leadTime); err != nil {
			s.logger.WithError(err).Error("Daily prediction run failed")
		}
	})
}

// runDailyPredictions settles yesterday's bets, then waits for the run
// window and predicts today's slate
func (s *Scheduler) runDailyPredictions(ctx context.Context, leadTime time.Duration) error {
	if settled, err := s.results.SettleBets(ctx); err != nil {
		s.logger.WithError(err).Warn("Bet settlement failed")
	} else if settled > 0 {
		s.logger.WithField("settled", settled).Info("Graded completed bets")
	}

	now := time.Now().UTC()
	firstTipOff, err := s.firstTipOff(ctx, now)
	if err == models.ErrNotFound {
		s.logger.Info("No games scheduled today")
		return nil
	}
	if err != nil {
		return err
	}

	runAt := firstTipOff.Add(-leadTime)
	if wait := time.Until(runAt); wait > 0 {
		s.logger.WithFields(logrus.Fields{
			"first_tip_off": firstTipOff,
			"run_at":        runAt,
		}).Info("Waiting for prediction window")

		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// A final line refresh right before predicting
	if err := s.ingestion.SyncLines(ctx); err != nil {
		s.logger.WithError(err).Warn("Pre-run line sync failed")
	}

	predictions, err := s.predictor.PredictDate(ctx, now)
	if err != nil {
		return fmt.Errorf("prediction run failed: %w", err)
	}

	s.logger.WithField("predictions", len(predictions)).Info("Daily prediction run complete")
	return nil
}

// firstTipOff returns the earliest scheduled tip-off that has not passed
func (s *Scheduler) firstTipOff(ctx context.Context, day time.Time) (time.Time, error) {
	games, err := s.predictor.GamesOn(ctx, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load today's games: %w", err)
	}

	first := time.Time{}
	for _, game := range games {
		if game.Status != models.GameStatusScheduled || game.StartTime.Before(day) {
			continue
		}
		if first.IsZero() || game.StartTime.Before(first) {
			first = game.StartTime
		}
	}
	if first.IsZero() {
		return time.Time{}, models.ErrNotFound
	}
	return first, nil
}

// addJob registers a cron job with a bounded execution context
func (s *Scheduler) addJob(cronExpression, name string, run func(context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Hour)
		defer cancel()

		s.logger.WithField("job", name).Info("Starting scheduled job")
		run(ctx)
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":  name,
		"cron": cronExpression,
	}).Info("Scheduled job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out with jobs still running")
	}
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
