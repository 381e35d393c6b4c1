package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/nba-predict/internal/models"
	"github.com/yourusername/nba-predict/internal/repository"
)

// In-memory repository fakes shared by the service tests

type memGameRepo struct {
	games map[uuid.UUID]*models.Game
}

func newMemGameRepo() *memGameRepo {
	return &memGameRepo{games: make(map[uuid.UUID]*models.Game)}
}

func (r *memGameRepo) Upsert(ctx context.Context, game *models.Game) error {
	copied := *game
	r.games[game.ID] = &copied
	return nil
}

func (r *memGameRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	game, ok := r.games[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return game, nil
}

func (r *memGameRepo) GetByMatchup(ctx context.Context, homeTeam, awayTeam string, onOrAfter time.Time) (*models.Game, error) {
	var best *models.Game
	for _, game := range r.games {
		if !strings.EqualFold(game.HomeTeam, homeTeam) || !strings.EqualFold(game.AwayTeam, awayTeam) {
			continue
		}
		if game.StartTime.Before(onOrAfter) {
			continue
		}
		if best == nil || game.StartTime.Before(best.StartTime) {
			best = game
		}
	}
	if best == nil {
		return nil, models.ErrNotFound
	}
	return best, nil
}

func (r *memGameRepo) GetByDate(ctx context.Context, date time.Time) ([]*models.Game, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	var result []*models.Game
	for _, game := range r.games {
		if !game.StartTime.Before(dayStart) && game.StartTime.Before(dayEnd) {
			result = append(result, game)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func (r *memGameRepo) GetCompleted(ctx context.Context, season int) ([]*models.Game, error) {
	var result []*models.Game
	for _, game := range r.games {
		if game.Season == season && game.IsFinal() {
			result = append(result, game)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func (r *memGameRepo) UpdateScore(ctx context.Context, id uuid.UUID, homeScore, awayScore int) error {
	game, ok := r.games[id]
	if !ok {
		return models.ErrNotFound
	}
	game.HomeScore = &homeScore
	game.AwayScore = &awayScore
	game.Status = models.GameStatusFinal
	return nil
}

type memTeamStatsRepo struct {
	stats []*models.TeamStats
}

func newMemTeamStatsRepo() *memTeamStatsRepo {
	return &memTeamStatsRepo{}
}

func (r *memTeamStatsRepo) Insert(ctx context.Context, stats *models.TeamStats) error {
	copied := *stats
	r.stats = append(r.stats, &copied)
	return nil
}

func (r *memTeamStatsRepo) GetLatest(ctx context.Context, team string, season int) (*models.TeamStats, error) {
	return r.GetLatestAsOf(ctx, team, season, time.Now().UTC())
}

func (r *memTeamStatsRepo) GetLatestAsOf(ctx context.Context, team string, season int, asOf time.Time) (*models.TeamStats, error) {
	var best *models.TeamStats
	for _, stats := range r.stats {
		if !strings.EqualFold(stats.Team, team) || stats.Season != season || stats.ScrapedAt.After(asOf) {
			continue
		}
		if best == nil || stats.ScrapedAt.After(best.ScrapedAt) {
			best = stats
		}
	}
	if best == nil {
		return nil, models.ErrNotFound
	}
	return best, nil
}

func (r *memTeamStatsRepo) GetAllLatest(ctx context.Context, season int) ([]*models.TeamStats, error) {
	latest := make(map[string]*models.TeamStats)
	for _, stats := range r.stats {
		if stats.Season != season {
			continue
		}
		if current, ok := latest[stats.Team]; !ok || stats.ScrapedAt.After(current.ScrapedAt) {
			latest[stats.Team] = stats
		}
	}
	var result []*models.TeamStats
	for _, stats := range latest {
		result = append(result, stats)
	}
	return result, nil
}

type memLineRepo struct {
	lines map[uuid.UUID]*models.BettingLine
}

func newMemLineRepo() *memLineRepo {
	return &memLineRepo{lines: make(map[uuid.UUID]*models.BettingLine)}
}

func (r *memLineRepo) Upsert(ctx context.Context, line *models.BettingLine) error {
	copied := *line
	r.lines[line.GameID] = &copied
	return nil
}

func (r *memLineRepo) GetByGameID(ctx context.Context, gameID uuid.UUID) (*models.BettingLine, error) {
	line, ok := r.lines[gameID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return line, nil
}

func (r *memLineRepo) GetGameIDsWithLines(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id := range r.lines {
		ids = append(ids, id)
	}
	return ids, nil
}

type memModelRepo struct {
	records map[uuid.UUID]*models.RegressionModelRecord
}

func newMemModelRepo() *memModelRepo {
	return &memModelRepo{records: make(map[uuid.UUID]*models.RegressionModelRecord)}
}

func (r *memModelRepo) Create(ctx context.Context, record *models.RegressionModelRecord) error {
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *memModelRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.RegressionModelRecord, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return record, nil
}

func (r *memModelRepo) GetActive(ctx context.Context, name string) (*models.RegressionModelRecord, error) {
	for _, record := range r.records {
		if record.Name == name && record.Active {
			return record, nil
		}
	}
	return nil, models.ErrNoActiveModel
}

func (r *memModelRepo) SetActive(ctx context.Context, id uuid.UUID) error {
	target, ok := r.records[id]
	if !ok {
		return models.ErrNotFound
	}
	for _, record := range r.records {
		if record.Name == target.Name {
			record.Active = record.ID == id
		}
	}
	return nil
}

type memPredictionRepo struct {
	predictions map[uuid.UUID]*models.Prediction
}

func newMemPredictionRepo() *memPredictionRepo {
	return &memPredictionRepo{predictions: make(map[uuid.UUID]*models.Prediction)}
}

func (r *memPredictionRepo) Upsert(ctx context.Context, prediction *models.Prediction) error {
	copied := *prediction
	r.predictions[prediction.GameID] = &copied
	return nil
}

func (r *memPredictionRepo) GetByGameID(ctx context.Context, gameID uuid.UUID) (*models.Prediction, error) {
	prediction, ok := r.predictions[gameID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return prediction, nil
}

func (r *memPredictionRepo) GetByDate(ctx context.Context, date time.Time) ([]*models.Prediction, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	var result []*models.Prediction
	for _, prediction := range r.predictions {
		if !prediction.StartTime.Before(dayStart) && prediction.StartTime.Before(dayEnd) {
			result = append(result, prediction)
		}
	}
	return result, nil
}

func (r *memPredictionRepo) GetUnsettled(ctx context.Context) ([]*models.Prediction, error) {
	var result []*models.Prediction
	for _, prediction := range r.predictions {
		if prediction.BetResult == nil && prediction.Spread != nil {
			result = append(result, prediction)
		}
	}
	return result, nil
}

func (r *memPredictionRepo) GetSettled(ctx context.Context, from, to time.Time) ([]*models.Prediction, error) {
	var result []*models.Prediction
	for _, prediction := range r.predictions {
		if prediction.BetResult != nil && !prediction.StartTime.Before(from) && prediction.StartTime.Before(to) {
			result = append(result, prediction)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func (r *memPredictionRepo) SetBetResult(ctx context.Context, gameID uuid.UUID, result string) error {
	prediction, ok := r.predictions[gameID]
	if !ok {
		return models.ErrNotFound
	}
	prediction.BetResult = &result
	return nil
}

func newMemRepositories() *repository.Repositories {
	return &repository.Repositories{
		Games:       newMemGameRepo(),
		TeamStats:   newMemTeamStatsRepo(),
		Lines:       newMemLineRepo(),
		Models:      newMemModelRepo(),
		Predictions: newMemPredictionRepo(),
	}
}
