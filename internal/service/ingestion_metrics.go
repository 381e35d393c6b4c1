package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about one ingestion run
type IngestionMetrics struct {
	mu               sync.RWMutex
	StartTime        time.Time
	Duration         time.Duration
	GamesFetched     int
	GamesStored      int
	ScoresRecorded   int
	StatsStored      int
	LinesFetched     int
	LinesStored      int
	LinesUnmatched   int
	ValidationErrors int
	Errors           int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.GamesFetched = 0
	m.GamesStored = 0
	m.ScoresRecorded = 0
	m.StatsStored = 0
	m.LinesFetched = 0
	m.LinesStored = 0
	m.LinesUnmatched = 0
	m.ValidationErrors = 0
	m.Errors = 0
}

// RecordGame increments stored game count
func (m *IngestionMetrics) RecordGame() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GamesStored++
}

// RecordScore increments recorded final score count
func (m *IngestionMetrics) RecordScore() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScoresRecorded++
}

// RecordStats increments stored team stats count
func (m *IngestionMetrics) RecordStats() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatsStored++
}

// RecordLine increments stored line count
func (m *IngestionMetrics) RecordLine() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinesStored++
}

// RecordUnmatchedLine increments the count of lines with no scheduled game
func (m *IngestionMetrics) RecordUnmatchedLine() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinesUnmatched++
}

// RecordValidationError increments validation error count
func (m *IngestionMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// RecordError increments error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fmt.Sprintf(
		"IngestionMetrics{Games=%d/%d, Scores=%d, Stats=%d, Lines=%d/%d, Unmatched=%d, ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.GamesStored,
		m.GamesFetched,
		m.ScoresRecorded,
		m.StatsStored,
		m.LinesStored,
		m.LinesFetched,
		m.LinesUnmatched,
		m.ValidationErrors,
		m.Errors,
		m.Duration,
	)
}
