// Package metrics provides the centralized Prometheus metrics registry for
// the prediction pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nba_predict",
		Name:      "predictions_total",
		Help:      "Total number of game predictions produced",
	}, []string{"line_type"})
	GamesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nba_predict",
		Name:      "games_skipped_total",
		Help:      "Total number of games skipped during prediction runs",
	}, []string{"reason"})
	BetsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nba_predict",
		Name:      "bets_settled_total",
		Help:      "Total number of spread bets graded against final scores",
	}, []string{"result"})
	IngestionErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nba_predict",
		Name:      "ingestion_errors_total",
		Help:      "Total number of ingestion errors by source",
	}, []string{"source"})
	ModelsTrainedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nba_predict",
		Name:      "models_trained_total",
		Help:      "Total number of regression models trained",
	})
)

// Gauge metrics
var (
	ResidualStdDev = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nba_predict",
		Name:      "model_residual_std",
		Help:      "Residual standard deviation of the active regression model",
	})
	ModelRSquared = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nba_predict",
		Name:      "model_r_squared",
		Help:      "R squared of the active regression model",
	})
	UpcomingGamesWithLines = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nba_predict",
		Name:      "upcoming_games_with_lines",
		Help:      "Number of upcoming games with posted betting lines",
	})
)

// Histogram metrics
var (
	PredictionBatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nba_predict",
		Name:      "prediction_batch_duration_seconds",
		Help:      "Duration of prediction batch runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	IngestionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nba_predict",
		Name:      "ingestion_duration_seconds",
		Help:      "Duration of ingestion runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600},
	}, []string{"source"})
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nba_predict",
		Name:      "training_duration_seconds",
		Help:      "Duration of model training runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(GamesSkippedTotal)
		registry.MustRegister(BetsSettledTotal)
		registry.MustRegister(IngestionErrorsTotal)
		registry.MustRegister(ModelsTrainedTotal)

		registry.MustRegister(ResidualStdDev)
		registry.MustRegister(ModelRSquared)
		registry.MustRegister(UpcomingGamesWithLines)

		registry.MustRegister(PredictionBatchDuration)
		registry.MustRegister(IngestionDuration)
		registry.MustRegister(TrainingDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records one produced prediction by evaluated line type.
func RecordPrediction(lineType string) {
	PredictionsTotal.WithLabelValues(lineType).Inc()
}

// RecordSkippedGame records a game skipped during a prediction run.
func RecordSkippedGame(reason string) {
	GamesSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordBetSettled records a graded spread bet.
func RecordBetSettled(result string) {
	BetsSettledTotal.WithLabelValues(result).Inc()
}

// RecordIngestionError records an ingestion error for a source.
func RecordIngestionError(source string) {
	IngestionErrorsTotal.WithLabelValues(source).Inc()
}

// RecordPredictionBatch records a completed prediction batch.
func RecordPredictionBatch(durationSeconds float64) {
	PredictionBatchDuration.Observe(durationSeconds)
}

// RecordIngestionRun records a completed ingestion run for a source.
func RecordIngestionRun(source string, durationSeconds float64) {
	IngestionDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordModelTrained records a training run and publishes the fit gauges.
func RecordModelTrained(durationSeconds, residualStd, rSquared float64) {
	ModelsTrainedTotal.Inc()
	TrainingDuration.Observe(durationSeconds)
	ResidualStdDev.Set(residualStd)
	ModelRSquared.Set(rSquared)
}

// UpdateActiveModel publishes the fit gauges for the loaded active model.
func UpdateActiveModel(residualStd, rSquared float64) {
	ResidualStdDev.Set(residualStd)
	ModelRSquared.Set(rSquared)
}
