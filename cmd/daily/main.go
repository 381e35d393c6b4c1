// Package main provides the entry point for the daily prediction daemon.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/nba-predict/internal/config"
	"github.com/yourusername/nba-predict/internal/database"
	"github.com/yourusername/nba-predict/internal/datasource"
	"github.com/yourusername/nba-predict/internal/health"
	applogger "github.com/yourusername/nba-predict/internal/logger"
	"github.com/yourusername/nba-predict/internal/metrics"
	"github.com/yourusername/nba-predict/internal/repository"
	"github.com/yourusername/nba-predict/internal/scheduler"
	"github.com/yourusername/nba-predict/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.LoadWithDefaults(os.Getenv("NBA_PREDICT_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := applogger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"season":      cfg.Model.Season,
		"model":       cfg.Model.Name,
	}).Info("NBA prediction daemon starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := database.Initialize(ctx, db); err != nil {
		appLog.WithError(err).Fatal("Failed to initialize schema")
	}
	appLog.Info("Database ready")

	repos := repository.NewRepositories(db)

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), appLog)
	defer httpClient.Close()

	factory := datasource.NewFactory(appLog)
	sources, err := factory.NewSources(cfg.Ingestion, httpClient)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create data sources")
	}

	validator := service.NewDataValidator(appLog)
	normalizer := service.NewDataNormalizer(appLog)
	ingestion := service.NewIngestionService(sources, repos, validator, normalizer, appLog, cfg.Model.Season)
	predictor := service.NewPredictor(repos, cfg, appLog)
	results := service.NewResultsService(repos, appLog)

	sched := scheduler.NewScheduler(ingestion, predictor, results, appLog)
	leadTime := time.Duration(cfg.Prediction.LeadTimeMinutes) * time.Minute

	if err := sched.ScheduleStatsSync(cfg.Ingestion.Schedule.StatsSync); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule stats sync")
	}
	if sources.Lines != nil {
		if err := sched.ScheduleLineSync(cfg.Ingestion.Schedule.LineSync); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule line sync")
		}
	}
	if err := sched.SchedulePredictionRun(cfg.Ingestion.Schedule.PredictionRun, leadTime); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule prediction run")
	}

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
		NextRun:     sched.GetNextRun,
	})
	healthServer.RegisterCheck("database", db.Ping)
	healthServer.RegisterCheck("active_model", func(ctx context.Context) error {
		_, err := repos.Models.GetActive(ctx, cfg.Model.Name)
		return err
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	healthServer.SetReady(true)
	appLog.WithField("next_run", sched.GetNextRun()).Info("Daemon running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error stopping scheduler")
	}
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Error stopping metrics server")
		}
	}

	appLog.Info("Daemon shut down")
}
