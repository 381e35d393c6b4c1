// Package main provides the one-shot data ingestion entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/yourusername/nba-predict/internal/config"
	"github.com/yourusername/nba-predict/internal/database"
	"github.com/yourusername/nba-predict/internal/datasource"
	applogger "github.com/yourusername/nba-predict/internal/logger"
	"github.com/yourusername/nba-predict/internal/repository"
	"github.com/yourusername/nba-predict/internal/service"
)

func main() {
	var (
		configFile   = flag.String("config", "./config/config.yaml", "Path to configuration file")
		schedule     = flag.Bool("schedule", true, "Sync the season schedule and final scores")
		stats        = flag.Bool("stats", true, "Sync team four factors aggregates")
		bettingLines = flag.Bool("lines", true, "Sync posted betting lines")
	)
	flag.Parse()

	cfg, err := config.LoadWithDefaults(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := applogger.NewLogger(cfg.App.LogLevel)

	ctx := context.Background()
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := database.Initialize(ctx, db); err != nil {
		logger.WithError(err).Fatal("Failed to initialize schema")
	}

	repos := repository.NewRepositories(db)

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), logger)
	defer httpClient.Close()

	sources, err := datasource.NewFactory(logger).NewSources(cfg.Ingestion, httpClient)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create data sources")
	}

	svc := service.NewIngestionService(
		sources, repos,
		service.NewDataValidator(logger),
		service.NewDataNormalizer(logger),
		logger, cfg.Model.Season,
	)

	if *schedule {
		if err := svc.SyncSchedule(ctx); err != nil {
			logger.WithError(err).Fatal("Schedule sync failed")
		}
	}
	if *stats {
		if err := svc.SyncTeamStats(ctx); err != nil {
			logger.WithError(err).Fatal("Team stats sync failed")
		}
	}
	if *bettingLines {
		if err := svc.SyncLines(ctx); err != nil {
			logger.WithError(err).Fatal("Line sync failed")
		}
	}

	fmt.Println(svc.GetMetrics().String())
}
