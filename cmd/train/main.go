// Package main provides the model training entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/nba-predict/internal/config"
	"github.com/yourusername/nba-predict/internal/database"
	applogger "github.com/yourusername/nba-predict/internal/logger"
	"github.com/yourusername/nba-predict/internal/repository"
	"github.com/yourusername/nba-predict/internal/service"
)

func main() {
	var (
		configFile = flag.String("config", "./config/config.yaml", "Path to configuration file")
		version    = flag.String("version", "", "Model version label (defaults to the current date)")
		activate   = flag.Bool("activate", true, "Activate the trained model for predictions")
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

	if *version == "" {
		*version = time.Now().UTC().Format("2006-01-02")
	}

	ctx := context.Background()
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	repos := repository.NewRepositories(db)
	trainer := service.NewTrainer(repos, cfg, logger)

	record, err := trainer.Train(ctx, *version, *activate)
	if err != nil {
		logger.WithError(err).Fatal("Training failed")
	}

	fmt.Printf("Trained %s %s on %d games\n", record.Name, record.Version, record.GamesUsed)
	fmt.Printf("  residual std: %.3f\n", record.ResidualStdDev)
	fmt.Printf("  r squared:    %.3f\n", record.RSquared)
	if record.Active {
		fmt.Println("  model activated")
	}
}
