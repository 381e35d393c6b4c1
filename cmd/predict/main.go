// Package main provides the prediction CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/nba-predict/internal/config"
	"github.com/yourusername/nba-predict/internal/database"
	"github.com/yourusername/nba-predict/internal/evaluation"
	applogger "github.com/yourusername/nba-predict/internal/logger"
	"github.com/yourusername/nba-predict/internal/models"
	"github.com/yourusername/nba-predict/internal/repository"
	"github.com/yourusername/nba-predict/internal/service"
)

var (
	configFile string
	logger     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
	predictor  *service.Predictor

	evalFrom string
	evalTo   string
	evalCSV  bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	evaluateCmd.Flags().StringVar(&evalFrom, "from", "", "Start date (YYYY-MM-DD, inclusive)")
	evaluateCmd.Flags().StringVar(&evalTo, "to", "", "End date (YYYY-MM-DD, exclusive)")
	evaluateCmd.Flags().BoolVar(&evalCSV, "csv", false, "Print the equity curve as CSV instead of a summary")
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict NBA margins of victory against betting lines",
	Long:  `Predict runs the active four-factor regression model over stored games, producing margin predictions and probabilities against posted spreads and moneylines.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var dateCmd = &cobra.Command{
	Use:   "date [YYYY-MM-DD]",
	Short: "Predict all games on a date",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().UTC()
		if len(args) == 1 {
			parsed, err := time.Parse("2006-01-02", args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", args[0], err)
			}
			date = parsed
		}

		predictions, err := predictor.PredictDate(context.Background(), date)
		if err != nil {
			return err
		}
		printPredictions(predictions)
		return nil
	},
}

var matchupCmd = &cobra.Command{
	Use:   "matchup <home team> <away team>",
	Short: "Predict the next game between two teams",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		prediction, err := predictor.PredictMatchup(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}
		printPredictions([]*models.Prediction{prediction})
		return nil
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Predict every upcoming game with a posted line",
	RunE: func(cmd *cobra.Command, args []string) error {
		predictions, err := predictor.PredictUpcoming(context.Background())
		if err != nil {
			return err
		}
		printPredictions(predictions)
		return nil
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Grade the model's settled spread bets as flat-stake wagers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		from := time.Time{}
		to := time.Now().UTC()
		if evalFrom != "" {
			parsed, err := time.Parse("2006-01-02", evalFrom)
			if err != nil {
				return fmt.Errorf("invalid from date %q: %w", evalFrom, err)
			}
			from = parsed
		}
		if evalTo != "" {
			parsed, err := time.Parse("2006-01-02", evalTo)
			if err != nil {
				return fmt.Errorf("invalid to date %q: %w", evalTo, err)
			}
			to = parsed
		}

		predictions, err := repos.Predictions.GetSettled(ctx, from, to)
		if err != nil {
			return err
		}

		bets := make([]evaluation.SettledBet, 0, len(predictions))
		for _, p := range predictions {
			game, err := repos.Games.GetByID(ctx, p.GameID)
			if err != nil {
				return fmt.Errorf("failed to load game for settled prediction: %w", err)
			}
			margin, ok := game.MarginOfVictory()
			if !ok {
				continue
			}
			bets = append(bets, evaluation.SettledBet{
				Prediction:   p,
				ActualMargin: margin,
			})
		}

		report := evaluation.Evaluate(bets)
		if evalCSV {
			fmt.Print(report.EquityCurve.ToCSV())
			return nil
		}
		printReport(report)
		return nil
	},
}

func main() {
	rootCmd.AddCommand(dateCmd, matchupCmd, allCmd, evaluateCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setupDependencies() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger = applogger.NewLogger(cfg.App.LogLevel)

	db, err = database.NewDB(context.Background(), &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos = repository.NewRepositories(db)
	predictor = service.NewPredictor(repos, cfg, logger)

	return nil
}

func printReport(report evaluation.Report) {
	if report.TotalBets == 0 {
		fmt.Println("No settled bets in range")
		return
	}

	fmt.Printf("Settled bets %s through %s\n",
		report.StartDate.Format("2006-01-02"), report.EndDate.Format("2006-01-02"))
	fmt.Printf("  record:        %d-%d-%d (%.1f%%)\n",
		report.Wins, report.Losses, report.Pushes, report.WinRate*100)
	fmt.Printf("  net units:     %+.2f (ROI %+.1f%%)\n", report.NetUnits, report.ROI*100)
	fmt.Printf("  max drawdown:  %.2f units\n", report.MaxDrawdown)
	fmt.Printf("  margin error:  %.2f mean absolute, %+.2f bias\n",
		report.MeanAbsoluteError, report.MeanError)
}

func printPredictions(predictions []*models.Prediction) {
	if len(predictions) == 0 {
		fmt.Println("No predictions produced")
		return
	}

	for _, p := range predictions {
		fmt.Printf("%s vs %s (%s)\n", p.HomeTeam, p.AwayTeam, p.StartTime.Format("2006-01-02 15:04 MST"))
		fmt.Printf("  predicted margin: %+.1f (home) / %+.1f (away)\n", p.PredictedHomeMOV, p.PredictedAwayMOV)

		if p.MoneylineProbHome != nil {
			fmt.Printf("  win probability:  %.1f%% home / %.1f%% away\n",
				*p.MoneylineProbHome*100, *p.MoneylineProbAway*100)
		}
		if p.HasSpreadProbabilities() {
			fmt.Printf("  spread %+.1f:      %.1f%% home cover / %.1f%% away cover\n",
				*p.Spread, *p.SpreadProbHome*100, *p.SpreadProbAway*100)
		} else {
			fmt.Println("  spread:           no line posted")
		}
		fmt.Println()
	}
}
