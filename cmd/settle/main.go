// Package main provides the entry point for post-tournament settlement.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/fairway-edge/internal/config"
	"github.com/yourusername/fairway-edge/internal/database"
	"github.com/yourusername/fairway-edge/internal/datasource"
	applogger "github.com/yourusername/fairway-edge/internal/logger"
	"github.com/yourusername/fairway-edge/internal/probability"
	"github.com/yourusername/fairway-edge/internal/repository"
	"github.com/yourusername/fairway-edge/internal/service"
)

var (
	configFile   string
	tournamentID string

	logger      *logrus.Logger
	cfg         *config.Config
	db          *database.DB
	repos       *repository.Repositories
	statsClient *datasource.StatsAPIClient
	settlement  *service.SettlementService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&tournamentID, "tournament", "t", "", "Tournament identifier to settle")
}

var rootCmd = &cobra.Command{
	Use:   "settle",
	Short: "Settle flagged bets against final results",
	Long:  `Fetch final leaderboard results, settle every flagged value bet, update per-market performance, calibration and the adaptation posture.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if tournamentID == "" {
			return fmt.Errorf("--tournament is required")
		}
		return run(cmd.Context())
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
	teardown()
}

func setup(ctx context.Context) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	logger = applogger.NewLogger(cfg.App.LogLevel)
	logger.WithField("environment", cfg.App.Environment).Info("Fairway Edge settlement starting")

	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	repos = repository.NewRepositories(db)

	calibrator := probability.NewCalibrator()
	if buckets, err := repos.Calibration.LoadBuckets(ctx); err != nil {
		logger.WithError(err).Warn("Proceeding without persisted calibration")
	} else {
		calibrator.Load(buckets)
	}

	statsClient = datasource.NewStatsAPIClient(&cfg.DataSources, logger)
	settlement, err = service.NewSettlementService(statsClient, repos, cfg, calibrator, logger)
	return err
}

func teardown() {
	if statsClient != nil {
		statsClient.Close()
	}
	if db != nil {
		db.Close()
	}
}

func run(ctx context.Context) error {
	summary, err := settlement.SettleTournament(ctx, tournamentID)
	if err != nil {
		return err
	}

	fmt.Printf("Settled %d bets (%d skipped) for %s\n", summary.Settled, summary.Skipped, summary.TournamentID)
	for market, perf := range summary.ByMarket {
		fmt.Printf("%-10s %d placed, %d won, %d pushed, ROI %.1f%%\n",
			market, perf.BetsPlaced, perf.BetsWon, perf.BetsPushed, perf.ROI())
	}
	for market, state := range summary.States {
		fmt.Printf("%-10s state=%s threshold=%.2f suppressed=%v\n",
			market, state.State, state.EVThreshold, state.Suppressed)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return nil, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
