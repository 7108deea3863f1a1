// Package main provides the entry point for historical round ingestion.
package main

import (
	"context"
	"encoding/json"
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
	"github.com/yourusername/fairway-edge/internal/models"
	"github.com/yourusername/fairway-edge/internal/repository"
)

var (
	configFile   string
	tournamentID string
	roundsFile   string

	logger      *logrus.Logger
	cfg         *config.Config
	db          *database.DB
	repos       *repository.Repositories
	statsClient *datasource.StatsAPIClient
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	fetchCmd.Flags().StringVarP(&tournamentID, "tournament", "t", "", "Tournament whose field to backfill")
	fileCmd.Flags().StringVarP(&roundsFile, "file", "f", "", "Path to a JSON rounds snapshot")
}

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest historical round data",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch rounds for a tournament field from the stats provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tournamentID == "" {
			return fmt.Errorf("--tournament is required")
		}
		return ingestFromProvider(cmd.Context())
	},
}

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Load a local JSON rounds snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if roundsFile == "" {
			return fmt.Errorf("--file is required")
		}
		return ingestFromFile(cmd.Context())
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd.AddCommand(fetchCmd, fileCmd)
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
	logger.WithField("environment", cfg.App.Environment).Info("Fairway Edge ingestion starting")

	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	repos = repository.NewRepositories(db)
	statsClient = datasource.NewStatsAPIClient(&cfg.DataSources, logger)
	return nil
}

func teardown() {
	if statsClient != nil {
		statsClient.Close()
	}
	if db != nil {
		db.Close()
	}
}

func ingestFromProvider(ctx context.Context) error {
	field, course, err := statsClient.FetchField(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to fetch field: %w", err)
	}
	if course != nil {
		if err := repos.Courses.Upsert(ctx, course); err != nil {
			return fmt.Errorf("failed to save course profile: %w", err)
		}
	}

	rounds, err := statsClient.FetchRounds(ctx, field.Keys())
	if err != nil {
		return fmt.Errorf("failed to fetch rounds: %w", err)
	}
	return store(ctx, rounds)
}

func ingestFromFile(ctx context.Context) error {
	data, err := os.ReadFile(roundsFile)
	if err != nil {
		return fmt.Errorf("failed to read rounds file: %w", err)
	}

	var rounds []models.HistoricalRound
	if err := json.Unmarshal(data, &rounds); err != nil {
		return fmt.Errorf("failed to decode rounds file: %w", err)
	}
	return store(ctx, rounds)
}

func store(ctx context.Context, rounds []models.HistoricalRound) error {
	inserted, err := repos.Rounds.BulkUpsert(ctx, rounds)
	if err != nil {
		return fmt.Errorf("failed to save rounds: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"loaded":   len(rounds),
		"inserted": inserted,
	}).Info("Ingestion complete")
	fmt.Printf("Loaded %d rounds, %d new\n", len(rounds), inserted)
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
