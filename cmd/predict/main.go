// Package main provides the entry point for the weekly prediction
// pipeline.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/fairway-edge/internal/config"
	"github.com/yourusername/fairway-edge/internal/database"
	"github.com/yourusername/fairway-edge/internal/datasource"
	"github.com/yourusername/fairway-edge/internal/health"
	applogger "github.com/yourusername/fairway-edge/internal/logger"
	"github.com/yourusername/fairway-edge/internal/metrics"
	"github.com/yourusername/fairway-edge/internal/probability"
	"github.com/yourusername/fairway-edge/internal/repository"
	"github.com/yourusername/fairway-edge/internal/scheduler"
	"github.com/yourusername/fairway-edge/internal/service"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

var (
	configFile   string
	tournamentID string
	daemonMode   bool

	logger      *logrus.Logger
	cfg         *config.Config
	db          *database.DB
	repos       *repository.Repositories
	statsClient *datasource.StatsAPIClient
	oddsClient  *datasource.OddsAPIClient
	predictions *service.PredictionService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&tournamentID, "tournament", "t", "", "Tournament identifier to predict")
	rootCmd.Flags().BoolVarP(&daemonMode, "daemon", "d", false, "Run on the configured cron schedule instead of once")
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run the tournament prediction pipeline",
	Long:  `Fetch the field, score every player, convert scores to probabilities and flag positive-EV bets against current odds.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if tournamentID == "" {
			return fmt.Errorf("--tournament is required")
		}
		if daemonMode {
			return runDaemon(cmd.Context())
		}
		return runOnce(cmd.Context())
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
	logger.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Fairway Edge prediction pipeline starting")

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
	oddsClient = datasource.NewOddsAPIClient(&cfg.DataSources, logger)

	predictions, err = service.NewPredictionService(statsClient, oddsClient, repos, cfg, calibrator, logger)
	if err != nil {
		return err
	}
	return nil
}

func teardown() {
	if statsClient != nil {
		statsClient.Close()
	}
	if oddsClient != nil {
		oddsClient.Close()
	}
	if db != nil {
		db.Close()
	}
}

func runOnce(ctx context.Context) error {
	result, err := predictions.RunPrediction(ctx, tournamentID, service.RunOptions{})
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"run_id":     result.Run.ID,
		"field_size": result.Run.FieldSize,
		"value_bets": len(result.Bets),
		"confidence": result.Confidence.Overall,
	}).Info("Prediction complete")

	for i := range result.Bets {
		bet := &result.Bets[i]
		fmt.Printf("%-10s %-28s %+6d @ %-12s EV %.3f stake %.4f\n",
			bet.Market, bet.DisplayName, bet.BestPrice, bet.BestBook, bet.EV, bet.StakeFraction)
	}
	return nil
}

func runDaemon(ctx context.Context) error {
	if !cfg.Scheduler.Enabled {
		return fmt.Errorf("daemon mode requires scheduler.enabled in configuration")
	}

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        healthPort(),
		Logger:      logger,
		DB:          db,
		MetricsPath: cfg.Metrics.Path,
		Metrics:     metricsHandler(cfg),
	})
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	sched := scheduler.NewScheduler(predictions, logger)
	if cfg.Scheduler.PredictCron != "" {
		if err := sched.SchedulePrediction(cfg.Scheduler.PredictCron, tournamentID); err != nil {
			return err
		}
	}
	if cfg.Scheduler.RefreshCron != "" {
		if err := sched.ScheduleOddsRefresh(cfg.Scheduler.RefreshCron, tournamentID); err != nil {
			return err
		}
	}
	if err := sched.Start(); err != nil {
		return err
	}
	healthServer.SetReady(true)
	logger.WithField("next_run", sched.NextRun()).Info("Scheduler running")

	<-ctx.Done()
	logger.Info("Shutdown signal received")
	healthServer.SetReady(false)
	return sched.Stop()
}

func healthPort() string {
	if cfg.Metrics.Port > 0 {
		return fmt.Sprintf("%d", cfg.Metrics.Port)
	}
	return ""
}

func metricsHandler(cfg *config.Config) http.Handler {
	if !cfg.Metrics.Enabled {
		return nil
	}
	metrics.InitRegistry()
	return metrics.Handler()
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
