// Package repository provides PostgreSQL persistence for rounds,
// predictions, results and performance aggregates. All writes are
// idempotent upserts keyed on natural keys, so re-running an ingest or a
// settlement pass never duplicates rows.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/fairway-edge/internal/adaptation"
	"github.com/yourusername/fairway-edge/internal/models"
	"github.com/yourusername/fairway-edge/internal/probability"
)

// RoundRepository stores historical rounds
type RoundRepository interface {
	BulkUpsert(ctx context.Context, rounds []models.HistoricalRound) (int, error)
	GetByPlayers(ctx context.Context, playerKeys []string) (map[string][]models.HistoricalRound, error)
}

// CourseRepository stores course profiles
type CourseRepository interface {
	Upsert(ctx context.Context, profile *models.CourseProfile) error
	GetByID(ctx context.Context, courseID string) (*models.CourseProfile, error)
}

// PredictionRepository stores prediction runs and the value-bet log
type PredictionRepository interface {
	SaveRun(ctx context.Context, run *models.PredictionRun) error
	GetLatestRun(ctx context.Context, tournamentID string) (*models.PredictionRun, error)
	SaveValueBets(ctx context.Context, bets []models.ValueBet) error
	GetValueBets(ctx context.Context, tournamentID string) ([]models.ValueBet, error)
}

// OddsRepository stores fetched odds snapshots
type OddsRepository interface {
	UpsertQuotes(ctx context.Context, tournamentID string, quotes []models.OddsQuote) error
	GetQuotes(ctx context.Context, tournamentID string) ([]models.OddsQuote, error)
}

// ResultRepository stores final tournament results
type ResultRepository interface {
	UpsertResults(ctx context.Context, tournamentID string, results []models.FinishResult) error
	GetResults(ctx context.Context, tournamentID string) ([]models.FinishResult, error)
}

// PerformanceRepository stores settled bets and per-market aggregates
type PerformanceRepository interface {
	UpsertSettledBet(ctx context.Context, bet *models.SettledBet) error
	GetRecentSettled(ctx context.Context, market models.Market, limit int) ([]models.SettledBet, error)
	UpsertPerformance(ctx context.Context, perf *models.MarketPerformance) error
	GetPerformance(ctx context.Context, market models.Market, tournamentID string) (*models.MarketPerformance, error)
}

// StateRepository stores the adaptation engine's per-market posture
type StateRepository interface {
	SaveState(ctx context.Context, state *adaptation.MarketState) error
	GetStates(ctx context.Context) (map[models.Market]adaptation.MarketState, error)
}

// CalibrationRepository stores the probability calibration buckets
type CalibrationRepository interface {
	SaveBuckets(ctx context.Context, buckets []probability.BucketStats) error
	LoadBuckets(ctx context.Context) ([]probability.BucketStats, error)
}

// Repositories bundles every repository behind one constructor
type Repositories struct {
	Rounds      RoundRepository
	Courses     CourseRepository
	Predictions PredictionRepository
	Odds        OddsRepository
	Results     ResultRepository
	Performance PerformanceRepository
	States      StateRepository
	Calibration CalibrationRepository
}

// NewID returns a fresh identifier for rows that need one
func NewID() uuid.UUID {
	return uuid.New()
}
