package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/fairway-edge/internal/adaptation"
	"github.com/yourusername/fairway-edge/internal/config"
	"github.com/yourusername/fairway-edge/internal/datasource"
	"github.com/yourusername/fairway-edge/internal/logger"
	"github.com/yourusername/fairway-edge/internal/metrics"
	"github.com/yourusername/fairway-edge/internal/models"
	"github.com/yourusername/fairway-edge/internal/outcome"
	"github.com/yourusername/fairway-edge/internal/probability"
	"github.com/yourusername/fairway-edge/internal/repository"
)

// Stakes are tracked in units against a notional bankroll, so ROI math
// stays comparable across weeks regardless of real bankroll size.
const notionalBankrollUnits = 100.0

// SettleSummary reports one settlement pass
type SettleSummary struct {
	TournamentID string
	Settled      int
	Skipped      int
	ByMarket     map[models.Market]*models.MarketPerformance
	States       map[models.Market]adaptation.MarketState
}

// SettlementService scores flagged bets against final results, rolls up
// per-market performance and re-evaluates the adaptation posture.
type SettlementService struct {
	stats      datasource.StatsProvider
	repos      *repository.Repositories
	cfg        *config.Config
	scorer     *outcome.Scorer
	engine     *adaptation.Engine
	calibrator *probability.Calibrator
	logger     *logrus.Logger
	plog       *logger.PredictionLogger
	markets    []models.Market
	now        func() time.Time
}

// NewSettlementService creates the settlement orchestrator
func NewSettlementService(
	statsProvider datasource.StatsProvider,
	repos *repository.Repositories,
	cfg *config.Config,
	calibrator *probability.Calibrator,
	baseLogger *logrus.Logger,
) (*SettlementService, error) {
	markets := make([]models.Market, 0, len(cfg.Betting.Markets))
	for _, name := range cfg.Betting.Markets {
		m, err := models.ParseMarket(name)
		if err != nil {
			return nil, fmt.Errorf("invalid market in configuration: %w", err)
		}
		markets = append(markets, m)
	}

	return &SettlementService{
		stats:      statsProvider,
		repos:      repos,
		cfg:        cfg,
		scorer:     outcome.NewScorer(cfg.Betting.MissedCutIsPush),
		engine:     adaptation.NewEngine(cfg.Adaptation),
		calibrator: calibrator,
		logger:     baseLogger,
		plog:       logger.NewPredictionLogger(baseLogger),
		markets:    markets,
		now:        time.Now,
	}, nil
}

// SettleTournament fetches final results, settles every flagged bet and
// updates performance aggregates, calibration buckets and market
// states. Settlement upserts on natural keys, so re-running after a
// leaderboard correction overwrites rather than double-counts.
func (s *SettlementService) SettleTournament(ctx context.Context, tournamentID string) (*SettleSummary, error) {
	start := s.now()

	results, err := s.stats.FetchResults(ctx, tournamentID)
	if err != nil {
		metrics.RecordProviderError("stats")
		return nil, fmt.Errorf("failed to fetch results: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no results available for %s: %w", tournamentID, models.ErrNotFound)
	}
	if err := s.repos.Results.UpsertResults(ctx, tournamentID, results); err != nil {
		return nil, fmt.Errorf("failed to save results: %w", err)
	}

	bets, err := s.repos.Predictions.GetValueBets(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load value bets: %w", err)
	}

	summary := &SettleSummary{
		TournamentID: tournamentID,
		ByMarket:     make(map[models.Market]*models.MarketPerformance),
		States:       make(map[models.Market]adaptation.MarketState),
	}

	for _, bet := range bets {
		if bet.Market == models.MarketMatchup {
			// Matchup bets carry no opponent on the flagged row; they
			// are settled individually through SettleMatchupBet.
			summary.Skipped++
			continue
		}

		settled, err := s.scorer.Settle(bet, stakeUnits(bet), results)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"player_key": bet.PlayerKey,
				"market":     bet.Market,
			}).Warn("Skipping unsettleable bet")
			summary.Skipped++
			continue
		}
		if err := s.recordSettled(ctx, summary, bet, settled); err != nil {
			return nil, err
		}
	}

	if err := s.savePerformance(ctx, summary); err != nil {
		return nil, err
	}
	if err := s.saveCalibration(ctx); err != nil {
		return nil, err
	}
	if err := s.updateMarketStates(ctx, summary); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tournament_id": tournamentID,
		"settled":       summary.Settled,
		"skipped":       summary.Skipped,
		"duration":      time.Since(start).String(),
	}).Info("Settlement complete")
	metrics.RecordSettlementRun(time.Since(start).Seconds())

	return summary, nil
}

// SettleMatchupBet settles one head-to-head bet given the opponent key.
// Matchup results come from the same leaderboard as everything else.
func (s *SettlementService) SettleMatchupBet(ctx context.Context, bet models.ValueBet, opponentKey string) (*models.SettledBet, error) {
	results, err := s.repos.Results.GetResults(ctx, bet.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}

	player := findFinish(bet.PlayerKey, results)
	opponent := findFinish(opponentKey, results)
	settled, err := s.scorer.SettleMatchup(bet, stakeUnits(bet), player, opponent)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Performance.UpsertSettledBet(ctx, &settled); err != nil {
		return nil, fmt.Errorf("failed to save settled bet: %w", err)
	}
	s.plog.LogSettlement(&settled, settled.SettledAt)
	metrics.RecordBetSettled(string(settled.Market), string(settled.Outcome))
	return &settled, nil
}

func (s *SettlementService) recordSettled(ctx context.Context, summary *SettleSummary, bet models.ValueBet, settled models.SettledBet) error {
	if err := s.repos.Performance.UpsertSettledBet(ctx, &settled); err != nil {
		return fmt.Errorf("failed to save settled bet: %w", err)
	}
	s.plog.LogSettlement(&settled, settled.SettledAt)
	metrics.RecordBetSettled(string(settled.Market), string(settled.Outcome))
	summary.Settled++

	perf, ok := summary.ByMarket[bet.Market]
	if !ok {
		perf = &models.MarketPerformance{
			Market:       bet.Market,
			TournamentID: bet.TournamentID,
		}
		summary.ByMarket[bet.Market] = perf
	}
	outcome.Apply(perf, settled)

	// Pushes say nothing about whether the predicted outcome occurs.
	if settled.Outcome != models.OutcomePush {
		s.calibrator.Observe(bet.Market, bet.ModelProb, settled.IsWin())
	}
	return nil
}

func (s *SettlementService) savePerformance(ctx context.Context, summary *SettleSummary) error {
	for market, perf := range summary.ByMarket {
		perf.UpdatedAt = s.now()
		if err := s.repos.Performance.UpsertPerformance(ctx, perf); err != nil {
			return fmt.Errorf("failed to save performance for %s: %w", market, err)
		}
		metrics.UpdateMarketROI(string(market), perf.ROI())
	}
	return nil
}

func (s *SettlementService) saveCalibration(ctx context.Context) error {
	snapshot := s.calibrator.Snapshot()
	if len(snapshot) == 0 {
		return nil
	}
	if err := s.repos.Calibration.SaveBuckets(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save calibration buckets: %w", err)
	}
	return nil
}

// updateMarketStates re-evaluates the adaptation posture for every
// configured market from its trailing settled window.
func (s *SettlementService) updateMarketStates(ctx context.Context, summary *SettleSummary) error {
	previous, err := s.repos.States.GetStates(ctx)
	if err != nil {
		return fmt.Errorf("failed to load market states: %w", err)
	}

	for _, market := range s.markets {
		window, err := s.repos.Performance.GetRecentSettled(ctx, market, s.cfg.Adaptation.WindowSize)
		if err != nil {
			return fmt.Errorf("failed to load settled window for %s: %w", market, err)
		}

		prevState := adaptation.StateNormal
		if prev, ok := previous[market]; ok {
			prevState = prev.State
		}

		state := s.engine.Evaluate(market, window, prevState)
		if err := s.repos.States.SaveState(ctx, &state); err != nil {
			return fmt.Errorf("failed to save market state for %s: %w", market, err)
		}
		summary.States[market] = state

		s.plog.LogAdaptationState(market, string(state.State), state.ROIPct, state.EVThreshold, state.Suppressed)
		metrics.UpdateMarketPosture(string(market), state.EVThreshold, stateOrdinal(state.State))
	}
	return nil
}

// stakeUnits converts a bet's Kelly fraction into staked units. A bet
// that made it past detection always risks at least one unit so ROI
// tracking never divides by zero.
func stakeUnits(bet models.ValueBet) decimal.Decimal {
	units := decimal.NewFromFloat(bet.StakeFraction * notionalBankrollUnits)
	if units.LessThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return units
}

func findFinish(playerKey string, results []models.FinishResult) *models.FinishResult {
	for i := range results {
		if results[i].PlayerKey == playerKey {
			return &results[i]
		}
	}
	return nil
}
