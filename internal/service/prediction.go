// Package service orchestrates the weekly prediction pipeline and the
// post-tournament settlement pass. Everything network-bound happens up
// front; scoring and detection run on the assembled snapshot.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/fairway-edge/internal/adaptation"
	"github.com/yourusername/fairway-edge/internal/config"
	"github.com/yourusername/fairway-edge/internal/datasource"
	"github.com/yourusername/fairway-edge/internal/logger"
	"github.com/yourusername/fairway-edge/internal/metrics"
	"github.com/yourusername/fairway-edge/internal/models"
	"github.com/yourusername/fairway-edge/internal/probability"
	"github.com/yourusername/fairway-edge/internal/repository"
	"github.com/yourusername/fairway-edge/internal/scoring"
	"github.com/yourusername/fairway-edge/internal/stats"
	"github.com/yourusername/fairway-edge/internal/value"
)

// Categories ranked in every trailing window. Tee-to-green is derivable
// from the others and stays out of the form breakdown.
var scoredCategories = []models.SGCategory{
	models.SGTotal,
	models.SGOffTheTee,
	models.SGApproach,
	models.SGAroundGrn,
	models.SGPutting,
}

// RunOptions carries the optional qualitative inputs for one run
type RunOptions struct {
	Weather     *models.WeatherSnapshot
	Annotations models.AnnotatorAdjustments
}

// RunResult is the output of one prediction run
type RunResult struct {
	Run        *models.PredictionRun
	Bets       []models.ValueBet
	Warnings   []models.DataQualityWarning
	Confidence *ConfidenceReport
}

// PredictionService runs the full weekly pipeline: fetch, persist,
// aggregate, score, convert to probabilities and detect value.
type PredictionService struct {
	stats      datasource.StatsProvider
	odds       datasource.OddsProvider
	repos      *repository.Repositories
	cfg        *config.Config
	calibrator *probability.Calibrator
	engine     *adaptation.Engine
	logger     *logrus.Logger
	plog       *logger.PredictionLogger
	markets    []models.Market
	now        func() time.Time
}

// NewPredictionService creates the pipeline orchestrator. The market
// list comes pre-validated from configuration.
func NewPredictionService(
	statsProvider datasource.StatsProvider,
	oddsProvider datasource.OddsProvider,
	repos *repository.Repositories,
	cfg *config.Config,
	calibrator *probability.Calibrator,
	baseLogger *logrus.Logger,
) (*PredictionService, error) {
	markets := make([]models.Market, 0, len(cfg.Betting.Markets))
	for _, name := range cfg.Betting.Markets {
		m, err := models.ParseMarket(name)
		if err != nil {
			return nil, fmt.Errorf("invalid market in configuration: %w", err)
		}
		markets = append(markets, m)
	}

	return &PredictionService{
		stats:      statsProvider,
		odds:       oddsProvider,
		repos:      repos,
		cfg:        cfg,
		calibrator: calibrator,
		engine:     adaptation.NewEngine(cfg.Adaptation),
		logger:     baseLogger,
		plog:       logger.NewPredictionLogger(baseLogger),
		markets:    markets,
		now:        time.Now,
	}, nil
}

// RunPrediction executes one full prediction pass for a tournament.
// Runs are append-only; value bets upsert on their natural key so a
// rerun refreshes prices instead of duplicating rows.
func (s *PredictionService) RunPrediction(ctx context.Context, tournamentID string, opts RunOptions) (*RunResult, error) {
	start := s.now()

	snapshot, err := s.assembleSnapshot(ctx, tournamentID, opts)
	if err != nil {
		metrics.RecordPredictionFailure()
		return nil, err
	}

	field := snapshot.Field
	s.plog.LogRunStarted(tournamentID, field.Size(), s.markets)

	roundsByPlayer, err := s.persistAndLoadRounds(ctx, snapshot)
	if err != nil {
		metrics.RecordPredictionFailure()
		return nil, err
	}

	run := s.scoreField(snapshot, roundsByPlayer, opts)
	if err := s.repos.Predictions.SaveRun(ctx, run); err != nil {
		metrics.RecordPredictionFailure()
		return nil, fmt.Errorf("failed to save prediction run: %w", err)
	}

	result := &RunResult{Run: run}
	scoreMap := make(map[string]float64, len(run.Scores))
	names := make(map[string]string, len(run.Scores))
	for _, ps := range run.Scores {
		scoreMap[ps.PlayerKey] = ps.Composite
		names[ps.PlayerKey] = ps.DisplayName
		metrics.RecordCompositeScore(ps.Composite)
	}

	states, err := s.marketStates(ctx)
	if err != nil {
		metrics.RecordPredictionFailure()
		return nil, err
	}

	detector := value.NewDetector(s.cfg.Betting)
	for _, market := range s.markets {
		probs, err := probability.FromScores(scoreMap, market, field.Size())
		if err != nil {
			s.logger.WithError(err).WithField("market", market).
				Warn("Skipping market: probability conversion failed")
			continue
		}
		probs = probability.Blend(probs, snapshot.External, market)
		s.calibrator.CorrectAll(market, probs)

		state := states[market]
		s.plog.LogAdaptationState(market, string(state.State), state.ROIPct, state.EVThreshold, state.Suppressed)
		metrics.UpdateMarketPosture(string(market), state.EVThreshold, stateOrdinal(state.State))

		det := detector.Detect(value.Input{
			TournamentID:    tournamentID,
			Market:          market,
			Probs:           probs,
			External:        snapshot.External,
			Quotes:          quotesForMarket(snapshot.Odds, market),
			DisplayNames:    names,
			EVThreshold:     state.EVThreshold,
			StakeMultiplier: state.StakeMultiplier,
			Suppressed:      state.Suppressed,
		})
		for i := range det.Bets {
			s.plog.LogValueBet(&det.Bets[i])
			metrics.RecordValueBet(string(market))
		}
		for _, w := range det.Warnings {
			s.plog.LogDataQualityWarning(w)
			metrics.RecordDetectionWarning(string(market), string(w.Kind))
		}
		result.Bets = append(result.Bets, det.Bets...)
		result.Warnings = append(result.Warnings, det.Warnings...)
	}

	if len(result.Bets) > 0 {
		if err := s.repos.Predictions.SaveValueBets(ctx, result.Bets); err != nil {
			metrics.RecordPredictionFailure()
			return nil, fmt.Errorf("failed to save value bets: %w", err)
		}
	}

	result.Confidence = BuildConfidenceReport(snapshot, run, result.Bets, result.Warnings)
	s.logger.WithFields(logrus.Fields{
		"tournament_id": tournamentID,
		"field_size":    field.Size(),
		"value_bets":    len(result.Bets),
		"warnings":      len(result.Warnings),
		"confidence":    result.Confidence.Overall,
		"duration":      time.Since(start).String(),
	}).Info("Prediction run complete")
	metrics.RecordPredictionRun(time.Since(start).Seconds(), field.Size())

	return result, nil
}

// assembleSnapshot fetches everything the pipeline needs up front and
// persists the course profile and odds as it goes.
func (s *PredictionService) assembleSnapshot(ctx context.Context, tournamentID string, opts RunOptions) (*datasource.Snapshot, error) {
	field, course, err := s.stats.FetchField(ctx, tournamentID)
	if err != nil {
		metrics.RecordProviderError("stats")
		return nil, fmt.Errorf("failed to fetch field: %w", err)
	}
	if field.Size() < 2 {
		return nil, fmt.Errorf("field too small to score: %d players: %w", field.Size(), models.ErrInsufficientSample)
	}
	if course != nil {
		if err := s.repos.Courses.Upsert(ctx, course); err != nil {
			return nil, fmt.Errorf("failed to save course profile: %w", err)
		}
	}

	rounds, err := s.stats.FetchRounds(ctx, field.Keys())
	if err != nil {
		metrics.RecordProviderError("stats")
		return nil, fmt.Errorf("failed to fetch rounds: %w", err)
	}

	external, err := s.stats.FetchExternalData(ctx, tournamentID)
	if err != nil {
		// External projections are a blend input, not a hard dependency.
		metrics.RecordProviderError("stats")
		s.logger.WithError(err).Warn("Proceeding without external projections")
		external = models.ExternalData{}
	}
	coverage := external.Coverage(field.Keys())
	metrics.ExternalCoverage.Set(coverage)
	if coverage < 0.5 {
		s.logger.WithField("coverage", coverage).Warn("External projection coverage below half the field")
	}

	allQuotes := make([]models.OddsQuote, 0)
	for _, market := range s.markets {
		quotes, err := s.odds.FetchOdds(ctx, tournamentID, market)
		if err != nil {
			metrics.RecordProviderError("odds")
			s.logger.WithError(err).WithField("market", market).Warn("Proceeding without odds for market")
			continue
		}
		allQuotes = append(allQuotes, quotes...)
	}
	allQuotes = s.filterStaleQuotes(allQuotes)
	if len(allQuotes) > 0 {
		if err := s.repos.Odds.UpsertQuotes(ctx, tournamentID, allQuotes); err != nil {
			return nil, fmt.Errorf("failed to save odds: %w", err)
		}
	}

	return &datasource.Snapshot{
		TournamentID: tournamentID,
		Field:        field,
		Course:       course,
		Rounds:       rounds,
		External:     external,
		Odds:         allQuotes,
		Weather:      opts.Weather,
		FetchedAt:    s.now(),
	}, nil
}

// filterStaleQuotes drops quotes older than the configured freshness
// horizon and reports the worst age seen.
func (s *PredictionService) filterStaleQuotes(quotes []models.OddsQuote) []models.OddsQuote {
	maxAge := time.Duration(s.cfg.DataSources.FreshnessMaxHrs) * time.Hour
	now := s.now()

	var oldest time.Duration
	kept := quotes[:0]
	for _, q := range quotes {
		age := now.Sub(q.FetchedAt)
		if maxAge > 0 && age > maxAge {
			s.logger.WithFields(logrus.Fields{
				"player": q.PlayerKey,
				"book":   q.Book,
				"age":    age.String(),
			}).Warn("Dropping stale odds quote")
			continue
		}
		if age > oldest {
			oldest = age
		}
		kept = append(kept, q)
	}
	metrics.OddsAgeHours.Set(oldest.Hours())
	return kept
}

// persistAndLoadRounds upserts the fetched rounds then reads the full
// history back. The store usually holds deeper history than one fetch.
func (s *PredictionService) persistAndLoadRounds(ctx context.Context, snapshot *datasource.Snapshot) (map[string][]models.HistoricalRound, error) {
	inserted, err := s.repos.Rounds.BulkUpsert(ctx, snapshot.Rounds)
	if err != nil {
		return nil, fmt.Errorf("failed to save rounds: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"fetched":  len(snapshot.Rounds),
		"inserted": inserted,
	}).Debug("Rounds persisted")

	roundsByPlayer, err := s.repos.Rounds.GetByPlayers(ctx, snapshot.Field.Keys())
	if err != nil {
		return nil, fmt.Errorf("failed to load round history: %w", err)
	}
	return roundsByPlayer, nil
}

// scoreField runs the three sub-scorers over every player and ranks
// the composite results.
func (s *PredictionService) scoreField(snapshot *datasource.Snapshot, roundsByPlayer map[string][]models.HistoricalRound, opts RunOptions) *models.PredictionRun {
	agg := stats.NewAggregator(s.cfg.Model.Windows, s.cfg.Model.CourseDecayHalfLifeDays)
	asOf := snapshot.FetchedAt

	byCategory := make(map[models.SGCategory]map[stats.Window]*stats.WindowResult, len(scoredCategories))
	for _, cat := range scoredCategories {
		byCategory[cat] = agg.Compute(roundsByPlayer, cat)
	}

	courseID := snapshot.Field.CourseID
	var relatedCourses []string
	if snapshot.Course != nil {
		relatedCourses = snapshot.Course.RelatedCourses
	}
	courseResults := make(map[models.SGCategory]*stats.WindowResult, len(scoredCategories)+1)
	for _, cat := range scoredCategories {
		if r := agg.ComputeCourseFamily(roundsByPlayer, courseID, relatedCourses, cat, asOf); r != nil {
			courseResults[cat] = r
		}
	}
	if snapshot.Course != nil {
		if r := stats.ComputeParEfficiency(roundsByPlayer, courseID, snapshot.Course.Par); r != nil {
			courseResults[stats.ParEfficiency] = r
		}
	}

	lastPlayed := make(map[string]time.Time, len(roundsByPlayer))
	for key, rounds := range roundsByPlayer {
		if t, ok := stats.LastPlayed(rounds, courseID); ok {
			lastPlayed[key] = t
		}
	}

	fitInputs := &scoring.CourseFitInputs{
		Profile:    snapshot.Course,
		Results:    courseResults,
		LastPlayed: lastPlayed,
		External:   snapshot.External,
		AsOf:       asOf,
	}
	formInputs := &scoring.FormInputs{
		ByCategory: byCategory,
		External:   snapshot.External,
	}

	fitScorer := scoring.NewCourseFitScorer(s.cfg.Model.CourseFit, s.cfg.Model.PuttShrinkage)
	formScorer := scoring.NewFormScorer(s.cfg.Model.Form)
	weather := scoring.NewWeatherAdjuster(s.cfg.Weather)
	composite := scoring.NewCompositeScorer(s.cfg.Model.Composite, s.cfg.Annotator.AdjustmentCap)

	// Momentum is scored field-at-once: each player's trend is measured
	// against the strongest mover in this field.
	momentumByPlayer := scoring.NewMomentumScorer().ScoreField(byCategory[models.SGTotal])

	scores := make([]models.PlayerScore, 0, snapshot.Field.Size())
	for _, player := range snapshot.Field.Players {
		momentum, ok := momentumByPlayer[player.Key]
		if !ok {
			momentum = scoring.MomentumResult{Trend: models.TrendUnknown}
		}
		in := scoring.PlayerInputs{
			CourseFit: fitScorer.Score(player.Key, fitInputs),
			Form:      formScorer.Score(player.Key, formInputs),
			Momentum:  momentum,
		}

		var annotatorAdj float64
		if s.cfg.Annotator.Enabled {
			if raw, ok := opts.Annotations[player.Key]; ok {
				annotatorAdj = raw
				applied := scoring.Clamp(raw, -s.cfg.Annotator.AdjustmentCap, s.cfg.Annotator.AdjustmentCap)
				s.plog.LogAnnotatorAdjustment(player.Key, raw, applied)
			}
		}
		weatherAdj := weather.Adjustment(player.Key, snapshot.Weather)

		scores = append(scores, composite.Compose(player, in, annotatorAdj, weatherAdj))
	}
	scoring.RankScores(scores)

	return &models.PredictionRun{
		ID:           repository.NewID(),
		TournamentID: snapshot.TournamentID,
		CourseID:     courseID,
		FieldSize:    snapshot.Field.Size(),
		CreatedAt:    asOf,
		Scores:       scores,
	}
}

// marketStates loads the persisted adaptation posture, falling back to
// the default posture for markets with no history yet.
func (s *PredictionService) marketStates(ctx context.Context) (map[models.Market]adaptation.MarketState, error) {
	states, err := s.repos.States.GetStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load market states: %w", err)
	}
	for _, market := range s.markets {
		if _, ok := states[market]; !ok {
			states[market] = s.engine.Default(market)
		}
	}
	return states, nil
}

func quotesForMarket(quotes []models.OddsQuote, market models.Market) []models.OddsQuote {
	out := make([]models.OddsQuote, 0, len(quotes))
	for _, q := range quotes {
		if q.Market == market {
			out = append(out, q)
		}
	}
	return out
}

// stateOrdinal maps an adaptation state onto the metrics gauge scale
func stateOrdinal(state adaptation.State) int {
	switch state {
	case adaptation.StateCaution:
		return 1
	case adaptation.StateCold:
		return 2
	case adaptation.StateFrozen:
		return 3
	default:
		return 0
	}
}
