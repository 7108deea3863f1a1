package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yourusername/fairway-edge/internal/adaptation"
	"github.com/yourusername/fairway-edge/internal/config"
	"github.com/yourusername/fairway-edge/internal/models"
	"github.com/yourusername/fairway-edge/internal/probability"
	"github.com/yourusername/fairway-edge/internal/repository"
)

// fakeStats serves canned provider responses
type fakeStats struct {
	field    *models.Field
	course   *models.CourseProfile
	rounds   []models.HistoricalRound
	external models.ExternalData
	results  []models.FinishResult
}

func (f *fakeStats) FetchField(ctx context.Context, tournamentID string) (*models.Field, *models.CourseProfile, error) {
	return f.field, f.course, nil
}

func (f *fakeStats) FetchRounds(ctx context.Context, playerKeys []string) ([]models.HistoricalRound, error) {
	return f.rounds, nil
}

func (f *fakeStats) FetchExternalData(ctx context.Context, tournamentID string) (models.ExternalData, error) {
	return f.external, nil
}

func (f *fakeStats) FetchResults(ctx context.Context, tournamentID string) ([]models.FinishResult, error) {
	return f.results, nil
}

type fakeOdds struct {
	quotes map[models.Market][]models.OddsQuote
}

func (f *fakeOdds) FetchOdds(ctx context.Context, tournamentID string, market models.Market) ([]models.OddsQuote, error) {
	return f.quotes[market], nil
}

// memStore implements every repository interface in memory, with the
// same upsert-on-natural-key semantics as the real repositories.
type memStore struct {
	rounds   map[string]models.HistoricalRound
	courses  map[string]*models.CourseProfile
	runs     []*models.PredictionRun
	bets     map[string]models.ValueBet
	quotes   map[string]models.OddsQuote
	results  map[string][]models.FinishResult
	settled  map[string]models.SettledBet
	perfs    map[string]*models.MarketPerformance
	states   map[models.Market]adaptation.MarketState
	buckets  []probability.BucketStats
	saveRuns int
}

func newMemStore() *memStore {
	return &memStore{
		rounds:  make(map[string]models.HistoricalRound),
		courses: make(map[string]*models.CourseProfile),
		bets:    make(map[string]models.ValueBet),
		quotes:  make(map[string]models.OddsQuote),
		results: make(map[string][]models.FinishResult),
		settled: make(map[string]models.SettledBet),
		perfs:   make(map[string]*models.MarketPerformance),
		states:  make(map[models.Market]adaptation.MarketState),
	}
}

func memRepos(store *memStore) *repository.Repositories {
	return &repository.Repositories{
		Rounds:      store,
		Courses:     store,
		Predictions: store,
		Odds:        store,
		Results:     store,
		Performance: store,
		States:      store,
		Calibration: store,
	}
}

func betKey(tournamentID, playerKey string, market models.Market) string {
	return fmt.Sprintf("%s|%s|%s", tournamentID, playerKey, market)
}

func (m *memStore) BulkUpsert(ctx context.Context, rounds []models.HistoricalRound) (int, error) {
	inserted := 0
	for _, r := range rounds {
		key := fmt.Sprintf("%s|%s|%s|%s", r.PlayerKey, r.Date.Format("2006-01-02"), r.CourseID, r.EventName)
		if _, ok := m.rounds[key]; !ok {
			inserted++
		}
		m.rounds[key] = r
	}
	return inserted, nil
}

func (m *memStore) GetByPlayers(ctx context.Context, playerKeys []string) (map[string][]models.HistoricalRound, error) {
	want := make(map[string]bool, len(playerKeys))
	for _, k := range playerKeys {
		want[k] = true
	}
	out := make(map[string][]models.HistoricalRound)
	for _, r := range m.rounds {
		if want[r.PlayerKey] {
			out[r.PlayerKey] = append(out[r.PlayerKey], r)
		}
	}
	for k := range out {
		rounds := out[k]
		sort.Slice(rounds, func(i, j int) bool { return rounds[i].Date.After(rounds[j].Date) })
		out[k] = rounds
	}
	return out, nil
}

func (m *memStore) Upsert(ctx context.Context, profile *models.CourseProfile) error {
	m.courses[profile.CourseID] = profile
	return nil
}

func (m *memStore) GetByID(ctx context.Context, courseID string) (*models.CourseProfile, error) {
	p, ok := m.courses[courseID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return p, nil
}

func (m *memStore) SaveRun(ctx context.Context, run *models.PredictionRun) error {
	m.runs = append(m.runs, run)
	m.saveRuns++
	return nil
}

func (m *memStore) GetLatestRun(ctx context.Context, tournamentID string) (*models.PredictionRun, error) {
	for i := len(m.runs) - 1; i >= 0; i-- {
		if m.runs[i].TournamentID == tournamentID {
			return m.runs[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) SaveValueBets(ctx context.Context, bets []models.ValueBet) error {
	for _, b := range bets {
		m.bets[betKey(b.TournamentID, b.PlayerKey, b.Market)] = b
	}
	return nil
}

func (m *memStore) GetValueBets(ctx context.Context, tournamentID string) ([]models.ValueBet, error) {
	out := make([]models.ValueBet, 0)
	for _, b := range m.bets {
		if b.TournamentID == tournamentID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EV > out[j].EV })
	return out, nil
}

func (m *memStore) UpsertQuotes(ctx context.Context, tournamentID string, quotes []models.OddsQuote) error {
	for _, q := range quotes {
		key := fmt.Sprintf("%s|%s|%s|%s", tournamentID, q.PlayerKey, q.Market, q.Book)
		m.quotes[key] = q
	}
	return nil
}

func (m *memStore) GetQuotes(ctx context.Context, tournamentID string) ([]models.OddsQuote, error) {
	out := make([]models.OddsQuote, 0)
	for _, q := range m.quotes {
		out = append(out, q)
	}
	return out, nil
}

func (m *memStore) UpsertResults(ctx context.Context, tournamentID string, results []models.FinishResult) error {
	m.results[tournamentID] = results
	return nil
}

func (m *memStore) GetResults(ctx context.Context, tournamentID string) ([]models.FinishResult, error) {
	return m.results[tournamentID], nil
}

func (m *memStore) UpsertSettledBet(ctx context.Context, bet *models.SettledBet) error {
	m.settled[betKey(bet.TournamentID, bet.PlayerKey, bet.Market)] = *bet
	return nil
}

func (m *memStore) GetRecentSettled(ctx context.Context, market models.Market, limit int) ([]models.SettledBet, error) {
	out := make([]models.SettledBet, 0)
	for _, b := range m.settled {
		if b.Market == market {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SettledAt.Before(out[j].SettledAt) })
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *memStore) UpsertPerformance(ctx context.Context, perf *models.MarketPerformance) error {
	m.perfs[fmt.Sprintf("%s|%s", perf.Market, perf.TournamentID)] = perf
	return nil
}

func (m *memStore) GetPerformance(ctx context.Context, market models.Market, tournamentID string) (*models.MarketPerformance, error) {
	p, ok := m.perfs[fmt.Sprintf("%s|%s", market, tournamentID)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return p, nil
}

func (m *memStore) SaveState(ctx context.Context, state *adaptation.MarketState) error {
	m.states[state.Market] = *state
	return nil
}

func (m *memStore) GetStates(ctx context.Context) (map[models.Market]adaptation.MarketState, error) {
	out := make(map[models.Market]adaptation.MarketState, len(m.states))
	for k, v := range m.states {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) SaveBuckets(ctx context.Context, buckets []probability.BucketStats) error {
	m.buckets = buckets
	return nil
}

func (m *memStore) LoadBuckets(ctx context.Context) ([]probability.BucketStats, error) {
	return m.buckets, nil
}

// testConfig mirrors the shipped defaults with a two-market slate
func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "fairway-edge", Environment: "development", LogLevel: "error"},
		DataSources: config.DataSourcesConfig{
			FreshnessMaxHrs: 48,
		},
		Model: config.ModelConfig{
			Composite: config.CompositeWeights{
				CourseFit: 0.40, Form: 0.40, Momentum: 0.20, CourseFitToForm: 0.70,
			},
			CourseFit: config.CourseFitWeights{
				SGTotal: 0.30, SGApproach: 0.25, SGOffTheTee: 0.20, SGPutting: 0.15,
				ParEfficiency: 0.10, ExternalPercentileCap: 0.60,
				SkillRatingWeight: 0.15, ApproachSkillWeight: 0.12,
			},
			Form: config.FormWeights{
				Simulation: 0.25, Recent: 0.25, Baseline: 0.15, Breakdown: 0.15,
				SkillRating: 0.15, GlobalRank: 0.05,
			},
			Windows:                 []int{8, 12, 16, 24},
			CourseDecayHalfLifeDays: 365,
			PuttShrinkage:           0.5,
		},
		Betting: config.BettingConfig{
			Markets:          []string{"outright", "top5"},
			EVSanityCeiling:  2.0,
			MinMarketProb:    0.005,
			ProbRatioFloor:   0.1,
			ProbRatioCeiling: 10,
			KellyFraction:    0.5,
			MaxStakeFraction: 0.05,
		},
		Adaptation: config.AdaptationConfig{
			WindowSize:          20,
			MinSample:           15,
			EmergencyLossStreak: 10,
			RecoveryWins:        2,
			RecoveryWindow:      5,
			ROICautionPct:       -20,
			ROIColdPct:          -40,
			ThresholdNormal:     0.05,
			ThresholdCaution:    0.08,
			ThresholdCold:       0.12,
			ColdStakeMultiplier: 0.5,
		},
		Annotator: config.AnnotatorConfig{AdjustmentCap: 3, MinEvalSample: 30, HarmMarginPct: 10},
	}
}

// testField builds a field whose players have cleanly graded histories,
// best to worst.
func testField(tournamentID, courseID string, size int) (*models.Field, []models.HistoricalRound) {
	field := &models.Field{TournamentID: tournamentID, CourseID: courseID}
	rounds := make([]models.HistoricalRound, 0, size*24)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < size; i++ {
		key := fmt.Sprintf("player%02d", i)
		field.Players = append(field.Players, models.Player{
			Key:         key,
			DisplayName: fmt.Sprintf("Player %02d", i),
		})

		sg := 2.0 - 0.3*float64(i)
		for w := 0; w < 24; w++ {
			cid := "other-course"
			if w%4 == 0 {
				cid = courseID
			}
			total := sg
			putt := sg / 4
			app := sg / 3
			ott := sg / 4
			arg := sg / 6
			score := 71 - int(sg)
			rounds = append(rounds, models.HistoricalRound{
				PlayerKey: key,
				Date:      base.AddDate(0, 0, -7*w),
				CourseID:  cid,
				EventName: fmt.Sprintf("event-%d", w),
				SGTotal:   &total,
				SGOTT:     &ott,
				SGApp:     &app,
				SGARG:     &arg,
				SGPutt:    &putt,
				Score:     &score,
			})
		}
	}
	return field, rounds
}
