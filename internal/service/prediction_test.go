package service

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fairway-edge/internal/models"
	"github.com/yourusername/fairway-edge/internal/probability"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

// outrightExternal spreads external outright probabilities over the
// field with a clear favorite, summing to 1.
func outrightExternal(field *models.Field, favoriteProb float64) models.ExternalData {
	rest := (1 - favoriteProb) / float64(field.Size()-1)
	data := make(models.ExternalData, field.Size())
	for i, p := range field.Players {
		prob := rest
		if i == 0 {
			prob = favoriteProb
		}
		data[p.Key] = models.ExternalPlayerData{
			Probabilities: map[models.Market]float64{models.MarketOutright: prob},
		}
	}
	return data
}

func TestRunPredictionScoresRanksAndFlagsValue(t *testing.T) {
	const tournamentID = "pga-2026-09"
	field, rounds := testField(tournamentID, "tc-oakdale", 10)
	store := newMemStore()
	now := time.Now().UTC()

	stats := &fakeStats{
		field: field,
		course: &models.CourseProfile{
			CourseID:   "tc-oakdale",
			CourseName: "Oakdale CC",
			Par:        71,
			Yardage:    7400,
		},
		rounds:   rounds,
		external: outrightExternal(field, 0.30),
	}
	odds := &fakeOdds{quotes: map[models.Market][]models.OddsQuote{
		models.MarketOutright: {
			{PlayerKey: "player00", Market: models.MarketOutright, Book: "fanduel", Price: 350, FetchedAt: now},
			{PlayerKey: "player00", Market: models.MarketOutright, Book: "draftkings", Price: 200, FetchedAt: now},
		},
	}}

	svc, err := NewPredictionService(stats, odds, memRepos(store), testConfig(), probability.NewCalibrator(), quietLogger())
	require.NoError(t, err)

	result, err := svc.RunPrediction(context.Background(), tournamentID, RunOptions{})
	require.NoError(t, err)

	// The run persists with every player ranked exactly once.
	require.Len(t, store.runs, 1)
	run := store.runs[0]
	assert.Equal(t, tournamentID, run.TournamentID)
	assert.Equal(t, 10, run.FieldSize)
	require.Len(t, run.Scores, 10)
	seen := make(map[int]bool)
	for _, ps := range run.Scores {
		assert.False(t, seen[ps.Rank], "duplicate rank %d", ps.Rank)
		seen[ps.Rank] = true
	}

	// The player with the strongest graded history tops the ranking.
	assert.Equal(t, "player00", run.Scores[0].PlayerKey)
	assert.Equal(t, 1, run.Scores[0].Rank)

	// The external-dominated favorite at +350 is a clear mispricing.
	require.NotEmpty(t, result.Bets)
	bet := result.Bets[0]
	assert.Equal(t, "player00", bet.PlayerKey)
	assert.Equal(t, models.MarketOutright, bet.Market)
	assert.Equal(t, "fanduel", bet.BestBook, "best book pays the higher decimal")
	assert.Equal(t, 350, bet.BestPrice)
	assert.GreaterOrEqual(t, bet.EV, 0.05)
	assert.Less(t, bet.EV, 2.0)
	assert.Greater(t, bet.StakeFraction, 0.0)
	assert.LessOrEqual(t, bet.StakeFraction, 0.05)

	// Quotes and the course profile were persisted along the way.
	assert.Len(t, store.quotes, 2)
	_, ok := store.courses["tc-oakdale"]
	assert.True(t, ok)

	require.NotNil(t, result.Confidence)
	assert.GreaterOrEqual(t, result.Confidence.Score, 0.0)
	assert.LessOrEqual(t, result.Confidence.Score, 1.0)
	assert.Equal(t, 1.0, result.Confidence.Factors["external_cover"])
}

func TestRunPredictionRerunIsIdempotentForBets(t *testing.T) {
	const tournamentID = "pga-2026-09"
	field, rounds := testField(tournamentID, "tc-oakdale", 10)
	store := newMemStore()
	now := time.Now().UTC()

	stats := &fakeStats{
		field:    field,
		course:   &models.CourseProfile{CourseID: "tc-oakdale", Par: 71},
		rounds:   rounds,
		external: outrightExternal(field, 0.30),
	}
	odds := &fakeOdds{quotes: map[models.Market][]models.OddsQuote{
		models.MarketOutright: {
			{PlayerKey: "player00", Market: models.MarketOutright, Book: "fanduel", Price: 350, FetchedAt: now},
		},
	}}

	svc, err := NewPredictionService(stats, odds, memRepos(store), testConfig(), probability.NewCalibrator(), quietLogger())
	require.NoError(t, err)

	first, err := svc.RunPrediction(context.Background(), tournamentID, RunOptions{})
	require.NoError(t, err)
	betsAfterFirst := len(store.bets)
	require.NotZero(t, betsAfterFirst)

	second, err := svc.RunPrediction(context.Background(), tournamentID, RunOptions{})
	require.NoError(t, err)

	// Runs append; bets upsert on their natural key.
	assert.Len(t, store.runs, 2)
	assert.Len(t, store.bets, betsAfterFirst)
	assert.Equal(t, len(first.Bets), len(second.Bets))
}

func TestRunPredictionDropsStaleQuotes(t *testing.T) {
	const tournamentID = "pga-2026-09"
	field, rounds := testField(tournamentID, "tc-oakdale", 10)
	store := newMemStore()

	stats := &fakeStats{
		field:    field,
		course:   &models.CourseProfile{CourseID: "tc-oakdale", Par: 71},
		rounds:   rounds,
		external: outrightExternal(field, 0.30),
	}
	stale := time.Now().UTC().Add(-72 * time.Hour)
	odds := &fakeOdds{quotes: map[models.Market][]models.OddsQuote{
		models.MarketOutright: {
			{PlayerKey: "player00", Market: models.MarketOutright, Book: "fanduel", Price: 350, FetchedAt: stale},
		},
	}}

	svc, err := NewPredictionService(stats, odds, memRepos(store), testConfig(), probability.NewCalibrator(), quietLogger())
	require.NoError(t, err)

	result, err := svc.RunPrediction(context.Background(), tournamentID, RunOptions{})
	require.NoError(t, err)

	// A quote past the freshness horizon never reaches detection.
	assert.Empty(t, result.Bets)
	assert.Empty(t, store.quotes)
}

func TestRunPredictionRejectsTinyField(t *testing.T) {
	store := newMemStore()
	stats := &fakeStats{
		field: &models.Field{TournamentID: "t", CourseID: "c", Players: []models.Player{{Key: "solo"}}},
	}
	odds := &fakeOdds{}

	svc, err := NewPredictionService(stats, odds, memRepos(store), testConfig(), probability.NewCalibrator(), quietLogger())
	require.NoError(t, err)

	_, err = svc.RunPrediction(context.Background(), "t", RunOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInsufficientSample)
	assert.Empty(t, store.runs)
}
