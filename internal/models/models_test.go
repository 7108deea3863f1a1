package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarket(t *testing.T) {
	tests := []struct {
		in   string
		want Market
	}{
		{"outright", MarketOutright},
		{"win", MarketOutright},
		{"top5", MarketTop5},
		{"top_5", MarketTop5},
		{"top10", MarketTop10},
		{"top20", MarketTop20},
		{"make_cut", MarketMakeCut},
		{"frl", MarketFRL},
		{"first_round_leader", MarketFRL},
		{"matchup", MarketMatchup},
	}
	for _, tt := range tests {
		got, err := ParseMarket(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseMarket("exacta")
	assert.ErrorIs(t, err, ErrUnknownMarket)
}

func TestMarketParamsCoverEveryMarket(t *testing.T) {
	for _, m := range AllMarkets() {
		params, err := m.Params()
		require.NoError(t, err, m)
		assert.Greater(t, params.Temperature, 0.0)
		assert.Greater(t, params.TargetSum(156), 0.0)
		assert.Greater(t, params.OddsCeiling, 0)
	}
}

func TestAmericanToDecimal(t *testing.T) {
	assert.InDelta(t, 6.0, AmericanToDecimal(500), 1e-9)
	assert.InDelta(t, 1.6667, AmericanToDecimal(-150), 1e-4)
	assert.InDelta(t, 2.0, AmericanToDecimal(100), 1e-9)
	assert.Zero(t, AmericanToDecimal(0))
}

func TestAmericanToImpliedProb(t *testing.T) {
	assert.InDelta(t, 100.0/600.0, AmericanToImpliedProb(500), 1e-9)
	assert.InDelta(t, 150.0/250.0, AmericanToImpliedProb(-150), 1e-9)
	assert.Zero(t, AmericanToImpliedProb(0))
}

func TestOddsQuoteIsValid(t *testing.T) {
	q := OddsQuote{Market: MarketOutright, Price: 350}
	assert.True(t, q.IsValid())

	q.Price = 0
	assert.False(t, q.IsValid(), "zero price is a sentinel for missing data")

	q.Price = 60000
	assert.False(t, q.IsValid(), "global longshot bound")

	q.Price = -20000
	assert.False(t, q.IsValid(), "global favorite bound")

	// Market ceilings tighten the global bound.
	q = OddsQuote{Market: MarketTop5, Price: 8000}
	assert.False(t, q.IsValid())
	q.Market = MarketOutright
	assert.True(t, q.IsValid())
}

func TestBestQuotePicksHighestPayout(t *testing.T) {
	quotes := []OddsQuote{
		{Market: MarketOutright, Book: "draftkings", Price: 400},
		{Market: MarketOutright, Book: "fanduel", Price: 650},
		{Market: MarketOutright, Book: "betmgm", Price: 60000}, // invalid
	}
	best := BestQuote(quotes)
	require.NotNil(t, best)
	assert.Equal(t, "fanduel", best.Book)

	assert.Nil(t, BestQuote(nil))
}

func TestParseFinish(t *testing.T) {
	res := ParseFinish("T14")
	require.NotNil(t, res.Position)
	assert.Equal(t, 14, *res.Position)
	assert.True(t, res.Tied())
	assert.True(t, res.MadeCut)
	assert.Equal(t, FinishCompleted, res.Status)

	res = ParseFinish("1")
	require.NotNil(t, res.Position)
	assert.Equal(t, 1, *res.Position)
	assert.False(t, res.Tied())

	res = ParseFinish("CUT")
	assert.Nil(t, res.Position)
	assert.Equal(t, FinishMissedCut, res.Status)
	assert.False(t, res.MadeCut)

	res = ParseFinish("W/D")
	assert.Equal(t, FinishWithdrawn, res.Status)

	res = ParseFinish("DQ")
	assert.Equal(t, FinishDisqualified, res.Status)
}

func TestCountTiedAt(t *testing.T) {
	pos := func(p int) *int { return &p }
	results := []FinishResult{
		{PlayerKey: "a", Position: pos(1), FinishText: "1"},
		{PlayerKey: "b", Position: pos(2), FinishText: "T2"},
		{PlayerKey: "c", Position: pos(2), FinishText: "T2"},
		{PlayerKey: "d", Position: pos(2), FinishText: "T2"},
	}

	assert.Equal(t, 3, CountTiedAt(2, results))
	// An untied position counts as a group of one.
	assert.Equal(t, 1, CountTiedAt(1, results))
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Scottie Scheffler", "scottie scheffler"},
		{"  SCHEFFLER,  Scottie ", "scottie scheffler"},
		{"Ludvig Åberg", "ludvig åberg"},
		{"Matt Fitzpatrick Jr.", "matt fitzpatrick jr"},
		{"Byeong-Hun  An", "byeonghun an"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), tt.in)
	}
}

func TestExternalDataCoverage(t *testing.T) {
	data := ExternalData{
		"a": {Probabilities: map[Market]float64{MarketOutright: 0.2}},
		"b": {}, // percentiles only, no probabilities
	}
	assert.InDelta(t, 0.5, data.Coverage([]string{"a", "b"}), 1e-9)
	assert.Zero(t, data.Coverage(nil))
}
