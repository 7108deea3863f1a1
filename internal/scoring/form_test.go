package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fairway-edge/internal/config"
	"github.com/yourusername/fairway-edge/internal/models"
	"github.com/yourusername/fairway-edge/internal/stats"
)

func defaultFormWeights() config.FormWeights {
	return config.FormWeights{
		Simulation:  0.25,
		Recent:      0.25,
		Baseline:    0.15,
		Breakdown:   0.15,
		SkillRating: 0.15,
		GlobalRank:  0.05,
	}
}

// formWindows builds sg_total results across the standard windows with
// "p" at the given rank in a 50-player field, with full round counts
func formWindows(rank int) map[stats.Window]*stats.WindowResult {
	out := make(map[stats.Window]*stats.WindowResult)
	for _, size := range []int{8, 12, 16, 24, 0} {
		w := stats.Window{Size: size}
		ranks := map[string]int{"p": rank}
		rounds := map[string]int{"p": size}
		if size == 0 {
			rounds["p"] = 120
		}
		next := 1
		for len(ranks) < 50 {
			if next == rank {
				next++
			}
			ranks["other_"+string(rune('a'+len(ranks)%26))+string(rune('a'+len(ranks)/26))] = next
			rounds["other"] = 50
			next++
		}
		out[w] = &stats.WindowResult{Window: w, Category: models.SGTotal, Ranks: ranks, Rounds: rounds}
	}
	return out
}

func TestFormNoDataReturnsNil(t *testing.T) {
	s := NewFormScorer(defaultFormWeights())
	got := s.Score("p", &FormInputs{
		ByCategory: map[models.SGCategory]map[stats.Window]*stats.WindowResult{},
		External:   models.ExternalData{},
	})
	assert.Nil(t, got)
}

func TestFormTopRankedPlayerScoresHigh(t *testing.T) {
	s := NewFormScorer(defaultFormWeights())
	got := s.Score("p", &FormInputs{
		ByCategory: map[models.SGCategory]map[stats.Window]*stats.WindowResult{
			models.SGTotal: formWindows(1),
		},
		External: models.ExternalData{},
	})

	require.NotNil(t, got)
	assert.Greater(t, got.Score, 60.0)
	assert.Contains(t, got.Components, "recent")
	assert.Contains(t, got.Components, "baseline")
}

func TestFormSimulationProbabilitiesLiftScore(t *testing.T) {
	s := NewFormScorer(defaultFormWeights())
	base := &FormInputs{
		ByCategory: map[models.SGCategory]map[stats.Window]*stats.WindowResult{
			models.SGTotal: formWindows(25),
		},
		External: models.ExternalData{},
	}
	withSim := &FormInputs{
		ByCategory: base.ByCategory,
		External: models.ExternalData{
			"p": {Probabilities: map[models.Market]float64{
				models.MarketOutright: 0.12,
				models.MarketTop10:    0.45,
				models.MarketTop20:    0.62,
				models.MarketMakeCut:  0.95,
			}},
		},
	}

	without := s.Score("p", base)
	with := s.Score("p", withSim)
	require.NotNil(t, without)
	require.NotNil(t, with)
	assert.Greater(t, with.Score, without.Score)
	assert.Contains(t, with.Components, "simulation")
}

func TestSimulationScorePercentAutodetect(t *testing.T) {
	asFraction := models.ExternalData{
		"p": {Probabilities: map[models.Market]float64{models.MarketOutright: 0.10}},
	}
	asPercent := models.ExternalData{
		"p": {Probabilities: map[models.Market]float64{models.MarketOutright: 10.0}},
	}

	fromFraction, ok := simulationScore("p", asFraction)
	require.True(t, ok)
	fromPercent, ok := simulationScore("p", asPercent)
	require.True(t, ok)
	assert.InDelta(t, fromFraction, fromPercent, 1e-9)
	// 50 + 0.10*300
	assert.InDelta(t, 80.0, fromFraction, 1e-9)
}

func TestSimulationScoreClampsExtremeProbabilities(t *testing.T) {
	got, ok := simulationScore("p", models.ExternalData{
		"p": {Probabilities: map[models.Market]float64{models.MarketOutright: 0.50}},
	})
	require.True(t, ok)
	assert.InDelta(t, 100.0, got, 1e-9)
}

func TestFormMissingComponentsLowerConfidence(t *testing.T) {
	s := NewFormScorer(defaultFormWeights())
	skill := 85.0
	global := 90.0

	full := s.Score("p", &FormInputs{
		ByCategory: map[models.SGCategory]map[stats.Window]*stats.WindowResult{
			models.SGTotal: formWindows(1),
		},
		External: models.ExternalData{
			"p": {
				Probabilities:         map[models.Market]float64{models.MarketOutright: 0.1},
				SkillRatingPercentile: &skill,
				GlobalRankPercentile:  &global,
			},
		},
	})
	partial := s.Score("p", &FormInputs{
		ByCategory: map[models.SGCategory]map[stats.Window]*stats.WindowResult{
			models.SGTotal: formWindows(1),
		},
		External: models.ExternalData{},
	})

	require.NotNil(t, full)
	require.NotNil(t, partial)
	assert.Greater(t, full.Confidence, partial.Confidence)
}

func TestFormUncoveredPlayerCountsExternalTermsAgainstConfidence(t *testing.T) {
	s := NewFormScorer(defaultFormWeights())
	got := s.Score("p", &FormInputs{
		ByCategory: map[models.SGCategory]map[stats.Window]*stats.WindowResult{
			models.SGTotal: formWindows(5),
		},
		External: models.ExternalData{},
	})

	require.NotNil(t, got)
	// Only recent, baseline and breakdown have data; the simulation,
	// skill-rating and global-rank weights all count against coverage.
	assert.InDelta(t, 0.55, got.Confidence, 1e-9)
	assert.NotContains(t, got.Components, "skill_rating")
	assert.NotContains(t, got.Components, "global_rank")
}

func TestFormBreakdownUsesShortestWindowWithData(t *testing.T) {
	s := NewFormScorer(defaultFormWeights())
	byCat := map[models.SGCategory]map[stats.Window]*stats.WindowResult{
		models.SGTotal:     formWindows(10),
		models.SGApproach:  formWindows(1),
		models.SGOffTheTee: formWindows(1),
	}
	got := s.Score("p", &FormInputs{ByCategory: byCat, External: models.ExternalData{}})

	require.NotNil(t, got)
	require.Contains(t, got.Components, "breakdown")
	// Approach and off-the-tee rank 1 dominate the breakdown weights.
	assert.Greater(t, got.Components["breakdown"], got.Components["recent"])
}
