package scoring

import (
	"math"
	"sort"

	"github.com/yourusername/fairway-edge/internal/config"
	"github.com/yourusername/fairway-edge/internal/models"
	"github.com/yourusername/fairway-edge/internal/stats"
)

// recentWindowCeiling splits the configured windows into recent form
// (at or below) and baseline class (above, plus career).
const recentWindowCeiling = 20

// minRoundsForWindowConfidence is the sample size at which a single
// window's rank score is fully trusted
const minRoundsForWindowConfidence = 8.0

// simulation market scales convert a probability into score points above
// neutral. A 10% win probability is a far stronger signal than a 10%
// made-cut probability, so the scales differ by an order of magnitude.
var simScales = []struct {
	market models.Market
	scale  float64
	weight float64
}{
	{models.MarketOutright, 300, 0.30},
	{models.MarketTop10, 120, 0.30},
	{models.MarketTop20, 80, 0.25},
	{models.MarketMakeCut, 60, 0.15},
}

// breakdownWeights weight the per-category rank scores inside the recent
// strokes-gained breakdown component
var breakdownWeights = map[models.SGCategory]float64{
	models.SGTotal:     0.22,
	models.SGApproach:  0.28,
	models.SGOffTheTee: 0.30,
	models.SGPutting:   0.10,
	models.SGAroundGrn: 0.10,
}

// FormInputs bundles the windowed aggregates and external signals form
// scoring consumes. ByCategory must carry models.SGTotal; the other
// categories feed the breakdown component when present.
type FormInputs struct {
	ByCategory map[models.SGCategory]map[stats.Window]*stats.WindowResult
	External   models.ExternalData
}

// FormScorer measures how well a player is striking it right now,
// independent of venue
type FormScorer struct {
	weights config.FormWeights
}

func NewFormScorer(weights config.FormWeights) *FormScorer {
	return &FormScorer{weights: weights}
}

// Score computes a player's current-form sub-score. Components that have
// no data drop out and the remaining weights renormalize; a player with
// nothing at all gets nil.
func (s *FormScorer) Score(playerKey string, in *FormInputs) *models.SubScore {
	components := make(map[string]float64)

	type term struct {
		name   string
		weight float64
		score  float64
		ok     bool
	}
	terms := []term{}
	add := func(name string, weight float64, score float64, ok bool) {
		terms = append(terms, term{name, weight, score, ok})
	}

	simScore, simOK := simulationScore(playerKey, in.External)
	add("simulation", s.weights.Simulation, simScore, simOK)

	recentScore, recentOK := s.recentScore(playerKey, in)
	add("recent", s.weights.Recent, recentScore, recentOK)

	baseScore, baseOK := s.baselineScore(playerKey, in)
	add("baseline", s.weights.Baseline, baseScore, baseOK)

	bdScore, bdOK := s.breakdownScore(playerKey, in)
	add("breakdown", s.weights.Breakdown, bdScore, bdOK)

	var skillScore, rankScore float64
	var skillOK, rankOK bool
	if pd, ok := in.External[playerKey]; ok {
		if pd.SkillRatingPercentile != nil {
			skillScore, skillOK = *pd.SkillRatingPercentile, true
		}
		if pd.GlobalRankPercentile != nil {
			rankScore, rankOK = *pd.GlobalRankPercentile, true
		}
	}
	add("skill_rating", s.weights.SkillRating, skillScore, skillOK)
	add("global_rank", s.weights.GlobalRank, rankScore, rankOK)

	var sum, weightSum, totalWeight float64
	for _, t := range terms {
		totalWeight += t.weight
		if !t.ok || t.weight <= 0 {
			continue
		}
		components[t.name] = t.score
		sum += t.weight * t.score
		weightSum += t.weight
	}
	if weightSum == 0 {
		return nil
	}

	raw := sum / weightSum
	// Confidence tracks how much of the configured signal actually had
	// data behind it.
	confidence := weightSum / totalWeight

	return &models.SubScore{
		Score:      Clamp(ShrinkToNeutral(raw, confidence), 0, 100),
		Confidence: confidence,
		Components: components,
	}
}

// simulationScore folds the external per-market probabilities into a
// single form signal. Sources disagree on percent versus fraction, so
// anything above 1 is treated as a percentage.
func simulationScore(playerKey string, ext models.ExternalData) (float64, bool) {
	pd, ok := ext[playerKey]
	if !ok || len(pd.Probabilities) == 0 {
		return 0, false
	}
	var sum, weightSum float64
	for _, ms := range simScales {
		p, ok := pd.Probabilities[ms.market]
		if !ok {
			continue
		}
		if p > 1 {
			p /= 100
		}
		sum += ms.weight * Clamp(Neutral+p*ms.scale, 0, 100)
		weightSum += ms.weight
	}
	if weightSum == 0 {
		return 0, false
	}
	return sum / weightSum, true
}

// recentScore averages the short-window sg_total rank scores, weighting
// the shortest window heaviest and shrinking each window by how many
// rounds the player actually has in it
func (s *FormScorer) recentScore(playerKey string, in *FormInputs) (float64, bool) {
	windows := s.sortedWindows(in, func(w stats.Window) bool {
		return !w.IsAll() && w.Size <= recentWindowCeiling
	})
	if len(windows) == 0 {
		return 0, false
	}

	n := len(windows)
	denom := float64(n*(n+1)) / 2
	var sum, weightSum float64
	for i, w := range windows {
		result := in.ByCategory[models.SGTotal][w]
		rank, ok := result.Rank(playerKey)
		if !ok {
			continue
		}
		roundsHave := result.Rounds[playerKey]
		sampleRef := math.Min(float64(w.Size), float64(roundsHave))
		conf := math.Min(1, sampleRef/minRoundsForWindowConfidence)
		score := ShrinkToNeutral(stats.RankToScore(rank, result.FieldSize()), conf)

		weight := float64(n-i) / denom
		sum += weight * score
		weightSum += weight
	}
	if weightSum == 0 {
		return 0, false
	}
	return sum / weightSum, true
}

// baselineScore averages the long-window and career sg_total rank scores
// to anchor form against the player's underlying class
func (s *FormScorer) baselineScore(playerKey string, in *FormInputs) (float64, bool) {
	windows := s.sortedWindows(in, func(w stats.Window) bool {
		return w.IsAll() || w.Size > recentWindowCeiling
	})
	var sum float64
	n := 0
	for _, w := range windows {
		result := in.ByCategory[models.SGTotal][w]
		rank, ok := result.Rank(playerKey)
		if !ok {
			continue
		}
		sum += stats.RankToScore(rank, result.FieldSize())
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// breakdownScore looks inside the shortest recent window with data and
// weights the individual strokes-gained categories, rewarding players
// whose form is driven by ball striking rather than a putting heater
func (s *FormScorer) breakdownScore(playerKey string, in *FormInputs) (float64, bool) {
	windows := s.sortedWindows(in, func(w stats.Window) bool {
		return !w.IsAll() && w.Size <= recentWindowCeiling
	})

	for _, w := range windows {
		var sum, weightSum float64
		for cat, weight := range breakdownWeights {
			byWindow, ok := in.ByCategory[cat]
			if !ok {
				continue
			}
			result, ok := byWindow[w]
			if !ok || result == nil {
				continue
			}
			rank, ok := result.Rank(playerKey)
			if !ok {
				continue
			}
			sum += weight * stats.RankToScore(rank, result.FieldSize())
			weightSum += weight
		}
		if weightSum > 0 {
			return sum / weightSum, true
		}
	}
	return 0, false
}

// sortedWindows returns the sg_total windows matching the filter,
// smallest first with the career window last
func (s *FormScorer) sortedWindows(in *FormInputs, keep func(stats.Window) bool) []stats.Window {
	byWindow, ok := in.ByCategory[models.SGTotal]
	if !ok {
		return nil
	}
	windows := make([]stats.Window, 0, len(byWindow))
	for w, result := range byWindow {
		if result == nil || !keep(w) {
			continue
		}
		windows = append(windows, w)
	}
	sort.Slice(windows, func(i, j int) bool {
		if windows[i].IsAll() != windows[j].IsAll() {
			return windows[j].IsAll()
		}
		return windows[i].Size < windows[j].Size
	})
	return windows
}
