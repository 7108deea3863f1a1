package scoring

import (
	"math"
	"time"

	"github.com/yourusername/fairway-edge/internal/config"
	"github.com/yourusername/fairway-edge/internal/models"
	"github.com/yourusername/fairway-edge/internal/stats"
)

const (
	// courseRoundsForFullConfidence is the course history depth at which
	// the rank signal is trusted outright.
	courseRoundsForFullConfidence = 30.0
	// courseDecayHalfLifeYears halves the confidence in course history for
	// every two years since the player last teed it up there.
	courseDecayHalfLifeYears = 2.0
	// externalOnlyConfidence backs a fit score built purely from the
	// external course-adjusted percentile, with no rounds behind it.
	externalOnlyConfidence = 0.4
)

// CourseFitInputs bundles everything course-fit scoring consumes for one
// field. Results are the recency-decayed course aggregates keyed by
// category, including stats.ParEfficiency.
type CourseFitInputs struct {
	Profile    *models.CourseProfile
	Results    map[models.SGCategory]*stats.WindowResult
	LastPlayed map[string]time.Time
	External   models.ExternalData
	AsOf       time.Time
}

// CourseFitScorer measures historical performance at this week's course,
// weighted by which skills the course actually rewards.
type CourseFitScorer struct {
	weights       config.CourseFitWeights
	puttShrinkage float64
}

// NewCourseFitScorer builds a scorer from the configured category weights.
// puttShrinkage in [0,1] pulls the putting component toward neutral to
// reflect how poorly course putting history predicts future putting.
func NewCourseFitScorer(weights config.CourseFitWeights, puttShrinkage float64) *CourseFitScorer {
	return &CourseFitScorer{weights: weights, puttShrinkage: Clamp(puttShrinkage, 0, 1)}
}

// Score computes a player's course-fit sub-score. It returns nil when the
// player has neither course history nor an external course-adjusted
// percentile, signalling the composite to redistribute the weight.
func (s *CourseFitScorer) Score(playerKey string, in *CourseFitInputs) *models.SubScore {
	components := make(map[string]float64)

	raw, weightSum := s.weightedCategoryScore(playerKey, in, components)
	roundsPlayed := s.courseRounds(playerKey, in)

	if weightSum == 0 || roundsPlayed == 0 {
		return s.externalOnlyScore(playerKey, in)
	}

	confidence := math.Min(1, 0.3+0.7*float64(roundsPlayed)/courseRoundsForFullConfidence)
	if last, ok := in.LastPlayed[playerKey]; ok {
		years := in.AsOf.Sub(last).Hours() / (24 * 365.25)
		if years > 0 {
			confidence *= math.Pow(0.5, years/courseDecayHalfLifeYears)
		}
	}

	score := ShrinkToNeutral(raw, confidence)
	components["history"] = raw
	components["rounds"] = float64(roundsPlayed)

	score = s.blendExternal(score, confidence, playerKey, in.External, components)

	return &models.SubScore{
		Score:      Clamp(score, 0, 100),
		Confidence: confidence,
		Components: components,
	}
}

// weightedCategoryScore combines the per-category course rank scores
// under weights scaled by the course profile's skill demands, renormalized
// over the categories the player actually has data in.
func (s *CourseFitScorer) weightedCategoryScore(playerKey string, in *CourseFitInputs, components map[string]float64) (float64, float64) {
	type term struct {
		cat    models.SGCategory
		weight float64
	}
	terms := []term{
		{models.SGTotal, s.weights.SGTotal},
		{models.SGApproach, s.weights.SGApproach},
		{models.SGOffTheTee, s.weights.SGOffTheTee},
		{models.SGPutting, s.weights.SGPutting},
		{stats.ParEfficiency, s.weights.ParEfficiency},
	}

	var sum, weightSum float64
	for _, t := range terms {
		result, ok := in.Results[t.cat]
		if !ok || result == nil {
			continue
		}
		rank, ranked := result.Rank(playerKey)
		if !ranked {
			continue
		}
		w := t.weight
		if in.Profile != nil {
			w *= in.Profile.CategoryMultiplier(t.cat)
		}
		if w <= 0 {
			continue
		}
		score := stats.RankToScore(rank, result.FieldSize())
		if t.cat == models.SGPutting {
			score = ShrinkToNeutral(score, 1-s.puttShrinkage)
		}
		components[string(t.cat)] = score
		sum += w * score
		weightSum += w
	}
	if weightSum == 0 {
		return Neutral, 0
	}
	return sum / weightSum, weightSum
}

func (s *CourseFitScorer) courseRounds(playerKey string, in *CourseFitInputs) int {
	max := 0
	for _, result := range in.Results {
		if result == nil {
			continue
		}
		if n := result.Rounds[playerKey]; n > max {
			max = n
		}
	}
	return max
}

// blendExternal mixes in the provider percentiles. The course-adjusted
// percentile gets more say the less history backs our own estimate, but
// never more than the configured cap. The skill rating and approach
// percentiles are fixed small blends on top.
func (s *CourseFitScorer) blendExternal(score, confidence float64, playerKey string, ext models.ExternalData, components map[string]float64) float64 {
	pd, ok := ext[playerKey]
	if !ok {
		return score
	}
	if pd.CourseAdjustedPercentile != nil {
		w := 0.3
		if confidence < 0.5 {
			w = 0.7
		}
		if cap := s.weights.ExternalPercentileCap; cap > 0 && w > cap {
			w = cap
		}
		components["external_percentile"] = *pd.CourseAdjustedPercentile
		score = blend(score, *pd.CourseAdjustedPercentile, w)
	}
	if pd.SkillRatingPercentile != nil && s.weights.SkillRatingWeight > 0 {
		components["skill_rating"] = *pd.SkillRatingPercentile
		score = blend(score, *pd.SkillRatingPercentile, s.weights.SkillRatingWeight)
	}
	if pd.ApproachSkillPercentile != nil && s.weights.ApproachSkillWeight > 0 {
		components["approach_skill"] = *pd.ApproachSkillPercentile
		score = blend(score, *pd.ApproachSkillPercentile, s.weights.ApproachSkillWeight)
	}
	return score
}

// externalOnlyScore falls back to the provider's course-adjusted view when
// the player has never recorded a measured round at this course
func (s *CourseFitScorer) externalOnlyScore(playerKey string, in *CourseFitInputs) *models.SubScore {
	pd, ok := in.External[playerKey]
	if !ok || pd.CourseAdjustedPercentile == nil {
		return nil
	}
	raw := *pd.CourseAdjustedPercentile
	return &models.SubScore{
		Score:      Clamp(ShrinkToNeutral(raw, externalOnlyConfidence), 0, 100),
		Confidence: externalOnlyConfidence,
		Components: map[string]float64{"external_percentile": raw},
	}
}
