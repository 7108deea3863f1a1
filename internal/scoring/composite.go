package scoring

import (
	"sort"

	"github.com/yourusername/fairway-edge/internal/config"
	"github.com/yourusername/fairway-edge/internal/models"
)

// PlayerInputs are the sub-scores feeding one player's composite
type PlayerInputs struct {
	CourseFit *models.SubScore
	Form      *models.SubScore
	Momentum  MomentumResult
}

// CompositeScorer combines the sub-scores into the final 0-100 ranking
// score, with bounded qualitative and weather adjustments on top
type CompositeScorer struct {
	weights      config.CompositeWeights
	annotatorCap float64
}

func NewCompositeScorer(weights config.CompositeWeights, annotatorCap float64) *CompositeScorer {
	return &CompositeScorer{weights: weights, annotatorCap: annotatorCap}
}

// Compose builds a player's scored entry. A missing course-fit score
// hands most of its weight to form and the rest to momentum, so debut
// players are judged on current game rather than a venue they have never
// seen. Adjustments are capped before they touch the composite and the
// result always lands in [0,100].
func (s *CompositeScorer) Compose(player models.Player, in PlayerInputs, annotatorAdj, weatherAdj float64) models.PlayerScore {
	wFit, wForm, wMom := s.effectiveWeights(in)

	var composite, weightSum float64
	if in.CourseFit != nil {
		composite += wFit * in.CourseFit.Score
		weightSum += wFit
	}
	if in.Form != nil {
		composite += wForm * in.Form.Score
		weightSum += wForm
	}
	if in.Momentum.SubScore != nil {
		composite += wMom * in.Momentum.SubScore.Score
		weightSum += wMom
	}
	if weightSum > 0 {
		composite /= weightSum
	} else {
		composite = Neutral
	}

	if s.annotatorCap > 0 {
		annotatorAdj = Clamp(annotatorAdj, -s.annotatorCap, s.annotatorCap)
	} else {
		annotatorAdj = 0
	}
	composite = Clamp(composite+annotatorAdj+weatherAdj, 0, 100)

	return models.PlayerScore{
		PlayerKey:     player.Key,
		DisplayName:   player.DisplayName,
		Composite:     composite,
		CourseFit:     in.CourseFit,
		Form:          in.Form,
		Momentum:      in.Momentum.SubScore,
		Trend:         in.Momentum.Trend,
		Adjustment:    annotatorAdj,
		WeatherAdjust: weatherAdj,
	}
}

// effectiveWeights returns the sub-score weights after redistributing a
// missing course-fit weight between form and momentum
func (s *CompositeScorer) effectiveWeights(in PlayerInputs) (wFit, wForm, wMom float64) {
	wFit = s.weights.CourseFit
	wForm = s.weights.Form
	wMom = s.weights.Momentum
	if in.CourseFit == nil {
		toForm := s.weights.CourseFitToForm
		wForm += wFit * toForm
		wMom += wFit * (1 - toForm)
		wFit = 0
	}
	return wFit, wForm, wMom
}

// RankScores sorts scored players by composite descending and assigns
// ranks 1..N. Ties break on player key so reruns over the same inputs
// produce the same board.
func RankScores(scores []models.PlayerScore) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Composite != scores[j].Composite {
			return scores[i].Composite > scores[j].Composite
		}
		return scores[i].PlayerKey < scores[j].PlayerKey
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}
}
