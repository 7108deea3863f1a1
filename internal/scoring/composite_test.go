package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/fairway-edge/internal/config"
	"github.com/yourusername/fairway-edge/internal/models"
)

func defaultCompositeWeights() config.CompositeWeights {
	return config.CompositeWeights{
		CourseFit:       0.40,
		Form:            0.40,
		Momentum:        0.20,
		CourseFitToForm: 0.70,
	}
}

func TestShrinkToNeutral(t *testing.T) {
	tests := []struct {
		name       string
		raw        float64
		confidence float64
		expected   float64
	}{
		{"full confidence keeps score", 80, 1.0, 80},
		{"zero confidence collapses to neutral", 80, 0.0, 50},
		{"half confidence halves the distance", 80, 0.5, 65},
		{"works below neutral", 30, 0.5, 40},
		{"confidence above one is capped", 80, 1.5, 80},
		{"negative confidence is floored", 80, -0.5, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ShrinkToNeutral(tt.raw, tt.confidence), 1e-9)
		})
	}
}

func TestShrinkToNeutralNeverOvershoots(t *testing.T) {
	for _, raw := range []float64{0, 12.5, 49.9, 50, 63, 100} {
		for _, conf := range []float64{0, 0.1, 0.5, 0.9, 1} {
			got := ShrinkToNeutral(raw, conf)
			if raw >= Neutral {
				assert.GreaterOrEqual(t, got, Neutral)
				assert.LessOrEqual(t, got, raw)
			} else {
				assert.LessOrEqual(t, got, Neutral)
				assert.GreaterOrEqual(t, got, raw)
			}
		}
	}
}

func TestComposeAllSubScores(t *testing.T) {
	s := NewCompositeScorer(defaultCompositeWeights(), 3)
	ps := s.Compose(models.Player{Key: "scheffler_s", DisplayName: "Scottie Scheffler"}, PlayerInputs{
		CourseFit: &models.SubScore{Score: 80, Confidence: 1, Components: map[string]float64{"history": 80}},
		Form:      &models.SubScore{Score: 70, Confidence: 1, Components: map[string]float64{"recent": 70}},
		Momentum: MomentumResult{
			SubScore: &models.SubScore{Score: 60, Confidence: 1, Components: map[string]float64{"trend": 0.2}},
			Trend:    models.TrendWarming,
		},
	}, 0, 0)

	// 0.40*80 + 0.40*70 + 0.20*60
	assert.InDelta(t, 72.0, ps.Composite, 1e-9)
	assert.Equal(t, models.TrendWarming, ps.Trend)
}

func TestComposeMissingCourseFitRedistributes(t *testing.T) {
	s := NewCompositeScorer(defaultCompositeWeights(), 3)
	ps := s.Compose(models.Player{Key: "debutant_d"}, PlayerInputs{
		Form: &models.SubScore{Score: 70, Confidence: 1, Components: map[string]float64{"recent": 70}},
		Momentum: MomentumResult{
			SubScore: &models.SubScore{Score: 60, Confidence: 1, Components: map[string]float64{"trend": 0.1}},
			Trend:    models.TrendWarming,
		},
	}, 0, 0)

	// form takes 0.40+0.40*0.70=0.68, momentum 0.20+0.40*0.30=0.32
	assert.InDelta(t, 0.68*70+0.32*60, ps.Composite, 1e-9)
	assert.InDelta(t, 66.8, ps.Composite, 1e-9)
}

func TestComposeNoDataIsNeutral(t *testing.T) {
	s := NewCompositeScorer(defaultCompositeWeights(), 3)
	ps := s.Compose(models.Player{Key: "ghost_g"}, PlayerInputs{
		Momentum: MomentumResult{Trend: models.TrendUnknown},
	}, 0, 0)
	assert.InDelta(t, 50.0, ps.Composite, 1e-9)
}

func TestComposeAnnotatorAdjustmentIsCapped(t *testing.T) {
	s := NewCompositeScorer(defaultCompositeWeights(), 3)
	in := PlayerInputs{
		CourseFit: &models.SubScore{Score: 50, Confidence: 1, Components: map[string]float64{"history": 50}},
		Form:      &models.SubScore{Score: 50, Confidence: 1, Components: map[string]float64{"recent": 50}},
		Momentum: MomentumResult{
			SubScore: &models.SubScore{Score: 50, Confidence: 1, Components: map[string]float64{"trend": 0}},
			Trend:    models.TrendCooling,
		},
	}

	up := s.Compose(models.Player{Key: "p"}, in, 10, 0)
	assert.InDelta(t, 53.0, up.Composite, 1e-9)
	assert.InDelta(t, 3.0, up.Adjustment, 1e-9)

	down := s.Compose(models.Player{Key: "p"}, in, -10, 0)
	assert.InDelta(t, 47.0, down.Composite, 1e-9)
}

func TestComposeClampsToScale(t *testing.T) {
	s := NewCompositeScorer(defaultCompositeWeights(), 3)
	ps := s.Compose(models.Player{Key: "p"}, PlayerInputs{
		CourseFit: &models.SubScore{Score: 100, Confidence: 1, Components: map[string]float64{"history": 100}},
		Form:      &models.SubScore{Score: 100, Confidence: 1, Components: map[string]float64{"recent": 100}},
		Momentum: MomentumResult{
			SubScore: &models.SubScore{Score: 100, Confidence: 1, Components: map[string]float64{"trend": 1}},
			Trend:    models.TrendHot,
		},
	}, 3, 5)
	assert.InDelta(t, 100.0, ps.Composite, 1e-9)
}

func TestRankScoresDeterministicOrder(t *testing.T) {
	scores := []models.PlayerScore{
		{PlayerKey: "b", Composite: 70},
		{PlayerKey: "a", Composite: 70},
		{PlayerKey: "c", Composite: 90},
	}
	RankScores(scores)

	assert.Equal(t, "c", scores[0].PlayerKey)
	assert.Equal(t, 1, scores[0].Rank)
	assert.Equal(t, "a", scores[1].PlayerKey)
	assert.Equal(t, 2, scores[1].Rank)
	assert.Equal(t, "b", scores[2].PlayerKey)
	assert.Equal(t, 3, scores[2].Rank)
}
