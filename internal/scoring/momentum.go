package scoring

import (
	"math"
	"sort"

	"github.com/yourusername/fairway-edge/internal/models"
	"github.com/yourusername/fairway-edge/internal/stats"
)

const (
	// eliteRankCeiling marks the top of the field where holding position
	// is itself a positive signal.
	eliteRankCeiling = 10
	// minTrendScale floors the field's max absolute trend so a flat field
	// cannot divide by zero.
	minTrendScale = 1.0

	consistencyThreshold = 0.6
	consistencyBoost     = 0.3
	inconsistencyPenalty = 0.85
)

// MomentumResult is a momentum sub-score plus its directional label
type MomentumResult struct {
	SubScore *models.SubScore
	Trend    models.TrendDirection
}

// MomentumScorer measures rank trajectories across the trailing windows:
// improving rank as windows shorten means form is arriving now. Scores
// and trend labels are relative to the field, so a modest improver reads
// hot in a flat week and merely warming next to an extreme riser.
type MomentumScorer struct{}

func NewMomentumScorer() *MomentumScorer {
	return &MomentumScorer{}
}

type rankPoint struct {
	window stats.Window
	rank   int
	field  int
}

// rawMomentum is one player's unnormalized trend plus the window count
// that drives confidence
type rawMomentum struct {
	trend   float64
	windows int
}

// ScoreField computes momentum for every player ranked in at least two
// finite windows. Players with fewer ranked windows have no trajectory
// and are absent from the result.
func (s *MomentumScorer) ScoreField(byWindow map[stats.Window]*stats.WindowResult) map[string]MomentumResult {
	raws := make(map[string]rawMomentum)
	for pk, points := range collectPoints(byWindow) {
		if len(points) < 2 {
			continue
		}
		raws[pk] = rawMomentum{trend: rawTrend(points), windows: len(points)}
	}

	// Normalize against the strongest mover in the field, floored so a
	// week where nobody moves stays near neutral instead of dividing
	// tiny trends into full-scale scores.
	maxTrend := minTrendScale
	for _, r := range raws {
		if abs := math.Abs(r.trend); abs > maxTrend {
			maxTrend = abs
		}
	}

	out := make(map[string]MomentumResult, len(raws))
	for pk, r := range raws {
		ratio := r.trend / maxTrend
		raw := Clamp(Neutral+ratio*40, 5, 95)
		confidence := math.Min(1, float64(r.windows)/4)
		out[pk] = MomentumResult{
			SubScore: &models.SubScore{
				Score:      ShrinkToNeutral(raw, confidence),
				Confidence: confidence,
				Components: map[string]float64{
					"trend":   r.trend,
					"ratio":   ratio,
					"windows": float64(r.windows),
				},
			},
			Trend: trendDirection(ratio),
		}
	}
	return out
}

// collectPoints gathers each player's ranks across the finite windows,
// sorted oldest (longest window) to newest
func collectPoints(byWindow map[stats.Window]*stats.WindowResult) map[string][]rankPoint {
	points := make(map[string][]rankPoint)
	for w, result := range byWindow {
		if w.IsAll() || result == nil {
			continue
		}
		for pk, rank := range result.Ranks {
			points[pk] = append(points[pk], rankPoint{window: w, rank: rank, field: result.FieldSize()})
		}
	}
	for _, ps := range points {
		sort.Slice(ps, func(i, j int) bool { return ps[i].window.Size > ps[j].window.Size })
	}
	return points
}

// rawTrend turns one player's rank trajectory into an unnormalized trend.
// The primary signal is the oldest-to-newest percentage rank move blended
// with current field position; with three or more windows the adjacent
// pairs vote on direction and a unanimous run amplifies the trend while
// a zig-zag damps it.
func rawTrend(points []rankPoint) float64 {
	oldest, newest := points[0], points[len(points)-1]

	// Percentage-based so rank 5 to 1 counts like 50 to 10.
	pct := Clamp(float64(oldest.rank-newest.rank)/math.Max(float64(oldest.rank), 1), -1, 1)

	if oldest.rank <= eliteRankCeiling && newest.rank <= eliteRankCeiling {
		// Sitting inside the top ten across both ends is stable
		// excellence, not stagnation.
		bonus := consistencyBoost * (1 - float64(newest.rank-1)/float64(eliteRankCeiling))
		pct = math.Max(pct, bonus)
	}

	position := 0.5
	if newest.field > 1 {
		position = float64(newest.field-newest.rank) / float64(newest.field-1)
	}
	posWeight := 0.40
	if newest.rank <= eliteRankCeiling {
		posWeight = 0.50
	}
	trend := (1-posWeight)*pct*100 + posWeight*(position-0.5)*100

	if len(points) >= 3 {
		improving, declining := 0, 0
		for i := 0; i < len(points)-1; i++ {
			switch {
			case points[i].rank > points[i+1].rank:
				improving++
			case points[i].rank < points[i+1].rank:
				declining++
			}
		}
		consistency := 0.0
		if total := improving + declining; total > 0 {
			consistency = math.Abs(float64(improving-declining)) / float64(total)
		}
		if consistency > consistencyThreshold {
			trend *= 1 + consistencyBoost*consistency
		} else {
			trend *= inconsistencyPenalty
		}
	}
	return trend
}

// trendDirection labels a trend relative to the field's strongest mover,
// so a moderate trend is not labeled cold just because an outlier exists
func trendDirection(ratio float64) models.TrendDirection {
	switch {
	case ratio > 0.25:
		return models.TrendHot
	case ratio > 0.05:
		return models.TrendWarming
	case ratio > -0.25:
		return models.TrendCooling
	default:
		return models.TrendCold
	}
}
