// Package scoring turns windowed statistics and external signals into the
// per-player sub-scores and the composite ranking score.
//
// Every scorer follows the same contract: scores live on a 0-100 scale
// with 50 as the neutral midpoint, missing inputs degrade the affected
// term to neutral instead of erroring, and each sub-score is shrunk
// toward neutral by a [0,1] confidence before it is combined.
package scoring

import "github.com/yourusername/fairway-edge/internal/stats"

// Neutral is the midpoint every score degrades to without data
const Neutral = stats.NeutralScore

// ShrinkToNeutral pulls a raw score toward the neutral midpoint in
// proportion to how little data backs it. Confidence 1 leaves the score
// untouched, confidence 0 collapses it to neutral. The shrunk score
// never crosses to the other side of the raw score.
func ShrinkToNeutral(raw, confidence float64) float64 {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return Neutral + confidence*(raw-Neutral)
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// blend mixes two scores, giving weight w to b and 1-w to a
func blend(a, b, w float64) float64 {
	return (1-w)*a + w*b
}
