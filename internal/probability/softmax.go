// Package probability converts composite scores into per-market win
// probabilities, blends them with externally calibrated probabilities and
// applies the longitudinal calibration correction.
package probability

import (
	"fmt"
	"math"

	"github.com/yourusername/fairway-edge/internal/models"
)

const (
	// ProbFloor and ProbCap bound any single probability after softmax.
	// The floor keeps longshots priceable, the cap keeps even a runaway
	// favorite honest.
	ProbFloor = 0.001
	ProbCap   = 0.95

	// sumTolerance is how close the renormalized distribution must land
	// to the market's target sum.
	sumTolerance = 1e-6
)

// FromScores converts composite scores into probabilities for one market
// via a temperature softmax: p_i = S * exp(score_i/T) / sum_j exp(score_j/T),
// where T is the market temperature and S the target sum (1 for outright,
// 5 for top-five, and so on). Each probability is then clamped to
// [ProbFloor, ProbCap] and the distribution renormalized back to S.
func FromScores(scores map[string]float64, market models.Market, fieldSize int) (map[string]float64, error) {
	params, err := market.Params()
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("no scores to convert for market %s: %w", market, models.ErrInsufficientSample)
	}

	target := params.TargetSum(fieldSize)
	if target <= 0 {
		return nil, fmt.Errorf("market %s has no positive target sum for field of %d", market, fieldSize)
	}

	// Shift by the max score before exponentiating so large score/T
	// ratios cannot overflow.
	maxScore := math.Inf(-1)
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	exps := make(map[string]float64, len(scores))
	var expSum float64
	for k, s := range scores {
		e := math.Exp((s - maxScore) / params.Temperature)
		exps[k] = e
		expSum += e
	}

	probs := make(map[string]float64, len(scores))
	for k, e := range exps {
		probs[k] = target * e / expSum
	}
	renormalize(probs, target)
	return probs, nil
}

// renormalize clamps every probability to [ProbFloor, ProbCap] and scales
// the unclamped ones until the distribution sums to target again. Values
// pinned at a bound stay pinned; only the free mass is rescaled.
func renormalize(probs map[string]float64, target float64) {
	for k, p := range probs {
		probs[k] = clampProb(p)
	}
	// Each pass either converges or pins at least one more value at a
	// bound, so len(probs)+1 passes always suffice.
	for i := 0; i <= len(probs); i++ {
		var sum float64
		for _, p := range probs {
			sum += p
		}
		if math.Abs(sum-target) <= sumTolerance {
			return
		}

		// A value is only pinned against the direction we need to move:
		// cap-pinned values cannot scale up, floor-pinned cannot scale
		// down, but either is free in the other direction.
		scalingUp := sum < target
		pinned := func(p float64) bool {
			if scalingUp {
				return p >= ProbCap
			}
			return p <= ProbFloor
		}

		var pinnedMass, freeMass float64
		for _, p := range probs {
			if pinned(p) {
				pinnedMass += p
			} else {
				freeMass += p
			}
		}
		if freeMass == 0 {
			return
		}
		scale := (target - pinnedMass) / freeMass
		if scale <= 0 {
			return
		}
		for k, p := range probs {
			if !pinned(p) {
				probs[k] = clampProb(p * scale)
			}
		}
	}
}

func clampProb(p float64) float64 {
	if p < ProbFloor {
		return ProbFloor
	}
	if p > ProbCap {
		return ProbCap
	}
	return p
}
