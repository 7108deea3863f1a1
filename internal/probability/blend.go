package probability

import (
	"github.com/yourusername/fairway-edge/internal/models"
)

// Blend mixes the model's softmax probabilities with the externally
// calibrated ones. The external source has seen orders of magnitude more
// tournaments than this model ever will, so it carries the dominant
// per-market weight; our own probabilities act as a sanity anchor.
// Players the external source does not cover keep their model
// probability untouched. The blended vector is not renormalized: mixing
// in an external book's numbers may drift the sum off the market target,
// and rescaling would silently move the uncovered players off their
// model-only values.
func Blend(modelProbs map[string]float64, external models.ExternalData, market models.Market) map[string]float64 {
	params, err := market.Params()
	if err != nil || len(modelProbs) == 0 {
		return modelProbs
	}

	w := params.ExternalWeight
	blended := make(map[string]float64, len(modelProbs))
	anyExternal := false
	for pk, mp := range modelProbs {
		ep, ok := external.Probability(pk, market)
		if !ok {
			blended[pk] = mp
			continue
		}
		if ep > 1 {
			ep /= 100
		}
		blended[pk] = w*ep + (1-w)*mp
		anyExternal = true
	}
	if !anyExternal {
		return modelProbs
	}
	return blended
}
