package service

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/fairway-edge/internal/config"
	"github.com/yourusername/fairway-edge/internal/models"
)

// AnnotatorAction is the recommended response to an annotator review
type AnnotatorAction string

const (
	// AnnotatorKeep leaves the current cap in place.
	AnnotatorKeep AnnotatorAction = "keep"
	// AnnotatorHalveCap halves the adjustment cap after a harmful review.
	AnnotatorHalveCap AnnotatorAction = "halve_cap"
	// AnnotatorDisable turns the annotator off after a harmful review at
	// an already-halved cap.
	AnnotatorDisable AnnotatorAction = "disable"
)

// AnnotatorVerdict is the outcome of one longitudinal annotator review
type AnnotatorVerdict struct {
	Sample       int             `json:"sample"`
	AnnotatedROI float64         `json:"annotated_roi"`
	BaselineROI  float64         `json:"baseline_roi"`
	Action       AnnotatorAction `json:"action"`
}

// AnnotatorEvaluator reviews whether qualitative score adjustments are
// helping. It compares ROI on bets whose players carried an adjustment
// against ROI on the rest of the settled book.
type AnnotatorEvaluator struct {
	cfg config.AnnotatorConfig
}

// NewAnnotatorEvaluator creates an evaluator from configuration
func NewAnnotatorEvaluator(cfg config.AnnotatorConfig) *AnnotatorEvaluator {
	return &AnnotatorEvaluator{cfg: cfg}
}

// Evaluate reviews the annotator against a settled sample. annotated
// holds the player keys that carried an adjustment when their bets were
// flagged; currentCap is the cap in force, so a second harmful review
// escalates from halving to disabling.
func (e *AnnotatorEvaluator) Evaluate(settled []models.SettledBet, annotated map[string]bool, currentCap float64) AnnotatorVerdict {
	var annotatedBets, baselineBets []models.SettledBet
	for _, bet := range settled {
		if annotated[bet.PlayerKey] {
			annotatedBets = append(annotatedBets, bet)
		} else {
			baselineBets = append(baselineBets, bet)
		}
	}

	verdict := AnnotatorVerdict{
		Sample:       len(annotatedBets),
		AnnotatedROI: settledROI(annotatedBets),
		BaselineROI:  settledROI(baselineBets),
		Action:       AnnotatorKeep,
	}

	if verdict.Sample < e.cfg.MinEvalSample || len(baselineBets) == 0 {
		return verdict
	}

	if verdict.BaselineROI-verdict.AnnotatedROI > e.cfg.HarmMarginPct {
		if currentCap <= e.cfg.AdjustmentCap/2 {
			verdict.Action = AnnotatorDisable
		} else {
			verdict.Action = AnnotatorHalveCap
		}
	}
	return verdict
}

// settledROI computes ROI over a settled sample as a percentage
func settledROI(bets []models.SettledBet) float64 {
	wagered := decimal.Zero
	profit := decimal.Zero
	for _, bet := range bets {
		wagered = wagered.Add(bet.Stake)
		profit = profit.Add(bet.Profit)
	}
	if wagered.IsZero() {
		return 0
	}
	roi, _ := profit.Div(wagered).Mul(decimal.NewFromInt(100)).Float64()
	return roi
}
