package service

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/yourusername/fairway-edge/internal/config"
	"github.com/yourusername/fairway-edge/internal/models"
)

func annotatorConfig() config.AnnotatorConfig {
	return config.AnnotatorConfig{
		Enabled:       true,
		AdjustmentCap: 3,
		MinEvalSample: 5,
		HarmMarginPct: 10,
	}
}

// settledSample builds n settled unit bets for one player key. The
// first wins bets win at +300, the rest lose.
func settledSample(playerKey string, n, wins int) []models.SettledBet {
	bets := make([]models.SettledBet, 0, n)
	for i := 0; i < n; i++ {
		bet := models.SettledBet{
			TournamentID: fmt.Sprintf("t%02d", i),
			PlayerKey:    playerKey,
			Market:       models.MarketOutright,
			Price:        300,
			Stake:        decimal.NewFromInt(1),
			Outcome:      models.OutcomeLoss,
			Profit:       decimal.NewFromInt(-1),
		}
		if i < wins {
			bet.Outcome = models.OutcomeWin
			bet.Fraction = 1
			bet.Profit = decimal.NewFromInt(3)
		}
		bets = append(bets, bet)
	}
	return bets
}

func TestAnnotatorEvaluateKeepsBelowSample(t *testing.T) {
	eval := NewAnnotatorEvaluator(annotatorConfig())

	settled := append(settledSample("annotated", 3, 0), settledSample("baseline", 10, 5)...)
	verdict := eval.Evaluate(settled, map[string]bool{"annotated": true}, 3)

	assert.Equal(t, AnnotatorKeep, verdict.Action)
	assert.Equal(t, 3, verdict.Sample)
}

func TestAnnotatorEvaluateHalvesCapWhenHarmful(t *testing.T) {
	eval := NewAnnotatorEvaluator(annotatorConfig())

	// Annotated bets all lose while the baseline breaks even and then
	// some: harm well past the 10 point margin.
	settled := append(settledSample("annotated", 8, 0), settledSample("baseline", 10, 5)...)
	verdict := eval.Evaluate(settled, map[string]bool{"annotated": true}, 3)

	assert.Equal(t, AnnotatorHalveCap, verdict.Action)
	assert.InDelta(t, -100, verdict.AnnotatedROI, 1e-9)
	assert.InDelta(t, 100, verdict.BaselineROI, 1e-9)
}

func TestAnnotatorEvaluateDisablesAtHalvedCap(t *testing.T) {
	eval := NewAnnotatorEvaluator(annotatorConfig())

	settled := append(settledSample("annotated", 8, 0), settledSample("baseline", 10, 5)...)
	verdict := eval.Evaluate(settled, map[string]bool{"annotated": true}, 1.5)

	assert.Equal(t, AnnotatorDisable, verdict.Action)
}

func TestAnnotatorEvaluateKeepsInsideMargin(t *testing.T) {
	eval := NewAnnotatorEvaluator(annotatorConfig())

	// Annotated sample performs the same as the baseline.
	settled := append(settledSample("annotated", 8, 4), settledSample("baseline", 8, 4)...)
	verdict := eval.Evaluate(settled, map[string]bool{"annotated": true}, 3)

	assert.Equal(t, AnnotatorKeep, verdict.Action)
}
