// Package adaptation tunes per-market EV thresholds and stake sizing
// from recent settled performance, freezing a market outright when the
// model is demonstrably mispricing it.
package adaptation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/fairway-edge/internal/config"
	"github.com/yourusername/fairway-edge/internal/models"
)

// State is a market's posture in the adaptation state machine
type State string

const (
	StateNormal  State = "normal"
	StateCaution State = "caution"
	StateCold    State = "cold"
	StateFrozen  State = "frozen"
)

// MarketState is the evaluated posture for one market: what threshold to
// demand, how to scale stakes, and whether to bet at all
type MarketState struct {
	Market          models.Market `db:"market" json:"market"`
	State           State         `db:"state" json:"state"`
	EVThreshold     float64       `db:"ev_threshold" json:"ev_threshold"`
	StakeMultiplier float64       `db:"stake_multiplier" json:"stake_multiplier"`
	Suppressed      bool          `db:"suppressed" json:"suppressed"`
	SampleSize      int           `db:"sample_size" json:"sample_size"`
	ROIPct          float64       `db:"roi_pct" json:"roi_pct"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// Engine evaluates market states from rolling settled-bet windows
type Engine struct {
	cfg config.AdaptationConfig
	now func() time.Time
}

func NewEngine(cfg config.AdaptationConfig) *Engine {
	return &Engine{cfg: cfg, now: time.Now}
}

// Default returns the posture used before a market has enough history
func (e *Engine) Default(market models.Market) MarketState {
	return e.stateFor(market, StateNormal, 0, 0)
}

// Evaluate derives a market's posture from its settled bets, oldest
// first. Only the trailing window counts. previous is the market's last
// evaluated state; leaving a freeze requires fresh wins, not just an ROI
// that drifted back over the line.
func (e *Engine) Evaluate(market models.Market, settled []models.SettledBet, previous State) MarketState {
	window := settled
	if len(window) > e.cfg.WindowSize {
		window = window[len(window)-e.cfg.WindowSize:]
	}

	sample := len(window)
	roiPct := roiPercent(window)

	// Emergency brake: a long streak of nothing but losses freezes the
	// market even while the sample is otherwise too small to judge ROI.
	if sample >= e.cfg.EmergencyLossStreak && winsInLast(window, e.cfg.EmergencyLossStreak) == 0 {
		return e.stateFor(market, StateFrozen, sample, roiPct)
	}

	if sample < e.cfg.MinSample {
		if previous == StateFrozen {
			return e.thaw(market, window, sample, roiPct)
		}
		return e.stateFor(market, StateNormal, sample, roiPct)
	}

	target := e.targetForROI(roiPct)
	if previous == StateFrozen && target != StateFrozen {
		return e.thaw(market, window, sample, roiPct)
	}
	return e.stateFor(market, target, sample, roiPct)
}

func (e *Engine) targetForROI(roiPct float64) State {
	switch {
	case roiPct >= 0:
		return StateNormal
	case roiPct > e.cfg.ROICautionPct:
		return StateCaution
	case roiPct > e.cfg.ROIColdPct:
		return StateCold
	default:
		return StateFrozen
	}
}

// thaw steps a frozen market back in cautiously: it takes RecoveryWins
// wins inside the recovery window to resume betting at all, and the
// market re-enters at cold rather than jumping straight back to normal.
func (e *Engine) thaw(market models.Market, window []models.SettledBet, sample int, roiPct float64) MarketState {
	if winsInLast(window, e.cfg.RecoveryWindow) >= e.cfg.RecoveryWins {
		return e.stateFor(market, StateCold, sample, roiPct)
	}
	return e.stateFor(market, StateFrozen, sample, roiPct)
}

func (e *Engine) stateFor(market models.Market, state State, sample int, roiPct float64) MarketState {
	ms := MarketState{
		Market:     market,
		State:      state,
		SampleSize: sample,
		ROIPct:     roiPct,
		UpdatedAt:  e.now(),
	}
	switch state {
	case StateNormal:
		ms.EVThreshold = e.cfg.ThresholdNormal
		ms.StakeMultiplier = 1.0
	case StateCaution:
		ms.EVThreshold = e.cfg.ThresholdCaution
		ms.StakeMultiplier = 1.0
	case StateCold:
		ms.EVThreshold = e.cfg.ThresholdCold
		ms.StakeMultiplier = e.cfg.ColdStakeMultiplier
	case StateFrozen:
		ms.EVThreshold = e.cfg.ThresholdCold
		ms.StakeMultiplier = 0
		ms.Suppressed = true
	}
	return ms
}

// roiPercent computes return on investment over a window in percent,
// using decimal arithmetic to match settlement
func roiPercent(window []models.SettledBet) float64 {
	var wagered, returned decimal.Decimal
	for i := range window {
		b := &window[i]
		wagered = wagered.Add(b.Stake)
		returned = returned.Add(b.Stake).Add(b.Profit)
	}
	if wagered.IsZero() {
		return 0
	}
	roi, _ := returned.Sub(wagered).Div(wagered).Mul(decimal.NewFromInt(100)).Float64()
	return roi
}

func winsInLast(window []models.SettledBet, n int) int {
	start := len(window) - n
	if start < 0 {
		start = 0
	}
	wins := 0
	for i := start; i < len(window); i++ {
		if window[i].IsWin() {
			wins++
		}
	}
	return wins
}
