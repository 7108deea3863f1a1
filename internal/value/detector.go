// Package value compares model probabilities against sportsbook prices
// and flags positive expected value, with paranoid filtering of anything
// that looks like corrupt feed data rather than a genuine mispricing.
package value

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/fairway-edge/internal/config"
	"github.com/yourusername/fairway-edge/internal/models"
)

// Input is everything value detection needs for one market of one
// tournament. Probabilities is the final blended-and-calibrated
// distribution; Quotes may carry several books per player.
type Input struct {
	TournamentID string
	Market       models.Market
	Probs        map[string]float64
	External     models.ExternalData
	Quotes       []models.OddsQuote
	DisplayNames map[string]string

	// EVThreshold comes from the adaptation engine, StakeMultiplier too.
	EVThreshold     float64
	StakeMultiplier float64
	Suppressed      bool
}

// Result is the detected value slate plus every data-quality warning
// raised along the way
type Result struct {
	Bets     []models.ValueBet
	Warnings []models.DataQualityWarning
}

// Detector screens odds against model probabilities
type Detector struct {
	cfg config.BettingConfig
	now func() time.Time
}

func NewDetector(cfg config.BettingConfig) *Detector {
	return &Detector{cfg: cfg, now: time.Now}
}

// Detect finds every positive-EV opportunity in one market. Each player
// is priced at their best available book; a quote only counts when it
// passes the plausibility bounds, the market-probability floor, the
// model-versus-market ratio guard and the EV sanity ceiling. Bets come
// back sorted by EV descending.
func (d *Detector) Detect(in Input) Result {
	var res Result
	if in.Suppressed || len(in.Probs) == 0 {
		return res
	}

	byPlayer := make(map[string][]models.OddsQuote)
	for _, q := range in.Quotes {
		if q.Market != in.Market {
			continue
		}
		if !q.IsValid() {
			res.Warnings = append(res.Warnings, models.DataQualityWarning{
				Kind:      models.WarningInvalidOdds,
				PlayerKey: q.PlayerKey,
				Market:    in.Market,
				Detail:    fmt.Sprintf("book %s priced %+d", q.Book, q.Price),
			})
			continue
		}
		byPlayer[q.PlayerKey] = append(byPlayer[q.PlayerKey], q)
	}

	now := d.now()
	for playerKey, quotes := range byPlayer {
		modelProb, ok := in.Probs[playerKey]
		if !ok || modelProb <= 0 {
			continue
		}
		best := models.BestQuote(quotes)
		if best == nil {
			continue
		}

		marketProb := best.ImpliedProbability()
		if marketProb < d.cfg.MinMarketProb {
			res.Warnings = append(res.Warnings, models.DataQualityWarning{
				Kind:      models.WarningStaleOdds,
				PlayerKey: playerKey,
				Market:    in.Market,
				Detail:    fmt.Sprintf("implied probability %.5f below floor %.5f", marketProb, d.cfg.MinMarketProb),
			})
			continue
		}

		ratio := modelProb / marketProb
		if ratio < d.cfg.ProbRatioFloor || ratio > d.cfg.ProbRatioCeiling {
			res.Warnings = append(res.Warnings, models.DataQualityWarning{
				Kind:      models.WarningSuspiciousRatio,
				PlayerKey: playerKey,
				Market:    in.Market,
				Detail:    fmt.Sprintf("model/market ratio %.2f outside [%.1f, %.1f]", ratio, d.cfg.ProbRatioFloor, d.cfg.ProbRatioCeiling),
			})
			continue
		}

		ev := modelProb*best.DecimalOdds() - 1
		if ev > d.cfg.EVSanityCeiling {
			res.Warnings = append(res.Warnings, models.DataQualityWarning{
				Kind:      models.WarningCappedEV,
				PlayerKey: playerKey,
				Market:    in.Market,
				Detail:    fmt.Sprintf("EV %.2f above sanity ceiling %.2f", ev, d.cfg.EVSanityCeiling),
			})
			continue
		}
		if ev < in.EVThreshold {
			continue
		}

		bet := models.ValueBet{
			ID:            uuid.New(),
			TournamentID:  in.TournamentID,
			PlayerKey:     playerKey,
			DisplayName:   in.DisplayNames[playerKey],
			Market:        in.Market,
			ModelProb:     modelProb,
			MarketProb:    marketProb,
			BestPrice:     best.Price,
			BestBook:      best.Book,
			EV:            ev,
			StakeFraction: d.stakeFraction(modelProb, best.DecimalOdds(), in.StakeMultiplier),
			CreatedAt:     now,
		}
		if ep, ok := in.External.Probability(playerKey, in.Market); ok {
			if ep > 1 {
				ep /= 100
			}
			bet.ExternalProb = &ep
		}
		res.Bets = append(res.Bets, bet)
	}

	sort.Slice(res.Bets, func(i, j int) bool {
		if res.Bets[i].EV != res.Bets[j].EV {
			return res.Bets[i].EV > res.Bets[j].EV
		}
		return res.Bets[i].PlayerKey < res.Bets[j].PlayerKey
	})
	return res
}

// stakeFraction sizes the bet with a fractional Kelly criterion, scaled
// by the adaptation multiplier and capped at the bankroll limit
func (d *Detector) stakeFraction(prob, decimalOdds, multiplier float64) float64 {
	b := decimalOdds - 1
	if b <= 0 {
		return 0
	}
	kelly := (prob*b - (1 - prob)) / b
	if kelly <= 0 {
		return 0
	}
	f := kelly * d.cfg.KellyFraction * multiplier
	if f > d.cfg.MaxStakeFraction {
		f = d.cfg.MaxStakeFraction
	}
	return f
}
