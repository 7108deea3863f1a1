// Package outcome settles logged predictions against final tournament
// results, applying sportsbook dead-heat rules for shared finishing
// positions. All money math uses decimal arithmetic.
package outcome

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/fairway-edge/internal/models"
)

// Scorer resolves bets from finish results
type Scorer struct {
	missedCutIsPush bool
	now             func() time.Time
}

// NewScorer builds a scorer. missedCutIsPush follows the house rules of
// the books being tracked: most grade a missed cut in a placement market
// as a loss, a few as a push.
func NewScorer(missedCutIsPush bool) *Scorer {
	return &Scorer{missedCutIsPush: missedCutIsPush, now: time.Now}
}

// Settle resolves one placement or make-cut bet against the tournament's
// results. results must carry the full leaderboard so dead-heat fractions
// can count everyone sharing a position.
func (s *Scorer) Settle(bet models.ValueBet, stake decimal.Decimal, results []models.FinishResult) (models.SettledBet, error) {
	player := findResult(bet.PlayerKey, results)
	if player == nil {
		return models.SettledBet{}, fmt.Errorf("no finish result for player %s: %w", bet.PlayerKey, models.ErrNotFound)
	}

	params, err := bet.Market.Params()
	if err != nil {
		return models.SettledBet{}, err
	}

	switch {
	case bet.Market == models.MarketMakeCut:
		return s.settleMakeCut(bet, stake, player), nil
	case params.PlacementThreshold > 0:
		return s.settlePlacement(bet, stake, player, params.PlacementThreshold, results), nil
	default:
		return models.SettledBet{}, fmt.Errorf("market %s cannot be settled from finish results: %w", bet.Market, models.ErrUnknownMarket)
	}
}

// SettleMatchup resolves a head-to-head bet. A tie on finishing position
// is a push. An opponent who withdraws concedes the matchup; if our
// player withdraws the bet is lost, and a double withdrawal pushes.
func (s *Scorer) SettleMatchup(bet models.ValueBet, stake decimal.Decimal, player, opponent *models.FinishResult) (models.SettledBet, error) {
	if player == nil || opponent == nil {
		return models.SettledBet{}, fmt.Errorf("matchup for %s needs both finish results: %w", bet.PlayerKey, models.ErrNotFound)
	}

	playerOut := player.Status == models.FinishWithdrawn || player.Status == models.FinishDisqualified
	oppOut := opponent.Status == models.FinishWithdrawn || opponent.Status == models.FinishDisqualified

	switch {
	case playerOut && oppOut:
		return s.settled(bet, stake, models.OutcomePush, 0), nil
	case playerOut:
		return s.settled(bet, stake, models.OutcomeLoss, 0), nil
	case oppOut:
		return s.settled(bet, stake, models.OutcomeWin, 1), nil
	}

	pPos, oPos := effectivePosition(player), effectivePosition(opponent)
	switch {
	case pPos < oPos:
		return s.settled(bet, stake, models.OutcomeWin, 1), nil
	case pPos > oPos:
		return s.settled(bet, stake, models.OutcomeLoss, 0), nil
	default:
		return s.settled(bet, stake, models.OutcomePush, 0), nil
	}
}

func (s *Scorer) settleMakeCut(bet models.ValueBet, stake decimal.Decimal, player *models.FinishResult) models.SettledBet {
	if player.MadeCut {
		return s.settled(bet, stake, models.OutcomeWin, 1)
	}
	return s.settled(bet, stake, models.OutcomeLoss, 0)
}

func (s *Scorer) settlePlacement(bet models.ValueBet, stake decimal.Decimal, player *models.FinishResult, threshold int, results []models.FinishResult) models.SettledBet {
	if player.Position == nil {
		if player.Status == models.FinishMissedCut && s.missedCutIsPush {
			return s.settled(bet, stake, models.OutcomePush, 0)
		}
		return s.settled(bet, stake, models.OutcomeLoss, 0)
	}

	pos := *player.Position
	if pos > threshold {
		return s.settled(bet, stake, models.OutcomeLoss, 0)
	}

	// Inside the payout places. A tie straddling the boundary splits the
	// remaining places among everyone sharing the position.
	if player.Tied() {
		tied := models.CountTiedAt(pos, results)
		remaining := threshold - pos + 1
		if tied > remaining {
			fraction := float64(remaining) / float64(tied)
			return s.settled(bet, stake, models.OutcomeDeadHeat, fraction)
		}
	}
	return s.settled(bet, stake, models.OutcomeWin, 1)
}

// settled computes the profit for an outcome. A dead heat pays the
// winning fraction of the stake at full odds and loses the rest:
// profit = stake * (fraction*(odds-1) - (1-fraction)).
func (s *Scorer) settled(bet models.ValueBet, stake decimal.Decimal, outcome models.BetOutcome, fraction float64) models.SettledBet {
	decimalOdds := decimal.NewFromFloat(models.AmericanToDecimal(bet.BestPrice))
	var profit decimal.Decimal
	switch outcome {
	case models.OutcomeWin:
		profit = stake.Mul(decimalOdds.Sub(decimal.NewFromInt(1)))
	case models.OutcomeLoss:
		profit = stake.Neg()
	case models.OutcomePush:
		profit = decimal.Zero
	case models.OutcomeDeadHeat:
		f := decimal.NewFromFloat(fraction)
		winPart := f.Mul(decimalOdds.Sub(decimal.NewFromInt(1)))
		losePart := decimal.NewFromInt(1).Sub(f)
		profit = stake.Mul(winPart.Sub(losePart))
	}

	return models.SettledBet{
		TournamentID: bet.TournamentID,
		PlayerKey:    bet.PlayerKey,
		Market:       bet.Market,
		Price:        bet.BestPrice,
		Stake:        stake,
		Outcome:      outcome,
		Fraction:     fraction,
		Profit:       profit,
		SettledAt:    s.now(),
	}
}

// Apply folds one settled bet into a market performance aggregate
func Apply(perf *models.MarketPerformance, settled models.SettledBet) {
	perf.BetsPlaced++
	perf.UnitsWagered = perf.UnitsWagered.Add(settled.Stake)
	switch settled.Outcome {
	case models.OutcomeWin, models.OutcomeDeadHeat:
		perf.BetsWon++
		perf.UnitsReturned = perf.UnitsReturned.Add(settled.Stake.Add(settled.Profit))
	case models.OutcomeLoss:
		perf.BetsLost++
	case models.OutcomePush:
		perf.BetsPushed++
		perf.UnitsReturned = perf.UnitsReturned.Add(settled.Stake)
	}
	perf.UpdatedAt = settled.SettledAt
}

func findResult(playerKey string, results []models.FinishResult) *models.FinishResult {
	for i := range results {
		if results[i].PlayerKey == playerKey {
			return &results[i]
		}
	}
	return nil
}

// effectivePosition orders finishers ahead of cut players for matchup
// grading; a missed cut still beats a withdrawal, which is handled before
// this is called
func effectivePosition(r *models.FinishResult) int {
	if r.Position != nil {
		return *r.Position
	}
	return 1 << 20
}
