package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BetOutcome is the settled result classification of one bet
type BetOutcome string

const (
	OutcomeWin      BetOutcome = "win"
	OutcomeLoss     BetOutcome = "loss"
	OutcomePush     BetOutcome = "push"
	OutcomeDeadHeat BetOutcome = "dead_heat"
)

// SettledBet records the resolution of one prediction-log entry
type SettledBet struct {
	TournamentID string          `db:"tournament_id" json:"tournament_id"`
	PlayerKey    string          `db:"player_key" json:"player_key"`
	Market       Market          `db:"market" json:"market"`
	Price        int             `db:"price" json:"price"`
	Stake        decimal.Decimal `db:"stake" json:"stake"`
	Outcome      BetOutcome      `db:"outcome" json:"outcome"`
	// Fraction is 1 for a clean win, the dead-heat fraction for a tie at
	// the payout boundary, 0 for a loss or push.
	Fraction  float64         `db:"fraction" json:"fraction"`
	Profit    decimal.Decimal `db:"profit" json:"profit"`
	SettledAt time.Time       `db:"settled_at" json:"settled_at"`
}

// IsWin reports whether the bet returned any winnings
func (b *SettledBet) IsWin() bool {
	return b.Outcome == OutcomeWin || b.Outcome == OutcomeDeadHeat
}

// MarketPerformance aggregates settled bets per (market, tournament).
// Units use decimal arithmetic so fractional dead-heat payouts never
// accumulate float drift.
type MarketPerformance struct {
	Market        Market          `db:"market" json:"market"`
	TournamentID  string          `db:"tournament_id" json:"tournament_id"`
	BetsPlaced    int             `db:"bets_placed" json:"bets_placed"`
	BetsWon       int             `db:"bets_won" json:"bets_won"`
	BetsLost      int             `db:"bets_lost" json:"bets_lost"`
	BetsPushed    int             `db:"bets_pushed" json:"bets_pushed"`
	UnitsWagered  decimal.Decimal `db:"units_wagered" json:"units_wagered"`
	UnitsReturned decimal.Decimal `db:"units_returned" json:"units_returned"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// ROI returns the return on investment as a percentage, nil-safe for an
// empty record
func (mp *MarketPerformance) ROI() float64 {
	if mp.UnitsWagered.IsZero() {
		return 0
	}
	roi, _ := mp.UnitsReturned.Sub(mp.UnitsWagered).
		Div(mp.UnitsWagered).Mul(decimal.NewFromInt(100)).Float64()
	return roi
}

// WinRate returns the fraction of settled bets that won
func (mp *MarketPerformance) WinRate() float64 {
	settled := mp.BetsWon + mp.BetsLost
	if settled == 0 {
		return 0
	}
	return float64(mp.BetsWon) / float64(settled)
}
