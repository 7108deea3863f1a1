package models

import "time"

// Global bounds on plausible American odds. Market-specific ceilings in
// the market table tighten these further.
const (
	MaxReasonableOdds = 50000
	MinReasonableOdds = -10000
)

// OddsQuote is one book's American-odds price for a player in a market
type OddsQuote struct {
	PlayerKey string    `db:"player_key" json:"player_key" validate:"required"`
	Market    Market    `db:"market" json:"market" validate:"required"`
	Book      string    `db:"book" json:"book" validate:"required"`
	Price     int       `db:"price" json:"price"`
	FetchedAt time.Time `db:"fetched_at" json:"fetched_at"`
}

// DecimalOdds converts the American price to decimal odds.
// Returns 0 for the invalid price 0.
func (q *OddsQuote) DecimalOdds() float64 {
	return AmericanToDecimal(q.Price)
}

// ImpliedProbability returns the probability implied by the price
func (q *OddsQuote) ImpliedProbability() float64 {
	return AmericanToImpliedProb(q.Price)
}

// IsValid checks the price against the global and market-specific bounds
func (q *OddsQuote) IsValid() bool {
	if q.Price == 0 || q.Price < MinReasonableOdds || q.Price > MaxReasonableOdds {
		return false
	}
	params, err := q.Market.Params()
	if err != nil {
		return false
	}
	return q.Price <= params.OddsCeiling
}

// AmericanToDecimal converts American odds to decimal odds.
// +500 -> 6.0, -150 -> 1.667. Returns 0 for the invalid price 0.
func AmericanToDecimal(price int) float64 {
	switch {
	case price > 0:
		return 1.0 + float64(price)/100.0
	case price < 0:
		return 1.0 + 100.0/float64(-price)
	}
	return 0
}

// AmericanToImpliedProb converts American odds to implied probability.
// Returns 0 for the invalid price 0.
func AmericanToImpliedProb(price int) float64 {
	switch {
	case price > 0:
		return 100.0 / (float64(price) + 100.0)
	case price < 0:
		return float64(-price) / (float64(-price) + 100.0)
	}
	return 0
}

// BestQuote returns the quote with the highest decimal payout from a set
// of quotes for the same player and market, nil for an empty slice
func BestQuote(quotes []OddsQuote) *OddsQuote {
	var best *OddsQuote
	for i := range quotes {
		q := &quotes[i]
		if !q.IsValid() {
			continue
		}
		if best == nil || q.DecimalOdds() > best.DecimalOdds() {
			best = q
		}
	}
	return best
}
