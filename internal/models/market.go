package models

import "fmt"

// Market represents a golf betting market type
type Market string

const (
	MarketOutright Market = "outright"
	MarketTop5     Market = "top5"
	MarketTop10    Market = "top10"
	MarketTop20    Market = "top20"
	MarketMakeCut  Market = "make_cut"
	MarketFRL      Market = "frl"
	MarketMatchup  Market = "matchup"
)

// MarketParams holds the per-market tuning constants. Each market carries
// its own softmax temperature, probability mass, odds ceiling and blend
// weight as data so no market-specific branching leaks into the pipeline.
type MarketParams struct {
	// Temperature controls how peaked the score-to-probability softmax is.
	// Lower temperature = more concentrated on the top players.
	Temperature float64
	// TargetSumBase is the probability mass the model-only distribution
	// must sum to. For make-cut the mass scales with field size instead.
	TargetSumBase float64
	// TargetSumPerPlayer, when non-zero, overrides TargetSumBase with
	// TargetSumPerPlayer * fieldSize (make-cut: ~65% of the field survives).
	TargetSumPerPlayer float64
	// DefaultEVThreshold is the minimum EV to flag value when the
	// adaptation engine has no state for this market yet.
	DefaultEVThreshold float64
	// OddsCeiling is the maximum plausible American odds; anything above
	// is treated as corrupt feed data.
	OddsCeiling int
	// ExternalWeight is the share given to the externally calibrated
	// probability when blending with the model softmax.
	ExternalWeight float64
	// PlacementThreshold is the worst finishing position that still wins
	// the bet (0 for non-placement markets).
	PlacementThreshold int
}

var marketTable = map[Market]MarketParams{
	MarketOutright: {Temperature: 8, TargetSumBase: 1.0, DefaultEVThreshold: 0.05, OddsCeiling: 30000, ExternalWeight: 0.90, PlacementThreshold: 1},
	MarketTop5:     {Temperature: 10, TargetSumBase: 5.0, DefaultEVThreshold: 0.05, OddsCeiling: 5000, ExternalWeight: 0.85, PlacementThreshold: 5},
	MarketTop10:    {Temperature: 12, TargetSumBase: 10.0, DefaultEVThreshold: 0.02, OddsCeiling: 3000, ExternalWeight: 0.85, PlacementThreshold: 10},
	MarketTop20:    {Temperature: 15, TargetSumBase: 20.0, DefaultEVThreshold: 0.02, OddsCeiling: 1500, ExternalWeight: 0.80, PlacementThreshold: 20},
	MarketMakeCut:  {Temperature: 20, TargetSumPerPlayer: 0.65, DefaultEVThreshold: 0.02, OddsCeiling: 500, ExternalWeight: 0.80},
	MarketFRL:      {Temperature: 7, TargetSumBase: 1.0, DefaultEVThreshold: 0.05, OddsCeiling: 10000, ExternalWeight: 0.90, PlacementThreshold: 1},
	MarketMatchup:  {Temperature: 10, TargetSumBase: 1.0, DefaultEVThreshold: 0.05, OddsCeiling: 5000, ExternalWeight: 0.70},
}

// AllMarkets returns every known market in a stable order
func AllMarkets() []Market {
	return []Market{
		MarketOutright, MarketTop5, MarketTop10, MarketTop20,
		MarketMakeCut, MarketFRL, MarketMatchup,
	}
}

// ParseMarket converts a string into a Market, accepting the common
// underscore aliases used by odds feeds (top_5, outrights, win)
func ParseMarket(s string) (Market, error) {
	switch s {
	case "outright", "outrights", "win":
		return MarketOutright, nil
	case "top5", "top_5":
		return MarketTop5, nil
	case "top10", "top_10":
		return MarketTop10, nil
	case "top20", "top_20":
		return MarketTop20, nil
	case "make_cut", "makecut":
		return MarketMakeCut, nil
	case "frl", "first_round_leader":
		return MarketFRL, nil
	case "matchup", "3ball", "h2h":
		return MarketMatchup, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMarket, s)
}

// Params returns the tuning constants for the market
func (m Market) Params() (MarketParams, error) {
	p, ok := marketTable[m]
	if !ok {
		return MarketParams{}, fmt.Errorf("%w: %q", ErrUnknownMarket, string(m))
	}
	return p, nil
}

// MustParams is like Params but panics on an unknown market. Only for use
// with the compile-time market constants above.
func (m Market) MustParams() MarketParams {
	p, err := m.Params()
	if err != nil {
		panic(err)
	}
	return p
}

// TargetSum returns the probability mass the model-only distribution must
// sum to for a field of the given size
func (p MarketParams) TargetSum(fieldSize int) float64 {
	if p.TargetSumPerPlayer > 0 {
		return p.TargetSumPerPlayer * float64(fieldSize)
	}
	return p.TargetSumBase
}

// IsPlacement reports whether the market pays on finishing position
func (m Market) IsPlacement() bool {
	p, err := m.Params()
	return err == nil && p.PlacementThreshold > 0
}

// String implements fmt.Stringer
func (m Market) String() string {
	return string(m)
}
