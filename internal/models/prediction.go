package models

import (
	"time"

	"github.com/google/uuid"
)

// TrendDirection labels a player's momentum relative to the field
type TrendDirection string

const (
	TrendHot     TrendDirection = "hot"
	TrendWarming TrendDirection = "warming"
	TrendCooling TrendDirection = "cooling"
	TrendCold    TrendDirection = "cold"
	TrendUnknown TrendDirection = "unknown"
)

// SubScore is a named 0-100 score with the confidence used to shrink it
// toward the neutral midpoint
type SubScore struct {
	Score      float64            `json:"score"`
	Confidence float64            `json:"confidence"`
	Components map[string]float64 `json:"components,omitempty"`
}

// HasData reports whether the sub-score was computed from any real input
// rather than defaulted to neutral
func (s *SubScore) HasData() bool {
	return s != nil && len(s.Components) > 0
}

// PlayerScore is the per-player output of a prediction run: the composite
// ranking score with its contributing sub-scores
type PlayerScore struct {
	PlayerKey     string         `json:"player_key"`
	DisplayName   string         `json:"display_name"`
	Rank          int            `json:"rank"`
	Composite     float64        `json:"composite"`
	CourseFit     *SubScore      `json:"course_fit,omitempty"`
	Form          *SubScore      `json:"form,omitempty"`
	Momentum      *SubScore      `json:"momentum,omitempty"`
	Trend         TrendDirection `json:"trend"`
	Adjustment    float64        `json:"adjustment,omitempty"`
	WeatherAdjust float64        `json:"weather_adjust,omitempty"`
}

// PredictionRun groups one tournament-week scoring pass: the ranked
// field at a moment in time. Runs are append-only; a rerun creates a new
// run rather than mutating an old one.
type PredictionRun struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID string    `db:"tournament_id" json:"tournament_id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	FieldSize    int       `db:"field_size" json:"field_size"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	Scores []PlayerScore `db:"-" json:"scores,omitempty"`
}

// ValueBet is a flagged positive-EV opportunity. Computed fresh each run,
// never mutated; historized into the prediction log for outcome scoring.
type ValueBet struct {
	ID            uuid.UUID `db:"id" json:"id"`
	TournamentID  string    `db:"tournament_id" json:"tournament_id"`
	PlayerKey     string    `db:"player_key" json:"player_key"`
	DisplayName   string    `db:"display_name" json:"display_name"`
	Market        Market    `db:"market" json:"market"`
	ModelProb     float64   `db:"model_prob" json:"model_prob"`
	ExternalProb  *float64  `db:"external_prob" json:"external_prob,omitempty"`
	MarketProb    float64   `db:"market_prob" json:"market_prob"`
	BestPrice     int       `db:"best_price" json:"best_price"`
	BestBook      string    `db:"best_book" json:"best_book"`
	EV            float64   `db:"ev" json:"ev"`
	StakeFraction float64   `db:"stake_fraction" json:"stake_fraction"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// WarningKind classifies a data-quality warning
type WarningKind string

const (
	WarningSuspiciousRatio WarningKind = "suspicious_probability_ratio"
	WarningCappedEV        WarningKind = "ev_above_sanity_ceiling"
	WarningStaleOdds       WarningKind = "market_probability_below_floor"
	WarningInvalidOdds     WarningKind = "odds_outside_plausible_bounds"
)

// DataQualityWarning flags odds or probabilities that look corrupt rather
// than genuinely mispriced. Surfaced in output, never silently dropped.
type DataQualityWarning struct {
	Kind      WarningKind `json:"kind"`
	PlayerKey string      `json:"player_key"`
	Market    Market      `json:"market"`
	Detail    string      `json:"detail"`
}
