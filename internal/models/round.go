package models

import (
	"time"

	"github.com/google/uuid"
)

// SGCategory names one strokes-gained component of a round
type SGCategory string

const (
	SGTotal      SGCategory = "sg_total"
	SGOffTheTee  SGCategory = "sg_ott"
	SGApproach   SGCategory = "sg_app"
	SGAroundGrn  SGCategory = "sg_arg"
	SGPutting    SGCategory = "sg_putt"
	SGTeeToGreen SGCategory = "sg_t2g"
)

// SGCategories returns all strokes-gained categories in a stable order
func SGCategories() []SGCategory {
	return []SGCategory{SGTotal, SGOffTheTee, SGApproach, SGAroundGrn, SGPutting, SGTeeToGreen}
}

// HistoricalRound is one player's recorded performance in one round.
// Strokes-gained values are nil when the source did not measure them.
type HistoricalRound struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PlayerKey string    `db:"player_key" json:"player_key" validate:"required"`
	Date      time.Time `db:"round_date" json:"round_date" validate:"required"`
	CourseID  string    `db:"course_id" json:"course_id"`
	EventName string    `db:"event_name" json:"event_name"`

	SGTotal *float64 `db:"sg_total" json:"sg_total"`
	SGOTT   *float64 `db:"sg_ott" json:"sg_ott"`
	SGApp   *float64 `db:"sg_app" json:"sg_app"`
	SGARG   *float64 `db:"sg_arg" json:"sg_arg"`
	SGPutt  *float64 `db:"sg_putt" json:"sg_putt"`
	SGT2G   *float64 `db:"sg_t2g" json:"sg_t2g"`

	DrivingDistance *float64 `db:"driving_dist" json:"driving_dist"`
	DrivingAccuracy *float64 `db:"driving_acc" json:"driving_acc"`
	GIR             *float64 `db:"gir" json:"gir"`
	Scrambling      *float64 `db:"scrambling" json:"scrambling"`
	Score           *int     `db:"score" json:"score"`
}

// SG returns the strokes-gained value for a category, nil if unrecorded
func (r *HistoricalRound) SG(cat SGCategory) *float64 {
	switch cat {
	case SGTotal:
		return r.SGTotal
	case SGOffTheTee:
		return r.SGOTT
	case SGApproach:
		return r.SGApp
	case SGAroundGrn:
		return r.SGARG
	case SGPutting:
		return r.SGPutt
	case SGTeeToGreen:
		return r.SGT2G
	}
	return nil
}
