package models

import (
	"strconv"
	"strings"
)

// FinishStatus distinguishes a numeric finish from the ways a player can
// leave a tournament without one
type FinishStatus string

const (
	FinishCompleted    FinishStatus = "completed"
	FinishMissedCut    FinishStatus = "cut"
	FinishWithdrawn    FinishStatus = "wd"
	FinishDisqualified FinishStatus = "dq"
)

// FinishResult is one player's settled tournament outcome
type FinishResult struct {
	PlayerKey  string       `db:"player_key" json:"player_key"`
	Position   *int         `db:"finish_position" json:"finish_position"` // nil for CUT/WD/DQ
	FinishText string       `db:"finish_text" json:"finish_text"`         // raw, e.g. "T14"
	Status     FinishStatus `db:"status" json:"status"`
	MadeCut    bool         `db:"made_cut" json:"made_cut"`
}

// Tied reports whether the player shared their finishing position
func (r *FinishResult) Tied() bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(r.FinishText)), "T")
}

// ParseFinish parses a finish string like "T14", "1", "CUT" or "W/D"
func ParseFinish(text string) FinishResult {
	raw := strings.ToUpper(strings.TrimSpace(text))
	res := FinishResult{FinishText: raw}

	switch raw {
	case "CUT", "MC":
		res.Status = FinishMissedCut
		return res
	case "W/D", "WD", "WTD":
		res.Status = FinishWithdrawn
		return res
	case "DQ", "DSQ":
		res.Status = FinishDisqualified
		return res
	}

	numText := strings.TrimPrefix(raw, "T")
	pos, err := strconv.Atoi(numText)
	if err != nil {
		// Unparseable but not a known DNF code: treat as made-cut with
		// no usable position.
		res.Status = FinishCompleted
		res.MadeCut = true
		return res
	}

	res.Status = FinishCompleted
	res.MadeCut = true
	res.Position = &pos
	return res
}

// CountTiedAt counts how many players share the given finishing position.
// Only players whose finish text carries the tie prefix are counted; a
// lone occupant of the position counts as 1.
func CountTiedAt(position int, results []FinishResult) int {
	count := 0
	for i := range results {
		r := &results[i]
		if r.Position != nil && *r.Position == position && r.Tied() {
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return count
}
