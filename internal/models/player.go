package models

import (
	"strings"
	"unicode"
)

// Player identifies one competitor in a tournament field
type Player struct {
	Key         string `db:"player_key" json:"player_key" validate:"required"`
	DisplayName string `db:"display_name" json:"display_name"`
	DGID        *int64 `db:"dg_id" json:"dg_id,omitempty"`
}

// Field is the set of players entered in one tournament. Immutable for
// the duration of a run once fetched.
type Field struct {
	TournamentID string   `json:"tournament_id"`
	CourseID     string   `json:"course_id"`
	Players      []Player `json:"players"`
}

// Size returns the number of players in the field
func (f *Field) Size() int {
	return len(f.Players)
}

// Keys returns the normalized player keys in field order
func (f *Field) Keys() []string {
	keys := make([]string, len(f.Players))
	for i, p := range f.Players {
		keys[i] = p.Key
	}
	return keys
}

// Contains reports whether the field includes the player key
func (f *Field) Contains(key string) bool {
	for _, p := range f.Players {
		if p.Key == key {
			return true
		}
	}
	return false
}

// NormalizeName converts a display name into a stable player key.
// "Scottie Scheffler" and "SCHEFFLER, Scottie " map to the same key.
func NormalizeName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	// "last, first" -> "first last"
	if idx := strings.Index(name, ","); idx >= 0 {
		name = strings.TrimSpace(name[idx+1:]) + " " + strings.TrimSpace(name[:idx])
	}
	var b strings.Builder
	lastSpace := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
