// Package stats derives per-player rank-within-field statistics from raw
// historical rounds, over multiple trailing windows.
package stats

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/yourusername/fairway-edge/internal/models"
)

// NeutralScore is the midpoint a rank-score degrades to when a player has
// no qualifying data
const NeutralScore = 50.0

// ParEfficiency is the derived scoring-relative-to-par category. It lives
// alongside the strokes-gained categories so WindowResult can carry it.
const ParEfficiency models.SGCategory = "par_efficiency"

// Window names a trailing slice of a player's round history.
// Size 0 means the full career window.
type Window struct {
	Size int
}

// AllWindow is the career-length window
var AllWindow = Window{Size: 0}

// IsAll reports whether the window covers the full history
func (w Window) IsAll() bool {
	return w.Size == 0
}

// String implements fmt.Stringer
func (w Window) String() string {
	if w.IsAll() {
		return "all"
	}
	return strconv.Itoa(w.Size)
}

// WindowResult is the value object a scorer consumes: per-player
// aggregates for one (window, category) pair plus field-relative ranks.
// Ranks are a permutation of 1..N over players with data; players
// without data are excluded from ranking, never assigned one.
type WindowResult struct {
	Window   Window
	Category models.SGCategory
	Values   map[string]float64
	Ranks    map[string]int
	Rounds   map[string]int
}

// FieldSize returns the number of ranked players
func (r *WindowResult) FieldSize() int {
	return len(r.Ranks)
}

// Rank returns the player's rank and whether they were ranked
func (r *WindowResult) Rank(playerKey string) (int, bool) {
	rank, ok := r.Ranks[playerKey]
	return rank, ok
}

// Score returns the player's rank converted to a 0-100 score, neutral
// when the player has no data in this window
func (r *WindowResult) Score(playerKey string) float64 {
	rank, ok := r.Ranks[playerKey]
	if !ok {
		return NeutralScore
	}
	return RankToScore(rank, r.FieldSize())
}

// RankToScore converts a field rank (1 = best) to a 0-100 score.
// A field of one player (or none) carries no relative signal.
func RankToScore(rank, fieldSize int) float64 {
	if fieldSize <= 1 {
		return NeutralScore
	}
	if rank < 1 {
		rank = 1
	}
	if rank > fieldSize {
		rank = fieldSize
	}
	return 100.0 * (1.0 - float64(rank-1)/float64(fieldSize-1))
}

// Aggregator computes windowed aggregates over immutable round snapshots
type Aggregator struct {
	windows      []Window
	halfLifeDays float64
}

// NewAggregator creates an aggregator for the given window sizes plus the
// career window. halfLifeDays controls the exponential recency decay used
// for course-specific aggregates (365 is the tuned default).
func NewAggregator(windowSizes []int, halfLifeDays float64) *Aggregator {
	if halfLifeDays <= 0 {
		halfLifeDays = 365
	}
	windows := make([]Window, 0, len(windowSizes)+1)
	for _, s := range windowSizes {
		if s > 0 {
			windows = append(windows, Window{Size: s})
		}
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].Size < windows[j].Size })
	windows = append(windows, AllWindow)
	return &Aggregator{windows: windows, halfLifeDays: halfLifeDays}
}

// Windows returns the configured windows, smallest first, career last
func (a *Aggregator) Windows() []Window {
	return a.windows
}

// Compute builds one WindowResult per configured window for a category.
// roundsByPlayer holds every historical round for the players in the
// field; ordering does not matter, rounds are sorted internally.
func (a *Aggregator) Compute(roundsByPlayer map[string][]models.HistoricalRound, cat models.SGCategory) map[Window]*WindowResult {
	sorted := sortRoundsDescending(roundsByPlayer)

	results := make(map[Window]*WindowResult, len(a.windows))
	for _, w := range a.windows {
		values := make(map[string]float64)
		rounds := make(map[string]int)
		for pk, rs := range sorted {
			slice := rs
			if !w.IsAll() && len(slice) > w.Size {
				slice = slice[:w.Size]
			}
			avg, n := meanSG(slice, cat)
			if n == 0 {
				continue
			}
			values[pk] = avg
			rounds[pk] = n
		}
		results[w] = &WindowResult{
			Window:   w,
			Category: cat,
			Values:   values,
			Ranks:    rankValues(values),
			Rounds:   rounds,
		}
	}
	return results
}

// ComputeCourse builds a single recency-decayed aggregate over rounds at
// one course. Each round's weight halves every halfLifeDays relative to
// asOf, so an eight-year-old course round cannot outweigh last season's.
func (a *Aggregator) ComputeCourse(roundsByPlayer map[string][]models.HistoricalRound, courseID string, cat models.SGCategory, asOf time.Time) *WindowResult {
	values := make(map[string]float64)
	rounds := make(map[string]int)

	for pk, rs := range roundsByPlayer {
		var weightedSum, weightTotal float64
		n := 0
		for i := range rs {
			r := &rs[i]
			if r.CourseID != courseID {
				continue
			}
			v := r.SG(cat)
			if v == nil {
				continue
			}
			ageDays := asOf.Sub(r.Date).Hours() / 24
			if ageDays < 0 {
				ageDays = 0
			}
			weight := math.Pow(0.5, ageDays/a.halfLifeDays)
			weightedSum += weight * *v
			weightTotal += weight
			n++
		}
		if n == 0 || weightTotal == 0 {
			continue
		}
		values[pk] = weightedSum / weightTotal
		rounds[pk] = n
	}

	return &WindowResult{
		Window:   AllWindow,
		Category: cat,
		Values:   values,
		Ranks:    rankValues(values),
		Rounds:   rounds,
	}
}

// relatedCourseWeight discounts rounds played at a related course
// relative to rounds at the tournament course itself
const relatedCourseWeight = 0.5

// ComputeCourseFamily is ComputeCourse widened to a set of related
// courses. Rounds at the primary course carry full weight; rounds at a
// related course are discounted, so a thin history at the venue can
// borrow signal from similar tracks without being drowned by them.
func (a *Aggregator) ComputeCourseFamily(roundsByPlayer map[string][]models.HistoricalRound, courseID string, related []string, cat models.SGCategory, asOf time.Time) *WindowResult {
	if len(related) == 0 {
		return a.ComputeCourse(roundsByPlayer, courseID, cat, asOf)
	}

	relatedSet := make(map[string]bool, len(related))
	for _, id := range related {
		if id != "" && id != courseID {
			relatedSet[id] = true
		}
	}

	values := make(map[string]float64)
	rounds := make(map[string]int)

	for pk, rs := range roundsByPlayer {
		var weightedSum, weightTotal float64
		n := 0
		for i := range rs {
			r := &rs[i]
			courseWeight := 1.0
			if r.CourseID != courseID {
				if !relatedSet[r.CourseID] {
					continue
				}
				courseWeight = relatedCourseWeight
			}
			v := r.SG(cat)
			if v == nil {
				continue
			}
			ageDays := asOf.Sub(r.Date).Hours() / 24
			if ageDays < 0 {
				ageDays = 0
			}
			weight := courseWeight * math.Pow(0.5, ageDays/a.halfLifeDays)
			weightedSum += weight * *v
			weightTotal += weight
			n++
		}
		if n == 0 || weightTotal == 0 {
			continue
		}
		values[pk] = weightedSum / weightTotal
		rounds[pk] = n
	}

	return &WindowResult{
		Window:   AllWindow,
		Category: cat,
		Values:   values,
		Ranks:    rankValues(values),
		Rounds:   rounds,
	}
}

// ResultFromValues builds a WindowResult from already-derived per-player
// values (par efficiency, external percentiles). lowerIsBetter flips the
// ranking for metrics where a smaller value wins, like scoring average.
func ResultFromValues(cat models.SGCategory, values map[string]float64, rounds map[string]int, lowerIsBetter bool) *WindowResult {
	ranked := values
	if lowerIsBetter {
		ranked = make(map[string]float64, len(values))
		for k, v := range values {
			ranked[k] = -v
		}
	}
	return &WindowResult{
		Window:   AllWindow,
		Category: cat,
		Values:   values,
		Ranks:    rankValues(ranked),
		Rounds:   rounds,
	}
}

// ComputeParEfficiency aggregates per-round scores relative to par at one
// course into a lower-is-better scoring average per player
func ComputeParEfficiency(roundsByPlayer map[string][]models.HistoricalRound, courseID string, par int) *WindowResult {
	values := make(map[string]float64)
	rounds := make(map[string]int)
	for pk, rs := range roundsByPlayer {
		var sum float64
		n := 0
		for i := range rs {
			if rs[i].CourseID != courseID || rs[i].Score == nil {
				continue
			}
			sum += float64(*rs[i].Score - par)
			n++
		}
		if n == 0 {
			continue
		}
		values[pk] = sum / float64(n)
		rounds[pk] = n
	}
	return ResultFromValues(ParEfficiency, values, rounds, true)
}

// LastPlayed returns the most recent round date a player has at a course
func LastPlayed(rounds []models.HistoricalRound, courseID string) (time.Time, bool) {
	var latest time.Time
	found := false
	for i := range rounds {
		if rounds[i].CourseID != courseID {
			continue
		}
		if !found || rounds[i].Date.After(latest) {
			latest = rounds[i].Date
			found = true
		}
	}
	return latest, found
}

func sortRoundsDescending(roundsByPlayer map[string][]models.HistoricalRound) map[string][]models.HistoricalRound {
	out := make(map[string][]models.HistoricalRound, len(roundsByPlayer))
	for pk, rs := range roundsByPlayer {
		cp := make([]models.HistoricalRound, len(rs))
		copy(cp, rs)
		sort.Slice(cp, func(i, j int) bool { return cp[i].Date.After(cp[j].Date) })
		out[pk] = cp
	}
	return out
}

func meanSG(rounds []models.HistoricalRound, cat models.SGCategory) (float64, int) {
	var sum float64
	n := 0
	for i := range rounds {
		if v := rounds[i].SG(cat); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

// rankValues assigns ranks 1..N over players with values, higher value =
// better rank. Ties are broken by key for determinism.
func rankValues(values map[string]float64) map[string]int {
	type entry struct {
		key   string
		value float64
	}
	entries := make([]entry, 0, len(values))
	for k, v := range values {
		entries = append(entries, entry{key: k, value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].value != entries[j].value {
			return entries[i].value > entries[j].value
		}
		return entries[i].key < entries[j].key
	})

	ranks := make(map[string]int, len(entries))
	for i, e := range entries {
		ranks[e.key] = i + 1
	}
	return ranks
}
