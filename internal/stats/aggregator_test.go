package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fairway-edge/internal/models"
)

func fptr(v float64) *float64 { return &v }

func iptr(v int) *int { return &v }

func roundAt(player, course string, date time.Time, sgTotal float64) models.HistoricalRound {
	return models.HistoricalRound{
		PlayerKey: player,
		Date:      date,
		CourseID:  course,
		SGTotal:   fptr(sgTotal),
	}
}

func TestRankToScore(t *testing.T) {
	assert.Equal(t, 100.0, RankToScore(1, 10))
	assert.Equal(t, 0.0, RankToScore(10, 10))
	assert.InDelta(t, 50.0, RankToScore(5, 9), 1e-9)

	// Out-of-range ranks clamp instead of extrapolating.
	assert.Equal(t, 100.0, RankToScore(0, 10))
	assert.Equal(t, 0.0, RankToScore(11, 10))

	// A field of one carries no relative signal.
	assert.Equal(t, NeutralScore, RankToScore(1, 1))
	assert.Equal(t, NeutralScore, RankToScore(1, 0))
}

func TestNewAggregatorOrdersWindows(t *testing.T) {
	agg := NewAggregator([]int{24, 4, 12, 0, -1}, 365)
	windows := agg.Windows()

	require.Len(t, windows, 4)
	assert.Equal(t, Window{Size: 4}, windows[0])
	assert.Equal(t, Window{Size: 12}, windows[1])
	assert.Equal(t, Window{Size: 24}, windows[2])
	assert.True(t, windows[3].IsAll())
	assert.Equal(t, "all", windows[3].String())
	assert.Equal(t, "12", windows[1].String())
}

func TestComputeTrailingWindows(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// Alice's last two rounds are poor (-1.0) but her older four are
	// excellent (+3.0). Bob is flat at +1.0 throughout, so the short
	// window and the career window must disagree on who leads.
	rounds := map[string][]models.HistoricalRound{
		"alice": {
			roundAt("alice", "c1", base, -1.0),
			roundAt("alice", "c1", base.AddDate(0, 0, -7), -1.0),
			roundAt("alice", "c1", base.AddDate(0, 0, -14), 3.0),
			roundAt("alice", "c1", base.AddDate(0, 0, -21), 3.0),
			roundAt("alice", "c1", base.AddDate(0, 0, -28), 3.0),
			roundAt("alice", "c1", base.AddDate(0, 0, -35), 3.0),
		},
		"bob": {
			roundAt("bob", "c1", base, 1.0),
			roundAt("bob", "c1", base.AddDate(0, 0, -7), 1.0),
			roundAt("bob", "c1", base.AddDate(0, 0, -14), 1.0),
			roundAt("bob", "c1", base.AddDate(0, 0, -21), 1.0),
			roundAt("bob", "c1", base.AddDate(0, 0, -28), 1.0),
			roundAt("bob", "c1", base.AddDate(0, 0, -35), 1.0),
		},
	}

	agg := NewAggregator([]int{2}, 365)
	results := agg.Compute(rounds, models.SGTotal)
	require.Len(t, results, 2)

	short := results[Window{Size: 2}]
	require.NotNil(t, short)
	assert.InDelta(t, -1.0, short.Values["alice"], 1e-9)
	assert.InDelta(t, 1.0, short.Values["bob"], 1e-9)
	assert.Equal(t, map[string]int{"bob": 1, "alice": 2}, short.Ranks)
	assert.Equal(t, 2, short.Rounds["alice"])

	career := results[AllWindow]
	require.NotNil(t, career)
	assert.InDelta(t, (4*3.0-2*1.0)/6, career.Values["alice"], 1e-9)
	assert.Equal(t, map[string]int{"alice": 1, "bob": 2}, career.Ranks)
	assert.Equal(t, 6, career.Rounds["alice"])
}

func TestComputeExcludesPlayersWithoutData(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rounds := map[string][]models.HistoricalRound{
		"alice": {roundAt("alice", "c1", base, 2.0)},
		"carol": {
			// Round exists but the category value is missing.
			{PlayerKey: "carol", Date: base, CourseID: "c1"},
		},
	}

	agg := NewAggregator(nil, 365)
	result := agg.Compute(rounds, models.SGTotal)[AllWindow]
	require.NotNil(t, result)

	assert.Equal(t, 1, result.FieldSize())
	_, ok := result.Rank("carol")
	assert.False(t, ok)
	assert.Equal(t, NeutralScore, result.Score("carol"))
	assert.Equal(t, 100.0, result.Score("alice"))
}

func TestComputeBreaksTiesByKey(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rounds := map[string][]models.HistoricalRound{
		"zed":   {roundAt("zed", "c1", base, 1.5)},
		"alice": {roundAt("alice", "c1", base, 1.5)},
	}

	result := NewAggregator(nil, 365).Compute(rounds, models.SGTotal)[AllWindow]
	require.NotNil(t, result)
	assert.Equal(t, map[string]int{"alice": 1, "zed": 2}, result.Ranks)
}

func TestComputeCourseAppliesRecencyDecay(t *testing.T) {
	asOf := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// One great round exactly a half-life ago and one poor round today.
	// The decayed mean must sit closer to the fresh round.
	rounds := map[string][]models.HistoricalRound{
		"alice": {
			roundAt("alice", "augusta", asOf, 0.0),
			roundAt("alice", "augusta", asOf.AddDate(0, 0, -365), 3.0),
			roundAt("alice", "elsewhere", asOf, 9.0),
		},
	}

	result := NewAggregator(nil, 365).ComputeCourse(rounds, "augusta", models.SGTotal, asOf)
	require.NotNil(t, result)

	// Weights 1.0 and 0.5 over values 0.0 and 3.0.
	assert.InDelta(t, (1.0*0.0+0.5*3.0)/1.5, result.Values["alice"], 1e-9)
	assert.Equal(t, 2, result.Rounds["alice"])
}

func TestComputeCourseIgnoresOtherCourses(t *testing.T) {
	asOf := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rounds := map[string][]models.HistoricalRound{
		"alice": {roundAt("alice", "elsewhere", asOf, 2.0)},
	}

	result := NewAggregator(nil, 365).ComputeCourse(rounds, "augusta", models.SGTotal, asOf)
	require.NotNil(t, result)
	assert.Empty(t, result.Values)
	assert.Equal(t, 0, result.FieldSize())
}

func TestComputeCourseFamilyDiscountsRelatedCourses(t *testing.T) {
	asOf := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rounds := map[string][]models.HistoricalRound{
		"alice": {
			roundAt("alice", "augusta", asOf, 1.0),
			roundAt("alice", "sister-track", asOf, 3.0),
			roundAt("alice", "unrelated", asOf, 9.0),
		},
		"bob": {
			// No rounds at the venue itself; related history still counts.
			roundAt("bob", "sister-track", asOf, 2.0),
		},
	}

	agg := NewAggregator(nil, 365)
	result := agg.ComputeCourseFamily(rounds, "augusta", []string{"sister-track"}, models.SGTotal, asOf)
	require.NotNil(t, result)

	// Venue round at weight 1.0, related round at 0.5, unrelated dropped.
	assert.InDelta(t, (1.0*1.0+0.5*3.0)/1.5, result.Values["alice"], 1e-9)
	assert.Equal(t, 2, result.Rounds["alice"])
	assert.InDelta(t, 2.0, result.Values["bob"], 1e-9)

	// With no related list the family aggregate matches the plain one.
	plain := agg.ComputeCourse(rounds, "augusta", models.SGTotal, asOf)
	family := agg.ComputeCourseFamily(rounds, "augusta", nil, models.SGTotal, asOf)
	assert.Equal(t, plain.Values, family.Values)
}

func TestComputeParEfficiencyRanksLowerBetter(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mk := func(player string, score int) models.HistoricalRound {
		return models.HistoricalRound{
			PlayerKey: player,
			Date:      base,
			CourseID:  "augusta",
			Score:     iptr(score),
		}
	}

	rounds := map[string][]models.HistoricalRound{
		"alice": {mk("alice", 68), mk("alice", 70)},
		"bob":   {mk("bob", 74)},
		"carol": {
			// At the course but never posted a score.
			{PlayerKey: "carol", Date: base, CourseID: "augusta"},
		},
	}

	result := ComputeParEfficiency(rounds, "augusta", 72)
	require.NotNil(t, result)

	assert.InDelta(t, -3.0, result.Values["alice"], 1e-9)
	assert.InDelta(t, 2.0, result.Values["bob"], 1e-9)
	assert.Equal(t, ParEfficiency, result.Category)

	// Scoring average is lower-is-better, so alice outranks bob.
	assert.Equal(t, map[string]int{"alice": 1, "bob": 2}, result.Ranks)
	_, ok := result.Rank("carol")
	assert.False(t, ok)
}

func TestResultFromValuesHigherBetter(t *testing.T) {
	values := map[string]float64{"alice": 0.8, "bob": 0.3}
	result := ResultFromValues(models.SGTotal, values, nil, false)

	assert.Equal(t, map[string]int{"alice": 1, "bob": 2}, result.Ranks)
	// Values are reported as given, only the ranking direction flips.
	assert.Equal(t, values, result.Values)
}

func TestLastPlayed(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rounds := []models.HistoricalRound{
		roundAt("alice", "augusta", base.AddDate(-2, 0, 0), 1.0),
		roundAt("alice", "augusta", base.AddDate(-1, 0, 0), 1.0),
		roundAt("alice", "elsewhere", base, 1.0),
	}

	latest, ok := LastPlayed(rounds, "augusta")
	require.True(t, ok)
	assert.Equal(t, base.AddDate(-1, 0, 0), latest)

	_, ok = LastPlayed(rounds, "nowhere")
	assert.False(t, ok)
}
