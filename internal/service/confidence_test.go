package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fairway-edge/internal/datasource"
	"github.com/yourusername/fairway-edge/internal/models"
)

func confidenceSnapshot(size int, withCourse bool, coverage float64) (*datasource.Snapshot, *models.PredictionRun) {
	field, _ := testField("t", "tc-oakdale", size)
	snapshot := &datasource.Snapshot{
		TournamentID: "t",
		Field:        field,
		FetchedAt:    time.Now().UTC(),
	}
	if withCourse {
		snapshot.Course = &models.CourseProfile{
			CourseID: "tc-oakdale",
			Par:      71,
			SkillRatings: map[models.SGCategory]models.Difficulty{
				models.SGApproach: models.DifficultyHard,
			},
		}
	}

	covered := int(coverage * float64(size))
	external := make(models.ExternalData)
	for i, p := range field.Players {
		if i < covered {
			external[p.Key] = models.ExternalPlayerData{
				Probabilities: map[models.Market]float64{models.MarketOutright: 0.1},
			}
		}
	}
	snapshot.External = external

	run := &models.PredictionRun{TournamentID: "t", FieldSize: size}
	for _, p := range field.Players {
		run.Scores = append(run.Scores, models.PlayerScore{
			PlayerKey: p.Key,
			CourseFit: &models.SubScore{Score: 60, Confidence: 0.5, Components: map[string]float64{"sg_total": 60}},
			Form:      &models.SubScore{Score: 55, Confidence: 0.6, Components: map[string]float64{"recent": 55}},
		})
	}
	return snapshot, run
}

func TestConfidenceHighForCompleteInputs(t *testing.T) {
	snapshot, run := confidenceSnapshot(10, true, 1.0)
	snapshot.Odds = []models.OddsQuote{
		{PlayerKey: "player00", Market: models.MarketOutright, Book: "fanduel", Price: 350},
		{PlayerKey: "player01", Market: models.MarketOutright, Book: "fanduel", Price: 900},
	}

	report := BuildConfidenceReport(snapshot, run, []models.ValueBet{{PlayerKey: "player00"}}, nil)

	require.NotNil(t, report)
	assert.Equal(t, ConfidenceHigh, report.Overall)
	assert.InDelta(t, 1.0, report.Score, 1e-9)
}

func TestConfidenceLowForBareInputs(t *testing.T) {
	snapshot, run := confidenceSnapshot(10, false, 0)
	for i := range run.Scores {
		run.Scores[i].CourseFit = nil
		run.Scores[i].Form = nil
	}

	report := BuildConfidenceReport(snapshot, run, nil, nil)

	assert.Equal(t, ConfidenceLow, report.Overall)
	// Only the suspicious-bet factor survives with no inputs at all.
	assert.InDelta(t, wSuspiciousRate, report.Score, 1e-9)
}

func TestConfidencePenalizesWarningHeavyRuns(t *testing.T) {
	snapshot, run := confidenceSnapshot(10, true, 1.0)
	snapshot.Odds = []models.OddsQuote{
		{PlayerKey: "player00", Market: models.MarketOutright, Book: "fanduel", Price: 350},
	}

	warnings := []models.DataQualityWarning{
		{Kind: models.WarningInvalidOdds, PlayerKey: "player01"},
		{Kind: models.WarningInvalidOdds, PlayerKey: "player02"},
		{Kind: models.WarningSuspiciousRatio, PlayerKey: "player03"},
	}
	clean := BuildConfidenceReport(snapshot, run, []models.ValueBet{{PlayerKey: "player00"}}, nil)
	noisy := BuildConfidenceReport(snapshot, run, []models.ValueBet{{PlayerKey: "player00"}}, warnings)

	assert.Less(t, noisy.Score, clean.Score)
	assert.InDelta(t, 0.25, noisy.Factors["suspicious_bets"], 1e-9)
}

func TestConfidencePartialCourseProfile(t *testing.T) {
	snapshot, run := confidenceSnapshot(10, true, 1.0)
	snapshot.Course.SkillRatings = nil

	report := BuildConfidenceReport(snapshot, run, nil, nil)
	assert.InDelta(t, 0.5, report.Factors["course_profile"], 1e-9)
}
