package service

import (
	"github.com/yourusername/fairway-edge/internal/datasource"
	"github.com/yourusername/fairway-edge/internal/models"
)

// Confidence factor weights. They sum to 1 so the overall score stays
// in [0, 1].
const (
	wCourseProfile  = 0.15
	wExternalCover  = 0.20
	wCourseHistory  = 0.20
	wFormDepth      = 0.15
	wOddsQuality    = 0.20
	wSuspiciousRate = 0.10
)

// ConfidenceBand buckets the overall confidence for reporting
type ConfidenceBand string

const (
	ConfidenceHigh   ConfidenceBand = "high"
	ConfidenceMedium ConfidenceBand = "medium"
	ConfidenceLow    ConfidenceBand = "low"
)

// ConfidenceReport grades how much to trust one prediction run based on
// the quality of its inputs, not on the predictions themselves.
type ConfidenceReport struct {
	Overall ConfidenceBand     `json:"overall"`
	Score   float64            `json:"score"`
	Factors map[string]float64 `json:"factors"`
}

// BuildConfidenceReport computes the weighted input-quality score for a
// completed run
func BuildConfidenceReport(snapshot *datasource.Snapshot, run *models.PredictionRun, bets []models.ValueBet, warnings []models.DataQualityWarning) *ConfidenceReport {
	factors := map[string]float64{
		"course_profile":  courseProfileFactor(snapshot.Course),
		"external_cover":  snapshot.External.Coverage(snapshot.Field.Keys()),
		"course_history":  subScoreDepth(run.Scores, func(ps *models.PlayerScore) *models.SubScore { return ps.CourseFit }),
		"form_depth":      subScoreDepth(run.Scores, func(ps *models.PlayerScore) *models.SubScore { return ps.Form }),
		"odds_quality":    oddsQualityFactor(snapshot.Odds),
		"suspicious_bets": suspiciousRateFactor(bets, warnings),
	}

	score := wCourseProfile*factors["course_profile"] +
		wExternalCover*factors["external_cover"] +
		wCourseHistory*factors["course_history"] +
		wFormDepth*factors["form_depth"] +
		wOddsQuality*factors["odds_quality"] +
		wSuspiciousRate*factors["suspicious_bets"]

	return &ConfidenceReport{
		Overall: bandFor(score),
		Score:   score,
		Factors: factors,
	}
}

func bandFor(score float64) ConfidenceBand {
	switch {
	case score >= 0.75:
		return ConfidenceHigh
	case score >= 0.5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func courseProfileFactor(profile *models.CourseProfile) float64 {
	if profile == nil {
		return 0
	}
	if len(profile.SkillRatings) == 0 {
		return 0.5
	}
	return 1
}

// subScoreDepth is the fraction of the field whose sub-score came from
// real data rather than a neutral default
func subScoreDepth(scores []models.PlayerScore, pick func(*models.PlayerScore) *models.SubScore) float64 {
	if len(scores) == 0 {
		return 0
	}
	withData := 0
	for i := range scores {
		if pick(&scores[i]).HasData() {
			withData++
		}
	}
	return float64(withData) / float64(len(scores))
}

func oddsQualityFactor(quotes []models.OddsQuote) float64 {
	if len(quotes) == 0 {
		return 0
	}
	valid := 0
	for i := range quotes {
		if quotes[i].IsValid() {
			valid++
		}
	}
	return float64(valid) / float64(len(quotes))
}

// suspiciousRateFactor penalizes runs whose detection pass raised many
// data-quality warnings relative to the bets it emitted
func suspiciousRateFactor(bets []models.ValueBet, warnings []models.DataQualityWarning) float64 {
	total := len(bets) + len(warnings)
	if total == 0 {
		return 1
	}
	rate := float64(len(warnings)) / float64(total)
	return 1 - rate
}
