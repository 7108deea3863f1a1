package models

// ExternalPlayerData carries the externally supplied signals for one
// player: calibrated probabilities per market plus percentile
// decompositions. All fields are optional; missing data degrades the
// consuming term, it never errors.
type ExternalPlayerData struct {
	// Probabilities are calibrated [0,1] probabilities per market from
	// the external simulation source.
	Probabilities map[Market]float64 `json:"probabilities,omitempty"`
	// CourseAdjustedPercentile is the course-history-adjusted strokes
	// gained percentile, 0-100.
	CourseAdjustedPercentile *float64 `json:"course_adjusted_percentile,omitempty"`
	// SkillRatingPercentile is the field-strength-adjusted true skill
	// percentile, 0-100.
	SkillRatingPercentile *float64 `json:"skill_rating_percentile,omitempty"`
	// ApproachSkillPercentile is the approach-play skill percentile, 0-100.
	ApproachSkillPercentile *float64 `json:"approach_skill_percentile,omitempty"`
	// GlobalRankPercentile is the world-ranking percentile, 0-100.
	GlobalRankPercentile *float64 `json:"global_rank_percentile,omitempty"`
}

// ExternalData maps player keys to their external signals
type ExternalData map[string]ExternalPlayerData

// Probability returns the external calibrated probability for a player
// and market, and whether one exists
func (d ExternalData) Probability(playerKey string, market Market) (float64, bool) {
	pd, ok := d[playerKey]
	if !ok || pd.Probabilities == nil {
		return 0, false
	}
	p, ok := pd.Probabilities[market]
	return p, ok
}

// Coverage returns the fraction of the given players with any external
// probability data
func (d ExternalData) Coverage(playerKeys []string) float64 {
	if len(playerKeys) == 0 {
		return 0
	}
	covered := 0
	for _, pk := range playerKeys {
		if pd, ok := d[pk]; ok && len(pd.Probabilities) > 0 {
			covered++
		}
	}
	return float64(covered) / float64(len(playerKeys))
}

// WeatherSnapshot is the optional weather feed: a forecast severity
// scalar plus per-player adjustments already derived by the collaborator
type WeatherSnapshot struct {
	// Severity rates forecast conditions, 0 (calm) to 100 (extreme).
	Severity float64 `json:"severity"`
	// WindSpeedKmh is the peak sustained forecast wind.
	WindSpeedKmh float64 `json:"wind_speed_kmh"`
	// TemperatureC is the forecast low during play.
	TemperatureC float64 `json:"temperature_c"`
	// WaveAdjustments are AM/PM draw advantages per player, points.
	WaveAdjustments map[string]float64 `json:"wave_adjustments,omitempty"`
	// ResilienceDeltas are historical bad-weather performance deltas per
	// player, points.
	ResilienceDeltas map[string]float64 `json:"resilience_deltas,omitempty"`
}

// AnnotatorAdjustments are qualitative score nudges per player, produced
// by the optional annotator. Values are raw and capped downstream.
type AnnotatorAdjustments map[string]float64
