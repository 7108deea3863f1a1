package scoring

import (
	"github.com/yourusername/fairway-edge/internal/config"
	"github.com/yourusername/fairway-edge/internal/models"
)

// WeatherAdjuster turns the optional weather feed into small per-player
// score nudges. The caps keep forecast noise from ever moving a player
// more than a handful of points.
type WeatherAdjuster struct {
	cfg config.WeatherConfig
}

func NewWeatherAdjuster(cfg config.WeatherConfig) *WeatherAdjuster {
	return &WeatherAdjuster{cfg: cfg}
}

// Adjustment returns the capped weather adjustment for a player. Zero
// when the adjuster is disabled or no snapshot is available.
func (a *WeatherAdjuster) Adjustment(playerKey string, snapshot *models.WeatherSnapshot) float64 {
	if !a.cfg.Enabled || snapshot == nil {
		return 0
	}
	var adj float64
	if wave, ok := snapshot.WaveAdjustments[playerKey]; ok {
		adj += Clamp(wave, -a.cfg.MaxWaveAdjustment, a.cfg.MaxWaveAdjustment)
	}
	// Resilience history only matters when the forecast is actually rough.
	if a.severe(snapshot) {
		if res, ok := snapshot.ResilienceDeltas[playerKey]; ok {
			adj += Clamp(res, -a.cfg.MaxResilienceAdjustment, a.cfg.MaxResilienceAdjustment)
		}
	}
	return adj
}

func (a *WeatherAdjuster) severe(snapshot *models.WeatherSnapshot) bool {
	return snapshot.WindSpeedKmh >= a.cfg.WindThresholdKmh ||
		(snapshot.TemperatureC != 0 && snapshot.TemperatureC <= a.cfg.ColdThresholdC)
}
