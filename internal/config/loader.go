// Package config provides configuration management for the Fairway Edge model.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	v.SetEnvPrefix("FAIRWAY_EDGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults fills in the tuned model constants so a minimal config file
// only needs credentials and connection details
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("model.composite.course_fit", 0.40)
	v.SetDefault("model.composite.form", 0.40)
	v.SetDefault("model.composite.momentum", 0.20)
	v.SetDefault("model.composite.course_fit_to_form", 0.70)

	v.SetDefault("model.course_fit.sg_total", 0.30)
	v.SetDefault("model.course_fit.sg_approach", 0.25)
	v.SetDefault("model.course_fit.sg_off_the_tee", 0.20)
	v.SetDefault("model.course_fit.sg_putting", 0.15)
	v.SetDefault("model.course_fit.par_efficiency", 0.10)
	v.SetDefault("model.course_fit.external_percentile_cap", 0.60)
	v.SetDefault("model.course_fit.skill_rating_weight", 0.15)
	v.SetDefault("model.course_fit.approach_skill_weight", 0.12)

	v.SetDefault("model.form.simulation", 0.25)
	v.SetDefault("model.form.recent", 0.25)
	v.SetDefault("model.form.baseline", 0.15)
	v.SetDefault("model.form.breakdown", 0.15)
	v.SetDefault("model.form.skill_rating", 0.15)
	v.SetDefault("model.form.global_rank", 0.05)

	v.SetDefault("model.windows", []int{8, 12, 16, 24})
	v.SetDefault("model.course_decay_half_life_days", 365.0)
	v.SetDefault("model.putt_shrinkage", 0.5)

	v.SetDefault("betting.markets", []string{"outright", "top5", "top10", "top20", "make_cut"})
	v.SetDefault("betting.ev_sanity_ceiling", 2.0)
	v.SetDefault("betting.min_market_prob", 0.005)
	v.SetDefault("betting.prob_ratio_floor", 0.1)
	v.SetDefault("betting.prob_ratio_ceiling", 10.0)
	v.SetDefault("betting.kelly_fraction", 0.5)
	v.SetDefault("betting.max_stake_fraction", 0.05)

	v.SetDefault("adaptation.window_size", 20)
	v.SetDefault("adaptation.min_sample", 15)
	v.SetDefault("adaptation.emergency_loss_streak", 10)
	v.SetDefault("adaptation.recovery_wins", 2)
	v.SetDefault("adaptation.recovery_window", 5)
	v.SetDefault("adaptation.roi_caution_pct", -20.0)
	v.SetDefault("adaptation.roi_cold_pct", -40.0)
	v.SetDefault("adaptation.threshold_normal", 0.05)
	v.SetDefault("adaptation.threshold_caution", 0.08)
	v.SetDefault("adaptation.threshold_cold", 0.12)
	v.SetDefault("adaptation.cold_stake_multiplier", 0.5)

	v.SetDefault("weather.wind_threshold_kmh", 15.0)
	v.SetDefault("weather.cold_threshold_c", 10.0)
	v.SetDefault("weather.max_wave_adjustment", 3.0)
	v.SetDefault("weather.max_resilience_adjustment", 5.0)

	v.SetDefault("annotator.adjustment_cap", 3.0)
	v.SetDefault("annotator.min_eval_sample", 30)
	v.SetDefault("annotator.harm_margin_pct", 10.0)

	v.SetDefault("data_sources.timeout_seconds", 30)
	v.SetDefault("data_sources.retry_attempts", 3)
	v.SetDefault("data_sources.rate_limit_per_sec", 5.0)
	v.SetDefault("data_sources.cache_ttl_seconds", 900)
	v.SetDefault("data_sources.freshness_max_hours", 48)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("scheduler.predict_cron", "0 8 * * 3") // Wednesday 08:00 UTC
}
