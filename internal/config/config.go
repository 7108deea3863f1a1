// Package config provides configuration management for the Fairway Edge model.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	DataSources DataSourcesConfig `mapstructure:"data_sources" validate:"required"`
	Model       ModelConfig       `mapstructure:"model" validate:"required"`
	Betting     BettingConfig     `mapstructure:"betting" validate:"required"`
	Adaptation  AdaptationConfig  `mapstructure:"adaptation" validate:"required"`
	Weather     WeatherConfig     `mapstructure:"weather"`
	Annotator   AnnotatorConfig   `mapstructure:"annotator"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// DataSourcesConfig configures the external stats and odds providers.
// All fetches happen up front; the scoring core never touches the network.
type DataSourcesConfig struct {
	StatsAPIURL     string  `mapstructure:"stats_api_url" validate:"required,url"`
	StatsAPIKey     string  `mapstructure:"stats_api_key"`
	OddsAPIURL      string  `mapstructure:"odds_api_url" validate:"required,url"`
	OddsAPIKey      string  `mapstructure:"odds_api_key"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts   int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitPerSec float64 `mapstructure:"rate_limit_per_sec" validate:"gt=0"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	PreferredBook   string  `mapstructure:"preferred_book"`
	FreshnessMaxHrs int     `mapstructure:"freshness_max_hours"`
}

// ModelConfig holds every tunable weight for the scoring pipeline.
// Passed by value into scoring calls; nothing reads it globally.
type ModelConfig struct {
	Composite               CompositeWeights `mapstructure:"composite" validate:"required"`
	CourseFit               CourseFitWeights `mapstructure:"course_fit" validate:"required"`
	Form                    FormWeights      `mapstructure:"form" validate:"required"`
	Windows                 []int            `mapstructure:"windows" validate:"required,min=1"`
	CourseDecayHalfLifeDays float64          `mapstructure:"course_decay_half_life_days"`
	PuttShrinkage           float64          `mapstructure:"putt_shrinkage" validate:"gte=0,lte=1"`
}

// CompositeWeights are the top-level sub-score weights
type CompositeWeights struct {
	CourseFit float64 `mapstructure:"course_fit" validate:"gte=0"`
	Form      float64 `mapstructure:"form" validate:"gte=0"`
	Momentum  float64 `mapstructure:"momentum" validate:"gte=0"`
	// CourseFitToForm is the share of a missing course-fit weight that is
	// redistributed to form; the rest goes to momentum.
	CourseFitToForm float64 `mapstructure:"course_fit_to_form" validate:"gte=0,lte=1"`
}

// CourseFitWeights are the per-category base weights for course fit
type CourseFitWeights struct {
	SGTotal       float64 `mapstructure:"sg_total" validate:"gte=0"`
	SGApproach    float64 `mapstructure:"sg_approach" validate:"gte=0"`
	SGOffTheTee   float64 `mapstructure:"sg_off_the_tee" validate:"gte=0"`
	SGPutting     float64 `mapstructure:"sg_putting" validate:"gte=0"`
	ParEfficiency float64 `mapstructure:"par_efficiency" validate:"gte=0"`
	// ExternalPercentileCap bounds the external course-adjusted blend share.
	ExternalPercentileCap float64 `mapstructure:"external_percentile_cap" validate:"gte=0,lte=1"`
	SkillRatingWeight     float64 `mapstructure:"skill_rating_weight" validate:"gte=0,lte=1"`
	ApproachSkillWeight   float64 `mapstructure:"approach_skill_weight" validate:"gte=0,lte=1"`
}

// FormWeights are the sub-component weights for the form score
type FormWeights struct {
	Simulation  float64 `mapstructure:"simulation" validate:"gte=0"`
	Recent      float64 `mapstructure:"recent" validate:"gte=0"`
	Baseline    float64 `mapstructure:"baseline" validate:"gte=0"`
	Breakdown   float64 `mapstructure:"breakdown" validate:"gte=0"`
	SkillRating float64 `mapstructure:"skill_rating" validate:"gte=0"`
	GlobalRank  float64 `mapstructure:"global_rank" validate:"gte=0"`
}

// BettingConfig governs value detection and staking
type BettingConfig struct {
	Markets          []string `mapstructure:"markets" validate:"required,min=1,markets"`
	EVSanityCeiling  float64  `mapstructure:"ev_sanity_ceiling" validate:"required,gt=0"`
	MinMarketProb    float64  `mapstructure:"min_market_prob" validate:"gte=0,lte=1"`
	ProbRatioFloor   float64  `mapstructure:"prob_ratio_floor" validate:"gt=0"`
	ProbRatioCeiling float64  `mapstructure:"prob_ratio_ceiling" validate:"gt=0"`
	KellyFraction    float64  `mapstructure:"kelly_fraction" validate:"gte=0,lte=1"`
	MaxStakeFraction float64  `mapstructure:"max_stake_fraction" validate:"gt=0,lte=1"`
	// MissedCutIsPush treats a missed cut in a placement market as a push
	// instead of a loss, for books whose house rules settle that way.
	MissedCutIsPush bool `mapstructure:"missed_cut_is_push"`
}

// AdaptationConfig governs the per-market state machine
type AdaptationConfig struct {
	WindowSize          int     `mapstructure:"window_size" validate:"required,gt=0"`
	MinSample           int     `mapstructure:"min_sample" validate:"required,gt=0"`
	EmergencyLossStreak int     `mapstructure:"emergency_loss_streak" validate:"required,gt=0"`
	RecoveryWins        int     `mapstructure:"recovery_wins" validate:"required,gt=0"`
	RecoveryWindow      int     `mapstructure:"recovery_window" validate:"required,gt=0"`
	ROICautionPct       float64 `mapstructure:"roi_caution_pct"`
	ROIColdPct          float64 `mapstructure:"roi_cold_pct"`
	ThresholdNormal     float64 `mapstructure:"threshold_normal" validate:"gte=0"`
	ThresholdCaution    float64 `mapstructure:"threshold_caution" validate:"gte=0"`
	ThresholdCold       float64 `mapstructure:"threshold_cold" validate:"gte=0"`
	ColdStakeMultiplier float64 `mapstructure:"cold_stake_multiplier" validate:"gte=0,lte=1"`
}

// WeatherConfig governs the optional post-composite weather adjustment
type WeatherConfig struct {
	Enabled                 bool    `mapstructure:"enabled"`
	WindThresholdKmh        float64 `mapstructure:"wind_threshold_kmh"`
	ColdThresholdC          float64 `mapstructure:"cold_threshold_c"`
	MaxWaveAdjustment       float64 `mapstructure:"max_wave_adjustment"`
	MaxResilienceAdjustment float64 `mapstructure:"max_resilience_adjustment"`
}

// AnnotatorConfig governs the optional qualitative score annotator.
// Its adjustments are capped, logged and re-evaluated longitudinally.
type AnnotatorConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	AdjustmentCap float64 `mapstructure:"adjustment_cap" validate:"gte=0"`
	MinEvalSample int     `mapstructure:"min_eval_sample" validate:"gte=0"`
	HarmMarginPct float64 `mapstructure:"harm_margin_pct"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// SchedulerConfig represents the tournament-week run trigger
type SchedulerConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	PredictCron string `mapstructure:"predict_cron"`
	RefreshCron string `mapstructure:"refresh_cron"`
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
