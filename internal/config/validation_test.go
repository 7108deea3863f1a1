package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "fairway-edge",
			Environment: "development",
			LogLevel:    "info",
		},
		Database: DatabaseConfig{
			Host:               "localhost",
			Port:               5432,
			Name:               "fairway",
			User:               "fairway",
			Password:           "secret",
			SSLMode:            "disable",
			MaxConnections:     10,
			MaxIdleConnections: 2,
		},
		DataSources: DataSourcesConfig{
			StatsAPIURL:     "https://stats.example.com",
			OddsAPIURL:      "https://odds.example.com",
			TimeoutSeconds:  30,
			RetryAttempts:   3,
			RateLimitPerSec: 5.0,
			CacheTTLSeconds: 900,
			FreshnessMaxHrs: 48,
		},
		Model: ModelConfig{
			Composite: CompositeWeights{
				CourseFit:       0.40,
				Form:            0.40,
				Momentum:        0.20,
				CourseFitToForm: 0.70,
			},
			CourseFit: CourseFitWeights{
				SGTotal:               0.30,
				SGApproach:            0.25,
				SGOffTheTee:           0.20,
				SGPutting:             0.15,
				ParEfficiency:         0.10,
				ExternalPercentileCap: 0.60,
				SkillRatingWeight:     0.15,
				ApproachSkillWeight:   0.12,
			},
			Form: FormWeights{
				Simulation:  0.25,
				Recent:      0.25,
				Baseline:    0.15,
				Breakdown:   0.15,
				SkillRating: 0.15,
				GlobalRank:  0.05,
			},
			Windows:                 []int{8, 12, 16, 24},
			CourseDecayHalfLifeDays: 365,
			PuttShrinkage:           0.5,
		},
		Betting: BettingConfig{
			Markets:          []string{"outright", "top5"},
			EVSanityCeiling:  2.0,
			MinMarketProb:    0.005,
			ProbRatioFloor:   0.1,
			ProbRatioCeiling: 10.0,
			KellyFraction:    0.5,
			MaxStakeFraction: 0.05,
		},
		Adaptation: AdaptationConfig{
			WindowSize:          20,
			MinSample:           15,
			EmergencyLossStreak: 10,
			RecoveryWins:        2,
			RecoveryWindow:      5,
			ROICautionPct:       -20,
			ROIColdPct:          -40,
			ThresholdNormal:     0.05,
			ThresholdCaution:    0.08,
			ThresholdCold:       0.12,
			ColdStakeMultiplier: 0.5,
		},
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidateRejectsUnknownEnvironment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "qa"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "development, staging, production")
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.App.LogLevel = "trace"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debug, info, warn, error")
}

func TestValidateRejectsUnknownMarket(t *testing.T) {
	cfg := validConfig()
	cfg.Betting.Markets = []string{"outright", "exacta"}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown market")
}

func TestValidateRejectsBadStatsURL(t *testing.T) {
	cfg := validConfig()
	cfg.DataSources.StatsAPIURL = "not a url"
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsZeroCompositeWeights(t *testing.T) {
	cfg := validConfig()
	cfg.Model.Composite.CourseFit = 0
	cfg.Model.Composite.Form = 0
	cfg.Model.Composite.Momentum = 0

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model.composite")
}

func TestValidateRejectsNonPositiveWindow(t *testing.T) {
	cfg := validConfig()
	cfg.Model.Windows = []int{8, -4}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model.windows")
}

func TestValidateRejectsMinSampleAboveWindow(t *testing.T) {
	cfg := validConfig()
	cfg.Adaptation.MinSample = 25

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_sample")
}

func TestValidateRejectsUnorderedThresholds(t *testing.T) {
	cfg := validConfig()
	cfg.Adaptation.ThresholdCaution = 0.20

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "thresholds")
}

func TestValidateRejectsInvertedProbRatioBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Betting.ProbRatioFloor = 10.0
	cfg.Betting.ProbRatioCeiling = 0.1
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsIdleAboveMaxConnections(t *testing.T) {
	cfg := validConfig()
	cfg.Database.MaxIdleConnections = 50

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_idle_connections")
}

func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "disable"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SSL")

	cfg.Database.SSLMode = "require"
	assert.NoError(t, Validate(cfg))
}
