// Package config provides configuration management for the Fairway Edge model.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/fairway-edge/internal/models"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("markets", validateMarkets)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules.
// Any failure here is fatal for the run: the pipeline refuses to produce
// a partially-correct ranking from broken configuration.
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	}
	return false
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// validateMarkets ensures every configured market name parses into a
// known market type
func validateMarkets(fl validator.FieldLevel) bool {
	markets, ok := fl.Field().Interface().([]string)
	if !ok || len(markets) == 0 {
		return false
	}
	for _, m := range markets {
		if _, err := models.ParseMarket(m); err != nil {
			return false
		}
	}
	return true
}

// validateCrossField performs whole-config validations that single-field
// tags cannot express
func validateCrossField(cfg *Config) error {
	cw := cfg.Model.Composite
	if cw.CourseFit+cw.Form+cw.Momentum <= 0 {
		return models.NewConfigError("model.composite", "weights sum to zero and cannot be renormalized")
	}

	cf := cfg.Model.CourseFit
	if cf.SGTotal+cf.SGApproach+cf.SGOffTheTee+cf.SGPutting+cf.ParEfficiency <= 0 {
		return models.NewConfigError("model.course_fit", "category weights sum to zero and cannot be renormalized")
	}

	fw := cfg.Model.Form
	if fw.Simulation+fw.Recent+fw.Baseline+fw.Breakdown+fw.SkillRating+fw.GlobalRank <= 0 {
		return models.NewConfigError("model.form", "sub-component weights sum to zero and cannot be renormalized")
	}

	for _, w := range cfg.Model.Windows {
		if w <= 0 {
			return models.NewConfigError("model.windows", fmt.Sprintf("window size %d must be positive", w))
		}
	}

	ad := cfg.Adaptation
	if ad.MinSample > ad.WindowSize {
		return models.NewConfigError("adaptation", "min_sample cannot exceed window_size")
	}
	if ad.ThresholdNormal > ad.ThresholdCaution || ad.ThresholdCaution > ad.ThresholdCold {
		return models.NewConfigError("adaptation", "thresholds must be ordered normal <= caution <= cold")
	}
	if ad.RecoveryWins > ad.RecoveryWindow {
		return models.NewConfigError("adaptation", "recovery_wins cannot exceed recovery_window")
	}

	if cfg.Betting.ProbRatioFloor >= cfg.Betting.ProbRatioCeiling {
		return models.NewConfigError("betting", "prob_ratio_floor must be below prob_ratio_ceiling")
	}

	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	if cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "markets":
			errMsg += fmt.Sprintf("- Field '%s' contains an unknown market type\n", field)
		case "min", "max", "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
