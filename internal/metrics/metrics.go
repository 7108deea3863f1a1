// Package metrics provides the centralized Prometheus metrics registry
// for the prediction engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fairway_edge",
		Name:      "prediction_runs_total",
		Help:      "Total number of completed prediction runs",
	})
	PredictionRunFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fairway_edge",
		Name:      "prediction_run_failures_total",
		Help:      "Total number of prediction runs that failed",
	})
	SettlementRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fairway_edge",
		Name:      "settlement_runs_total",
		Help:      "Total number of completed settlement runs",
	})
	ProviderFetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fairway_edge",
		Name:      "provider_fetch_errors_total",
		Help:      "Total number of failed data provider fetches",
	}, []string{"provider"})
)

// Gauge metrics
var (
	FieldSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fairway_edge",
		Name:      "field_size",
		Help:      "Number of players scored in the latest prediction run",
	})
	ExternalCoverage = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fairway_edge",
		Name:      "external_coverage",
		Help:      "Fraction of the field covered by external projections",
	})
	OddsAgeHours = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fairway_edge",
		Name:      "odds_age_hours",
		Help:      "Age of the oldest odds quote used in the latest run",
	})
)

// Histogram metrics
var (
	PredictionRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fairway_edge",
		Name:      "prediction_run_duration_seconds",
		Help:      "Duration of a full prediction run in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	SettlementRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fairway_edge",
		Name:      "settlement_run_duration_seconds",
		Help:      "Duration of a full settlement run in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	CompositeScoreDistribution = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fairway_edge",
		Name:      "composite_score_distribution",
		Help:      "Distribution of composite scores across the field",
		Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(PredictionRunsTotal)
		registry.MustRegister(PredictionRunFailuresTotal)
		registry.MustRegister(SettlementRunsTotal)
		registry.MustRegister(ProviderFetchErrorsTotal)

		// Register gauge metrics
		registry.MustRegister(FieldSize)
		registry.MustRegister(ExternalCoverage)
		registry.MustRegister(OddsAgeHours)

		// Register histogram metrics
		registry.MustRegister(PredictionRunDuration)
		registry.MustRegister(SettlementRunDuration)
		registry.MustRegister(CompositeScoreDistribution)

		// Register market metrics
		registry.MustRegister(ValueBetsFlaggedTotal)
		registry.MustRegister(DetectionWarningsTotal)
		registry.MustRegister(BetsSettledTotal)
		registry.MustRegister(MarketROI)
		registry.MustRegister(MarketEVThreshold)
		registry.MustRegister(MarketStateGauge)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPredictionRun records a completed prediction run.
func RecordPredictionRun(durationSeconds float64, fieldSize int) {
	PredictionRunsTotal.Inc()
	PredictionRunDuration.Observe(durationSeconds)
	FieldSize.Set(float64(fieldSize))
}

// RecordPredictionFailure records a failed prediction run.
func RecordPredictionFailure() {
	PredictionRunFailuresTotal.Inc()
}

// RecordSettlementRun records a completed settlement run.
func RecordSettlementRun(durationSeconds float64) {
	SettlementRunsTotal.Inc()
	SettlementRunDuration.Observe(durationSeconds)
}

// RecordProviderError records a failed fetch against a data provider.
func RecordProviderError(provider string) {
	ProviderFetchErrorsTotal.WithLabelValues(provider).Inc()
}

// RecordCompositeScore records one player's composite score.
func RecordCompositeScore(score float64) {
	CompositeScoreDistribution.Observe(score)
}
