// Package metrics defines per-market metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Per-market counter vectors
var (
	ValueBetsFlaggedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fairway_edge",
		Name:      "value_bets_flagged_total",
		Help:      "Total number of value bets flagged by market",
	}, []string{"market"})

	DetectionWarningsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fairway_edge",
		Name:      "detection_warnings_total",
		Help:      "Total number of detection warnings by market and reason",
	}, []string{"market", "reason"})

	BetsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fairway_edge",
		Name:      "bets_settled_total",
		Help:      "Total number of bets settled by market and outcome",
	}, []string{"market", "outcome"})
)

// Per-market gauge vectors
var (
	MarketROI = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fairway_edge",
		Name:      "market_roi_percent",
		Help:      "Trailing-window ROI percentage for each market",
	}, []string{"market"})

	MarketEVThreshold = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fairway_edge",
		Name:      "market_ev_threshold",
		Help:      "Current expected-value threshold for each market",
	}, []string{"market"})

	MarketStateGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fairway_edge",
		Name:      "market_state",
		Help:      "Adaptation state for each market (0 normal, 1 caution, 2 cold, 3 frozen)",
	}, []string{"market"})
)

// RecordValueBet records a flagged value bet.
func RecordValueBet(market string) {
	ValueBetsFlaggedTotal.WithLabelValues(market).Inc()
}

// RecordDetectionWarning records a detection warning.
func RecordDetectionWarning(market, reason string) {
	DetectionWarningsTotal.WithLabelValues(market, reason).Inc()
}

// RecordBetSettled records a settled bet by outcome.
func RecordBetSettled(market, outcome string) {
	BetsSettledTotal.WithLabelValues(market, outcome).Inc()
}

// UpdateMarketROI updates the trailing ROI gauge for a market.
func UpdateMarketROI(market string, roiPercent float64) {
	MarketROI.WithLabelValues(market).Set(roiPercent)
}

// UpdateMarketPosture updates the threshold and state gauges for a market.
func UpdateMarketPosture(market string, evThreshold float64, stateOrdinal int) {
	MarketEVThreshold.WithLabelValues(market).Set(evThreshold)
	MarketStateGauge.WithLabelValues(market).Set(float64(stateOrdinal))
}
