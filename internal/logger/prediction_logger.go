// Package logger provides prediction audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/fairway-edge/internal/models"
)

// PredictionLogger provides a dedicated audit trail for prediction runs,
// value-bet emission and adaptation decisions.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogRunStarted logs the beginning of a prediction run
func (pl *PredictionLogger) LogRunStarted(tournamentID string, fieldSize int, markets []models.Market) {
	pl.WithFields(logrus.Fields{
		"tournament_id": tournamentID,
		"field_size":    fieldSize,
		"markets":       markets,
	}).Info("Prediction run started")
}

// LogValueBet logs an emitted value bet
func (pl *PredictionLogger) LogValueBet(bet *models.ValueBet) {
	pl.WithFields(logrus.Fields{
		"tournament_id": bet.TournamentID,
		"player_key":    bet.PlayerKey,
		"market":        bet.Market,
		"model_prob":    bet.ModelProb,
		"market_prob":   bet.MarketProb,
		"best_price":    bet.BestPrice,
		"best_book":     bet.BestBook,
		"ev":            bet.EV,
	}).Info("Value bet emitted")
}

// LogDataQualityWarning logs odds or probabilities flagged as suspect
func (pl *PredictionLogger) LogDataQualityWarning(w models.DataQualityWarning) {
	pl.WithFields(logrus.Fields{
		"kind":       w.Kind,
		"player_key": w.PlayerKey,
		"market":     w.Market,
		"detail":     w.Detail,
	}).Warn("Data quality warning")
}

// LogAdaptationState logs the policy resolved for a market
func (pl *PredictionLogger) LogAdaptationState(market models.Market, state string, roiPct float64, evThreshold float64, suppressed bool) {
	pl.WithFields(logrus.Fields{
		"market":       market,
		"state":        state,
		"rolling_roi":  roiPct,
		"ev_threshold": evThreshold,
		"suppressed":   suppressed,
	}).Info("Adaptation state resolved")
}

// LogAnnotatorAdjustment logs a capped annotator score adjustment
func (pl *PredictionLogger) LogAnnotatorAdjustment(playerKey string, raw, applied float64) {
	pl.WithFields(logrus.Fields{
		"player_key": playerKey,
		"raw":        raw,
		"applied":    applied,
	}).Debug("Annotator adjustment applied")
}

// LogSettlement logs one settled bet
func (pl *PredictionLogger) LogSettlement(bet *models.SettledBet, settledAt time.Time) {
	pl.WithFields(logrus.Fields{
		"tournament_id": bet.TournamentID,
		"player_key":    bet.PlayerKey,
		"market":        bet.Market,
		"outcome":       bet.Outcome,
		"fraction":      bet.Fraction,
		"profit":        bet.Profit.String(),
		"settled_at":    settledAt.Unix(),
	}).Info("Bet settled")
}
