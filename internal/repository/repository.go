package repository

import (
	"github.com/yourusername/fairway-edge/internal/database"
)

// NewRepositories wires every PostgreSQL repository to one pool
func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Rounds:      NewPostgresRoundRepository(db),
		Courses:     NewPostgresCourseRepository(db),
		Predictions: NewPostgresPredictionRepository(db),
		Odds:        NewPostgresOddsRepository(db),
		Results:     NewPostgresResultRepository(db),
		Performance: NewPostgresPerformanceRepository(db),
		States:      NewPostgresStateRepository(db),
		Calibration: NewPostgresCalibrationRepository(db),
	}
}
