package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/fairway-edge/internal/database"
	"github.com/yourusername/fairway-edge/internal/models"
	"github.com/yourusername/fairway-edge/internal/probability"
)

// PostgresCalibrationRepository implements CalibrationRepository for PostgreSQL
type PostgresCalibrationRepository struct {
	db *database.DB
}

// NewPostgresCalibrationRepository creates a new calibration repository
func NewPostgresCalibrationRepository(db *database.DB) CalibrationRepository {
	return &PostgresCalibrationRepository{db: db}
}

// SaveBuckets upserts the calibration evidence, replacing each bucket's
// aggregates wholesale
func (c *PostgresCalibrationRepository) SaveBuckets(ctx context.Context, buckets []probability.BucketStats) error {
	query := `
		INSERT INTO calibration_buckets (market, bucket_index, sample_count, predicted_sum, wins)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (market, bucket_index) DO UPDATE SET
			sample_count = EXCLUDED.sample_count,
			predicted_sum = EXCLUDED.predicted_sum,
			wins = EXCLUDED.wins
	`

	for i := range buckets {
		b := &buckets[i]
		_, err := c.db.GetPool().Exec(ctx, query,
			string(b.Market), b.BucketIndex, b.Count, b.PredictedSum, b.Wins,
		)
		if err != nil {
			return fmt.Errorf("failed to save calibration bucket %s/%d: %w", b.Market, b.BucketIndex, err)
		}
	}
	return nil
}

// LoadBuckets retrieves every persisted calibration bucket
func (c *PostgresCalibrationRepository) LoadBuckets(ctx context.Context) ([]probability.BucketStats, error) {
	rows, err := c.db.GetPool().Query(ctx, `
		SELECT market, bucket_index, sample_count, predicted_sum, wins
		FROM calibration_buckets
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query calibration buckets: %w", err)
	}
	defer rows.Close()

	var buckets []probability.BucketStats
	for rows.Next() {
		var b probability.BucketStats
		var market string
		if err := rows.Scan(&market, &b.BucketIndex, &b.Count, &b.PredictedSum, &b.Wins); err != nil {
			return nil, fmt.Errorf("failed to scan calibration bucket: %w", err)
		}
		b.Market = models.Market(market)
		buckets = append(buckets, b)
	}

	return buckets, rows.Err()
}
