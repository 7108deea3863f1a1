package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/fairway-edge/internal/database"
	"github.com/yourusername/fairway-edge/internal/models"
)

// PostgresResultRepository implements ResultRepository for PostgreSQL
type PostgresResultRepository struct {
	db *database.DB
}

// NewPostgresResultRepository creates a new result repository
func NewPostgresResultRepository(db *database.DB) ResultRepository {
	return &PostgresResultRepository{db: db}
}

// UpsertResults stores the final leaderboard for a tournament. Results
// are replaceable because providers correct positions after publishing.
func (r *PostgresResultRepository) UpsertResults(ctx context.Context, tournamentID string, results []models.FinishResult) error {
	query := `
		INSERT INTO finish_results (tournament_id, player_key, finish_position, finish_text, status, made_cut)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tournament_id, player_key) DO UPDATE SET
			finish_position = EXCLUDED.finish_position,
			finish_text = EXCLUDED.finish_text,
			status = EXCLUDED.status,
			made_cut = EXCLUDED.made_cut
	`

	for i := range results {
		res := &results[i]
		_, err := r.db.GetPool().Exec(ctx, query,
			tournamentID, res.PlayerKey, res.Position, res.FinishText, string(res.Status), res.MadeCut,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert result for %s: %w", res.PlayerKey, err)
		}
	}
	return nil
}

// GetResults retrieves the stored leaderboard for a tournament
func (r *PostgresResultRepository) GetResults(ctx context.Context, tournamentID string) ([]models.FinishResult, error) {
	rows, err := r.db.GetPool().Query(ctx, `
		SELECT player_key, finish_position, finish_text, status, made_cut
		FROM finish_results
		WHERE tournament_id = $1
	`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []models.FinishResult
	for rows.Next() {
		var res models.FinishResult
		var status string
		if err := rows.Scan(&res.PlayerKey, &res.Position, &res.FinishText, &status, &res.MadeCut); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		res.Status = models.FinishStatus(status)
		results = append(results, res)
	}

	return results, rows.Err()
}
