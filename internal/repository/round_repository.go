package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/fairway-edge/internal/database"
	"github.com/yourusername/fairway-edge/internal/models"
)

// PostgresRoundRepository implements RoundRepository for PostgreSQL
type PostgresRoundRepository struct {
	db *database.DB
}

// NewPostgresRoundRepository creates a new round repository
func NewPostgresRoundRepository(db *database.DB) RoundRepository {
	return &PostgresRoundRepository{db: db}
}

// BulkUpsert inserts rounds, silently skipping rows already present.
// Re-ingesting an overlapping feed window is a no-op for existing rounds.
// Returns the number of newly inserted rows.
func (r *PostgresRoundRepository) BulkUpsert(ctx context.Context, rounds []models.HistoricalRound) (int, error) {
	query := `
		INSERT INTO historical_rounds (id, player_key, round_date, course_id, event_name,
		                               sg_total, sg_ott, sg_app, sg_arg, sg_putt, sg_t2g,
		                               driving_dist, driving_acc, gir, scrambling, score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (player_key, round_date, course_id, event_name) DO NOTHING
	`

	inserted := 0
	for i := range rounds {
		round := &rounds[i]
		id := round.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		tag, err := r.db.GetPool().Exec(ctx, query,
			id, round.PlayerKey, round.Date, round.CourseID, round.EventName,
			round.SGTotal, round.SGOTT, round.SGApp, round.SGARG, round.SGPutt, round.SGT2G,
			round.DrivingDistance, round.DrivingAccuracy, round.GIR, round.Scrambling, round.Score,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to upsert round for %s: %w", round.PlayerKey, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// GetByPlayers retrieves every stored round for the given players, newest
// first, grouped by player key
func (r *PostgresRoundRepository) GetByPlayers(ctx context.Context, playerKeys []string) (map[string][]models.HistoricalRound, error) {
	query := `
		SELECT id, player_key, round_date, course_id, event_name,
		       sg_total, sg_ott, sg_app, sg_arg, sg_putt, sg_t2g,
		       driving_dist, driving_acc, gir, scrambling, score
		FROM historical_rounds
		WHERE player_key = ANY($1)
		ORDER BY player_key, round_date DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, playerKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	byPlayer := make(map[string][]models.HistoricalRound, len(playerKeys))
	for rows.Next() {
		var round models.HistoricalRound
		err := rows.Scan(
			&round.ID, &round.PlayerKey, &round.Date, &round.CourseID, &round.EventName,
			&round.SGTotal, &round.SGOTT, &round.SGApp, &round.SGARG, &round.SGPutt, &round.SGT2G,
			&round.DrivingDistance, &round.DrivingAccuracy, &round.GIR, &round.Scrambling, &round.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		byPlayer[round.PlayerKey] = append(byPlayer[round.PlayerKey], round)
	}

	return byPlayer, rows.Err()
}
