package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/fairway-edge/internal/adaptation"
	"github.com/yourusername/fairway-edge/internal/database"
	"github.com/yourusername/fairway-edge/internal/models"
)

// PostgresStateRepository implements StateRepository for PostgreSQL
type PostgresStateRepository struct {
	db *database.DB
}

// NewPostgresStateRepository creates a new adaptation state repository
func NewPostgresStateRepository(db *database.DB) StateRepository {
	return &PostgresStateRepository{db: db}
}

// SaveState upserts a market's adaptation posture
func (s *PostgresStateRepository) SaveState(ctx context.Context, state *adaptation.MarketState) error {
	query := `
		INSERT INTO market_states (market, state, ev_threshold, stake_multiplier, suppressed, sample_size, roi_pct, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (market) DO UPDATE SET
			state = EXCLUDED.state,
			ev_threshold = EXCLUDED.ev_threshold,
			stake_multiplier = EXCLUDED.stake_multiplier,
			suppressed = EXCLUDED.suppressed,
			sample_size = EXCLUDED.sample_size,
			roi_pct = EXCLUDED.roi_pct,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.GetPool().Exec(ctx, query,
		string(state.Market), string(state.State), state.EVThreshold, state.StakeMultiplier,
		state.Suppressed, state.SampleSize, state.ROIPct, state.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save market state: %w", err)
	}
	return nil
}

// GetStates retrieves every persisted market state
func (s *PostgresStateRepository) GetStates(ctx context.Context) (map[models.Market]adaptation.MarketState, error) {
	rows, err := s.db.GetPool().Query(ctx, `
		SELECT market, state, ev_threshold, stake_multiplier, suppressed, sample_size, roi_pct, updated_at
		FROM market_states
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query market states: %w", err)
	}
	defer rows.Close()

	states := make(map[models.Market]adaptation.MarketState)
	for rows.Next() {
		var ms adaptation.MarketState
		var market, state string
		err := rows.Scan(&market, &state, &ms.EVThreshold, &ms.StakeMultiplier, &ms.Suppressed, &ms.SampleSize, &ms.ROIPct, &ms.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan market state: %w", err)
		}
		ms.Market = models.Market(market)
		ms.State = adaptation.State(state)
		states[ms.Market] = ms
	}

	return states, rows.Err()
}
