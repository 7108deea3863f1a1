package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/fairway-edge/internal/database"
	"github.com/yourusername/fairway-edge/internal/models"
)

// PostgresPerformanceRepository implements PerformanceRepository for PostgreSQL
type PostgresPerformanceRepository struct {
	db *database.DB
}

// NewPostgresPerformanceRepository creates a new performance repository
func NewPostgresPerformanceRepository(db *database.DB) PerformanceRepository {
	return &PostgresPerformanceRepository{db: db}
}

// UpsertSettledBet records a settlement. Settling the same bet twice
// overwrites with identical values, so settlement reruns are idempotent.
func (p *PostgresPerformanceRepository) UpsertSettledBet(ctx context.Context, bet *models.SettledBet) error {
	query := `
		INSERT INTO settled_bets (tournament_id, player_key, market, price, stake, outcome, fraction, profit, settled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (tournament_id, player_key, market) DO UPDATE SET
			price = EXCLUDED.price,
			stake = EXCLUDED.stake,
			outcome = EXCLUDED.outcome,
			fraction = EXCLUDED.fraction,
			profit = EXCLUDED.profit,
			settled_at = EXCLUDED.settled_at
	`

	_, err := p.db.GetPool().Exec(ctx, query,
		bet.TournamentID, bet.PlayerKey, string(bet.Market), bet.Price, bet.Stake,
		string(bet.Outcome), bet.Fraction, bet.Profit, bet.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert settled bet for %s %s: %w", bet.PlayerKey, bet.Market, err)
	}
	return nil
}

// GetRecentSettled retrieves the most recently settled bets for a market,
// returned oldest first so callers can treat the slice as a time series
func (p *PostgresPerformanceRepository) GetRecentSettled(ctx context.Context, market models.Market, limit int) ([]models.SettledBet, error) {
	rows, err := p.db.GetPool().Query(ctx, `
		SELECT tournament_id, player_key, market, price, stake, outcome, fraction, profit, settled_at
		FROM (
			SELECT tournament_id, player_key, market, price, stake, outcome, fraction, profit, settled_at
			FROM settled_bets
			WHERE market = $1
			ORDER BY settled_at DESC
			LIMIT $2
		) recent
		ORDER BY settled_at ASC
	`, string(market), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query settled bets: %w", err)
	}
	defer rows.Close()

	var bets []models.SettledBet
	for rows.Next() {
		var b models.SettledBet
		var mkt, outcome string
		err := rows.Scan(&b.TournamentID, &b.PlayerKey, &mkt, &b.Price, &b.Stake, &outcome, &b.Fraction, &b.Profit, &b.SettledAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settled bet: %w", err)
		}
		b.Market = models.Market(mkt)
		b.Outcome = models.BetOutcome(outcome)
		bets = append(bets, b)
	}

	return bets, rows.Err()
}

// UpsertPerformance stores a per-market tournament aggregate
func (p *PostgresPerformanceRepository) UpsertPerformance(ctx context.Context, perf *models.MarketPerformance) error {
	query := `
		INSERT INTO market_performance (market, tournament_id, bets_placed, bets_won, bets_lost, bets_pushed,
		                                units_wagered, units_returned, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (market, tournament_id) DO UPDATE SET
			bets_placed = EXCLUDED.bets_placed,
			bets_won = EXCLUDED.bets_won,
			bets_lost = EXCLUDED.bets_lost,
			bets_pushed = EXCLUDED.bets_pushed,
			units_wagered = EXCLUDED.units_wagered,
			units_returned = EXCLUDED.units_returned,
			updated_at = EXCLUDED.updated_at
	`

	_, err := p.db.GetPool().Exec(ctx, query,
		string(perf.Market), perf.TournamentID, perf.BetsPlaced, perf.BetsWon, perf.BetsLost, perf.BetsPushed,
		perf.UnitsWagered, perf.UnitsReturned, perf.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert market performance: %w", err)
	}
	return nil
}

// GetPerformance retrieves one market's aggregate for a tournament
func (p *PostgresPerformanceRepository) GetPerformance(ctx context.Context, market models.Market, tournamentID string) (*models.MarketPerformance, error) {
	perf := &models.MarketPerformance{}
	var mkt string
	err := p.db.GetPool().QueryRow(ctx, `
		SELECT market, tournament_id, bets_placed, bets_won, bets_lost, bets_pushed,
		       units_wagered, units_returned, updated_at
		FROM market_performance
		WHERE market = $1 AND tournament_id = $2
	`, string(market), tournamentID).Scan(
		&mkt, &perf.TournamentID, &perf.BetsPlaced, &perf.BetsWon, &perf.BetsLost, &perf.BetsPushed,
		&perf.UnitsWagered, &perf.UnitsReturned, &perf.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get market performance: %w", err)
	}
	perf.Market = models.Market(mkt)
	return perf, nil
}
