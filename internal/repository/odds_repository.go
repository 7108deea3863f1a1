package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/fairway-edge/internal/database"
	"github.com/yourusername/fairway-edge/internal/models"
)

// PostgresOddsRepository implements OddsRepository for PostgreSQL
type PostgresOddsRepository struct {
	db *database.DB
}

// NewPostgresOddsRepository creates a new odds repository
func NewPostgresOddsRepository(db *database.DB) OddsRepository {
	return &PostgresOddsRepository{db: db}
}

// UpsertQuotes stores an odds snapshot. One row per (player, market, book);
// a fresher fetch replaces the price.
func (o *PostgresOddsRepository) UpsertQuotes(ctx context.Context, tournamentID string, quotes []models.OddsQuote) error {
	query := `
		INSERT INTO odds_quotes (tournament_id, player_key, market, book, price, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tournament_id, player_key, market, book) DO UPDATE SET
			price = EXCLUDED.price,
			fetched_at = EXCLUDED.fetched_at
	`

	for i := range quotes {
		q := &quotes[i]
		_, err := o.db.GetPool().Exec(ctx, query,
			tournamentID, q.PlayerKey, string(q.Market), q.Book, q.Price, q.FetchedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert quote for %s %s at %s: %w", q.PlayerKey, q.Market, q.Book, err)
		}
	}
	return nil
}

// GetQuotes retrieves every stored quote for a tournament
func (o *PostgresOddsRepository) GetQuotes(ctx context.Context, tournamentID string) ([]models.OddsQuote, error) {
	rows, err := o.db.GetPool().Query(ctx, `
		SELECT player_key, market, book, price, fetched_at
		FROM odds_quotes
		WHERE tournament_id = $1
	`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []models.OddsQuote
	for rows.Next() {
		var q models.OddsQuote
		var market string
		if err := rows.Scan(&q.PlayerKey, &market, &q.Book, &q.Price, &q.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		q.Market = models.Market(market)
		quotes = append(quotes, q)
	}

	return quotes, rows.Err()
}
