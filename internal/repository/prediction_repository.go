package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/fairway-edge/internal/database"
	"github.com/yourusername/fairway-edge/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// SaveRun persists a prediction run and its per-player scores in one
// transaction
func (p *PostgresPredictionRepository) SaveRun(ctx context.Context, run *models.PredictionRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	return p.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO prediction_runs (id, tournament_id, course_id, field_size, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, run.ID, run.TournamentID, run.CourseID, run.FieldSize, run.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert prediction run: %w", err)
		}

		scoreQuery := `
			INSERT INTO player_scores (run_id, player_key, display_name, rank, composite,
			                           course_fit, form, momentum, trend, adjustment, weather_adjust)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		for i := range run.Scores {
			s := &run.Scores[i]
			_, err := tx.Exec(ctx, scoreQuery,
				run.ID, s.PlayerKey, s.DisplayName, s.Rank, s.Composite,
				subScoreValue(s.CourseFit), subScoreValue(s.Form), subScoreValue(s.Momentum),
				string(s.Trend), s.Adjustment, s.WeatherAdjust,
			)
			if err != nil {
				return fmt.Errorf("failed to insert player score for %s: %w", s.PlayerKey, err)
			}
		}
		return nil
	})
}

// GetLatestRun retrieves the most recent run for a tournament with its
// scores, ranked order preserved
func (p *PostgresPredictionRepository) GetLatestRun(ctx context.Context, tournamentID string) (*models.PredictionRun, error) {
	run := &models.PredictionRun{}
	err := p.db.GetPool().QueryRow(ctx, `
		SELECT id, tournament_id, course_id, field_size, created_at
		FROM prediction_runs
		WHERE tournament_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, tournamentID).Scan(&run.ID, &run.TournamentID, &run.CourseID, &run.FieldSize, &run.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction run: %w", err)
	}

	rows, err := p.db.GetPool().Query(ctx, `
		SELECT player_key, display_name, rank, composite, course_fit, form, momentum,
		       trend, adjustment, weather_adjust
		FROM player_scores
		WHERE run_id = $1
		ORDER BY rank ASC
	`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.PlayerScore
		var courseFit, form, momentum *float64
		var trend string
		err := rows.Scan(
			&s.PlayerKey, &s.DisplayName, &s.Rank, &s.Composite,
			&courseFit, &form, &momentum, &trend, &s.Adjustment, &s.WeatherAdjust,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player score: %w", err)
		}
		s.Trend = models.TrendDirection(trend)
		s.CourseFit = subScoreFromValue(courseFit)
		s.Form = subScoreFromValue(form)
		s.Momentum = subScoreFromValue(momentum)
		run.Scores = append(run.Scores, s)
	}

	return run, rows.Err()
}

// SaveValueBets upserts the value-bet log for a run. The natural key is
// (tournament, player, market), so re-running detection for the same
// tournament refreshes prices rather than duplicating entries.
func (p *PostgresPredictionRepository) SaveValueBets(ctx context.Context, bets []models.ValueBet) error {
	query := `
		INSERT INTO value_bets (id, tournament_id, player_key, display_name, market,
		                        model_prob, external_prob, market_prob, best_price, best_book,
		                        ev, stake_fraction, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (tournament_id, player_key, market) DO UPDATE SET
			model_prob = EXCLUDED.model_prob,
			external_prob = EXCLUDED.external_prob,
			market_prob = EXCLUDED.market_prob,
			best_price = EXCLUDED.best_price,
			best_book = EXCLUDED.best_book,
			ev = EXCLUDED.ev,
			stake_fraction = EXCLUDED.stake_fraction,
			created_at = EXCLUDED.created_at
	`

	for i := range bets {
		b := &bets[i]
		_, err := p.db.GetPool().Exec(ctx, query,
			b.ID, b.TournamentID, b.PlayerKey, b.DisplayName, string(b.Market),
			b.ModelProb, b.ExternalProb, b.MarketProb, b.BestPrice, b.BestBook,
			b.EV, b.StakeFraction, b.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert value bet for %s %s: %w", b.PlayerKey, b.Market, err)
		}
	}
	return nil
}

// GetValueBets retrieves the logged value bets for a tournament, best EV
// first
func (p *PostgresPredictionRepository) GetValueBets(ctx context.Context, tournamentID string) ([]models.ValueBet, error) {
	rows, err := p.db.GetPool().Query(ctx, `
		SELECT id, tournament_id, player_key, display_name, market,
		       model_prob, external_prob, market_prob, best_price, best_book,
		       ev, stake_fraction, created_at
		FROM value_bets
		WHERE tournament_id = $1
		ORDER BY ev DESC
	`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query value bets: %w", err)
	}
	defer rows.Close()

	var bets []models.ValueBet
	for rows.Next() {
		var b models.ValueBet
		var market string
		err := rows.Scan(
			&b.ID, &b.TournamentID, &b.PlayerKey, &b.DisplayName, &market,
			&b.ModelProb, &b.ExternalProb, &b.MarketProb, &b.BestPrice, &b.BestBook,
			&b.EV, &b.StakeFraction, &b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan value bet: %w", err)
		}
		b.Market = models.Market(market)
		bets = append(bets, b)
	}

	return bets, rows.Err()
}

// subScoreValue flattens a sub-score to its scalar for storage; the
// component breakdown lives only in run output, not the database
func subScoreValue(s *models.SubScore) *float64 {
	if s == nil {
		return nil
	}
	v := s.Score
	return &v
}

func subScoreFromValue(v *float64) *models.SubScore {
	if v == nil {
		return nil
	}
	return &models.SubScore{Score: *v}
}
