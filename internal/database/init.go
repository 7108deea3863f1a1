package database

import (
	"context"
	"fmt"

	"github.com/yourusername/fairway-edge/internal/config"
)

// Initialize creates a database connection pool and ensures the schema
// exists. Every DDL statement is idempotent, so repeated startups are
// safe against an already-provisioned database.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// EnsureSchema creates all tables used by the engine if they are missing
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS historical_rounds (
		id            UUID PRIMARY KEY,
		player_key    TEXT NOT NULL,
		round_date    DATE NOT NULL,
		course_id     TEXT NOT NULL DEFAULT '',
		event_name    TEXT NOT NULL DEFAULT '',
		sg_total      DOUBLE PRECISION,
		sg_ott        DOUBLE PRECISION,
		sg_app        DOUBLE PRECISION,
		sg_arg        DOUBLE PRECISION,
		sg_putt       DOUBLE PRECISION,
		sg_t2g        DOUBLE PRECISION,
		driving_dist  DOUBLE PRECISION,
		driving_acc   DOUBLE PRECISION,
		gir           DOUBLE PRECISION,
		scrambling    DOUBLE PRECISION,
		score         INTEGER,
		UNIQUE (player_key, round_date, course_id, event_name)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_historical_rounds_player
		ON historical_rounds (player_key, round_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_historical_rounds_course
		ON historical_rounds (course_id, round_date DESC)`,

	`CREATE TABLE IF NOT EXISTS course_profiles (
		course_id       TEXT PRIMARY KEY,
		course_name     TEXT NOT NULL,
		par             INTEGER NOT NULL DEFAULT 72,
		yardage         INTEGER NOT NULL DEFAULT 0,
		skill_ratings   JSONB NOT NULL DEFAULT '{}',
		related_courses TEXT[] NOT NULL DEFAULT '{}'
	)`,

	`CREATE TABLE IF NOT EXISTS prediction_runs (
		id            UUID PRIMARY KEY,
		tournament_id TEXT NOT NULL,
		course_id     TEXT NOT NULL DEFAULT '',
		field_size    INTEGER NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_prediction_runs_tournament
		ON prediction_runs (tournament_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS player_scores (
		run_id         UUID NOT NULL REFERENCES prediction_runs(id) ON DELETE CASCADE,
		player_key     TEXT NOT NULL,
		display_name   TEXT NOT NULL DEFAULT '',
		rank           INTEGER NOT NULL,
		composite      DOUBLE PRECISION NOT NULL,
		course_fit     DOUBLE PRECISION,
		form           DOUBLE PRECISION,
		momentum       DOUBLE PRECISION,
		trend          TEXT NOT NULL DEFAULT 'unknown',
		adjustment     DOUBLE PRECISION NOT NULL DEFAULT 0,
		weather_adjust DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, player_key)
	)`,

	`CREATE TABLE IF NOT EXISTS value_bets (
		id             UUID NOT NULL,
		tournament_id  TEXT NOT NULL,
		player_key     TEXT NOT NULL,
		display_name   TEXT NOT NULL DEFAULT '',
		market         TEXT NOT NULL,
		model_prob     DOUBLE PRECISION NOT NULL,
		external_prob  DOUBLE PRECISION,
		market_prob    DOUBLE PRECISION NOT NULL,
		best_price     INTEGER NOT NULL,
		best_book      TEXT NOT NULL,
		ev             DOUBLE PRECISION NOT NULL,
		stake_fraction DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (tournament_id, player_key, market)
	)`,

	`CREATE TABLE IF NOT EXISTS odds_quotes (
		tournament_id TEXT NOT NULL,
		player_key    TEXT NOT NULL,
		market        TEXT NOT NULL,
		book          TEXT NOT NULL,
		price         INTEGER NOT NULL,
		fetched_at    TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (tournament_id, player_key, market, book)
	)`,

	`CREATE TABLE IF NOT EXISTS finish_results (
		tournament_id   TEXT NOT NULL,
		player_key      TEXT NOT NULL,
		finish_position INTEGER,
		finish_text     TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL,
		made_cut        BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (tournament_id, player_key)
	)`,

	`CREATE TABLE IF NOT EXISTS settled_bets (
		tournament_id TEXT NOT NULL,
		player_key    TEXT NOT NULL,
		market        TEXT NOT NULL,
		price         INTEGER NOT NULL,
		stake         NUMERIC(12,4) NOT NULL,
		outcome       TEXT NOT NULL,
		fraction      DOUBLE PRECISION NOT NULL DEFAULT 0,
		profit        NUMERIC(12,4) NOT NULL,
		settled_at    TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (tournament_id, player_key, market)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_settled_bets_market
		ON settled_bets (market, settled_at DESC)`,

	`CREATE TABLE IF NOT EXISTS market_performance (
		market         TEXT NOT NULL,
		tournament_id  TEXT NOT NULL,
		bets_placed    INTEGER NOT NULL DEFAULT 0,
		bets_won       INTEGER NOT NULL DEFAULT 0,
		bets_lost      INTEGER NOT NULL DEFAULT 0,
		bets_pushed    INTEGER NOT NULL DEFAULT 0,
		units_wagered  NUMERIC(12,4) NOT NULL DEFAULT 0,
		units_returned NUMERIC(12,4) NOT NULL DEFAULT 0,
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (market, tournament_id)
	)`,

	`CREATE TABLE IF NOT EXISTS market_states (
		market           TEXT PRIMARY KEY,
		state            TEXT NOT NULL,
		ev_threshold     DOUBLE PRECISION NOT NULL,
		stake_multiplier DOUBLE PRECISION NOT NULL,
		suppressed       BOOLEAN NOT NULL DEFAULT FALSE,
		sample_size      INTEGER NOT NULL DEFAULT 0,
		roi_pct          DOUBLE PRECISION NOT NULL DEFAULT 0,
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS calibration_buckets (
		market        TEXT NOT NULL,
		bucket_index  INTEGER NOT NULL,
		sample_count  INTEGER NOT NULL DEFAULT 0,
		predicted_sum DOUBLE PRECISION NOT NULL DEFAULT 0,
		wins          INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (market, bucket_index)
	)`,
}
