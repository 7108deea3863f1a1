// Package datasource fetches tournament fields, historical rounds,
// external projections and sportsbook odds from the upstream providers.
// Everything is fetched up front and cached; the scoring core never
// touches the network.
package datasource

import (
	"context"
	"time"

	"github.com/yourusername/fairway-edge/internal/models"
)

// StatsProvider serves tournament and player data from the stats API
type StatsProvider interface {
	// FetchField returns this week's field and venue for a tournament.
	FetchField(ctx context.Context, tournamentID string) (*models.Field, *models.CourseProfile, error)
	// FetchRounds returns historical rounds for the given players.
	FetchRounds(ctx context.Context, playerKeys []string) ([]models.HistoricalRound, error)
	// FetchExternalData returns the provider's projections and skill
	// percentiles for a tournament field.
	FetchExternalData(ctx context.Context, tournamentID string) (models.ExternalData, error)
	// FetchResults returns the final leaderboard once a tournament ends.
	FetchResults(ctx context.Context, tournamentID string) ([]models.FinishResult, error)
}

// OddsProvider serves sportsbook prices
type OddsProvider interface {
	// FetchOdds returns every book's current prices for a market.
	FetchOdds(ctx context.Context, tournamentID string, market models.Market) ([]models.OddsQuote, error)
}

// Snapshot is the complete input bundle for one prediction run, fetched
// before any scoring starts so a mid-run provider outage cannot produce
// a half-updated board
type Snapshot struct {
	TournamentID string
	Field        *models.Field
	Course       *models.CourseProfile
	Rounds       []models.HistoricalRound
	External     models.ExternalData
	Odds         []models.OddsQuote
	Weather      *models.WeatherSnapshot
	FetchedAt    time.Time
}
