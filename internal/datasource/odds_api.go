package datasource

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/fairway-edge/internal/config"
	"github.com/yourusername/fairway-edge/internal/models"
)

// OddsAPIClient implements OddsProvider against the JSON odds feed.
// Quotes are cached per tournament and market for the configured TTL so
// repeated detection passes within a run hit the feed once.
type OddsAPIClient struct {
	baseURL string
	apiKey  string
	http    *RateLimitedHTTPClient
	cache   *gocache.Cache
	logger  *logrus.Logger
}

// NewOddsAPIClient creates an odds provider client from configuration
func NewOddsAPIClient(cfg *config.DataSourcesConfig, logger *logrus.Logger) *OddsAPIClient {
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.RetryAttempts
	httpCfg.RateLimit = cfg.RateLimitPerSec

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	return &OddsAPIClient{
		baseURL: strings.TrimRight(cfg.OddsAPIURL, "/"),
		apiKey:  cfg.OddsAPIKey,
		http:    NewRateLimitedHTTPClient(httpCfg, logger),
		cache:   gocache.New(ttl, 2*ttl),
		logger:  logger,
	}
}

type oddsResponse struct {
	TournamentID string `json:"tournament_id"`
	Market       string `json:"market"`
	Quotes       []struct {
		PlayerName string `json:"player_name"`
		Book       string `json:"book"`
		Price      int    `json:"price"`
		FetchedAt  string `json:"fetched_at"`
	} `json:"quotes"`
}

// FetchOdds returns every book's current price for a market. Quotes with
// a zero price are dropped here; out-of-bounds prices survive so the
// detector can count them as invalid-odds warnings.
func (c *OddsAPIClient) FetchOdds(ctx context.Context, tournamentID string, market models.Market) ([]models.OddsQuote, error) {
	var resp oddsResponse
	endpoint := fmt.Sprintf("%s/odds/%s?market=%s",
		c.baseURL, url.PathEscape(tournamentID), url.QueryEscape(string(market)))
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch odds for %s: %w", market, err)
	}

	quotes := make([]models.OddsQuote, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.Price == 0 {
			c.logger.WithFields(logrus.Fields{
				"player": q.PlayerName,
				"book":   q.Book,
				"market": market,
			}).Warn("Skipping quote with zero price")
			continue
		}
		fetchedAt, err := time.Parse(time.RFC3339, q.FetchedAt)
		if err != nil {
			fetchedAt = time.Now().UTC()
		}
		quotes = append(quotes, models.OddsQuote{
			PlayerKey: models.NormalizeName(q.PlayerName),
			Market:    market,
			Book:      q.Book,
			Price:     q.Price,
			FetchedAt: fetchedAt,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"tournament_id": tournamentID,
		"market":        market,
		"quotes":        len(quotes),
	}).Debug("Fetched odds")
	return quotes, nil
}

func (c *OddsAPIClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	return getCachedJSON(ctx, c.http, c.cache, c.apiKey, endpoint, out)
}

// Close releases the underlying HTTP client
func (c *OddsAPIClient) Close() error {
	return c.http.Close()
}
