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

// StatsAPIClient implements StatsProvider against the JSON stats API.
// Responses are cached; the field and projections for a tournament week
// change slowly and the provider meters requests aggressively.
type StatsAPIClient struct {
	baseURL string
	apiKey  string
	http    *RateLimitedHTTPClient
	cache   *gocache.Cache
	logger  *logrus.Logger
}

// NewStatsAPIClient creates a stats provider client from configuration
func NewStatsAPIClient(cfg *config.DataSourcesConfig, logger *logrus.Logger) *StatsAPIClient {
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.RetryAttempts
	httpCfg.RateLimit = cfg.RateLimitPerSec

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	return &StatsAPIClient{
		baseURL: strings.TrimRight(cfg.StatsAPIURL, "/"),
		apiKey:  cfg.StatsAPIKey,
		http:    NewRateLimitedHTTPClient(httpCfg, logger),
		cache:   gocache.New(ttl, 2*ttl),
		logger:  logger,
	}
}

type fieldResponse struct {
	TournamentID string `json:"tournament_id"`
	Course       struct {
		CourseID       string            `json:"course_id"`
		CourseName     string            `json:"course_name"`
		Par            int               `json:"par"`
		Yardage        int               `json:"yardage"`
		SkillRatings   map[string]string `json:"skill_ratings"`
		RelatedCourses []string          `json:"related_courses"`
	} `json:"course"`
	Players []struct {
		Name string `json:"name"`
		DGID *int64 `json:"dg_id"`
	} `json:"players"`
}

// FetchField returns this week's field and venue for a tournament
func (c *StatsAPIClient) FetchField(ctx context.Context, tournamentID string) (*models.Field, *models.CourseProfile, error) {
	var resp fieldResponse
	endpoint := fmt.Sprintf("%s/field/%s", c.baseURL, url.PathEscape(tournamentID))
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, nil, fmt.Errorf("failed to fetch field: %w", err)
	}

	field := &models.Field{
		TournamentID: resp.TournamentID,
		CourseID:     resp.Course.CourseID,
		Players:      make([]models.Player, 0, len(resp.Players)),
	}
	for _, p := range resp.Players {
		field.Players = append(field.Players, models.Player{
			Key:         models.NormalizeName(p.Name),
			DisplayName: p.Name,
			DGID:        p.DGID,
		})
	}

	profile := &models.CourseProfile{
		CourseID:       resp.Course.CourseID,
		CourseName:     resp.Course.CourseName,
		Par:            resp.Course.Par,
		Yardage:        resp.Course.Yardage,
		RelatedCourses: resp.Course.RelatedCourses,
	}
	if len(resp.Course.SkillRatings) > 0 {
		profile.SkillRatings = make(map[models.SGCategory]models.Difficulty, len(resp.Course.SkillRatings))
		for cat, rating := range resp.Course.SkillRatings {
			profile.SkillRatings[models.SGCategory(cat)] = models.Difficulty(rating)
		}
	}
	return field, profile, nil
}

type roundRow struct {
	Player    string   `json:"player_name"`
	Date      string   `json:"round_date"`
	CourseID  string   `json:"course_id"`
	EventName string   `json:"event_name"`
	SGTotal   *float64 `json:"sg_total"`
	SGOTT     *float64 `json:"sg_ott"`
	SGApp     *float64 `json:"sg_app"`
	SGARG     *float64 `json:"sg_arg"`
	SGPutt    *float64 `json:"sg_putt"`
	SGT2G     *float64 `json:"sg_t2g"`
	DrivingD  *float64 `json:"driving_dist"`
	DrivingA  *float64 `json:"driving_acc"`
	GIR       *float64 `json:"gir"`
	Scrambl   *float64 `json:"scrambling"`
	Score     *int     `json:"score"`
}

// FetchRounds returns historical rounds for the given players. The
// provider accepts batches, so one call covers a whole field.
func (c *StatsAPIClient) FetchRounds(ctx context.Context, playerKeys []string) ([]models.HistoricalRound, error) {
	var resp struct {
		Rounds []roundRow `json:"rounds"`
	}
	endpoint := fmt.Sprintf("%s/rounds?players=%s", c.baseURL, url.QueryEscape(strings.Join(playerKeys, ",")))
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch rounds: %w", err)
	}

	rounds := make([]models.HistoricalRound, 0, len(resp.Rounds))
	for _, row := range resp.Rounds {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"player": row.Player,
				"date":   row.Date,
			}).Warn("Skipping round with unparseable date")
			continue
		}
		rounds = append(rounds, models.HistoricalRound{
			PlayerKey:       models.NormalizeName(row.Player),
			Date:            date,
			CourseID:        row.CourseID,
			EventName:       row.EventName,
			SGTotal:         row.SGTotal,
			SGOTT:           row.SGOTT,
			SGApp:           row.SGApp,
			SGARG:           row.SGARG,
			SGPutt:          row.SGPutt,
			SGT2G:           row.SGT2G,
			DrivingDistance: row.DrivingD,
			DrivingAccuracy: row.DrivingA,
			GIR:             row.GIR,
			Scrambling:      row.Scrambl,
			Score:           row.Score,
		})
	}
	return rounds, nil
}

type projectionRow struct {
	Player            string             `json:"player_name"`
	Probabilities     map[string]float64 `json:"probabilities"`
	CourseAdjustedPct *float64           `json:"course_adjusted_percentile"`
	SkillRatingPct    *float64           `json:"skill_rating_percentile"`
	ApproachSkillPct  *float64           `json:"approach_skill_percentile"`
	GlobalRankPct     *float64           `json:"global_rank_percentile"`
}

// FetchExternalData returns the provider's projections for a tournament
func (c *StatsAPIClient) FetchExternalData(ctx context.Context, tournamentID string) (models.ExternalData, error) {
	var resp struct {
		Projections []projectionRow `json:"projections"`
	}
	endpoint := fmt.Sprintf("%s/projections/%s", c.baseURL, url.PathEscape(tournamentID))
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch projections: %w", err)
	}

	data := make(models.ExternalData, len(resp.Projections))
	for _, row := range resp.Projections {
		pd := models.ExternalPlayerData{
			CourseAdjustedPercentile: row.CourseAdjustedPct,
			SkillRatingPercentile:    row.SkillRatingPct,
			ApproachSkillPercentile:  row.ApproachSkillPct,
			GlobalRankPercentile:     row.GlobalRankPct,
		}
		if len(row.Probabilities) > 0 {
			pd.Probabilities = make(map[models.Market]float64, len(row.Probabilities))
			for name, p := range row.Probabilities {
				market, err := models.ParseMarket(name)
				if err != nil {
					continue
				}
				pd.Probabilities[market] = p
			}
		}
		data[models.NormalizeName(row.Player)] = pd
	}
	return data, nil
}

// FetchResults returns the final leaderboard once a tournament ends
func (c *StatsAPIClient) FetchResults(ctx context.Context, tournamentID string) ([]models.FinishResult, error) {
	var resp struct {
		Results []struct {
			Player string `json:"player_name"`
			Finish string `json:"finish"`
		} `json:"results"`
	}
	endpoint := fmt.Sprintf("%s/results/%s", c.baseURL, url.PathEscape(tournamentID))
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch results: %w", err)
	}

	results := make([]models.FinishResult, 0, len(resp.Results))
	for _, row := range resp.Results {
		res := models.ParseFinish(row.Finish)
		res.PlayerKey = models.NormalizeName(row.Player)
		results = append(results, res)
	}
	return results, nil
}

func (c *StatsAPIClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	return getCachedJSON(ctx, c.http, c.cache, c.apiKey, endpoint, out)
}

// Close releases the underlying HTTP client
func (c *StatsAPIClient) Close() error {
	return c.http.Close()
}
