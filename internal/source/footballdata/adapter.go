package footballdata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/predictfc/football-predict/internal/domain/match"
	"github.com/predictfc/football-predict/internal/platform/logging"
	"github.com/predictfc/football-predict/internal/platform/resilience"
	"github.com/predictfc/football-predict/internal/source"
)

const defaultBaseURL = "https://api.football-data.org/v4"

// Default fixture window relative to now, applied when a caller leaves a
// bound zero. Matches the provider's free-tier paging limits.
const (
	matchWindowPast   = 30 * 24 * time.Hour
	matchWindowFuture = 30 * 24 * time.Hour
)

type Config struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Adapter pulls teams and fixtures from football-data.org. League codes are
// the provider's competition codes ("PL", "BL1", ...).
type Adapter struct {
	client *source.Client
	logger *logging.Logger
	now    func() time.Time
}

func New(cfg Config) *Adapter {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Adapter{
		client: source.NewClient(source.ClientConfig{
			BaseURL:        baseURL,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			Headers:        map[string]string{"X-Auth-Token": cfg.APIKey},
			Logger:         logger,
			CircuitBreaker: cfg.CircuitBreaker,
		}),
		logger: logger,
		now:    time.Now,
	}
}

func (a *Adapter) Name() string { return source.NameFootballData }

type teamsEnvelope struct {
	Teams []teamItem `json:"teams"`
}

type teamItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
	Area      struct {
		Name string `json:"name"`
	} `json:"area"`
}

func (a *Adapter) FetchTeams(ctx context.Context, league string) ([]source.RawTeam, error) {
	var envelope teamsEnvelope
	path := fmt.Sprintf("/competitions/%s/teams", url.PathEscape(league))
	if _, err := a.client.GetJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch teams league=%s: %w", league, err)
	}

	out := make([]source.RawTeam, 0, len(envelope.Teams))
	for _, item := range envelope.Teams {
		if item.ID <= 0 || strings.TrimSpace(item.Name) == "" {
			continue
		}
		var aliases []string
		if tla := strings.TrimSpace(item.TLA); tla != "" {
			aliases = append(aliases, tla)
		}
		out = append(out, source.RawTeam{
			ID:           item.ID,
			Name:         strings.TrimSpace(item.Name),
			OfficialName: strings.TrimSpace(item.ShortName),
			Aliases:      aliases,
			Country:      strings.TrimSpace(item.Area.Name),
			League:       league,
		})
	}
	return out, nil
}

type matchesEnvelope struct {
	Matches []matchItem `json:"matches"`
}

type matchItem struct {
	ID          int64  `json:"id"`
	UTCDate     string `json:"utcDate"`
	Status      string `json:"status"`
	Matchday    *int   `json:"matchday"`
	Stage       string `json:"stage"`
	Competition struct {
		Name string `json:"name"`
	} `json:"competition"`
	HomeTeam sideItem  `json:"homeTeam"`
	AwayTeam sideItem  `json:"awayTeam"`
	Score    scoreItem `json:"score"`
}

type sideItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type scoreItem struct {
	FullTime struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"fullTime"`
}

func (a *Adapter) FetchMatches(ctx context.Context, league string, from, to time.Time) ([]source.RawMatch, error) {
	now := a.now().UTC()
	if from.IsZero() {
		from = now.Add(-matchWindowPast)
	}
	if to.IsZero() {
		to = now.Add(matchWindowFuture)
	}

	query := url.Values{}
	query.Set("dateFrom", from.UTC().Format("2006-01-02"))
	query.Set("dateTo", to.UTC().Format("2006-01-02"))

	var envelope matchesEnvelope
	path := fmt.Sprintf("/competitions/%s/matches", url.PathEscape(league))
	if _, err := a.client.GetJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch matches league=%s: %w", league, err)
	}

	out := make([]source.RawMatch, 0, len(envelope.Matches))
	for _, item := range envelope.Matches {
		if item.ID <= 0 {
			continue
		}
		kickoff, err := time.Parse(time.RFC3339, item.UTCDate)
		if err != nil {
			a.logger.WarnContext(ctx, "skip match with unparseable kickoff", "match_id", item.ID, "utc_date", item.UTCDate)
			continue
		}

		competition := strings.TrimSpace(item.Competition.Name)
		if competition == "" {
			competition = league
		}

		extra := map[string]any{"stage": strings.TrimSpace(item.Stage)}
		if item.Matchday != nil {
			extra["matchday"] = *item.Matchday
		}

		out = append(out, source.RawMatch{
			ExternalID:  strconv.FormatInt(item.ID, 10),
			Date:        kickoff.UTC(),
			HomeTeamID:  item.HomeTeam.ID,
			AwayTeamID:  item.AwayTeam.ID,
			HomeName:    strings.TrimSpace(item.HomeTeam.Name),
			AwayName:    strings.TrimSpace(item.AwayTeam.Name),
			HomeGoals:   item.Score.FullTime.Home,
			AwayGoals:   item.Score.FullTime.Away,
			Status:      match.NormalizeStatus(item.Status),
			Competition: competition,
			Extra:       extra,
		})
	}
	return out, nil
}
