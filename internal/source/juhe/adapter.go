package juhe

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/predictfc/football-predict/internal/domain/match"
	"github.com/predictfc/football-predict/internal/platform/logging"
	"github.com/predictfc/football-predict/internal/platform/resilience"
	"github.com/predictfc/football-predict/internal/source"
)

const defaultBaseURL = "http://apis.juhe.cn/fapig/football"

// teamIDOffset keeps juhe team ids out of the football-data.org id space.
const teamIDOffset = 200000

type Config struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Adapter pulls teams and fixtures from the juhe aggregation API. League
// codes are juhe's numeric league ids as strings.
type Adapter struct {
	client *source.Client
	apiKey string
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
			Logger:         logger,
			CircuitBreaker: cfg.CircuitBreaker,
		}),
		apiKey: strings.TrimSpace(cfg.APIKey),
		logger: logger,
		now:    time.Now,
	}
}

func (a *Adapter) Name() string { return source.NameJuhe }

// envelope is juhe's uniform response wrapper. error_code zero means
// success; anything else carries a human-readable reason.
type envelope[T any] struct {
	ErrorCode int    `json:"error_code"`
	Reason    string `json:"reason"`
	Result    []T    `json:"result"`
}

type teamItem struct {
	TeamID  int64  `json:"team_id"`
	Name    string `json:"name"`
	ZhName  string `json:"zh_name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
}

func (a *Adapter) FetchTeams(ctx context.Context, league string) ([]source.RawTeam, error) {
	query := url.Values{}
	query.Set("key", a.apiKey)
	query.Set("league_id", league)

	var out envelope[teamItem]
	if _, err := a.client.GetJSON(ctx, "/teams", query, &out); err != nil {
		return nil, fmt.Errorf("fetch teams league=%s: %w", league, err)
	}
	if out.ErrorCode != 0 {
		return nil, crerr.Wrapf(source.ErrAdapterUnavailable, "juhe error_code=%d reason=%s", out.ErrorCode, out.Reason)
	}

	teams := make([]source.RawTeam, 0, len(out.Result))
	for _, item := range out.Result {
		if item.TeamID <= 0 || strings.TrimSpace(item.Name) == "" {
			continue
		}
		teams = append(teams, source.RawTeam{
			ID:           teamIDOffset + item.TeamID,
			Name:         strings.TrimSpace(item.Name),
			ZhName:       strings.TrimSpace(item.ZhName),
			OfficialName: strings.TrimSpace(item.Name),
			Country:      strings.TrimSpace(item.Country),
			League:       league,
		})
	}
	return teams, nil
}

type matchItem struct {
	ID        string `json:"id"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore *int   `json:"home_score"`
	AwayScore *int   `json:"away_score"`
	Status    string `json:"status"`
	MatchDate string `json:"match_date"`
	MatchTime string `json:"match_time"`
	Season    string `json:"season"`
	Round     string `json:"round"`
}

// FetchMatches queries from the window's lower bound; the feed has no upper
// bound parameter, so fixtures past the requested end are dropped here.
func (a *Adapter) FetchMatches(ctx context.Context, league string, from, to time.Time) ([]source.RawMatch, error) {
	if from.IsZero() {
		from = a.now().UTC().Add(-30 * 24 * time.Hour)
	}

	query := url.Values{}
	query.Set("key", a.apiKey)
	query.Set("league_id", league)
	query.Set("date", from.UTC().Format("2006-01-02"))

	var out envelope[matchItem]
	if _, err := a.client.GetJSON(ctx, "/query", query, &out); err != nil {
		return nil, fmt.Errorf("fetch matches league=%s: %w", league, err)
	}
	if out.ErrorCode != 0 {
		return nil, crerr.Wrapf(source.ErrAdapterUnavailable, "juhe error_code=%d reason=%s", out.ErrorCode, out.Reason)
	}

	matches := make([]source.RawMatch, 0, len(out.Result))
	for _, item := range out.Result {
		kickoff, err := parseKickoff(item.MatchDate, item.MatchTime)
		if err != nil {
			a.logger.WarnContext(ctx, "skip match with unparseable date", "match_id", item.ID, "date", item.MatchDate)
			continue
		}
		if !to.IsZero() && kickoff.After(to) {
			continue
		}

		status := match.NormalizeStatus(item.Status)
		if item.HomeScore != nil && item.AwayScore != nil && status == match.StatusScheduled {
			status = match.StatusFinished
		}

		matches = append(matches, source.RawMatch{
			ExternalID:  "juhe-" + item.ID,
			Date:        kickoff,
			HomeName:    strings.TrimSpace(item.HomeTeam),
			AwayName:    strings.TrimSpace(item.AwayTeam),
			HomeGoals:   item.HomeScore,
			AwayGoals:   item.AwayScore,
			Status:      status,
			Competition: league,
			Extra: map[string]any{
				"season": strings.TrimSpace(item.Season),
				"round":  strings.TrimSpace(item.Round),
			},
		})
	}
	return matches, nil
}

func parseKickoff(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if clock != "" {
		if t, err := time.Parse("2006-01-02 15:04", date+" "+clock); err == nil {
			return t.UTC(), nil
		}
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
