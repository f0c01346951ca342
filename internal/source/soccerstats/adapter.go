package soccerstats

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/predictfc/football-predict/internal/domain/match"
	"github.com/predictfc/football-predict/internal/platform/logging"
	"github.com/predictfc/football-predict/internal/platform/resilience"
	"github.com/predictfc/football-predict/internal/source"
)

const defaultBaseURL = "https://www.soccerstats.com"

var scoreRegex = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	UserAgent      string
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Adapter scrapes fixture results from soccerstats.com. League codes are the
// site's country slugs ("england", "germany", ...). The site publishes no
// standalone team listing, so FetchTeams always comes back empty and teams
// reach the store through the API providers instead.
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
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	}

	return &Adapter{
		client: source.NewClient(source.ClientConfig{
			BaseURL:        baseURL,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			Headers:        map[string]string{"User-Agent": userAgent},
			Logger:         logger,
			CircuitBreaker: cfg.CircuitBreaker,
		}),
		logger: logger,
		now:    time.Now,
	}
}

func (a *Adapter) Name() string { return source.NameSoccerStats }

func (a *Adapter) FetchTeams(context.Context, string) ([]source.RawTeam, error) {
	return nil, nil
}

// FetchMatches scrapes the full results page and keeps only rows inside the
// requested window; the site takes no date parameters.
func (a *Adapter) FetchMatches(ctx context.Context, league string, from, to time.Time) ([]source.RawMatch, error) {
	query := url.Values{}
	query.Set("league", league)
	query.Set("pmtype", "bydate")

	raw, err := a.client.GetBody(ctx, "/results.asp", query)
	if err != nil {
		return nil, fmt.Errorf("fetch results league=%s: %w", league, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse results page league=%s: %w", league, err)
	}

	now := a.now().UTC()
	out := make([]source.RawMatch, 0, 64)
	doc.Find("table#btable tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		date, err := parseRowDate(cellText(cells, 0), now)
		if err != nil {
			return
		}
		if !from.IsZero() && date.Before(from) {
			return
		}
		if !to.IsZero() && date.After(to) {
			return
		}
		home := cellText(cells, 1)
		score := cellText(cells, 2)
		away := cellText(cells, 3)
		if home == "" || away == "" {
			return
		}

		rec := source.RawMatch{
			ExternalID:  fmt.Sprintf("ss-%s-%s-%s", home, away, date.Format("2006-01-02")),
			Date:        date,
			HomeName:    home,
			AwayName:    away,
			Status:      match.StatusScheduled,
			Competition: league,
			Extra:       map[string]any{},
		}
		if hg, ag, ok := parseScore(score); ok {
			rec.HomeGoals = &hg
			rec.AwayGoals = &ag
			rec.Status = match.StatusFinished
		}
		out = append(out, rec)
	})

	a.logger.DebugContext(ctx, "scraped results", "league", league, "matches", len(out))
	return out, nil
}

func cellText(cells *goquery.Selection, index int) string {
	return strings.TrimSpace(cells.Eq(index).Text())
}

// parseRowDate handles the site's "Sat 15 Aug" style day cells. The page
// carries no year, so the current year applies first; a result landing more
// than two months in the future must belong to the previous calendar year
// of a season spanning new year.
func parseRowDate(raw string, now time.Time) (time.Time, error) {
	fields := strings.Fields(raw)
	if len(fields) < 3 {
		return time.Time{}, fmt.Errorf("unrecognized date cell %q", raw)
	}

	day, err := strconv.Atoi(fields[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized day in %q", raw)
	}
	month, err := time.Parse("Jan", fields[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized month in %q", raw)
	}

	date := time.Date(now.Year(), month.Month(), day, 0, 0, 0, 0, time.UTC)
	if date.After(now.AddDate(0, 2, 0)) {
		date = date.AddDate(-1, 0, 0)
	}
	return date, nil
}

func parseScore(raw string) (int, int, bool) {
	groups := scoreRegex.FindStringSubmatch(strings.TrimSpace(raw))
	if groups == nil {
		return 0, 0, false
	}
	home, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, 0, false
	}
	away, err := strconv.Atoi(groups[2])
	if err != nil {
		return 0, 0, false
	}
	return home, away, true
}
