package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/predictfc/football-predict/internal/domain/match"
	"github.com/predictfc/football-predict/internal/domain/storage"
	"github.com/predictfc/football-predict/internal/domain/team"
	"github.com/predictfc/football-predict/internal/platform/id"
	"github.com/predictfc/football-predict/internal/platform/logging"
	"github.com/predictfc/football-predict/internal/reconcile"
	"github.com/predictfc/football-predict/internal/resolver"
	"github.com/predictfc/football-predict/internal/source"
)

// NameResolver is what the sync pass needs from the team name resolver.
type NameResolver interface {
	Resolve(ctx context.Context, query, sourceName string) (team.Team, bool)
	Reload(ctx context.Context) error
	ImportCuratedFile(ctx context.Context, path string) (int, error)
	Stats() resolver.Stats
}

// FixtureMerger collapses same-pass duplicate fixtures.
type FixtureMerger interface {
	Merge(records []match.Match) ([]match.Match, reconcile.Summary)
}

// StatsRecomputer refreshes aggregates after fixtures change.
type StatsRecomputer interface {
	RecomputeAll(ctx context.Context) (int, error)
}

type SyncConfig struct {
	// LeagueMappings maps our league key to each provider's code for that
	// league, keyed by adapter name. A league missing a provider's entry is
	// skipped for that provider.
	LeagueMappings map[string]map[string]string
	// LeaguePause is the fixed sleep between league iterations, keeping the
	// pass under provider rate limits.
	LeaguePause time.Duration
	// WindowPast and WindowFuture bound the fixture window handed to every
	// provider, relative to the pass start. Zero or negative values fall back
	// to thirty days on that side.
	WindowPast   time.Duration
	WindowFuture time.Duration
	// CuratedAliasFile is the hand-maintained alias table. When set, the pass
	// imports it before fetching and rewrites it from the team table after.
	CuratedAliasFile string
}

type LeagueReport struct {
	League          string            `json:"league"`
	TeamsUpserted   int               `json:"teamsUpserted"`
	MatchesFetched  int               `json:"matchesFetched"`
	MatchesMerged   int               `json:"matchesMerged"`
	MatchesUpserted int               `json:"matchesUpserted"`
	Unresolved      int               `json:"unresolved"`
	SourceErrors    map[string]string `json:"sourceErrors,omitempty"`
	DurationMs      int64             `json:"durationMs"`
}

type SyncReport struct {
	RunID           string         `json:"runId"`
	StartedAt       time.Time      `json:"startedAt"`
	FinishedAt      time.Time      `json:"finishedAt"`
	Leagues         []LeagueReport `json:"leagues"`
	TeamsTotal      int            `json:"teamsTotal"`
	MatchesTotal    int            `json:"matchesTotal"`
	StatsUpserted   int            `json:"statsUpserted"`
	AliasesImported int            `json:"aliasesImported"`
	Resolver        resolver.Stats `json:"resolver"`
}

// SyncService runs the full ingestion pass: fetch from every registered
// provider, resolve names, reconcile duplicates, and commit one league per
// transaction. A provider failing yields empty results for that league, not
// an aborted pass.
type SyncService struct {
	unit       storage.Unit
	registry   *source.Registry
	resolver   NameResolver
	reconciler FixtureMerger
	stats      StatsRecomputer
	cfg        SyncConfig
	ids        id.Generator
	logger     *logging.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewSyncService(
	unit storage.Unit,
	registry *source.Registry,
	res NameResolver,
	rec FixtureMerger,
	stats StatsRecomputer,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.WindowPast <= 0 {
		cfg.WindowPast = 30 * 24 * time.Hour
	}
	if cfg.WindowFuture <= 0 {
		cfg.WindowFuture = 30 * 24 * time.Hour
	}
	return &SyncService{
		unit:       unit,
		registry:   registry,
		resolver:   res,
		reconciler: rec,
		stats:      stats,
		cfg:        cfg,
		ids:        id.NewRandomGenerator(),
		logger:     logger,
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run executes one sync pass over every configured league.
func (s *SyncService) Run(ctx context.Context) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.Run")
	defer span.End()

	if len(s.cfg.LeagueMappings) == 0 {
		return SyncReport{}, fmt.Errorf("%w: no leagues configured", ErrInvalidInput)
	}

	runID, err := s.ids.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate sync run id", "error", err)
	}
	report := SyncReport{RunID: runID, StartedAt: time.Now().UTC()}

	if s.cfg.CuratedAliasFile != "" {
		imported, err := s.resolver.ImportCuratedFile(ctx, s.cfg.CuratedAliasFile)
		if err != nil {
			s.logger.WarnContext(ctx, "import curated aliases", "path", s.cfg.CuratedAliasFile, "error", err)
		}
		report.AliasesImported = imported
	}

	leagues := make([]string, 0, len(s.cfg.LeagueMappings))
	for league := range s.cfg.LeagueMappings {
		leagues = append(leagues, league)
	}
	sort.Strings(leagues)

	for i, league := range leagues {
		leagueReport, err := s.syncLeague(ctx, league, s.cfg.LeagueMappings[league])
		if err != nil {
			return report, fmt.Errorf("sync league %s: %w", league, err)
		}
		report.Leagues = append(report.Leagues, leagueReport)
		report.TeamsTotal += leagueReport.TeamsUpserted
		report.MatchesTotal += leagueReport.MatchesUpserted

		if i < len(leagues)-1 {
			if err := s.sleep(ctx, s.cfg.LeaguePause); err != nil {
				return report, err
			}
		}
	}

	if s.stats != nil {
		upserted, err := s.stats.RecomputeAll(ctx)
		if err != nil {
			return report, fmt.Errorf("recompute stats: %w", err)
		}
		report.StatsUpserted = upserted
	}

	if s.cfg.CuratedAliasFile != "" {
		if err := s.exportCuratedAliases(ctx); err != nil {
			s.logger.WarnContext(ctx, "export curated aliases", "path", s.cfg.CuratedAliasFile, "error", err)
		}
	}

	report.Resolver = s.resolver.Stats()
	report.FinishedAt = time.Now().UTC()
	s.logger.InfoContext(ctx, "sync pass finished",
		"run_id", report.RunID,
		"leagues", len(report.Leagues),
		"teams", report.TeamsTotal,
		"matches", report.MatchesTotal,
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)
	return report, nil
}

// exportCuratedAliases rewrites the curated alias table from the current
// team table, so names learned or corrected during the pass survive it.
func (s *SyncService) exportCuratedAliases(ctx context.Context) error {
	var teams []team.Team
	if err := s.unit.InTx(ctx, func(ctx context.Context, repos storage.Repos) error {
		var err error
		teams, err = repos.Teams.List(ctx)
		return err
	}); err != nil {
		return err
	}
	return resolver.ExportCuratedAliasFile(s.cfg.CuratedAliasFile, teams)
}

type fetchResult struct {
	adapter string
	teams   []source.RawTeam
	matches []source.RawMatch
	err     error
}

func (s *SyncService) syncLeague(ctx context.Context, league string, codes map[string]string) (LeagueReport, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.syncLeague")
	defer span.End()

	start := time.Now()
	report := LeagueReport{League: league}

	results := s.fetchAll(ctx, league, codes)

	type sourcedTeam struct {
		raw  source.RawTeam
		from string
	}
	rawTeams := make([]sourcedTeam, 0, 64)
	for _, result := range results {
		if result.err != nil {
			if report.SourceErrors == nil {
				report.SourceErrors = make(map[string]string)
			}
			report.SourceErrors[result.adapter] = result.err.Error()
			s.logger.WarnContext(ctx, "source fetch failed, continuing with empty results",
				"league", league, "source", result.adapter, "error", result.err)
			continue
		}
		for _, raw := range result.teams {
			rawTeams = append(rawTeams, sourcedTeam{raw: raw, from: result.adapter})
		}
		report.MatchesFetched += len(result.matches)
	}

	if len(rawTeams) > 0 {
		if err := s.unit.InTx(ctx, func(ctx context.Context, repos storage.Repos) error {
			for _, item := range rawTeams {
				raw := item.raw
				t := teamFromRaw(raw, item.from)
				if err := t.Validate(); err != nil {
					s.logger.WarnContext(ctx, "skip invalid team", "name", raw.Name, "error", err)
					continue
				}
				if err := repos.Teams.Upsert(ctx, t); err != nil {
					return fmt.Errorf("upsert team %s: %w", t.Name, err)
				}
				report.TeamsUpserted++
			}
			return nil
		}); err != nil {
			return report, err
		}
		// New teams must be visible before name resolution starts.
		if err := s.resolver.Reload(ctx); err != nil {
			return report, err
		}
	}

	records := make([]match.Match, 0, report.MatchesFetched)
	for _, result := range results {
		if result.err != nil {
			continue
		}
		for _, raw := range result.matches {
			records = append(records, s.matchFromRaw(ctx, result.adapter, league, raw))
		}
	}

	merged, summary := s.reconciler.Merge(records)
	report.MatchesMerged = summary.Merged

	if len(merged) > 0 {
		if err := s.unit.InTx(ctx, func(ctx context.Context, repos storage.Repos) error {
			for _, m := range merged {
				if err := repos.Matches.Upsert(ctx, m); err != nil {
					return fmt.Errorf("upsert match %s: %w", m.MatchID, err)
				}
				report.MatchesUpserted++
				if m.NameUnresolved {
					report.Unresolved++
				}
			}
			return nil
		}); err != nil {
			return report, err
		}
	}

	report.DurationMs = time.Since(start).Milliseconds()
	s.logger.InfoContext(ctx, "league synced",
		"league", league,
		"teams", report.TeamsUpserted,
		"fetched", report.MatchesFetched,
		"merged", report.MatchesMerged,
		"upserted", report.MatchesUpserted,
		"unresolved", report.Unresolved,
	)
	return report, nil
}

// fetchAll queries every registered provider concurrently and returns
// results in registry (precedence) order, so downstream merging stays
// deterministic regardless of which goroutine finished first.
func (s *SyncService) fetchAll(ctx context.Context, league string, codes map[string]string) []fetchResult {
	adapters := s.registry.All()
	results := make([]fetchResult, len(adapters))

	now := time.Now().UTC()
	from := now.Add(-s.cfg.WindowPast)
	to := now.Add(s.cfg.WindowFuture)

	var wg conc.WaitGroup
	for i, adapter := range adapters {
		i, adapter := i, adapter
		code, ok := codes[adapter.Name()]
		if !ok || strings.TrimSpace(code) == "" {
			results[i] = fetchResult{adapter: adapter.Name()}
			continue
		}

		wg.Go(func() {
			result := fetchResult{adapter: adapter.Name()}
			teams, err := adapter.FetchTeams(ctx, code)
			if err != nil {
				result.err = err
			} else {
				result.teams = teams
				matches, err := adapter.FetchMatches(ctx, code, from, to)
				if err != nil {
					result.err = err
				} else {
					result.matches = matches
				}
			}
			results[i] = result
		})
	}
	wg.Wait()
	return results
}

func teamFromRaw(raw source.RawTeam, from string) team.Team {
	return team.Team{
		ID:           raw.ID,
		Name:         raw.Name,
		ZhName:       raw.ZhName,
		OfficialName: raw.OfficialName,
		Aliases:      team.DedupAliases(raw.Aliases),
		Country:      raw.Country,
		League:       raw.League,
		Source:       from,
		LastUpdated:  time.Now().UTC(),
	}
}

// matchFromRaw converts a provider fixture into a domain record, resolving
// team names the provider did not ship ids for. Records whose names cannot
// be resolved are kept and flagged rather than dropped, so a later alias
// import can repair them.
func (s *SyncService) matchFromRaw(ctx context.Context, sourceName, league string, raw source.RawMatch) match.Match {
	m := match.Match{
		MatchID:     raw.ExternalID,
		Date:        raw.Date.UTC(),
		HomeTeamID:  raw.HomeTeamID,
		AwayTeamID:  raw.AwayTeamID,
		HomeName:    raw.HomeName,
		AwayName:    raw.AwayName,
		HomeGoals:   raw.HomeGoals,
		AwayGoals:   raw.AwayGoals,
		Status:      match.NormalizeStatus(raw.Status),
		Competition: raw.Competition,
		Sources:     []string{sourceName},
		Details:     raw.Extra,
	}
	if m.Competition == "" {
		m.Competition = league
	}

	if m.HomeTeamID == 0 && m.HomeName != "" {
		if t, ok := s.resolver.Resolve(ctx, m.HomeName, sourceName); ok {
			m.HomeTeamID = t.ID
		}
	}
	if m.AwayTeamID == 0 && m.AwayName != "" {
		if t, ok := s.resolver.Resolve(ctx, m.AwayName, sourceName); ok {
			m.AwayTeamID = t.ID
		}
	}
	m.NameUnresolved = m.HomeTeamID == 0 || m.AwayTeamID == 0
	return m
}
