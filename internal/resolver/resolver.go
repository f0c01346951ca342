package resolver

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/predictfc/football-predict/internal/domain/team"
	"github.com/predictfc/football-predict/internal/platform/cache"
	"github.com/predictfc/football-predict/internal/platform/logging"
)

const (
	// DefaultThreshold is the minimum fuzzy score accepted as a match.
	DefaultThreshold = 65
	// LearnThreshold is the fuzzy score above which the resolver trusts the
	// match enough to write it into the alias table.
	LearnThreshold = 85

	searchCandidateLimit = 5
	cacheKeyPrefix       = "resolve:"
)

// Stats is a snapshot of resolver counters since construction.
type Stats struct {
	Total        int64   `json:"total"`
	ExactMatches int64   `json:"exactMatches"`
	FuzzyMatches int64   `json:"fuzzyMatches"`
	CacheHits    int64   `json:"cacheHits"`
	Failed       int64   `json:"failed"`
	SuccessRate  float64 `json:"successRate"`
	CacheHitRate float64 `json:"cacheHitRate"`
}

type outcome struct {
	team team.Team
	ok   bool
}

// Resolver maps raw team names from upstream feeds onto canonical team
// records. Lookups run cheapest first: cache, learned aliases, exact forms,
// normalized forms, persisted substring search, then fuzzy scoring over the
// whole roster. Successful non-trivial matches are learned as aliases so
// the same spelling never pays for fuzzy scoring twice.
type Resolver struct {
	repo      team.Repository
	aliases   *AliasStore
	cache     *cache.Store
	threshold int
	logger    *logging.Logger

	mu  sync.RWMutex
	idx *index

	total     atomic.Int64
	exact     atomic.Int64
	fuzzy     atomic.Int64
	cacheHits atomic.Int64
	failed    atomic.Int64
}

func New(ctx context.Context, repo team.Repository, aliases *AliasStore, logger *logging.Logger) (*Resolver, error) {
	if repo == nil {
		return nil, errors.New("resolver: team repository is required")
	}
	if aliases == nil {
		return nil, errors.New("resolver: alias store is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	r := &Resolver{
		repo:      repo,
		aliases:   aliases,
		cache:     cache.NewStore(0),
		threshold: DefaultThreshold,
		logger:    logger,
	}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// SetThreshold overrides the default fuzzy threshold. Values outside 0..100
// are ignored.
func (r *Resolver) SetThreshold(threshold int) {
	if threshold < 0 || threshold > 100 {
		return
	}
	r.threshold = threshold
}

// ConfigureCache replaces the lookup cache. Disabled means every Resolve
// call runs the full pipeline; a positive ttl expires entries, zero keeps
// them until the next Reload.
func (r *Resolver) ConfigureCache(enabled bool, ttl time.Duration) {
	if !enabled {
		r.cache = nil
		return
	}
	r.cache = cache.NewStore(ttl)
}

// Reload rebuilds the in-memory index from the repository and drops every
// cached lookup, stale or not.
func (r *Resolver) Reload(ctx context.Context) error {
	teams, err := r.repo.List(ctx)
	if err != nil {
		return errors.Wrap(err, "resolver: load teams")
	}

	idx := buildIndex(teams)
	r.mu.Lock()
	r.idx = idx
	r.mu.Unlock()

	if r.cache != nil {
		r.cache.DeletePrefix(ctx, cacheKeyPrefix)
	}
	r.logger.InfoContext(ctx, "resolver index rebuilt", "teams", len(teams), "aliases", r.aliases.Len())
	return nil
}

// Resolve maps a raw name onto a canonical team. The second return is false
// when no candidate clears the configured threshold; the miss is recorded in
// the unresolved audit log and cached so repeats are cheap.
func (r *Resolver) Resolve(ctx context.Context, query, source string) (team.Team, bool) {
	return r.ResolveWithThreshold(ctx, query, source, r.threshold)
}

// ResolveWithThreshold is Resolve with a per-call fuzzy threshold, used by
// the HTTP resolve endpoint for interactive tuning.
func (r *Resolver) ResolveWithThreshold(ctx context.Context, query, source string, threshold int) (team.Team, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return team.Team{}, false
	}

	r.total.Add(1)

	if r.cache == nil {
		return r.resolveUncached(ctx, query, source, threshold)
	}

	key := cacheKeyPrefix + strings.ToLower(query) + "|" + source
	if cached, ok := r.cache.Get(ctx, key); ok {
		r.cacheHits.Add(1)
		out := cached.(outcome)
		return out.team, out.ok
	}

	t, ok := r.resolveUncached(ctx, query, source, threshold)
	r.cache.Set(ctx, key, outcome{team: t, ok: ok})
	return t, ok
}

func (r *Resolver) resolveUncached(ctx context.Context, query, source string, threshold int) (team.Team, bool) {
	r.mu.RLock()
	idx := r.idx
	r.mu.RUnlock()

	if id, ok := r.aliases.Get(query); ok {
		if t, found := idx.lookupID(id); found {
			r.exact.Add(1)
			return t, true
		}
		r.logger.WarnContext(ctx, "alias points at unknown team", "alias", query, "team_id", id)
	}

	if t, ok := idx.lookupExact(query); ok {
		r.exact.Add(1)
		return t, true
	}

	if t, ok := idx.lookupNormalized(query); ok {
		r.exact.Add(1)
		r.learn(ctx, query, t.ID)
		return t, true
	}

	if t, ok := r.searchPersisted(ctx, query); ok {
		r.exact.Add(1)
		r.learn(ctx, query, t.ID)
		return t, true
	}

	if t, score, ok := r.fuzzyMatch(idx, query, threshold); ok {
		r.fuzzy.Add(1)
		if score >= LearnThreshold {
			r.learn(ctx, query, t.ID)
		}
		r.logger.DebugContext(ctx, "fuzzy match", "query", query, "team", t.Name, "score", score)
		return t, true
	}

	r.failed.Add(1)
	if err := r.aliases.RecordUnresolved(query, source); err != nil {
		r.logger.WarnContext(ctx, "record unresolved name", "query", query, "error", err)
	}
	r.logger.InfoContext(ctx, "team name unresolved", "query", query, "source", source)
	return team.Team{}, false
}

// searchPersisted falls through to the repository substring search so teams
// inserted after the last Reload are still reachable. Candidates come back
// id ascending and the first one wins.
func (r *Resolver) searchPersisted(ctx context.Context, query string) (team.Team, bool) {
	candidates, err := r.repo.SearchByName(ctx, query, searchCandidateLimit)
	if err != nil {
		r.logger.WarnContext(ctx, "team substring search failed", "query", query, "error", err)
		return team.Team{}, false
	}
	if len(candidates) == 0 {
		return team.Team{}, false
	}
	return candidates[0], true
}

// fuzzyMatch scores the query against every name form of every team and
// keeps the best score. Ties keep the earlier team, which the id-ordered
// index makes deterministic.
func (r *Resolver) fuzzyMatch(idx *index, query string, threshold int) (team.Team, int, bool) {
	normQuery := Normalize(query)
	if normQuery == "" {
		normQuery = strings.ToLower(query)
	}

	var (
		best      team.Team
		bestScore int
	)
	for _, t := range idx.teams {
		for _, form := range t.NameForms() {
			candidate := Normalize(form)
			if candidate == "" {
				candidate = strings.ToLower(form)
			}
			score := Ratio(normQuery, candidate)
			if ts := TokenSortRatio(normQuery, candidate); ts > score {
				score = ts
			}
			if score > bestScore {
				best = t
				bestScore = score
			}
		}
	}

	if bestScore < threshold {
		return team.Team{}, bestScore, false
	}
	return best, bestScore, true
}

func (r *Resolver) learn(ctx context.Context, query string, teamID int64) {
	if err := r.aliases.Learn(query, teamID); err != nil {
		r.logger.WarnContext(ctx, "persist learned alias", "alias", query, "error", err)
	}
}

// ImportCuratedAliases merges a hand-maintained alias file into the learned
// table. Rows naming unknown teams are skipped with a warning.
func (r *Resolver) ImportCuratedAliases(ctx context.Context, entries map[string]int64) (int, error) {
	r.mu.RLock()
	idx := r.idx
	r.mu.RUnlock()

	imported := 0
	for alias, id := range entries {
		if _, ok := idx.lookupID(id); !ok {
			r.logger.WarnContext(ctx, "curated alias names unknown team", "alias", alias, "team_id", id)
			continue
		}
		if err := r.aliases.Learn(alias, id); err != nil {
			return imported, err
		}
		imported++
	}

	if r.cache != nil {
		r.cache.DeletePrefix(ctx, cacheKeyPrefix)
	}
	return imported, nil
}

// ImportCuratedFile loads the curated alias table at path and merges it into
// the learned aliases. A missing file is not an error and imports nothing.
func (r *Resolver) ImportCuratedFile(ctx context.Context, path string) (int, error) {
	entries, err := LoadCuratedAliasFile(path)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}
	return r.ImportCuratedAliases(ctx, entries)
}

// Stats reports resolver counters since process start.
func (r *Resolver) Stats() Stats {
	s := Stats{
		Total:        r.total.Load(),
		ExactMatches: r.exact.Load(),
		FuzzyMatches: r.fuzzy.Load(),
		CacheHits:    r.cacheHits.Load(),
		Failed:       r.failed.Load(),
	}
	if s.Total > 0 {
		s.SuccessRate = round2(float64(s.Total-s.Failed) / float64(s.Total) * 100)
		s.CacheHitRate = round2(float64(s.CacheHits) / float64(s.Total) * 100)
	}
	return s
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
