package resolver

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/predictfc/football-predict/internal/domain/team"
	"github.com/predictfc/football-predict/internal/platform/logging"
)

type stubTeamRepo struct {
	teams       []team.Team
	searchCalls int
}

func (s *stubTeamRepo) List(context.Context) ([]team.Team, error) {
	return s.teams, nil
}

func (s *stubTeamRepo) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	for _, t := range s.teams {
		if t.ID == id {
			return t, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (s *stubTeamRepo) SearchByName(_ context.Context, q string, limit int) ([]team.Team, error) {
	s.searchCalls++
	needle := strings.ToLower(q)
	var out []team.Team
	for _, t := range s.teams {
		if strings.Contains(strings.ToLower(t.Name), needle) ||
			strings.Contains(t.ZhName, q) ||
			strings.Contains(strings.ToLower(t.OfficialName), needle) {
			out = append(out, t)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *stubTeamRepo) Upsert(context.Context, team.Team) error { return nil }

func rosterFixture() []team.Team {
	return []team.Team{
		{ID: 1, Name: "Bayern Munich", ZhName: "拜仁慕尼黑", OfficialName: "FC Bayern München", LastUpdated: time.Now()},
		{ID: 2, Name: "Manchester United", OfficialName: "Manchester United FC", Aliases: []string{"Man Utd"}},
		{ID: 3, Name: "Arsenal", OfficialName: "Arsenal Football Club"},
		{ID: 4, Name: "Borussia Dortmund", ZhName: "多特蒙德"},
	}
}

func newTestResolver(t *testing.T, repo team.Repository) *Resolver {
	t.Helper()

	dir := t.TempDir()
	aliases, err := NewAliasStore(filepath.Join(dir, "aliases.csv"), filepath.Join(dir, "unmatched.csv"), logging.NewNop())
	if err != nil {
		t.Fatalf("NewAliasStore: %v", err)
	}
	r, err := New(context.Background(), repo, aliases, logging.NewNop())
	if err != nil {
		t.Fatalf("New resolver: %v", err)
	}
	return r
}

func TestResolver_ExactMatch(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, &stubTeamRepo{teams: rosterFixture()})
	ctx := context.Background()

	cases := []struct {
		query  string
		wantID int64
	}{
		{"Bayern Munich", 1},
		{"bayern munich", 1},
		{"拜仁慕尼黑", 1},
		{"Man Utd", 2},
		{"Arsenal", 3},
	}
	for _, tc := range cases {
		got, ok := r.Resolve(ctx, tc.query, "test")
		if !ok || got.ID != tc.wantID {
			t.Errorf("Resolve(%q) = id %d, %v; want %d, true", tc.query, got.ID, ok, tc.wantID)
		}
	}

	stats := r.Stats()
	if stats.ExactMatches != int64(len(cases)) {
		t.Fatalf("exact matches = %d, want %d", stats.ExactMatches, len(cases))
	}
}

func TestResolver_NormalizedMatchLearnsAlias(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, &stubTeamRepo{teams: rosterFixture()})
	ctx := context.Background()

	got, ok := r.Resolve(ctx, "Manchester Utd FC", "juhe")
	if !ok || got.ID != 2 {
		t.Fatalf("Resolve(Manchester Utd FC) = id %d, %v; want 2, true", got.ID, ok)
	}
	if id, ok := r.aliases.Get("Manchester Utd FC"); !ok || id != 2 {
		t.Fatalf("normalized match should learn alias, got %d, %v", id, ok)
	}

	// CJK suffix stripping: the club name with the generic suffix attached
	// should normalize onto the stored short form.
	got, ok = r.Resolve(ctx, "拜仁慕尼黑足球俱乐部", "juhe")
	if !ok || got.ID != 1 {
		t.Fatalf("Resolve(拜仁慕尼黑足球俱乐部) = id %d, %v; want 1, true", got.ID, ok)
	}
}

func TestResolver_FuzzyMatch(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, &stubTeamRepo{teams: rosterFixture()})
	ctx := context.Background()

	got, ok := r.Resolve(ctx, "Bayren Munich", "football_data")
	if !ok || got.ID != 1 {
		t.Fatalf("Resolve(Bayren Munich) = id %d, %v; want 1, true", got.ID, ok)
	}

	stats := r.Stats()
	if stats.FuzzyMatches != 1 {
		t.Fatalf("fuzzy matches = %d, want 1", stats.FuzzyMatches)
	}
	// High-confidence fuzzy hits are learned, so the repeat is exact.
	if id, ok := r.aliases.Get("bayren munich"); !ok || id != 1 {
		t.Fatalf("fuzzy hit at high score should learn alias, got %d, %v", id, ok)
	}
}

func TestResolver_FuzzyBelowThresholdFails(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, &stubTeamRepo{teams: rosterFixture()})
	ctx := context.Background()

	if _, ok := r.Resolve(ctx, "Zzzzz Qqqqq", "juhe"); ok {
		t.Fatal("expected resolution failure for unrelated name")
	}

	stats := r.Stats()
	if stats.Failed != 1 {
		t.Fatalf("failed = %d, want 1", stats.Failed)
	}
}

func TestResolver_CachesOutcomes(t *testing.T) {
	t.Parallel()

	repo := &stubTeamRepo{teams: rosterFixture()}
	r := newTestResolver(t, repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, ok := r.Resolve(ctx, "Arsenal", "test"); !ok {
			t.Fatal("Resolve(Arsenal) failed")
		}
	}
	// Failures are cached too, so the repository substring search runs once.
	for i := 0; i < 3; i++ {
		if _, ok := r.Resolve(ctx, "No Such Club", "test"); ok {
			t.Fatal("Resolve(No Such Club) should fail")
		}
	}

	stats := r.Stats()
	if stats.Total != 6 {
		t.Fatalf("total = %d, want 6", stats.Total)
	}
	if stats.CacheHits != 4 {
		t.Fatalf("cache hits = %d, want 4", stats.CacheHits)
	}
	if repo.searchCalls != 1 {
		t.Fatalf("substring search ran %d times, want 1", repo.searchCalls)
	}
}

func TestResolver_CacheDisabled(t *testing.T) {
	t.Parallel()

	repo := &stubTeamRepo{teams: rosterFixture()}
	r := newTestResolver(t, repo)
	r.ConfigureCache(false, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, ok := r.Resolve(ctx, "No Such Club", "test"); ok {
			t.Fatal("Resolve(No Such Club) should fail")
		}
	}

	stats := r.Stats()
	if stats.CacheHits != 0 {
		t.Fatalf("cache hits = %d, want 0 with cache disabled", stats.CacheHits)
	}
	// Without a cache every miss runs the full pipeline again.
	if repo.searchCalls != 3 {
		t.Fatalf("substring search ran %d times, want 3", repo.searchCalls)
	}
}

func TestResolver_CacheTTLExpires(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, &stubTeamRepo{teams: rosterFixture()})
	r.ConfigureCache(true, time.Nanosecond)
	ctx := context.Background()

	r.Resolve(ctx, "Arsenal", "test")
	time.Sleep(5 * time.Millisecond)
	r.Resolve(ctx, "Arsenal", "test")

	if stats := r.Stats(); stats.CacheHits != 0 {
		t.Fatalf("cache hits = %d, want 0 after ttl expiry", stats.CacheHits)
	}
}

func TestResolver_OfficialNameResolvesViaNormalized(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, &stubTeamRepo{teams: rosterFixture()})
	ctx := context.Background()

	// Official long-form names are not exact keys; the lookup has to fall
	// through to the normalized step, which learns the spelling as an alias.
	if _, ok := r.idx.lookupExact("Manchester United FC"); ok {
		t.Fatal("official name should not be an exact key")
	}

	got, ok := r.Resolve(ctx, "Manchester United FC", "test")
	if !ok || got.ID != 2 {
		t.Fatalf("Resolve(Manchester United FC) = id %d, %v; want 2, true", got.ID, ok)
	}
	if id, ok := r.aliases.Get("Manchester United FC"); !ok || id != 2 {
		t.Fatalf("normalized hit should learn alias, got %d, %v", id, ok)
	}
}

func TestResolver_CacheKeyIncludesSource(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, &stubTeamRepo{teams: rosterFixture()})
	ctx := context.Background()

	r.Resolve(ctx, "Arsenal", "juhe")
	r.Resolve(ctx, "Arsenal", "football_data")

	if stats := r.Stats(); stats.CacheHits != 0 {
		t.Fatalf("cache hits = %d, want 0 for distinct sources", stats.CacheHits)
	}
}

func TestResolver_PersistedSearchFallback(t *testing.T) {
	t.Parallel()

	repo := &stubTeamRepo{teams: rosterFixture()}
	r := newTestResolver(t, repo)
	ctx := context.Background()

	// Add a team after the index was built; only the repository knows it.
	repo.teams = append(repo.teams, team.Team{ID: 9, Name: "Newly Promoted Wanderers"})

	got, ok := r.Resolve(ctx, "Newly Promoted", "test")
	if !ok || got.ID != 9 {
		t.Fatalf("Resolve via persisted search = id %d, %v; want 9, true", got.ID, ok)
	}
}

func TestResolver_ReloadPicksUpNewTeams(t *testing.T) {
	t.Parallel()

	repo := &stubTeamRepo{teams: rosterFixture()}
	r := newTestResolver(t, repo)
	ctx := context.Background()

	repo.teams = append(repo.teams, team.Team{ID: 10, Name: "Union Berlin"})
	if err := r.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	got, ok := r.Resolve(ctx, "Union Berlin", "test")
	if !ok || got.ID != 10 {
		t.Fatalf("Resolve after Reload = id %d, %v; want 10, true", got.ID, ok)
	}
}

func TestResolver_ThresholdBoundary(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, &stubTeamRepo{teams: []team.Team{{ID: 1, Name: "abcde"}}})
	ctx := context.Background()

	// "abcxx" vs "abcde": distance 2 over combined length 10 scores 80.
	if _, ok := r.ResolveWithThreshold(ctx, "abcxx", "test", 80); !ok {
		t.Fatal("score equal to threshold should match")
	}
	if _, ok := r.ResolveWithThreshold(ctx, "abzxx", "test2", 80); ok {
		t.Fatal("score below threshold should not match")
	}
}

func TestResolver_ImportCuratedAliases(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, &stubTeamRepo{teams: rosterFixture()})
	ctx := context.Background()

	imported, err := r.ImportCuratedAliases(ctx, map[string]int64{
		"gunners":    3,
		"red devils": 2,
		"ghost club": 999,
	})
	if err != nil {
		t.Fatalf("ImportCuratedAliases: %v", err)
	}
	if imported != 2 {
		t.Fatalf("imported %d aliases, want 2", imported)
	}

	got, ok := r.Resolve(ctx, "Gunners", "test")
	if !ok || got.ID != 3 {
		t.Fatalf("Resolve(Gunners) = id %d, %v; want 3, true", got.ID, ok)
	}
}
