package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/predictfc/football-predict/internal/domain/match"
	"github.com/predictfc/football-predict/internal/domain/team"
	"github.com/predictfc/football-predict/internal/infrastructure/repository/memory"
	"github.com/predictfc/football-predict/internal/platform/logging"
)

func seedFinishedMatch(t *testing.T, unit *memory.Unit, id string, day int, homeID, awayID int64, homeGoals, awayGoals int) {
	t.Helper()

	err := unit.Repos().Matches.Upsert(context.Background(), match.Match{
		MatchID:    id,
		Date:       time.Date(2026, 8, day, 15, 0, 0, 0, time.UTC),
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		HomeGoals:  intPtr(homeGoals),
		AwayGoals:  intPtr(awayGoals),
		Status:     match.StatusFinished,
	})
	if err != nil {
		t.Fatalf("seed match %s: %v", id, err)
	}
}

func TestStatsService_Recompute(t *testing.T) {
	t.Parallel()

	unit := memory.NewUnit()
	ctx := context.Background()
	if err := unit.Repos().Teams.Upsert(ctx, team.Team{ID: 1, Name: "Arsenal"}); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	// Two home wins, one home loss, one away draw.
	seedFinishedMatch(t, unit, "m1", 1, 1, 2, 3, 0)
	seedFinishedMatch(t, unit, "m2", 2, 1, 3, 2, 1)
	seedFinishedMatch(t, unit, "m3", 3, 1, 4, 0, 2)
	seedFinishedMatch(t, unit, "m4", 4, 5, 1, 1, 1)

	svc := NewStatsService(unit, 1, logging.NewNop())
	row, err := svc.Recompute(ctx, 1)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	if row.AvgGoalsHome != 1.67 {
		t.Errorf("AvgGoalsHome = %v, want 1.67", row.AvgGoalsHome)
	}
	if row.WinRateHome != 0.67 {
		t.Errorf("WinRateHome = %v, want 0.67", row.WinRateHome)
	}
	if row.AvgGoalsAway != 1 || row.WinRateAway != 0 {
		t.Errorf("away aggregates = %v / %v", row.AvgGoalsAway, row.WinRateAway)
	}
	if row.TotalMatches != 4 {
		t.Errorf("TotalMatches = %d, want 4", row.TotalMatches)
	}
}

func TestStatsService_RecomputeZeroMatches(t *testing.T) {
	t.Parallel()

	unit := memory.NewUnit()
	ctx := context.Background()
	if err := unit.Repos().Teams.Upsert(ctx, team.Team{ID: 7, Name: "Newly Promoted"}); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	svc := NewStatsService(unit, 1, logging.NewNop())
	row, err := svc.Recompute(ctx, 7)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	// max(count, 1) divisor keeps a matchless team at zeroes, not NaN.
	if row.AvgGoalsHome != 0 || row.WinRateHome != 0 || row.TotalMatches != 0 {
		t.Errorf("expected zeroed aggregates, got %+v", row)
	}
}

func TestStatsService_RecomputeUnknownTeam(t *testing.T) {
	t.Parallel()

	svc := NewStatsService(memory.NewUnit(), 1, logging.NewNop())
	if _, err := svc.Recompute(context.Background(), 999); !crerr.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStatsService_WindowCapsAtTen(t *testing.T) {
	t.Parallel()

	unit := memory.NewUnit()
	ctx := context.Background()
	if err := unit.Repos().Teams.Upsert(ctx, team.Team{ID: 1, Name: "Arsenal"}); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	// Fifteen home matches; only the ten most recent count. The five oldest
	// are heavy wins that must fall outside the window.
	for day := 1; day <= 5; day++ {
		seedFinishedMatch(t, unit, fmt.Sprintf("old-%d", day), day, 1, 2, 9, 0)
	}
	for day := 6; day <= 15; day++ {
		seedFinishedMatch(t, unit, fmt.Sprintf("new-%d", day), day, 1, 2, 1, 0)
	}

	svc := NewStatsService(unit, 1, logging.NewNop())
	row, err := svc.Recompute(ctx, 1)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if row.AvgGoalsHome != 1 {
		t.Errorf("AvgGoalsHome = %v, want 1 (old matches outside window)", row.AvgGoalsHome)
	}
	if row.TotalMatches != 10 {
		t.Errorf("TotalMatches = %d, want 10", row.TotalMatches)
	}
}

func TestStatsService_RecomputeAll(t *testing.T) {
	t.Parallel()

	unit := memory.NewUnit()
	ctx := context.Background()
	for id := int64(1); id <= 3; id++ {
		if err := unit.Repos().Teams.Upsert(ctx, team.Team{ID: id, Name: fmt.Sprintf("Team %d", id)}); err != nil {
			t.Fatalf("seed team: %v", err)
		}
	}
	seedFinishedMatch(t, unit, "m1", 1, 1, 2, 2, 2)

	svc := NewStatsService(unit, 4, logging.NewNop())
	updated, err := svc.RecomputeAll(ctx)
	if err != nil {
		t.Fatalf("RecomputeAll: %v", err)
	}
	if updated != 3 {
		t.Fatalf("updated = %d, want 3", updated)
	}

	for id := int64(1); id <= 3; id++ {
		if _, ok, _ := unit.Repos().Stats.GetByTeamID(ctx, id); !ok {
			t.Errorf("stats row missing for team %d", id)
		}
	}
}
