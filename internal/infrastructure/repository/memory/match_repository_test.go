package memory

import (
	"context"
	"testing"
	"time"

	"github.com/predictfc/football-predict/internal/domain/match"
)

func TestListRecentFinishedTieBreak(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, 8, 15, 15, 0, 0, 0, time.UTC)
	one := 1
	repo := NewMatchRepository([]match.Match{
		{MatchID: "fd-3", Date: date, HomeTeamID: 7, AwayTeamID: 8, HomeGoals: &one, AwayGoals: &one, Status: match.StatusFinished},
		{MatchID: "fd-1", Date: date, HomeTeamID: 7, AwayTeamID: 9, HomeGoals: &one, AwayGoals: &one, Status: match.StatusFinished},
		{MatchID: "fd-2", Date: date.Add(-24 * time.Hour), HomeTeamID: 7, AwayTeamID: 10, HomeGoals: &one, AwayGoals: &one, Status: match.StatusFinished},
	})

	out, err := repo.ListRecentFinished(context.Background(), 7, match.VenueHome, 10)
	if err != nil {
		t.Fatalf("list recent finished: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(out))
	}

	// Newest first, same-date ties on ascending match id.
	want := []string{"fd-1", "fd-3", "fd-2"}
	for i, id := range want {
		if out[i].MatchID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, out[i].MatchID)
		}
	}
}
