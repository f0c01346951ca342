package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/predictfc/football-predict/internal/domain/match"
	"github.com/predictfc/football-predict/internal/domain/team"
)

func TestTeamModelRoundTrip(t *testing.T) {
	in := team.Team{
		ID:           42,
		Name:         "Bayern Munich",
		ZhName:       "拜仁慕尼黑",
		OfficialName: "FC Bayern München",
		Aliases:      []string{"Bayern", "bayern", "FCB"},
		Country:      "Germany",
		League:       "BL1",
		Source:       "football_data",
		LastUpdated:  time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
	}

	out := teamModelFromDomain(in).toDomain()

	if out.ID != in.ID || out.Name != in.Name || out.ZhName != in.ZhName {
		t.Fatalf("unexpected round trip: %+v", out)
	}
	// Upsert dedups aliases case-insensitively.
	if len(out.Aliases) != 2 {
		t.Fatalf("expected 2 deduped aliases, got %v", out.Aliases)
	}
}

func TestMatchModelRoundTrip(t *testing.T) {
	hg, ag := 2, 1
	in := match.Match{
		MatchID:     "4001",
		Date:        time.Date(2026, 8, 15, 14, 0, 0, 0, time.UTC),
		HomeTeamID:  1,
		AwayTeamID:  2,
		HomeName:    "Arsenal",
		AwayName:    "Chelsea",
		HomeGoals:   &hg,
		AwayGoals:   &ag,
		Status:      match.StatusFinished,
		Competition: "PL",
		Sources:     []string{"football_data", "juhe"},
		Details:     map[string]any{"venue": "Emirates Stadium"},
	}

	model, err := matchModelFromDomain(in)
	if err != nil {
		t.Fatalf("matchModelFromDomain: %v", err)
	}
	out, err := model.toDomain()
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}

	if out.MatchID != in.MatchID || out.Status != in.Status {
		t.Fatalf("unexpected round trip: %+v", out)
	}
	if out.HomeGoals == nil || *out.HomeGoals != 2 || out.AwayGoals == nil || *out.AwayGoals != 1 {
		t.Fatalf("unexpected goals: %v %v", out.HomeGoals, out.AwayGoals)
	}
	if got, _ := out.Details["venue"].(string); got != "Emirates Stadium" {
		t.Fatalf("unexpected details: %v", out.Details)
	}
	if len(out.Sources) != 2 {
		t.Fatalf("unexpected sources: %v", out.Sources)
	}
}

func TestMatchModel_NullGoals(t *testing.T) {
	in := match.Match{
		MatchID:  "juhe-m1",
		Date:     time.Now(),
		HomeName: "Arsenal",
		AwayName: "Chelsea",
	}

	model, err := matchModelFromDomain(in)
	if err != nil {
		t.Fatalf("matchModelFromDomain: %v", err)
	}
	if model.HomeGoals.Valid || model.AwayGoals.Valid {
		t.Fatalf("expected null goals, got %+v", model)
	}
	if model.Status != match.StatusScheduled {
		t.Fatalf("expected empty status to normalize to SCHEDULED, got %q", model.Status)
	}

	out, err := model.toDomain()
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}
	if out.HomeGoals != nil || out.AwayGoals != nil {
		t.Fatalf("expected nil goal pointers, got %v %v", out.HomeGoals, out.AwayGoals)
	}
}

func TestNullToIntPtr(t *testing.T) {
	if got := nullToIntPtr(sql.NullInt32{}); got != nil {
		t.Fatalf("expected nil for null, got %v", got)
	}
	if got := nullToIntPtr(sql.NullInt32{Int32: 3, Valid: true}); got == nil || *got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
}
