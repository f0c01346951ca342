package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/predictfc/football-predict/internal/domain/team"
	qb "github.com/predictfc/football-predict/internal/platform/querybuilder"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if !isNotFound(fmt.Errorf("wrap: %w", sql.ErrNoRows)) {
		t.Fatalf("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(fmt.Errorf("boom")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestTeamUpsertQuery(t *testing.T) {
	model := teamModelFromDomain(team.Team{
		ID:          1,
		Name:        "Arsenal",
		LastUpdated: time.Now(),
	})

	query, args, err := qb.InsertModel("teams", model, teamUpsertSuffix)
	if err != nil {
		t.Fatalf("build upsert query: %v", err)
	}
	if !strings.HasPrefix(query, "INSERT INTO teams") {
		t.Fatalf("unexpected query prefix: %s", query)
	}
	if !strings.Contains(query, "ON CONFLICT (id)") {
		t.Fatalf("expected conflict clause in query: %s", query)
	}
	if len(args) != 9 {
		t.Fatalf("expected 9 args, got %d", len(args))
	}
}

func TestRecentFinishedQueryOrdering(t *testing.T) {
	query, _, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("home_team_id", int64(7)),
			qb.Eq("status", "FINISHED"),
		).
		OrderBy("date DESC", "match_id ASC").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	// The in-memory repository breaks same-date ties on ascending match id;
	// the SQL backend must sort the same way.
	if !strings.Contains(query, "ORDER BY date DESC, match_id ASC") {
		t.Fatalf("expected ascending match_id tie-break: %s", query)
	}
}

func TestSearchByNameQuery(t *testing.T) {
	pattern := "%arsenal%"
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Expr("(name ILIKE ? OR zh_name ILIKE ? OR official_name ILIKE ?)", pattern, pattern, pattern)).
		OrderBy("id").
		Limit(5).
		ToSQL()
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	if !strings.Contains(query, "$1") || !strings.Contains(query, "$3") {
		t.Fatalf("expected rewritten placeholders: %s", query)
	}
	if !strings.Contains(query, "ORDER BY id") {
		t.Fatalf("expected id ordering for deterministic ties: %s", query)
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
}
