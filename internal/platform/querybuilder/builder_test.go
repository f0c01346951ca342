package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name", "league").
		From("teams").
		Where(Eq("league", "PL"), Expr("(name ILIKE ? OR official_name ILIKE ?)", "%arsenal%", "%arsenal%")).
		OrderBy("id ASC").
		Limit(5).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name, league FROM teams WHERE league = $1 AND (name ILIKE $2 OR official_name ILIKE $3) ORDER BY id ASC LIMIT 5"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "PL" || args[1] != "%arsenal%" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderRequiresTable(t *testing.T) {
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatal("expected error for missing table")
	}
}

func TestInsertBuilderWithConflictSuffix(t *testing.T) {
	query, args, err := InsertInto("team_stats").
		Columns("team_id", "total_matches").
		Values(int64(7), 20).
		Suffix("ON CONFLICT (team_id) DO UPDATE SET total_matches = EXCLUDED.total_matches").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO team_stats (team_id, total_matches) VALUES ($1, $2) ON CONFLICT (team_id) DO UPDATE SET total_matches = EXCLUDED.total_matches"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(7) || args[1] != 20 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderRowArity(t *testing.T) {
	_, _, err := InsertInto("teams").
		Columns("id", "name").
		Values("only-one").
		ToSQL()
	if err == nil {
		t.Fatal("expected error for mismatched row arity")
	}
}
