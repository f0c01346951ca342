package resolver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/predictfc/football-predict/internal/domain/team"
)

func TestLoadCuratedAliasFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "team_aliases.csv")
	content := strings.Join([]string{
		"id,zh_name,aliases",
		"1,拜仁慕尼黑,Bayern、FCB",
		"2,曼联,Man Utd",
		"bogus,skip,me",
		"3,,",
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write curated file: %v", err)
	}

	entries, err := LoadCuratedAliasFile(path)
	if err != nil {
		t.Fatalf("LoadCuratedAliasFile: %v", err)
	}

	want := map[string]int64{
		"拜仁慕尼黑":   1,
		"bayern":  1,
		"fcb":     1,
		"曼联":      2,
		"man utd": 2,
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(entries), len(want), entries)
	}
	for alias, id := range want {
		if entries[alias] != id {
			t.Errorf("entries[%q] = %d, want %d", alias, entries[alias], id)
		}
	}
}

func TestLoadCuratedAliasFile_Missing(t *testing.T) {
	t.Parallel()

	entries, err := LoadCuratedAliasFile(filepath.Join(t.TempDir(), "absent.csv"))
	if err != nil || entries != nil {
		t.Fatalf("missing file should yield nil, nil; got %v, %v", entries, err)
	}
}

func TestExportCuratedAliasFile_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "team_aliases.csv")
	teams := []team.Team{
		{ID: 2, Name: "Manchester United", ZhName: "曼联", Aliases: []string{"Man Utd", "Red Devils"}, LastUpdated: time.Now()},
		{ID: 1, Name: "Bayern Munich", ZhName: "拜仁慕尼黑", LastUpdated: time.Now()},
		{Name: "No ID Yet"},
	}

	if err := ExportCuratedAliasFile(path, teams); err != nil {
		t.Fatalf("ExportCuratedAliasFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows (zero-id dropped): %q", len(lines), lines)
	}
	if lines[0] != "id,zh_name,aliases" {
		t.Errorf("header = %q", lines[0])
	}
	// Rows come out id ascending regardless of input order.
	if !strings.HasPrefix(lines[1], "1,") || !strings.HasPrefix(lines[2], "2,") {
		t.Errorf("rows not id ordered: %q", lines[1:])
	}
	if !strings.Contains(lines[2], "Man Utd、Red Devils") {
		t.Errorf("alias list not joined: %q", lines[2])
	}

	entries, err := LoadCuratedAliasFile(path)
	if err != nil {
		t.Fatalf("LoadCuratedAliasFile: %v", err)
	}
	if entries["red devils"] != 2 || entries["拜仁慕尼黑"] != 1 {
		t.Fatalf("round trip lost entries: %v", entries)
	}
}
