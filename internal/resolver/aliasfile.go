package resolver

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/predictfc/football-predict/internal/domain/team"
)

// curatedAliasSeparator joins the alias list inside one CSV cell. The curated
// table is hand-edited alongside Chinese feed names, so the list uses the
// ideographic comma those editors already type.
const curatedAliasSeparator = "、"

// LoadCuratedAliasFile reads a hand-maintained alias table with the header
// id,zh_name,aliases. The zh_name and every separator-joined alias map to the
// id. A missing file is not an error and yields an empty table.
func LoadCuratedAliasFile(path string) (map[string]int64, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open curated alias table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read curated alias table: %w", err)
	}

	entries := make(map[string]int64)
	for idx, row := range rows {
		if idx == 0 || len(row) < 2 {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		if zh := strings.TrimSpace(row[1]); zh != "" {
			entries[strings.ToLower(zh)] = id
		}
		if len(row) < 3 {
			continue
		}
		for _, alias := range strings.Split(row[2], curatedAliasSeparator) {
			if alias = strings.TrimSpace(alias); alias != "" {
				entries[strings.ToLower(alias)] = id
			}
		}
	}
	return entries, nil
}

// ExportCuratedAliasFile rewrites the curated alias table from the team
// table, id ascending, via a temp file rename so a crash mid-write never
// truncates the curated mappings.
func ExportCuratedAliasFile(path string, teams []team.Team) error {
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create curated alias table dir: %w", err)
	}

	sorted := make([]team.Team, len(teams))
	copy(sorted, teams)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create curated alias table temp file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "zh_name", "aliases"}); err != nil {
		f.Close()
		return fmt.Errorf("write curated alias table header: %w", err)
	}
	for _, t := range sorted {
		if t.ID == 0 {
			continue
		}
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.ZhName,
			strings.Join(t.Aliases, curatedAliasSeparator),
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write curated alias table row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush curated alias table: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close curated alias table temp file: %w", err)
	}
	return os.Rename(tmp, path)
}
