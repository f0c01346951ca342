package team

import (
	"fmt"
	"strings"
	"time"
)

// Team is the canonical record for one football club. The ID is stable once
// assigned; every other attribute may be rewritten by a later sync pass.
type Team struct {
	ID           int64
	Name         string
	ZhName       string
	OfficialName string
	Aliases      []string
	Country      string
	League       string
	Source       string
	LastUpdated  time.Time
}

func (t Team) Validate() error {
	if t.ID == 0 {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}

// NameForms lists every string known to denote this team, primary name
// first. The order matters to the resolver: earlier forms win ties.
func (t Team) NameForms() []string {
	forms := make([]string, 0, 3+len(t.Aliases))
	if t.Name != "" {
		forms = append(forms, t.Name)
	}
	if t.ZhName != "" {
		forms = append(forms, t.ZhName)
	}
	if t.OfficialName != "" {
		forms = append(forms, t.OfficialName)
	}
	forms = append(forms, t.Aliases...)
	return forms
}

// DedupAliases returns the alias list with duplicates removed, first
// occurrence preserved. Applied on every write so the stored list stays
// canonical regardless of how many sources reported the same alias.
func DedupAliases(aliases []string) []string {
	if len(aliases) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(aliases))
	out := make([]string, 0, len(aliases))
	for _, alias := range aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			continue
		}
		key := strings.ToLower(alias)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, alias)
	}
	return out
}
