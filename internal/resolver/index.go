package resolver

import (
	"sort"
	"strings"

	"github.com/predictfc/football-predict/internal/domain/team"
)

// index holds the in-memory lookup tables rebuilt on every Reload. Teams are
// ordered by id ascending before the maps are filled, so when two teams
// collide on a key the lower id wins, matching the repository scan order.
type index struct {
	teams      []team.Team
	byID       map[int64]team.Team
	exact      map[string]int64
	normalized map[string]int64
}

func buildIndex(teams []team.Team) *index {
	sorted := make([]team.Team, len(teams))
	copy(sorted, teams)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	idx := &index{
		teams:      sorted,
		byID:       make(map[int64]team.Team, len(sorted)),
		exact:      make(map[string]int64, len(sorted)*2),
		normalized: make(map[string]int64, len(sorted)*2),
	}

	// Exact matching covers the primary and localized names plus the alias
	// list. Official long-form names only join at the normalized step, where
	// suffixes like "FC" have already been stripped.
	for _, t := range sorted {
		idx.byID[t.ID] = t
		idx.addExact(t.Name, t.ID)
		idx.addExact(t.ZhName, t.ID)
		for _, alias := range t.Aliases {
			idx.addExact(alias, t.ID)
		}
		idx.addNormalized(t.Name, t.ID)
		idx.addNormalized(t.ZhName, t.ID)
		idx.addNormalized(t.OfficialName, t.ID)
	}

	return idx
}

// addExact keys on the case-folded form. Folding is the identity for CJK
// names, so those match on their raw spelling.
func (idx *index) addExact(name string, id int64) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return
	}
	if _, ok := idx.exact[key]; !ok {
		idx.exact[key] = id
	}
}

func (idx *index) addNormalized(name string, id int64) {
	key := Normalize(name)
	if key == "" {
		return
	}
	if _, ok := idx.normalized[key]; !ok {
		idx.normalized[key] = id
	}
}

func (idx *index) lookupExact(query string) (team.Team, bool) {
	id, ok := idx.exact[strings.ToLower(strings.TrimSpace(query))]
	if !ok {
		return team.Team{}, false
	}
	return idx.byID[id], true
}

func (idx *index) lookupNormalized(query string) (team.Team, bool) {
	key := Normalize(query)
	if key == "" {
		return team.Team{}, false
	}
	id, ok := idx.normalized[key]
	if !ok {
		return team.Team{}, false
	}
	return idx.byID[id], true
}

func (idx *index) lookupID(id int64) (team.Team, bool) {
	t, ok := idx.byID[id]
	return t, ok
}
