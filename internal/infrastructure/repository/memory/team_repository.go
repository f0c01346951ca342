package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/predictfc/football-predict/internal/domain/team"
)

type TeamRepository struct {
	mu   sync.RWMutex
	rows map[int64]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	rows := make(map[int64]team.Team, len(teams))
	for _, item := range teams {
		rows[item.ID] = item
	}
	return &TeamRepository{rows: rows}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.rows))
	for _, item := range r.rows {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.rows[id]
	return item, ok, nil
}

func (r *TeamRepository) SearchByName(_ context.Context, q string, limit int) ([]team.Team, error) {
	needle := strings.ToLower(strings.TrimSpace(q))
	if needle == "" || limit <= 0 {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]team.Team, 0, limit)
	for _, id := range ids {
		item := r.rows[id]
		if strings.Contains(strings.ToLower(item.Name), needle) ||
			strings.Contains(strings.ToLower(item.ZhName), needle) ||
			strings.Contains(strings.ToLower(item.OfficialName), needle) {
			out = append(out, item)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *TeamRepository) Upsert(_ context.Context, t team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.Aliases = team.DedupAliases(t.Aliases)
	r.rows[t.ID] = t
	return nil
}
