package memory

import (
	"context"
	"sync"

	"github.com/predictfc/football-predict/internal/domain/stats"
)

type StatsRepository struct {
	mu   sync.RWMutex
	rows map[int64]stats.TeamStats
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{rows: make(map[int64]stats.TeamStats)}
}

func (r *StatsRepository) GetByTeamID(_ context.Context, teamID int64) (stats.TeamStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.rows[teamID]
	return item, ok, nil
}

func (r *StatsRepository) Upsert(_ context.Context, s stats.TeamStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[s.TeamID] = s
	return nil
}
