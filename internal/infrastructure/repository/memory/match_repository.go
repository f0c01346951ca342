package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/predictfc/football-predict/internal/domain/match"
)

type MatchRepository struct {
	mu   sync.RWMutex
	rows map[string]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	rows := make(map[string]match.Match, len(matches))
	for _, item := range matches {
		rows[item.MatchID] = item
	}
	return &MatchRepository{rows: rows}
}

func (r *MatchRepository) GetByMatchID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.rows[matchID]
	return item, ok, nil
}

func (r *MatchRepository) Upsert(_ context.Context, m match.Match) error {
	if strings.TrimSpace(m.MatchID) == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[m.MatchID] = m
	return nil
}

func (r *MatchRepository) ListRecentFinished(_ context.Context, teamID int64, venue string, limit int) ([]match.Match, error) {
	if teamID == 0 || limit <= 0 {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, limit)
	for _, item := range r.rows {
		if item.Status != match.StatusFinished {
			continue
		}
		switch venue {
		case match.VenueHome:
			if item.HomeTeamID != teamID {
				continue
			}
		case match.VenueAway:
			if item.AwayTeamID != teamID {
				continue
			}
		default:
			continue
		}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].MatchID < out[j].MatchID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
