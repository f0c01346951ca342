package stats

import "context"

// Repository persists aggregated team statistics.
type Repository interface {
	GetByTeamID(ctx context.Context, teamID int64) (TeamStats, bool, error)
	Upsert(ctx context.Context, s TeamStats) error
}
