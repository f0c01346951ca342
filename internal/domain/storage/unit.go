package storage

import (
	"context"

	"github.com/predictfc/football-predict/internal/domain/match"
	"github.com/predictfc/football-predict/internal/domain/stats"
	"github.com/predictfc/football-predict/internal/domain/team"
)

// Repos bundles the repositories visible inside one transaction.
type Repos struct {
	Teams   team.Repository
	Matches match.Repository
	Stats   stats.Repository
}

// Unit is the per-league transaction boundary of a sync run. The callback's
// writes become visible only when it returns nil; any error rolls the whole
// batch back. Implementations must not let partial writes escape.
type Unit interface {
	InTx(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
