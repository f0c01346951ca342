package memory

import (
	"context"
	"sync"

	"github.com/predictfc/football-predict/internal/domain/storage"
)

// Unit serializes callbacks over the shared in-memory repositories. It has
// no rollback: a failing callback may leave earlier writes applied. That is
// acceptable for the dev and test deployments this backend exists for; the
// postgres unit carries the real transactional guarantee.
type Unit struct {
	mu    sync.Mutex
	repos storage.Repos
}

func NewUnit() *Unit {
	return &Unit{
		repos: storage.Repos{
			Teams:   NewTeamRepository(nil),
			Matches: NewMatchRepository(nil),
			Stats:   NewStatsRepository(),
		},
	}
}

func (u *Unit) InTx(ctx context.Context, fn func(ctx context.Context, repos storage.Repos) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return fn(ctx, u.repos)
}

// Repos exposes the backing repositories for direct seeding in tests and
// for wiring read paths that need no transaction.
func (u *Unit) Repos() storage.Repos {
	return u.repos
}
