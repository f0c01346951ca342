package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/predictfc/football-predict/internal/domain/storage"
)

// Unit runs a callback inside one database transaction. This is the
// per-league commit boundary of a sync pass: either every team, match, and
// stats write of the callback lands, or none do.
type Unit struct {
	db *sqlx.DB
}

func NewUnit(db *sqlx.DB) *Unit {
	return &Unit{db: db}
}

func (u *Unit) InTx(ctx context.Context, fn func(ctx context.Context, repos storage.Repos) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	repos := storage.Repos{
		Teams:   NewTeamRepository(tx),
		Matches: NewMatchRepository(tx),
		Stats:   NewStatsRepository(tx),
	}

	if err := fn(ctx, repos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Repos binds repositories to the pooled connection for read paths that
// need no transaction, such as resolver reloads.
func (u *Unit) Repos() storage.Repos {
	return storage.Repos{
		Teams:   NewTeamRepository(u.db),
		Matches: NewMatchRepository(u.db),
		Stats:   NewStatsRepository(u.db),
	}
}
