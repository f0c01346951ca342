package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/predictfc/football-predict/internal/domain/match"
	qb "github.com/predictfc/football-predict/internal/platform/querybuilder"
)

const matchUpsertSuffix = `ON CONFLICT (match_id)
DO UPDATE SET
    date = EXCLUDED.date,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    home_name = EXCLUDED.home_name,
    away_name = EXCLUDED.away_name,
    home_goals = EXCLUDED.home_goals,
    away_goals = EXCLUDED.away_goals,
    status = EXCLUDED.status,
    competition = EXCLUDED.competition,
    sources = EXCLUDED.sources,
    details = EXCLUDED.details,
    name_unresolved = EXCLUDED.name_unresolved`

type MatchRepository struct {
	db sqlx.ExtContext
}

func NewMatchRepository(db sqlx.ExtContext) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByMatchID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match %s: %w", matchID, err)
	}

	out, err := row.toDomain()
	if err != nil {
		return match.Match{}, false, err
	}
	return out, true, nil
}

// Upsert replaces the whole row. Cross-pass field merging is intentionally
// absent: the reconciler already merged same-pass duplicates, and a later
// pass is trusted over a stale one.
func (r *MatchRepository) Upsert(ctx context.Context, m match.Match) error {
	model, err := matchModelFromDomain(m)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("matches", model, matchUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match %s: %w", m.MatchID, err)
	}
	return nil
}

func (r *MatchRepository) ListRecentFinished(ctx context.Context, teamID int64, venue string, limit int) ([]match.Match, error) {
	if limit <= 0 {
		limit = 10
	}

	teamColumn := "home_team_id"
	if venue == match.VenueAway {
		teamColumn = "away_team_id"
	}

	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq(teamColumn, teamID),
			qb.Eq("status", match.StatusFinished),
		).
		// match_id ascending on equal dates keeps the ordering identical
		// across storage backends.
		OrderBy("date DESC", "match_id ASC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent finished query: %w", err)
	}

	var rows []matchTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent finished matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		m, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
