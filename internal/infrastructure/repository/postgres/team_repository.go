package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/predictfc/football-predict/internal/domain/team"
	qb "github.com/predictfc/football-predict/internal/platform/querybuilder"
)

const teamUpsertSuffix = `ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    zh_name = EXCLUDED.zh_name,
    official_name = EXCLUDED.official_name,
    aliases = EXCLUDED.aliases,
    country = EXCLUDED.country,
    league = EXCLUDED.league,
    source = EXCLUDED.source,
    last_updated = EXCLUDED.last_updated`

// TeamRepository persists teams. It binds to either the pooled DB or an open
// transaction, so the same type serves reads and the per-league sync commit.
type TeamRepository struct {
	db sqlx.ExtContext
}

func NewTeamRepository(db sqlx.ExtContext) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team %d: %w", id, err)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) SearchByName(ctx context.Context, q string, limit int) ([]team.Team, error) {
	if limit <= 0 {
		limit = 5
	}

	pattern := "%" + q + "%"
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Expr("(name ILIKE ? OR zh_name ILIKE ? OR official_name ILIKE ?)", pattern, pattern, pattern)).
		OrderBy("id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build search teams query: %w", err)
	}

	var rows []teamTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("search teams by name: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, t team.Team) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate team: %w", err)
	}

	query, args, err := qb.InsertModel("teams", teamModelFromDomain(t), teamUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team %d: %w", t.ID, err)
	}
	return nil
}
