package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/predictfc/football-predict/internal/domain/stats"
	qb "github.com/predictfc/football-predict/internal/platform/querybuilder"
)

const statsUpsertSuffix = `ON CONFLICT (team_id)
DO UPDATE SET
    avg_goals_home = EXCLUDED.avg_goals_home,
    avg_goals_away = EXCLUDED.avg_goals_away,
    win_rate_home = EXCLUDED.win_rate_home,
    win_rate_away = EXCLUDED.win_rate_away,
    total_matches = EXCLUDED.total_matches,
    last_updated = EXCLUDED.last_updated`

type StatsRepository struct {
	db sqlx.ExtContext
}

func NewStatsRepository(db sqlx.ExtContext) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) GetByTeamID(ctx context.Context, teamID int64) (stats.TeamStats, bool, error) {
	query, args, err := qb.Select("*").From("team_stats").
		Where(qb.Eq("team_id", teamID)).
		ToSQL()
	if err != nil {
		return stats.TeamStats{}, false, fmt.Errorf("build get team stats query: %w", err)
	}

	var row teamStatsTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return stats.TeamStats{}, false, nil
		}
		return stats.TeamStats{}, false, fmt.Errorf("get team stats %d: %w", teamID, err)
	}

	return stats.TeamStats{
		TeamID:       row.TeamID,
		AvgGoalsHome: row.AvgGoalsHome,
		AvgGoalsAway: row.AvgGoalsAway,
		WinRateHome:  row.WinRateHome,
		WinRateAway:  row.WinRateAway,
		TotalMatches: row.TotalMatches,
		LastUpdated:  row.LastUpdated,
	}, true, nil
}

func (r *StatsRepository) Upsert(ctx context.Context, s stats.TeamStats) error {
	model := teamStatsTableModel{
		TeamID:       s.TeamID,
		AvgGoalsHome: s.AvgGoalsHome,
		AvgGoalsAway: s.AvgGoalsAway,
		WinRateHome:  s.WinRateHome,
		WinRateAway:  s.WinRateAway,
		TotalMatches: s.TotalMatches,
		LastUpdated:  s.LastUpdated.UTC(),
	}

	query, args, err := qb.InsertModel("team_stats", model, statsUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert team stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team stats %d: %w", s.TeamID, err)
	}
	return nil
}
