package postgres

import (
	"database/sql"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/lib/pq"
	"github.com/predictfc/football-predict/internal/domain/match"
	"github.com/predictfc/football-predict/internal/domain/team"
)

type teamTableModel struct {
	ID           int64          `db:"id"`
	Name         string         `db:"name"`
	ZhName       string         `db:"zh_name"`
	OfficialName string         `db:"official_name"`
	Aliases      pq.StringArray `db:"aliases"`
	Country      string         `db:"country"`
	League       string         `db:"league"`
	Source       string         `db:"source"`
	LastUpdated  time.Time      `db:"last_updated"`
}

func teamModelFromDomain(t team.Team) teamTableModel {
	return teamTableModel{
		ID:           t.ID,
		Name:         t.Name,
		ZhName:       t.ZhName,
		OfficialName: t.OfficialName,
		Aliases:      pq.StringArray(team.DedupAliases(t.Aliases)),
		Country:      t.Country,
		League:       t.League,
		Source:       t.Source,
		LastUpdated:  t.LastUpdated.UTC(),
	}
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:           m.ID,
		Name:         m.Name,
		ZhName:       m.ZhName,
		OfficialName: m.OfficialName,
		Aliases:      []string(m.Aliases),
		Country:      m.Country,
		League:       m.League,
		Source:       m.Source,
		LastUpdated:  m.LastUpdated,
	}
}

type matchTableModel struct {
	MatchID        string         `db:"match_id"`
	Date           time.Time      `db:"date"`
	HomeTeamID     int64          `db:"home_team_id"`
	AwayTeamID     int64          `db:"away_team_id"`
	HomeName       string         `db:"home_name"`
	AwayName       string         `db:"away_name"`
	HomeGoals      sql.NullInt32  `db:"home_goals"`
	AwayGoals      sql.NullInt32  `db:"away_goals"`
	Status         string         `db:"status"`
	Competition    string         `db:"competition"`
	Sources        pq.StringArray `db:"sources"`
	Details        []byte         `db:"details"`
	NameUnresolved bool           `db:"name_unresolved"`
}

func matchModelFromDomain(m match.Match) (matchTableModel, error) {
	details := m.Details
	if details == nil {
		details = map[string]any{}
	}
	raw, err := sonic.Marshal(details)
	if err != nil {
		return matchTableModel{}, fmt.Errorf("marshal match details: %w", err)
	}

	return matchTableModel{
		MatchID:        m.MatchID,
		Date:           m.Date.UTC(),
		HomeTeamID:     m.HomeTeamID,
		AwayTeamID:     m.AwayTeamID,
		HomeName:       m.HomeName,
		AwayName:       m.AwayName,
		HomeGoals:      intPtrToNull(m.HomeGoals),
		AwayGoals:      intPtrToNull(m.AwayGoals),
		Status:         match.NormalizeStatus(m.Status),
		Competition:    m.Competition,
		Sources:        pq.StringArray(m.Sources),
		Details:        raw,
		NameUnresolved: m.NameUnresolved,
	}, nil
}

func (m matchTableModel) toDomain() (match.Match, error) {
	var details map[string]any
	if len(m.Details) > 0 {
		if err := sonic.Unmarshal(m.Details, &details); err != nil {
			return match.Match{}, fmt.Errorf("unmarshal match details: %w", err)
		}
	}

	return match.Match{
		MatchID:        m.MatchID,
		Date:           m.Date,
		HomeTeamID:     m.HomeTeamID,
		AwayTeamID:     m.AwayTeamID,
		HomeName:       m.HomeName,
		AwayName:       m.AwayName,
		HomeGoals:      nullToIntPtr(m.HomeGoals),
		AwayGoals:      nullToIntPtr(m.AwayGoals),
		Status:         m.Status,
		Competition:    m.Competition,
		Sources:        []string(m.Sources),
		Details:        details,
		NameUnresolved: m.NameUnresolved,
	}, nil
}

type teamStatsTableModel struct {
	TeamID       int64     `db:"team_id"`
	AvgGoalsHome float64   `db:"avg_goals_home"`
	AvgGoalsAway float64   `db:"avg_goals_away"`
	WinRateHome  float64   `db:"win_rate_home"`
	WinRateAway  float64   `db:"win_rate_away"`
	TotalMatches int       `db:"total_matches"`
	LastUpdated  time.Time `db:"last_updated"`
}

func intPtrToNull(v *int) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}

func nullToIntPtr(v sql.NullInt32) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int32)
	return &out
}
