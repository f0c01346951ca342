package usecase

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/predictfc/football-predict/internal/domain/match"
	"github.com/predictfc/football-predict/internal/domain/stats"
	"github.com/predictfc/football-predict/internal/domain/storage"
	"github.com/predictfc/football-predict/internal/platform/logging"
)

// statsWindow is how many recent finished fixtures per venue feed the
// aggregates.
const statsWindow = 10

const defaultStatsWorkers = 8

// StatsService recomputes per-team rolling aggregates from the fixture
// table. Aggregates are derived data: a recompute pass always rebuilds them
// from matches, never incrementally patches them.
type StatsService struct {
	unit    storage.Unit
	workers int
	logger  *logging.Logger
	now     func() time.Time
}

func NewStatsService(unit storage.Unit, workers int, logger *logging.Logger) *StatsService {
	if workers <= 0 {
		workers = defaultStatsWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsService{
		unit:    unit,
		workers: workers,
		logger:  logger,
		now:     time.Now,
	}
}

// Recompute rebuilds the aggregate row for one team.
func (s *StatsService) Recompute(ctx context.Context, teamID int64) (stats.TeamStats, error) {
	ctx, span := startUsecaseSpan(ctx, "StatsService.Recompute")
	defer span.End()

	if teamID == 0 {
		return stats.TeamStats{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	var out stats.TeamStats
	err := s.unit.InTx(ctx, func(ctx context.Context, repos storage.Repos) error {
		if _, found, err := repos.Teams.GetByID(ctx, teamID); err != nil {
			return err
		} else if !found {
			return fmt.Errorf("%w: team %d", ErrNotFound, teamID)
		}

		computed, err := s.compute(ctx, repos, teamID)
		if err != nil {
			return err
		}
		if err := repos.Stats.Upsert(ctx, computed); err != nil {
			return fmt.Errorf("upsert stats team_id=%d: %w", teamID, err)
		}
		out = computed
		return nil
	})
	return out, err
}

// RecomputeAll rebuilds aggregates for every known team on a bounded worker
// pool. Each team commits independently so one failure does not roll back
// the rest; the first error is reported after the pass drains.
func (s *StatsService) RecomputeAll(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "StatsService.RecomputeAll")
	defer span.End()

	var teamIDs []int64
	if err := s.unit.InTx(ctx, func(ctx context.Context, repos storage.Repos) error {
		teams, err := repos.Teams.List(ctx)
		if err != nil {
			return err
		}
		teamIDs = make([]int64, 0, len(teams))
		for _, t := range teams {
			teamIDs = append(teamIDs, t.ID)
		}
		return nil
	}); err != nil {
		return 0, fmt.Errorf("list teams: %w", err)
	}
	if len(teamIDs) == 0 {
		return 0, nil
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		updated  atomic.Int64
		errMu    sync.Mutex
		firstErr error
	)
	setFirst := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}

	for _, teamID := range teamIDs {
		teamID := teamID
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := s.unit.InTx(ctx, func(ctx context.Context, repos storage.Repos) error {
				computed, err := s.compute(ctx, repos, teamID)
				if err != nil {
					return err
				}
				return repos.Stats.Upsert(ctx, computed)
			}); err != nil {
				s.logger.WarnContext(ctx, "recompute stats failed", "team_id", teamID, "error", err)
				setFirst(err)
				return
			}
			updated.Add(1)
		}); err != nil {
			wg.Done()
			return int(updated.Load()), fmt.Errorf("submit to worker pool: %w", err)
		}
	}
	wg.Wait()

	errMu.Lock()
	err = firstErr
	errMu.Unlock()
	if err != nil {
		return int(updated.Load()), err
	}
	s.logger.InfoContext(ctx, "team stats recomputed", "teams", updated.Load())
	return int(updated.Load()), nil
}

func (s *StatsService) compute(ctx context.Context, repos storage.Repos, teamID int64) (stats.TeamStats, error) {
	home, err := repos.Matches.ListRecentFinished(ctx, teamID, match.VenueHome, statsWindow)
	if err != nil {
		return stats.TeamStats{}, fmt.Errorf("list home matches team_id=%d: %w", teamID, err)
	}
	away, err := repos.Matches.ListRecentFinished(ctx, teamID, match.VenueAway, statsWindow)
	if err != nil {
		return stats.TeamStats{}, fmt.Errorf("list away matches team_id=%d: %w", teamID, err)
	}

	var homeGoals, awayGoals, homeWins, awayWins int
	for _, m := range home {
		if m.HomeGoals != nil {
			homeGoals += *m.HomeGoals
		}
		if m.HomeGoals != nil && m.AwayGoals != nil && *m.HomeGoals > *m.AwayGoals {
			homeWins++
		}
	}
	for _, m := range away {
		if m.AwayGoals != nil {
			awayGoals += *m.AwayGoals
		}
		if m.HomeGoals != nil && m.AwayGoals != nil && *m.AwayGoals > *m.HomeGoals {
			awayWins++
		}
	}

	return stats.TeamStats{
		TeamID:       teamID,
		AvgGoalsHome: round2(float64(homeGoals) / float64(maxInt(len(home), 1))),
		AvgGoalsAway: round2(float64(awayGoals) / float64(maxInt(len(away), 1))),
		WinRateHome:  round2(float64(homeWins) / float64(maxInt(len(home), 1))),
		WinRateAway:  round2(float64(awayWins) / float64(maxInt(len(away), 1))),
		TotalMatches: len(home) + len(away),
		LastUpdated:  s.now().UTC(),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
