package usecase

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/predictfc/football-predict/internal/domain/stats"
	"github.com/predictfc/football-predict/internal/domain/storage"
	"github.com/predictfc/football-predict/internal/platform/logging"
)

// MatchFeatures is the numeric input to a Scorer, derived from the rolling
// aggregates of both sides.
type MatchFeatures struct {
	HomeAvgGoals float64
	HomeWinRate  float64
	HomeMatches  int
	AwayAvgGoals float64
	AwayWinRate  float64
	AwayMatches  int
}

// Probabilities is a scorer output in percent; the three fields sum to 100
// up to rounding.
type Probabilities struct {
	HomeWin float64 `json:"homeWinProbability"`
	Draw    float64 `json:"drawProbability"`
	AwayWin float64 `json:"awayWinProbability"`
}

// Scorer turns match features into outcome probabilities. The default is the
// weighted linear scorer; callers can plug in something smarter.
type Scorer interface {
	Score(f MatchFeatures) (Probabilities, error)
}

// ScorerWeights parameterize the built-in scorer. Loaded from JSON so the
// model can be retuned without a rebuild.
type ScorerWeights struct {
	Goals         float64 `json:"goals"`
	WinRate       float64 `json:"winRate"`
	HomeAdvantage float64 `json:"homeAdvantage"`
	DrawBase      float64 `json:"drawBase"`
}

func DefaultScorerWeights() ScorerWeights {
	return ScorerWeights{
		Goals:         0.35,
		WinRate:       1.2,
		HomeAdvantage: 0.25,
		DrawBase:      0.9,
	}
}

// LoadScorerWeights reads weights from a JSON file, falling back to the
// defaults when the path is empty or the file does not exist.
func LoadScorerWeights(path string) (ScorerWeights, error) {
	weights := DefaultScorerWeights()
	if strings.TrimSpace(path) == "" {
		return weights, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return weights, nil
	}
	if err != nil {
		return weights, fmt.Errorf("read scorer weights: %w", err)
	}
	if err := sonic.Unmarshal(raw, &weights); err != nil {
		return weights, fmt.Errorf("decode scorer weights: %w", err)
	}
	return weights, nil
}

// WeightedScorer is a softmax over weighted strength scores for each side
// plus a flat draw propensity.
type WeightedScorer struct {
	weights ScorerWeights
}

func NewWeightedScorer(weights ScorerWeights) *WeightedScorer {
	return &WeightedScorer{weights: weights}
}

func (s *WeightedScorer) Score(f MatchFeatures) (Probabilities, error) {
	w := s.weights
	homeStrength := w.Goals*f.HomeAvgGoals + w.WinRate*f.HomeWinRate + w.HomeAdvantage
	awayStrength := w.Goals*f.AwayAvgGoals + w.WinRate*f.AwayWinRate

	eh := math.Exp(homeStrength)
	ed := math.Exp(w.DrawBase)
	ea := math.Exp(awayStrength)
	total := eh + ed + ea
	if total == 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return Probabilities{}, fmt.Errorf("degenerate scorer input: %+v", f)
	}

	return Probabilities{
		HomeWin: round2(eh / total * 100),
		Draw:    round2(ed / total * 100),
		AwayWin: round2(ea / total * 100),
	}, nil
}

// Prediction is one scored fixture.
type Prediction struct {
	HomeTeam    string    `json:"homeTeam"`
	AwayTeam    string    `json:"awayTeam"`
	HomeTeamID  int64     `json:"homeTeamId"`
	AwayTeamID  int64     `json:"awayTeamId"`
	Probabilities
	PredictedAt time.Time `json:"predictedAt"`
}

// PredictionService resolves two team names and scores the hypothetical
// fixture between them from their current aggregates.
type PredictionService struct {
	unit     storage.Unit
	resolver NameResolver
	scorer   Scorer
	logger   *logging.Logger
	now      func() time.Time
}

func NewPredictionService(unit storage.Unit, res NameResolver, scorer Scorer, logger *logging.Logger) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		unit:     unit,
		resolver: res,
		scorer:   scorer,
		logger:   logger,
		now:      time.Now,
	}
}

// Predict scores homeName vs awayName. Unknown team names map to
// ErrNotFound; a team with no aggregates yet scores from zeroes rather than
// failing.
func (s *PredictionService) Predict(ctx context.Context, homeName, awayName string) (Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.Predict")
	defer span.End()

	homeName = strings.TrimSpace(homeName)
	awayName = strings.TrimSpace(awayName)
	if homeName == "" || awayName == "" {
		return Prediction{}, fmt.Errorf("%w: both team names are required", ErrInvalidInput)
	}

	home, ok := s.resolver.Resolve(ctx, homeName, "prediction")
	if !ok {
		return Prediction{}, fmt.Errorf("%w: unknown team %q", ErrNotFound, homeName)
	}
	away, ok := s.resolver.Resolve(ctx, awayName, "prediction")
	if !ok {
		return Prediction{}, fmt.Errorf("%w: unknown team %q", ErrNotFound, awayName)
	}
	if home.ID == away.ID {
		return Prediction{}, fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	}

	var homeStats, awayStats stats.TeamStats
	if err := s.unit.InTx(ctx, func(ctx context.Context, repos storage.Repos) error {
		var err error
		homeStats, err = loadStatsOrZero(ctx, repos, home.ID)
		if err != nil {
			return err
		}
		awayStats, err = loadStatsOrZero(ctx, repos, away.ID)
		return err
	}); err != nil {
		return Prediction{}, fmt.Errorf("load team stats: %w", err)
	}

	probs, err := s.scorer.Score(MatchFeatures{
		HomeAvgGoals: homeStats.AvgGoalsHome,
		HomeWinRate:  homeStats.WinRateHome,
		HomeMatches:  homeStats.TotalMatches,
		AwayAvgGoals: awayStats.AvgGoalsAway,
		AwayWinRate:  awayStats.WinRateAway,
		AwayMatches:  awayStats.TotalMatches,
	})
	if err != nil {
		return Prediction{}, fmt.Errorf("score fixture: %w", err)
	}

	s.logger.DebugContext(ctx, "fixture scored",
		"home", home.Name, "away", away.Name,
		"home_win", probs.HomeWin, "draw", probs.Draw, "away_win", probs.AwayWin,
	)
	return Prediction{
		HomeTeam:      home.Name,
		AwayTeam:      away.Name,
		HomeTeamID:    home.ID,
		AwayTeamID:    away.ID,
		Probabilities: probs,
		PredictedAt:   s.now().UTC(),
	}, nil
}

func loadStatsOrZero(ctx context.Context, repos storage.Repos, teamID int64) (stats.TeamStats, error) {
	row, found, err := repos.Stats.GetByTeamID(ctx, teamID)
	if err != nil {
		return stats.TeamStats{}, err
	}
	if !found {
		return stats.TeamStats{TeamID: teamID}, nil
	}
	return row, nil
}
