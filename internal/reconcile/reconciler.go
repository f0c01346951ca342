package reconcile

import (
	"strings"

	"github.com/predictfc/football-predict/internal/domain/match"
	"github.com/predictfc/football-predict/internal/platform/logging"
	"github.com/predictfc/football-predict/internal/resolver"
)

// Summary reports what one merge pass did.
type Summary struct {
	Input  int `json:"input"`
	Unique int `json:"unique"`
	Merged int `json:"merged"`
}

// Reconciler folds fixture records reported by several sources for the same
// real-world match into one record per match.
type Reconciler struct {
	logger *logging.Logger
}

func New(logger *logging.Logger) *Reconciler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Reconciler{logger: logger}
}

// Key is the composite fixture identity: kickoff day plus the normalized
// home and away names, in that orientation. A reverse fixture between the
// same clubs keys differently on purpose.
func Key(m match.Match) string {
	return match.DateKey(m.Date) + "|" + normalizeName(m.HomeName) + "|" + normalizeName(m.AwayName)
}

func normalizeName(name string) string {
	if n := resolver.Normalize(name); n != "" {
		return n
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// Merge collapses records sharing a composite key. The first record seen for
// a key is the base; later records only fill fields the base is missing, so
// reconciled output depends on source precedence order alone. Output keeps
// first-seen order, which makes the pass deterministic for a given input
// ordering.
func (r *Reconciler) Merge(records []match.Match) ([]match.Match, Summary) {
	byKey := make(map[string]int, len(records))
	out := make([]match.Match, 0, len(records))
	merged := 0

	for _, rec := range records {
		key := Key(rec)
		idx, seen := byKey[key]
		if !seen {
			byKey[key] = len(out)
			out = append(out, cloneMatch(rec))
			continue
		}
		out[idx] = fill(out[idx], rec)
		merged++
	}

	summary := Summary{Input: len(records), Unique: len(out), Merged: merged}
	if merged > 0 {
		r.logger.Debug("fixtures merged", "input", summary.Input, "unique", summary.Unique, "merged", summary.Merged)
	}
	return out, summary
}

// fill copies into base every field it is missing. Goals turning non-nil on
// both sides promote the status to FINISHED even when the base still said
// SCHEDULED, because a source reporting a final score trumps one that has
// not caught up yet.
func fill(base, incoming match.Match) match.Match {
	if base.MatchID == "" {
		base.MatchID = incoming.MatchID
	}
	if base.HomeTeamID == 0 {
		base.HomeTeamID = incoming.HomeTeamID
	}
	if base.AwayTeamID == 0 {
		base.AwayTeamID = incoming.AwayTeamID
	}
	if base.Competition == "" {
		base.Competition = incoming.Competition
	}

	scoreFilled := false
	if base.HomeGoals == nil && incoming.HomeGoals != nil {
		base.HomeGoals = cloneInt(incoming.HomeGoals)
		scoreFilled = true
	}
	if base.AwayGoals == nil && incoming.AwayGoals != nil {
		base.AwayGoals = cloneInt(incoming.AwayGoals)
		scoreFilled = true
	}
	if scoreFilled && base.HomeGoals != nil && base.AwayGoals != nil {
		base.Status = match.StatusFinished
	}
	if base.Status == "" || base.Status == match.StatusScheduled && match.IsFinishedStatus(incoming.Status) {
		base.Status = match.NormalizeStatus(incoming.Status)
	}

	base.Sources = match.MergeSources(base.Sources, incoming.Sources)

	if len(incoming.Details) > 0 {
		if base.Details == nil {
			base.Details = make(map[string]any, len(incoming.Details))
		}
		for k, v := range incoming.Details {
			if _, ok := base.Details[k]; !ok {
				base.Details[k] = v
			}
		}
	}

	if base.NameUnresolved && base.HomeTeamID != 0 && base.AwayTeamID != 0 {
		base.NameUnresolved = false
	}
	return base
}

func cloneMatch(m match.Match) match.Match {
	m.HomeGoals = cloneInt(m.HomeGoals)
	m.AwayGoals = cloneInt(m.AwayGoals)
	m.Sources = match.MergeSources(nil, m.Sources)
	if m.Details != nil {
		details := make(map[string]any, len(m.Details))
		for k, v := range m.Details {
			details[k] = v
		}
		m.Details = details
	}
	m.Status = match.NormalizeStatus(m.Status)
	return m
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
