package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusFinished  = "FINISHED"
	StatusPostponed = "POSTPONED"
	StatusCancelled = "CANCELLED"
)

const (
	VenueHome = "home"
	VenueAway = "away"
)

// Match is one reconciled fixture record. A match carries every source that
// ever reported it; same-pass duplicates are merged by the reconciler and
// cross-pass updates overwrite the whole record.
type Match struct {
	MatchID        string
	Date           time.Time
	HomeTeamID     int64
	AwayTeamID     int64
	HomeName       string
	AwayName       string
	HomeGoals      *int
	AwayGoals      *int
	Status         string
	Competition    string
	Sources        []string
	Details        map[string]any
	NameUnresolved bool
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT", "AET", "PEN":
		return true
	default:
		return false
	}
}

// DateKey reduces a kickoff time to the day-precision form used in the
// composite fixture identity.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// MergeSources appends incoming onto base, order-preserving with duplicates
// dropped, so provenance survives a merge instead of being discarded.
func MergeSources(base, incoming []string) []string {
	out := make([]string, 0, len(base)+len(incoming))
	seen := make(map[string]struct{}, len(base)+len(incoming))
	for _, s := range base {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, s := range incoming {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
