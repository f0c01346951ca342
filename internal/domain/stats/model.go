package stats

import "time"

// TeamStats is a rolling window over the team's most recent finished
// fixtures, split by venue. Derived data only: always recomputable from the
// match table, never hand-edited.
type TeamStats struct {
	TeamID       int64
	AvgGoalsHome float64
	AvgGoalsAway float64
	WinRateHome  float64
	WinRateAway  float64
	TotalMatches int
	LastUpdated  time.Time
}
