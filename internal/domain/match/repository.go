package match

import "context"

// Repository exposes fixture persistence. Upsert is whole-record: a later
// sync pass overwrites every field of an existing row rather than merging
// per field (same-pass merging already happened in the reconciler).
type Repository interface {
	GetByMatchID(ctx context.Context, matchID string) (Match, bool, error)
	Upsert(ctx context.Context, m Match) error
	// ListRecentFinished returns up to limit FINISHED matches where the team
	// played at the given venue ("home" or "away"), newest first.
	ListRecentFinished(ctx context.Context, teamID int64, venue string, limit int) ([]Match, error)
}
