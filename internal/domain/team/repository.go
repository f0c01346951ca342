package team

import "context"

// Repository describes team persistence needs from use cases and the
// resolver.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	// SearchByName matches q as a case-insensitive substring of the primary,
	// localized, or official name. Results come back ordered by id ascending;
	// that order is the documented tie-break when several teams match, so
	// implementations must enforce it rather than rely on storage defaults.
	SearchByName(ctx context.Context, q string, limit int) ([]Team, error)
	Upsert(ctx context.Context, t Team) error
}
