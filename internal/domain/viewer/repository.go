package viewer

import "context"

// Repository describes viewer presence persistence.
type Repository interface {
	// Upsert writes Username, LastSeen and UpdatedAt. CreatedAt is kept when
	// the record already exists.
	Upsert(ctx context.Context, v Viewer) error
	// ListActive returns viewers of gameID with LastSeen >= since, ordered by
	// LastSeen ascending.
	ListActive(ctx context.Context, gameID string, since int64) ([]Viewer, error)
	// Reap deletes records with LastSeen < before and reports how many went.
	Reap(ctx context.Context, before int64) (int, error)
}
