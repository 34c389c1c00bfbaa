package repository

import (
	"context"

	"searchapi/internal/model"
)

// SnapshotRepository defines data access for snapshot metadata using SQL queries only.
// The snapshot payload itself lives in object storage; only its metadata row is kept here.
type SnapshotRepository interface {
	// Create inserts a new snapshot record.
	Create(ctx context.Context, snap *model.Snapshot) (*model.Snapshot, error)

	// FindByID returns a snapshot by its ID.
	FindByID(ctx context.Context, id string) (*model.Snapshot, error)

	// List returns a paginated list of snapshots and total rows count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Snapshot], error)

	// Delete removes a snapshot by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
