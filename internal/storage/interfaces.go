package storage

import (
	"context"

	"massa-autoroll/internal/domain"
)

// OperationStore journals operations accepted by the node.
type OperationStore interface {
	// Insert adds a new entry. Returns ErrDuplicateKey if operation_id exists.
	Insert(ctx context.Context, op *domain.SubmittedOperation) error

	// GetByID retrieves an entry by operation id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, operationID string) (*domain.SubmittedOperation, error)

	// GetByAddress retrieves all entries for a sender, ordered by submitted_at ASC.
	GetByAddress(ctx context.Context, address string) ([]*domain.SubmittedOperation, error)
}

// AddressSnapshotStore provides access to address_snapshots time series.
type AddressSnapshotStore interface {
	// InsertBulk adds multiple snapshots. Fails entire batch on any duplicate snapshot_id.
	InsertBulk(ctx context.Context, snapshots []*domain.AddressSnapshot) error

	// GetByAddress retrieves snapshots for an address within [start, end] (inclusive),
	// ordered by timestamp ASC.
	GetByAddress(ctx context.Context, address string, start, end int64) ([]*domain.AddressSnapshot, error)
}
