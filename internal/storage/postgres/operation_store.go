package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"massa-autoroll/internal/domain"
	"massa-autoroll/internal/storage"
)

// OperationStore implements storage.OperationStore using PostgreSQL.
type OperationStore struct {
	pool *Pool
}

// NewOperationStore creates a new OperationStore.
func NewOperationStore(pool *Pool) *OperationStore {
	return &OperationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OperationStore = (*OperationStore)(nil)

// Insert adds a new entry. Returns ErrDuplicateKey if operation_id exists.
// Numeric fields are stored as BIGINT and must fit in int64.
func (s *OperationStore) Insert(ctx context.Context, op *domain.SubmittedOperation) error {
	if op == nil || op.OperationID == "" || op.Address == "" {
		return storage.ErrInvalidInput
	}
	rollCount, err := toBigint("roll_count", op.RollCount)
	if err != nil {
		return err
	}
	feeRaw, err := toBigint("fee_raw", op.FeeRaw)
	if err != nil {
		return err
	}
	expirePeriod, err := toBigint("expire_period", op.ExpirePeriod)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO submitted_operations (
			operation_id, address, op_type, roll_count,
			fee_raw, expire_period, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = s.pool.Exec(ctx, query,
		op.OperationID, op.Address, op.OpType, rollCount,
		feeRaw, expirePeriod, op.SubmittedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert submitted operation: %w", err)
	}
	return nil
}

// GetByID retrieves an entry by operation id. Returns ErrNotFound if not exists.
func (s *OperationStore) GetByID(ctx context.Context, operationID string) (*domain.SubmittedOperation, error) {
	query := `
		SELECT operation_id, address, op_type, roll_count, fee_raw, expire_period, submitted_at
		FROM submitted_operations
		WHERE operation_id = $1
	`

	op, err := scanOperation(s.pool.QueryRow(ctx, query, operationID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get submitted operation by id: %w", err)
	}
	return op, nil
}

// GetByAddress retrieves all entries for a sender, ordered by submitted_at ASC.
func (s *OperationStore) GetByAddress(ctx context.Context, address string) ([]*domain.SubmittedOperation, error) {
	query := `
		SELECT operation_id, address, op_type, roll_count, fee_raw, expire_period, submitted_at
		FROM submitted_operations
		WHERE address = $1
		ORDER BY submitted_at ASC, operation_id ASC
	`

	rows, err := s.pool.Query(ctx, query, address)
	if err != nil {
		return nil, fmt.Errorf("get submitted operations by address: %w", err)
	}
	defer rows.Close()

	var ops []*domain.SubmittedOperation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submitted operation row: %w", err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submitted operation rows: %w", err)
	}

	return ops, nil
}

// scanOperation scans a single row.
func scanOperation(row pgx.Row) (*domain.SubmittedOperation, error) {
	var op domain.SubmittedOperation
	var rollCount, feeRaw, expirePeriod int64

	err := row.Scan(
		&op.OperationID, &op.Address, &op.OpType, &rollCount,
		&feeRaw, &expirePeriod, &op.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}

	op.RollCount = uint64(rollCount)
	op.FeeRaw = uint64(feeRaw)
	op.ExpirePeriod = uint64(expirePeriod)
	return &op, nil
}
