package clickhouse

import (
	"context"
	"fmt"

	"massa-autoroll/internal/domain"
	"massa-autoroll/internal/storage"
)

// AddressSnapshotStore implements storage.AddressSnapshotStore using ClickHouse.
type AddressSnapshotStore struct {
	conn *Conn
}

// NewAddressSnapshotStore creates a new AddressSnapshotStore.
func NewAddressSnapshotStore(conn *Conn) *AddressSnapshotStore {
	return &AddressSnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.AddressSnapshotStore = (*AddressSnapshotStore)(nil)

// InsertBulk adds multiple snapshots. Fails entire batch on duplicate snapshot_id.
// MergeTree does not enforce uniqueness, so duplicates are checked before insert.
func (s *AddressSnapshotStore) InsertBulk(ctx context.Context, snapshots []*domain.AddressSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(snapshots))
	ids := make([]string, 0, len(snapshots))
	for _, snap := range snapshots {
		if snap == nil || snap.SnapshotID == "" || snap.Address == "" || snap.TimestampMs < 0 {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[snap.SnapshotID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[snap.SnapshotID] = struct{}{}
		ids = append(ids, snap.SnapshotID)
	}

	exists, err := s.anyExists(ctx, ids)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO address_snapshots (
			snapshot_id, address, timestamp_ms, thread,
			final_balance_raw, candidate_balance_raw,
			active_rolls, final_rolls, candidate_rolls
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, snap := range snapshots {
		err = batch.Append(
			snap.SnapshotID, snap.Address, uint64(snap.TimestampMs), snap.Thread,
			snap.FinalBalanceRaw, snap.CandidateBalanceRaw,
			snap.ActiveRolls, snap.FinalRolls, snap.CandidateRolls,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByAddress retrieves snapshots for an address within [start, end] (inclusive).
func (s *AddressSnapshotStore) GetByAddress(ctx context.Context, address string, start, end int64) ([]*domain.AddressSnapshot, error) {
	if start < 0 {
		start = 0
	}
	if end < start {
		return nil, nil
	}

	query := `
		SELECT snapshot_id, address, timestamp_ms, thread,
			final_balance_raw, candidate_balance_raw,
			active_rolls, final_rolls, candidate_rolls
		FROM address_snapshots
		WHERE address = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, address, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by address: %w", err)
	}
	defer rows.Close()

	return scanAddressSnapshots(rows)
}

// anyExists reports whether any of ids is already stored.
func (s *AddressSnapshotStore) anyExists(ctx context.Context, ids []string) (bool, error) {
	query := `SELECT count(*) FROM address_snapshots WHERE has(?, snapshot_id)`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, ids).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanAddressSnapshots scans multiple rows.
func scanAddressSnapshots(rows chRows) ([]*domain.AddressSnapshot, error) {
	var snapshots []*domain.AddressSnapshot

	for rows.Next() {
		var snap domain.AddressSnapshot
		var timestampMs uint64

		err := rows.Scan(
			&snap.SnapshotID, &snap.Address, &timestampMs, &snap.Thread,
			&snap.FinalBalanceRaw, &snap.CandidateBalanceRaw,
			&snap.ActiveRolls, &snap.FinalRolls, &snap.CandidateRolls,
		)
		if err != nil {
			return nil, fmt.Errorf("scan address snapshot row: %w", err)
		}

		snap.TimestampMs = int64(timestampMs)
		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate address snapshot rows: %w", err)
	}

	return snapshots, nil
}
