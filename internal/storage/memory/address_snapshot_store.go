package memory

import (
	"context"
	"sort"
	"sync"

	"massa-autoroll/internal/domain"
	"massa-autoroll/internal/storage"
)

// AddressSnapshotStore is an in-memory implementation of storage.AddressSnapshotStore.
type AddressSnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.AddressSnapshot // keyed by snapshot_id
}

// NewAddressSnapshotStore creates a new in-memory address snapshot store.
func NewAddressSnapshotStore() *AddressSnapshotStore {
	return &AddressSnapshotStore{
		data: make(map[string]*domain.AddressSnapshot),
	}
}

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
func (s *AddressSnapshotStore) InsertBulk(_ context.Context, snapshots []*domain.AddressSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(snapshots))
	for _, snap := range snapshots {
		if snap == nil || snap.SnapshotID == "" || snap.Address == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[snap.SnapshotID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[snap.SnapshotID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[snap.SnapshotID] = struct{}{}
	}

	for _, snap := range snapshots {
		copy := *snap
		s.data[snap.SnapshotID] = &copy
	}

	return nil
}

// GetByAddress retrieves snapshots for an address within [start, end] (inclusive).
func (s *AddressSnapshotStore) GetByAddress(_ context.Context, address string, start, end int64) ([]*domain.AddressSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AddressSnapshot
	for _, snap := range s.data {
		if snap.Address == address && snap.TimestampMs >= start && snap.TimestampMs <= end {
			copy := *snap
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result, nil
}

var _ storage.AddressSnapshotStore = (*AddressSnapshotStore)(nil)
