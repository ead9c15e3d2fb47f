package memory

import (
	"context"
	"sort"
	"sync"

	"massa-autoroll/internal/domain"
	"massa-autoroll/internal/storage"
)

// OperationStore is an in-memory implementation of storage.OperationStore.
type OperationStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SubmittedOperation // keyed by operation_id
}

// NewOperationStore creates a new in-memory operation store.
func NewOperationStore() *OperationStore {
	return &OperationStore{
		data: make(map[string]*domain.SubmittedOperation),
	}
}

// Insert adds a new entry. Returns ErrDuplicateKey if operation_id exists.
func (s *OperationStore) Insert(_ context.Context, op *domain.SubmittedOperation) error {
	if op == nil || op.OperationID == "" || op.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[op.OperationID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *op
	s.data[op.OperationID] = &copy
	return nil
}

// GetByID retrieves an entry by operation id. Returns ErrNotFound if not exists.
func (s *OperationStore) GetByID(_ context.Context, operationID string) (*domain.SubmittedOperation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	op, exists := s.data[operationID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *op
	return &copy, nil
}

// GetByAddress retrieves all entries for a sender, ordered by submitted_at ASC.
func (s *OperationStore) GetByAddress(_ context.Context, address string) ([]*domain.SubmittedOperation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SubmittedOperation
	for _, op := range s.data {
		if op.Address == address {
			copy := *op
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].SubmittedAt != result[j].SubmittedAt {
			return result[i].SubmittedAt < result[j].SubmittedAt
		}
		return result[i].OperationID < result[j].OperationID
	})

	return result, nil
}

var _ storage.OperationStore = (*OperationStore)(nil)
