package memory

import (
	"context"
	"errors"
	"testing"

	"massa-autoroll/internal/domain"
	"massa-autoroll/internal/storage"
)

func TestOperationStore_InsertAndGet(t *testing.T) {
	store := NewOperationStore()
	ctx := context.Background()

	op := &domain.SubmittedOperation{
		OperationID:  "op1",
		Address:      "addr1",
		OpType:       "RollBuy",
		RollCount:    1,
		ExpirePeriod: 111,
		SubmittedAt:  1000,
	}

	if err := store.Insert(ctx, op); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "op1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if *got != *op {
		t.Errorf("entry mismatch: got %+v, want %+v", got, op)
	}

	// Mutating the input must not affect the stored copy.
	op.RollCount = 99
	got, _ = store.GetByID(ctx, "op1")
	if got.RollCount != 1 {
		t.Errorf("stored entry was mutated: roll count %d", got.RollCount)
	}
}

func TestOperationStore_DuplicateKey(t *testing.T) {
	store := NewOperationStore()
	ctx := context.Background()

	op := &domain.SubmittedOperation{OperationID: "op1", Address: "addr1"}
	if err := store.Insert(ctx, op); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, op)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestOperationStore_InvalidInput(t *testing.T) {
	store := NewOperationStore()
	ctx := context.Background()

	for _, op := range []*domain.SubmittedOperation{nil, {Address: "a"}, {OperationID: "x"}} {
		if err := store.Insert(ctx, op); !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for %+v, got %v", op, err)
		}
	}
}

func TestOperationStore_NotFound(t *testing.T) {
	store := NewOperationStore()

	_, err := store.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestOperationStore_GetByAddress(t *testing.T) {
	store := NewOperationStore()
	ctx := context.Background()

	ops := []*domain.SubmittedOperation{
		{OperationID: "op3", Address: "a1", SubmittedAt: 3000},
		{OperationID: "op1", Address: "a1", SubmittedAt: 1000},
		{OperationID: "op2", Address: "a2", SubmittedAt: 2000},
	}
	for _, op := range ops {
		if err := store.Insert(ctx, op); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetByAddress(ctx, "a1")
	if err != nil {
		t.Fatalf("GetByAddress failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	if got[0].OperationID != "op1" || got[1].OperationID != "op3" {
		t.Errorf("Expected order op1, op3, got %s, %s", got[0].OperationID, got[1].OperationID)
	}

	got, err = store.GetByAddress(ctx, "unknown")
	if err != nil {
		t.Fatalf("GetByAddress failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no entries, got %d", len(got))
	}
}
