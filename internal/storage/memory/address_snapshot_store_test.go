package memory

import (
	"context"
	"errors"
	"testing"

	"massa-autoroll/internal/domain"
	"massa-autoroll/internal/storage"
)

func TestAddressSnapshotStore_InsertBulkAndRange(t *testing.T) {
	store := NewAddressSnapshotStore()
	ctx := context.Background()

	snaps := []*domain.AddressSnapshot{
		{SnapshotID: "s3", Address: "a1", TimestampMs: 3000, FinalBalanceRaw: 30},
		{SnapshotID: "s1", Address: "a1", TimestampMs: 1000, FinalBalanceRaw: 10},
		{SnapshotID: "s2", Address: "a1", TimestampMs: 2000, FinalBalanceRaw: 20},
		{SnapshotID: "s4", Address: "a2", TimestampMs: 2000},
	}
	if err := store.InsertBulk(ctx, snaps); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByAddress(ctx, "a1", 1000, 2000)
	if err != nil {
		t.Fatalf("GetByAddress failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 snapshots, got %d", len(got))
	}
	if got[0].FinalBalanceRaw != 10 || got[1].FinalBalanceRaw != 20 {
		t.Errorf("unexpected order: %+v, %+v", got[0], got[1])
	}
}

func TestAddressSnapshotStore_InsertBulkEmpty(t *testing.T) {
	store := NewAddressSnapshotStore()
	if err := store.InsertBulk(context.Background(), nil); err != nil {
		t.Errorf("InsertBulk(nil) failed: %v", err)
	}
}

func TestAddressSnapshotStore_DuplicateFailsWholeBatch(t *testing.T) {
	store := NewAddressSnapshotStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.AddressSnapshot{
		{SnapshotID: "s1", Address: "a1", TimestampMs: 1000},
	}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.AddressSnapshot{
		{SnapshotID: "s2", Address: "a1", TimestampMs: 2000},
		{SnapshotID: "s1", Address: "a1", TimestampMs: 1000},
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	got, _ := store.GetByAddress(ctx, "a1", 0, 10_000)
	if len(got) != 1 {
		t.Errorf("Expected batch rollback, got %d snapshots", len(got))
	}

	err = store.InsertBulk(ctx, []*domain.AddressSnapshot{
		{SnapshotID: "s5", Address: "a1"},
		{SnapshotID: "s5", Address: "a1"},
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for intra-batch duplicate, got %v", err)
	}
}

func TestAddressSnapshotStore_InvalidInput(t *testing.T) {
	store := NewAddressSnapshotStore()

	err := store.InsertBulk(context.Background(), []*domain.AddressSnapshot{{Address: "a1"}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
