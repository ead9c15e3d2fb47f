// Package operation builds signed operations from live node state and
// submits them.
package operation

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"time"

	"massa-autoroll/internal/domain"
	"massa-autoroll/internal/massa"
	"massa-autoroll/internal/timeslots"
)

// Build errors.
var (
	// ErrNodeUnreachable wraps RPC failures while building or sending.
	ErrNodeUnreachable = errors.New("check if your node is running")

	// ErrMissingPublicKey is returned when the wallet has no key for the sender.
	ErrMissingPublicKey = errors.New("missing public key")

	// ErrSlotComputation wraps failures computing the current slot or expiry.
	ErrSlotComputation = errors.New("slot computation failed")
)

// Wallet resolves sender keys and signs operation content.
type Wallet interface {
	FindAssociatedPublicKey(addr domain.Address) (domain.PublicKey, bool)
	SignOperation(content domain.OperationContent, addr domain.Address) (*domain.SignedOperation, error)
}

// Builder produces signed operations ready for submission.
// NodeConfig is fetched on every Build and never cached.
type Builder struct {
	status massa.StatusFetcher
	wallet Wallet

	// ClockCompensation shifts the local clock in milliseconds when
	// computing the current slot.
	ClockCompensation int64

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewBuilder creates a Builder.
func NewBuilder(status massa.StatusFetcher, wallet Wallet) *Builder {
	return &Builder{
		status: status,
		wallet: wallet,
		Now:    time.Now,
	}
}

// Build creates and signs an operation of type op sent by addr.
func (b *Builder) Build(ctx context.Context, addr domain.Address, op domain.OperationType, fee domain.Amount) (*domain.SignedOperation, error) {
	if op == nil {
		return nil, domain.ErrMissingOperationType
	}

	status, err := b.status.GetStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNodeUnreachable, err)
	}
	cfg := status.Config

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	slot, ok, err := timeslots.CurrentLatestBlockSlot(cfg.ThreadCount, cfg.T0, cfg.GenesisTimestamp, b.ClockCompensation, now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSlotComputation, err)
	}
	if !ok {
		slot = domain.NewSlot(0, 0)
	}

	expire, err := ExpirePeriod(slot, cfg.OperationValidityPeriods, addr.Thread(cfg.ThreadCount))
	if err != nil {
		return nil, err
	}

	pub, ok := b.wallet.FindAssociatedPublicKey(addr)
	if !ok {
		return nil, fmt.Errorf("%w for address %s", ErrMissingPublicKey, addr)
	}

	content := domain.OperationContent{
		SenderPublicKey: pub,
		Fee:             fee,
		ExpirePeriod:    expire,
		Op:              op,
	}
	signed, err := b.wallet.SignOperation(content, addr)
	if err != nil {
		return nil, fmt.Errorf("sign %s for %s: %w", op.Name(), addr, err)
	}
	return signed, nil
}

// ExpirePeriod returns the last period an operation from a sender on
// senderThread stays valid when built at slot. Once slot has reached the
// sender's thread the operation can only land next period, so the window
// moves forward by one.
func ExpirePeriod(slot domain.Slot, validityPeriods uint64, senderThread uint8) (uint64, error) {
	expire, carry := bits.Add64(slot.Period, validityPeriods, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: expire period overflows at %s", ErrSlotComputation, slot)
	}
	if slot.Thread >= senderThread {
		expire, carry = bits.Add64(expire, 1, 0)
		if carry != 0 {
			return 0, fmt.Errorf("%w: expire period overflows at %s", ErrSlotComputation, slot)
		}
	}
	return expire, nil
}

// Send submits ops and returns the ids the node accepted. Failures are
// reported, never retried.
func Send(ctx context.Context, submitter massa.Submitter, ops ...*domain.SignedOperation) ([]domain.OperationID, error) {
	ids, err := submitter.SendOperations(ctx, ops)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNodeUnreachable, err)
	}
	return ids, nil
}
