// Package autoroll buys rolls for wallet addresses that can afford them.
// Flow: get_addresses -> snapshots -> policy -> build -> send -> journal
package autoroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"massa-autoroll/internal/domain"
	"massa-autoroll/internal/idhash"
	"massa-autoroll/internal/massa"
	"massa-autoroll/internal/observability"
	"massa-autoroll/internal/operation"
	"massa-autoroll/internal/storage"
)

// DefaultConcurrency bounds concurrent builds per run.
const DefaultConcurrency = 4

// Node is the subset of the node API the runner uses.
type Node interface {
	massa.StatusFetcher
	massa.AddressReader
	massa.Submitter
}

// Wallet lists the addresses to manage and signs for them.
type Wallet interface {
	operation.Wallet
	Addresses() []domain.Address
}

// Options for creating Runner.
type Options struct {
	// Required
	Node   Node
	Wallet Wallet

	Policy Policy

	// Optional stores; nil disables journaling or snapshots.
	OperationStore storage.OperationStore
	SnapshotStore  storage.AddressSnapshotStore

	// Optional
	Metrics           *observability.Metrics
	Logger            *zap.SugaredLogger
	Concurrency       int
	ClockCompensation int64
	// RunTimeout bounds every node call made by one RunOnce; zero means no limit.
	RunTimeout time.Duration
	Now        func() time.Time
}

// Runner evaluates the policy for every wallet address and submits RollBuy
// operations for the eligible ones.
type Runner struct {
	node    Node
	wallet  Wallet
	policy  Policy
	builder *operation.Builder

	operationStore storage.OperationStore
	snapshotStore  storage.AddressSnapshotStore

	metrics     *observability.Metrics
	logger      *zap.SugaredLogger
	concurrency int
	runTimeout  time.Duration
	now         func() time.Time
}

// New creates a Runner.
func New(opts Options) *Runner {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	builder := operation.NewBuilder(opts.Node, opts.Wallet)
	builder.ClockCompensation = opts.ClockCompensation
	builder.Now = now

	return &Runner{
		node:           opts.Node,
		wallet:         opts.Wallet,
		policy:         opts.Policy,
		builder:        builder,
		operationStore: opts.OperationStore,
		snapshotStore:  opts.SnapshotStore,
		metrics:        opts.Metrics,
		logger:         logger,
		concurrency:    concurrency,
		runTimeout:     opts.RunTimeout,
		now:            now,
	}
}

// RunOnce fetches every wallet address, records snapshots and submits a
// RollBuy for each eligible address. A failure for one address does not
// affect the others; only failing to fetch addresses fails the run.
func (r *Runner) RunOnce(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: r.now()}

	if r.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.runTimeout)
		defer cancel()
	}

	err := r.runOnce(ctx, report)
	report.FinishedAt = r.now()

	if r.metrics != nil {
		status := "success"
		if err != nil {
			status = "failure"
		}
		r.metrics.RecordRun(status, report.FinishedAt.Sub(report.StartedAt), report.FinishedAt)
	}
	return report, err
}

func (r *Runner) runOnce(ctx context.Context, report *Report) error {
	addrs := r.wallet.Addresses()
	if len(addrs) == 0 {
		r.logger.Warnw("wallet has no addresses")
		return nil
	}

	infos, err := r.node.GetAddresses(ctx, addrs)
	if err != nil {
		return fmt.Errorf("get addresses: %w: %w", operation.ErrNodeUnreachable, err)
	}
	report.Addresses = infos

	r.recordSnapshots(ctx, report.StartedAt, infos)

	report.Results = make([]AddressResult, len(infos))
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, info := range infos {
		g.Go(func() error {
			report.Results[i] = r.process(ctx, info)
			return nil
		})
	}
	_ = g.Wait()

	r.logger.Infow("run finished",
		"addresses", len(infos),
		"submitted", report.Count(OutcomeSubmitted),
		"skipped", report.Count(OutcomeSkipped),
		"rejected", report.Count(OutcomeRejected),
		"failed", report.Count(OutcomeFailed),
	)
	return nil
}

// Run calls RunOnce, then again every interval until ctx is done.
// With interval <= 0 it runs once and returns that run's error.
func (r *Runner) Run(ctx context.Context, interval time.Duration, onReport func(*Report)) error {
	report, err := r.RunOnce(ctx)
	if onReport != nil {
		onReport(report)
	}
	if interval <= 0 {
		return err
	}
	if err != nil {
		r.logger.Errorw("run failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			report, err := r.RunOnce(ctx)
			if onReport != nil {
				onReport(report)
			}
			if err != nil {
				r.logger.Errorw("run failed", "error", err)
			}
		}
	}
}

// process applies the policy to one address and submits when eligible.
func (r *Runner) process(ctx context.Context, info massa.AddressInfo) AddressResult {
	res := AddressResult{Address: info.Address}
	log := r.logger.With("address", info.Address.String())

	eligible, reason, err := r.policy.Evaluate(info)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("address %s: %w", info.Address, err)
		log.Errorw("policy evaluation failed", "error", err)
		return res
	}
	if !eligible {
		res.Outcome = OutcomeSkipped
		res.Reason = reason
		log.Debugw("skipping address", "reason", reason)
		return res
	}

	opType := domain.RollBuy{RollCount: r.policy.RollCount}
	op, err := r.builder.Build(ctx, info.Address, opType, r.policy.Fee)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("address %s: build %s: %w", info.Address, opType.Name(), err)
		r.countBuildError(err)
		log.Errorw("building operation failed", "error", err)
		return res
	}
	if r.metrics != nil {
		r.metrics.OperationsBuilt.WithLabelValues(opType.Name()).Inc()
	}

	ids, err := operation.Send(ctx, r.node, op)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("address %s: send %s: %w", info.Address, op.ID, err)
		log.Errorw("sending operation failed", "operation_id", op.ID.String(), "error", err)
		return res
	}

	if !containsID(ids, op.ID) {
		res.Outcome = OutcomeRejected
		res.Err = fmt.Errorf("address %s: operation %s not accepted by node", info.Address, op.ID)
		if r.metrics != nil {
			r.metrics.OperationsRejected.WithLabelValues(opType.Name()).Inc()
		}
		log.Warnw("operation rejected", "operation_id", op.ID.String())
		return res
	}

	id := op.ID
	res.Outcome = OutcomeSubmitted
	res.OperationID = &id
	if r.metrics != nil {
		r.metrics.OperationsSent.WithLabelValues(opType.Name()).Inc()
		r.metrics.RollsBought.Add(float64(opType.RollCount))
	}
	log.Infow("operation submitted",
		"operation_id", id.String(),
		"roll_count", opType.RollCount,
		"expire_period", op.Content.ExpirePeriod,
	)

	r.journal(ctx, info.Address, op)
	return res
}

// journal records an accepted operation. Failures are logged only: the
// operation is already in the node's pool.
func (r *Runner) journal(ctx context.Context, addr domain.Address, op *domain.SignedOperation) {
	if r.operationStore == nil {
		return
	}

	entry := &domain.SubmittedOperation{
		OperationID:  op.ID.String(),
		Address:      addr.String(),
		OpType:       op.Content.Op.Name(),
		FeeRaw:       op.Content.Fee.Raw(),
		ExpirePeriod: op.Content.ExpirePeriod,
		SubmittedAt:  r.now().UnixMilli(),
	}
	if rb, ok := op.Content.Op.(domain.RollBuy); ok {
		entry.RollCount = rb.RollCount
	}

	if err := r.operationStore.Insert(ctx, entry); err != nil {
		r.logger.Errorw("journaling operation failed", "operation_id", entry.OperationID, "error", err)
	}
}

// recordSnapshots stores address state and updates address gauges.
func (r *Runner) recordSnapshots(ctx context.Context, at time.Time, infos []massa.AddressInfo) {
	ts := at.UnixMilli()
	snapshots := make([]*domain.AddressSnapshot, 0, len(infos))
	for _, info := range infos {
		addr := info.Address.String()
		snapshots = append(snapshots, &domain.AddressSnapshot{
			SnapshotID:          idhash.ComputeSnapshotID(addr, ts),
			Address:             addr,
			TimestampMs:         ts,
			Thread:              info.Thread,
			FinalBalanceRaw:     info.LedgerInfo.FinalLedgerInfo.Balance.Raw(),
			CandidateBalanceRaw: info.LedgerInfo.CandidateLedgerInfo.Balance.Raw(),
			ActiveRolls:         info.Rolls.ActiveRolls,
			FinalRolls:          info.Rolls.FinalRolls,
			CandidateRolls:      info.Rolls.CandidateRolls,
		})

		if r.metrics != nil {
			r.metrics.FinalBalance.WithLabelValues(addr).Set(coins(info.LedgerInfo.FinalLedgerInfo.Balance))
			r.metrics.CandidateRolls.WithLabelValues(addr).Set(float64(info.Rolls.CandidateRolls))
		}
	}

	if r.snapshotStore == nil {
		return
	}
	if err := r.snapshotStore.InsertBulk(ctx, snapshots); err != nil {
		r.logger.Errorw("storing address snapshots failed", "count", len(snapshots), "error", err)
	}
}

func (r *Runner) countBuildError(err error) {
	if r.metrics == nil {
		return
	}
	reason := "other"
	switch {
	case errors.Is(err, operation.ErrMissingPublicKey):
		reason = "missing_public_key"
	case errors.Is(err, operation.ErrNodeUnreachable):
		reason = "node_unreachable"
	case errors.Is(err, operation.ErrSlotComputation):
		reason = "slot_computation"
	}
	r.metrics.BuildErrors.WithLabelValues(reason).Inc()
}

func containsID(ids []domain.OperationID, id domain.OperationID) bool {
	for _, got := range ids {
		if got == id {
			return true
		}
	}
	return false
}

func coins(a domain.Amount) float64 {
	return float64(a.Raw()) / 1e9
}
