package autoroll

import (
	"time"

	"massa-autoroll/internal/domain"
	"massa-autoroll/internal/massa"
)

// Outcome is the result of processing one address.
type Outcome string

// Address outcomes.
const (
	OutcomeSkipped   Outcome = "SKIPPED"
	OutcomeSubmitted Outcome = "SUBMITTED"
	OutcomeRejected  Outcome = "REJECTED"
	OutcomeFailed    Outcome = "FAILED"
)

// AddressResult describes what happened to one address in a run.
type AddressResult struct {
	Address     domain.Address
	Outcome     Outcome
	Reason      string // why the address was skipped
	OperationID *domain.OperationID
	Err         error
}

// Report is the result of one RunOnce.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Addresses  []massa.AddressInfo
	Results    []AddressResult
}

// Submitted returns the ids of operations the node accepted.
func (r *Report) Submitted() []domain.OperationID {
	var ids []domain.OperationID
	for _, res := range r.Results {
		if res.Outcome == OutcomeSubmitted && res.OperationID != nil {
			ids = append(ids, *res.OperationID)
		}
	}
	return ids
}

// Errors returns per-address failures.
func (r *Report) Errors() []error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errs
}

// Count returns the number of results with outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}
