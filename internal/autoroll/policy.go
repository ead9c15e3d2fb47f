package autoroll

import (
	"fmt"

	"massa-autoroll/internal/domain"
	"massa-autoroll/internal/massa"
)

// Policy decides which addresses buy rolls.
type Policy struct {
	// MinBalance is the final balance required on top of Fee.
	MinBalance domain.Amount
	// RollCount is the number of rolls bought per operation.
	RollCount uint64
	// Fee is paid for each RollBuy operation.
	Fee domain.Amount
}

// DefaultPolicy buys one roll with no fee once 100 coins are available.
func DefaultPolicy() Policy {
	return Policy{
		MinBalance: domain.AmountFromRaw(100 * 1_000_000_000),
		RollCount:  1,
		Fee:        domain.AmountFromRaw(0),
	}
}

// Evaluate reports whether info qualifies for a roll purchase. When it
// does not, reason says why.
func (p Policy) Evaluate(info massa.AddressInfo) (eligible bool, reason string, err error) {
	if p.RollCount == 0 {
		return false, "roll count is zero", nil
	}
	if info.Rolls.CandidateRolls != 0 {
		return false, fmt.Sprintf("already has %d candidate rolls", info.Rolls.CandidateRolls), nil
	}

	required, err := p.MinBalance.CheckedAdd(p.Fee)
	if err != nil {
		return false, "", fmt.Errorf("required balance: %w", err)
	}

	balance := info.LedgerInfo.FinalLedgerInfo.Balance
	if balance.Cmp(required) < 0 {
		return false, fmt.Sprintf("final balance %s below required %s", balance, required), nil
	}
	return true, "", nil
}
