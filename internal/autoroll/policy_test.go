package autoroll

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"massa-autoroll/internal/domain"
	"massa-autoroll/internal/massa"
)

const coin = 1_000_000_000

func addressInfo(balanceRaw, candidateRolls uint64) massa.AddressInfo {
	var info massa.AddressInfo
	info.LedgerInfo.FinalLedgerInfo.Balance = domain.AmountFromRaw(balanceRaw)
	info.Rolls.CandidateRolls = candidateRolls
	return info
}

func TestPolicy_Evaluate(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name     string
		info     massa.AddressInfo
		eligible bool
	}{
		{"exact threshold", addressInfo(100*coin, 0), true},
		{"above threshold", addressInfo(250*coin, 0), true},
		{"below threshold", addressInfo(100*coin-1, 0), false},
		{"has candidate rolls", addressInfo(1000*coin, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eligible, reason, err := p.Evaluate(tt.info)
			require.NoError(t, err)
			assert.Equal(t, tt.eligible, eligible)
			if !tt.eligible {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestPolicy_FeeRaisesThreshold(t *testing.T) {
	p := DefaultPolicy()
	p.Fee = domain.AmountFromRaw(coin)

	eligible, _, err := p.Evaluate(addressInfo(100*coin, 0))
	require.NoError(t, err)
	assert.False(t, eligible)

	eligible, _, err = p.Evaluate(addressInfo(101*coin, 0))
	require.NoError(t, err)
	assert.True(t, eligible)
}

func TestPolicy_ThresholdOverflow(t *testing.T) {
	p := Policy{
		MinBalance: domain.AmountFromRaw(math.MaxUint64),
		RollCount:  1,
		Fee:        domain.AmountFromRaw(1),
	}

	_, _, err := p.Evaluate(addressInfo(math.MaxUint64, 0))
	assert.ErrorIs(t, err, domain.ErrAmountOverflow)
}

func TestPolicy_ZeroRollCount(t *testing.T) {
	p := DefaultPolicy()
	p.RollCount = 0

	eligible, _, err := p.Evaluate(addressInfo(1000*coin, 0))
	require.NoError(t, err)
	assert.False(t, eligible)
}
