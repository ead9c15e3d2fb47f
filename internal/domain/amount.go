package domain

import (
	"errors"
	"fmt"
	"math/big"
	"math/bits"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountDecimals is the number of decimal places of one coin.
const AmountDecimals = 9

// Amount errors.
var (
	ErrAmountOverflow  = errors.New("amount overflow")
	ErrAmountUnderflow = errors.New("amount underflow")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrAmountPrecision = errors.New("amount has too many decimal places")
)

// Amount is a non-negative fixed-point coin value stored in raw units
// (10^-AmountDecimals coin). Arithmetic is overflow-checked.
type Amount struct {
	raw uint64
}

// AmountFromRaw creates an Amount from smallest units.
func AmountFromRaw(raw uint64) Amount {
	return Amount{raw: raw}
}

// AmountFromCoins creates an Amount of whole coins.
func AmountFromCoins(coins uint64) (Amount, error) {
	return AmountFromRaw(1_000_000_000).CheckedMul(coins)
}

// ParseAmount parses a decimal coin string such as "100" or "0.000000001".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, ErrNegativeAmount)
	}

	scaled := d.Shift(AmountDecimals)
	if !scaled.IsInteger() {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, ErrAmountPrecision)
	}

	raw := scaled.BigInt()
	if !raw.IsUint64() {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, ErrAmountOverflow)
	}
	return Amount{raw: raw.Uint64()}, nil
}

// Raw returns the amount in smallest units.
func (a Amount) Raw() uint64 {
	return a.raw
}

// IsZero reports whether a is zero.
func (a Amount) IsZero() bool {
	return a.raw == 0
}

// Cmp returns -1, 0 or 1 depending on whether a is less than, equal to or greater than b.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a.raw < b.raw:
		return -1
	case a.raw > b.raw:
		return 1
	default:
		return 0
	}
}

// CheckedAdd returns a+b or ErrAmountOverflow.
func (a Amount) CheckedAdd(b Amount) (Amount, error) {
	sum, carry := bits.Add64(a.raw, b.raw, 0)
	if carry != 0 {
		return Amount{}, ErrAmountOverflow
	}
	return Amount{raw: sum}, nil
}

// CheckedSub returns a-b or ErrAmountUnderflow.
func (a Amount) CheckedSub(b Amount) (Amount, error) {
	diff, borrow := bits.Sub64(a.raw, b.raw, 0)
	if borrow != 0 {
		return Amount{}, ErrAmountUnderflow
	}
	return Amount{raw: diff}, nil
}

// CheckedMul returns a*n or ErrAmountOverflow.
func (a Amount) CheckedMul(n uint64) (Amount, error) {
	hi, lo := bits.Mul64(a.raw, n)
	if hi != 0 {
		return Amount{}, ErrAmountOverflow
	}
	return Amount{raw: lo}, nil
}

// String formats the amount in coins without trailing zeros.
func (a Amount) String() string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(a.raw), -AmountDecimals).String()
}

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
