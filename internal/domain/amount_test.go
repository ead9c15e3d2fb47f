package domain

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		wantRaw uint64
		wantErr error
	}{
		{in: "0", wantRaw: 0},
		{in: "1", wantRaw: 1_000_000_000},
		{in: "100", wantRaw: 100_000_000_000},
		{in: "100.5", wantRaw: 100_500_000_000},
		{in: "0.000000001", wantRaw: 1},
		{in: " 2.25 ", wantRaw: 2_250_000_000},
		{in: "18446744073.709551615", wantRaw: math.MaxUint64},
		{in: "18446744073.709551616", wantErr: ErrAmountOverflow},
		{in: "0.0000000001", wantErr: ErrAmountPrecision},
		{in: "-1", wantErr: ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseAmount(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q): %v", tt.in, err)
			}
			if got.Raw() != tt.wantRaw {
				t.Errorf("ParseAmount(%q) = %d, want %d", tt.in, got.Raw(), tt.wantRaw)
			}
		})
	}
}

func TestParseAmount_Garbage(t *testing.T) {
	if _, err := ParseAmount("ten"); err == nil {
		t.Error("expected error for non-numeric amount")
	}
}

func TestAmount_String(t *testing.T) {
	tests := []struct {
		raw  uint64
		want string
	}{
		{0, "0"},
		{1, "0.000000001"},
		{1_000_000_000, "1"},
		{100_500_000_000, "100.5"},
	}
	for _, tt := range tests {
		if got := AmountFromRaw(tt.raw).String(); got != tt.want {
			t.Errorf("AmountFromRaw(%d).String() = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestAmount_CheckedArithmetic(t *testing.T) {
	max := AmountFromRaw(math.MaxUint64)
	one := AmountFromRaw(1)

	if _, err := max.CheckedAdd(one); !errors.Is(err, ErrAmountOverflow) {
		t.Errorf("CheckedAdd overflow: got %v", err)
	}
	if _, err := AmountFromRaw(0).CheckedSub(one); !errors.Is(err, ErrAmountUnderflow) {
		t.Errorf("CheckedSub underflow: got %v", err)
	}
	if _, err := max.CheckedMul(2); !errors.Is(err, ErrAmountOverflow) {
		t.Errorf("CheckedMul overflow: got %v", err)
	}

	sum, err := AmountFromRaw(40).CheckedAdd(AmountFromRaw(2))
	if err != nil || sum.Raw() != 42 {
		t.Errorf("CheckedAdd = %d, %v; want 42", sum.Raw(), err)
	}
	diff, err := AmountFromRaw(42).CheckedSub(AmountFromRaw(2))
	if err != nil || diff.Raw() != 40 {
		t.Errorf("CheckedSub = %d, %v; want 40", diff.Raw(), err)
	}
	prod, err := AmountFromRaw(21).CheckedMul(2)
	if err != nil || prod.Raw() != 42 {
		t.Errorf("CheckedMul = %d, %v; want 42", prod.Raw(), err)
	}
}

func TestAmountFromCoins(t *testing.T) {
	a, err := AmountFromCoins(100)
	if err != nil {
		t.Fatalf("AmountFromCoins: %v", err)
	}
	if a.Raw() != 100_000_000_000 {
		t.Errorf("AmountFromCoins(100) = %d", a.Raw())
	}
}

func TestAmount_Cmp(t *testing.T) {
	a, b := AmountFromRaw(1), AmountFromRaw(2)
	if a.Cmp(b) != -1 || b.Cmp(a) != 1 || a.Cmp(a) != 0 {
		t.Error("Cmp ordering is wrong")
	}
}

func TestAmount_JSON(t *testing.T) {
	var v struct {
		Balance Amount `json:"balance"`
	}
	if err := json.Unmarshal([]byte(`{"balance":"12.5"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Balance.Raw() != 12_500_000_000 {
		t.Errorf("balance = %d", v.Balance.Raw())
	}

	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"balance":"12.5"}` {
		t.Errorf("marshal = %s", out)
	}
}
