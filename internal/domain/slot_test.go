package domain

import (
	"encoding/json"
	"testing"
)

func TestSlot_Compare(t *testing.T) {
	tests := []struct {
		a, b Slot
		want int
	}{
		{NewSlot(1, 0), NewSlot(1, 0), 0},
		{NewSlot(1, 0), NewSlot(1, 1), -1},
		{NewSlot(2, 0), NewSlot(1, 31), 1},
		{NewSlot(0, 31), NewSlot(1, 0), -1},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%s.Compare(%s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if tt.a.Less(tt.b) != (tt.want < 0) {
			t.Errorf("%s.Less(%s) inconsistent with Compare", tt.a, tt.b)
		}
	}
}

func TestSlot_Next(t *testing.T) {
	next, err := NewSlot(4, 30).Next(32)
	if err != nil || next != NewSlot(4, 31) {
		t.Errorf("Next = %s, %v", next, err)
	}

	next, err = NewSlot(4, 31).Next(32)
	if err != nil || next != NewSlot(5, 0) {
		t.Errorf("Next at last thread = %s, %v", next, err)
	}

	if _, err := NewSlot(0, 0).Next(0); err == nil {
		t.Error("expected error for zero threads")
	}
}

func TestSlot_JSON(t *testing.T) {
	out, err := json.Marshal(NewSlot(100, 5))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"period":100,"thread":5}` {
		t.Errorf("marshal = %s", out)
	}
}
