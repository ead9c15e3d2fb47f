package domain

import (
	"cmp"
	"errors"
	"fmt"
)

// ErrInvalidThreadCount is returned for slot arithmetic with zero threads.
var ErrInvalidThreadCount = errors.New("thread count must be positive")

// Slot is a (period, thread) consensus slot, ordered by period then thread.
type Slot struct {
	Period uint64 `json:"period"`
	Thread uint8  `json:"thread"`
}

// NewSlot creates a Slot.
func NewSlot(period uint64, thread uint8) Slot {
	return Slot{Period: period, Thread: thread}
}

// Compare returns -1, 0 or 1 comparing s with o.
func (s Slot) Compare(o Slot) int {
	if c := cmp.Compare(s.Period, o.Period); c != 0 {
		return c
	}
	return cmp.Compare(s.Thread, o.Thread)
}

// Less reports whether s comes strictly before o.
func (s Slot) Less(o Slot) bool {
	return s.Compare(o) < 0
}

// Next returns the slot following s.
func (s Slot) Next(threadCount uint8) (Slot, error) {
	if threadCount == 0 {
		return Slot{}, ErrInvalidThreadCount
	}
	if uint16(s.Thread)+1 < uint16(threadCount) {
		return Slot{Period: s.Period, Thread: s.Thread + 1}, nil
	}
	if s.Period == ^uint64(0) {
		return Slot{}, fmt.Errorf("next slot after %s: period overflow", s)
	}
	return Slot{Period: s.Period + 1, Thread: 0}, nil
}

func (s Slot) String() string {
	return fmt.Sprintf("(period: %d, thread: %d)", s.Period, s.Thread)
}
