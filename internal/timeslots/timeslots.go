// Package timeslots converts between wall-clock timestamps and consensus slots.
// All timestamps and durations are milliseconds since the Unix epoch.
package timeslots

import (
	"errors"
	"fmt"
	"math/bits"
	"time"

	"massa-autoroll/internal/domain"
)

// ErrInvalidConfig is returned when thread count, t0 or the clock make
// slot arithmetic impossible.
var ErrInvalidConfig = errors.New("invalid time configuration")

// threadDuration returns the duration of one thread slot inside a period.
func threadDuration(threadCount uint8, t0 uint64) (uint64, error) {
	if threadCount == 0 {
		return 0, fmt.Errorf("%w: thread count is zero", ErrInvalidConfig)
	}
	if t0 == 0 {
		return 0, fmt.Errorf("%w: t0 is zero", ErrInvalidConfig)
	}
	if t0%uint64(threadCount) != 0 {
		return 0, fmt.Errorf("%w: t0 %d is not a multiple of thread count %d", ErrInvalidConfig, t0, threadCount)
	}
	return t0 / uint64(threadCount), nil
}

// LatestBlockSlotAt returns the latest slot started at timestamp.
// ok is false when timestamp is before genesis and no slot exists yet.
func LatestBlockSlotAt(threadCount uint8, t0, genesis, timestamp uint64) (slot domain.Slot, ok bool, err error) {
	perThread, err := threadDuration(threadCount, t0)
	if err != nil {
		return domain.Slot{}, false, err
	}
	if timestamp < genesis {
		return domain.Slot{}, false, nil
	}

	since := timestamp - genesis
	return domain.Slot{
		Period: since / t0,
		Thread: uint8((since % t0) / perThread),
	}, true, nil
}

// CompensatedNow returns now shifted by compensation milliseconds.
func CompensatedNow(now time.Time, compensation int64) (uint64, error) {
	ms := now.UnixMilli()
	shifted := ms + compensation
	if (compensation > 0 && shifted < ms) || (compensation < 0 && shifted > ms) {
		return 0, fmt.Errorf("%w: clock compensation %d overflows", ErrInvalidConfig, compensation)
	}
	if shifted < 0 {
		return 0, fmt.Errorf("%w: compensated time %d is before the epoch", ErrInvalidConfig, shifted)
	}
	return uint64(shifted), nil
}

// CurrentLatestBlockSlot returns the latest slot at now plus clockCompensation.
func CurrentLatestBlockSlot(threadCount uint8, t0, genesis uint64, clockCompensation int64, now time.Time) (domain.Slot, bool, error) {
	ts, err := CompensatedNow(now, clockCompensation)
	if err != nil {
		return domain.Slot{}, false, err
	}
	return LatestBlockSlotAt(threadCount, t0, genesis, ts)
}

// BlockSlotTimestamp returns the start timestamp of slot.
func BlockSlotTimestamp(threadCount uint8, t0, genesis uint64, slot domain.Slot) (uint64, error) {
	perThread, err := threadDuration(threadCount, t0)
	if err != nil {
		return 0, err
	}
	if slot.Thread >= threadCount {
		return 0, fmt.Errorf("%w: thread %d out of range for %d threads", ErrInvalidConfig, slot.Thread, threadCount)
	}

	hi, periodMs := bits.Mul64(slot.Period, t0)
	if hi != 0 {
		return 0, fmt.Errorf("%w: slot %s timestamp overflows", ErrInvalidConfig, slot)
	}
	ts, carry := bits.Add64(genesis, periodMs, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: slot %s timestamp overflows", ErrInvalidConfig, slot)
	}
	ts, carry = bits.Add64(ts, uint64(slot.Thread)*perThread, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: slot %s timestamp overflows", ErrInvalidConfig, slot)
	}
	return ts, nil
}
