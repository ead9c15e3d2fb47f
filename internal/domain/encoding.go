package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"

	"massa-autoroll/internal/idhash"
)

// Encoding errors.
var (
	// ErrInvalidChecksum is returned when a base58check string fails its checksum.
	ErrInvalidChecksum = errors.New("invalid base58check checksum")

	// ErrInvalidLength is returned when decoded bytes have the wrong size.
	ErrInvalidLength = errors.New("invalid length")
)

// encodeCheck encodes b as base58 with a 4-byte double-SHA256 checksum suffix.
func encodeCheck(b []byte) string {
	sum := idhash.Checksum(b)
	buf := make([]byte, 0, len(b)+len(sum))
	buf = append(buf, b...)
	buf = append(buf, sum[:]...)
	return base58.Encode(buf)
}

// decodeCheck decodes a base58check string into dst, which must have the
// exact payload size.
func decodeCheck(dst []byte, s string) error {
	raw, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("decode base58: %w", err)
	}
	if len(raw) < 4 {
		return ErrInvalidChecksum
	}

	payload, sum := raw[:len(raw)-4], raw[len(raw)-4:]
	want := idhash.Checksum(payload)
	if !bytes.Equal(sum, want[:]) {
		return ErrInvalidChecksum
	}
	if len(payload) != len(dst) {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(payload), len(dst))
	}

	copy(dst, payload)
	return nil
}

// Bytes is a byte slice encoded in JSON as an array of numbers,
// matching the node's encoding of raw byte vectors.
type Bytes []byte

// MarshalJSON encodes b as [n, n, ...].
func (b Bytes) MarshalJSON() ([]byte, error) {
	nums := make([]uint16, len(b))
	for i, v := range b {
		nums[i] = uint16(v)
	}
	return json.Marshal(nums)
}

// UnmarshalJSON decodes an array of numbers in [0, 255].
func (b *Bytes) UnmarshalJSON(data []byte) error {
	var raw []byte
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode byte array: %w", err)
	}
	*b = raw
	return nil
}
