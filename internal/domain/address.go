package domain

import (
	"fmt"

	"massa-autoroll/internal/idhash"
)

// Address identifies an account: the SHA256 of its owner's public key.
type Address [idhash.Size]byte

// AddressFromPublicKey derives the address owned by pk.
func AddressFromPublicKey(pk PublicKey) Address {
	return Address(idhash.Sum(pk[:]))
}

// ParseAddress decodes a base58check address.
func ParseAddress(s string) (Address, error) {
	var a Address
	if err := decodeCheck(a[:], s); err != nil {
		return Address{}, fmt.Errorf("parse address %q: %w", s, err)
	}
	return a, nil
}

// Thread returns the block production thread the address belongs to,
// always in [0, threadCount). For a power-of-two thread count this is the
// top log2(threadCount) bits of the first address byte.
// Returns 0 when threadCount is 0.
func (a Address) Thread(threadCount uint8) uint8 {
	return uint8((uint16(a[0]) * uint16(threadCount)) >> 8)
}

func (a Address) String() string {
	return encodeCheck(a[:])
}

// MarshalText implements encoding.TextMarshaler.
// Also makes Address usable as a JSON object key.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
