package idhash

import "crypto/sha256"

// Size is the length in bytes of every hash-derived identifier.
const Size = sha256.Size

// Sum computes SHA256 over the concatenation of parts.
func Sum(parts ...[]byte) [Size]byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out [Size]byte
	h.Sum(out[:0])
	return out
}

// Checksum returns the first 4 bytes of SHA256(SHA256(data)).
// Used as the base58check suffix.
func Checksum(data []byte) [4]byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	var out [4]byte
	copy(out[:], second[:4])
	return out
}
