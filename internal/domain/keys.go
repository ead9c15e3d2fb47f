package domain

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"

	"filippo.io/edwards25519"
)

// Key and signature sizes.
const (
	PublicKeySize  = ed25519.PublicKeySize
	PrivateKeySize = ed25519.SeedSize
	SignatureSize  = ed25519.SignatureSize
)

// ErrInvalidPublicKey is returned when bytes are not a valid curve point.
var ErrInvalidPublicKey = errors.New("invalid public key")

// PublicKey is an Ed25519 public key.
type PublicKey [PublicKeySize]byte

// PrivateKey is an Ed25519 private key seed.
type PrivateKey [PrivateKeySize]byte

// Signature is an Ed25519 signature.
type Signature [SignatureSize]byte

// GeneratePrivateKey creates a new private key from rand.
func GeneratePrivateKey(rand io.Reader) (PrivateKey, error) {
	var k PrivateKey
	if _, err := io.ReadFull(rand, k[:]); err != nil {
		return PrivateKey{}, fmt.Errorf("read key seed: %w", err)
	}
	return k, nil
}

// PublicKey derives the public key of k.
func (k PrivateKey) PublicKey() PublicKey {
	priv := ed25519.NewKeyFromSeed(k[:])
	var pk PublicKey
	copy(pk[:], priv.Public().(ed25519.PublicKey))
	return pk
}

// Sign signs msg with k.
func (k PrivateKey) Sign(msg []byte) Signature {
	var sig Signature
	copy(sig[:], ed25519.Sign(ed25519.NewKeyFromSeed(k[:]), msg))
	return sig
}

func (k PrivateKey) String() string {
	return encodeCheck(k[:])
}

// MarshalText implements encoding.TextMarshaler.
func (k PrivateKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PrivateKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePrivateKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParsePrivateKey decodes a base58check private key.
func ParsePrivateKey(s string) (PrivateKey, error) {
	var k PrivateKey
	if err := decodeCheck(k[:], s); err != nil {
		return PrivateKey{}, fmt.Errorf("parse private key: %w", err)
	}
	return k, nil
}

// PublicKeyFromBytes validates b as a compressed Edwards point.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	if len(b) != PublicKeySize {
		return PublicKey{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(b), PublicKeySize)
	}
	if _, err := new(edwards25519.Point).SetBytes(b); err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	var pk PublicKey
	copy(pk[:], b)
	return pk, nil
}

// ParsePublicKey decodes and validates a base58check public key.
func ParsePublicKey(s string) (PublicKey, error) {
	var raw [PublicKeySize]byte
	if err := decodeCheck(raw[:], s); err != nil {
		return PublicKey{}, fmt.Errorf("parse public key: %w", err)
	}
	return PublicKeyFromBytes(raw[:])
}

// Verify reports whether sig is a valid signature of msg by pk.
func (pk PublicKey) Verify(msg []byte, sig Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(pk[:]), msg, sig[:])
}

func (pk PublicKey) String() string {
	return encodeCheck(pk[:])
}

// MarshalText implements encoding.TextMarshaler.
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

func (s Signature) String() string {
	return encodeCheck(s[:])
}

// MarshalText implements encoding.TextMarshaler.
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Signature) UnmarshalText(text []byte) error {
	parsed, err := ParseSignature(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSignature decodes a base58check signature.
func ParseSignature(s string) (Signature, error) {
	var sig Signature
	if err := decodeCheck(sig[:], s); err != nil {
		return Signature{}, fmt.Errorf("parse signature: %w", err)
	}
	return sig, nil
}
