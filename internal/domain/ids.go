package domain

import (
	"fmt"

	"massa-autoroll/internal/idhash"
)

// BlockID identifies a block by content hash.
type BlockID [idhash.Size]byte

// OperationID identifies an operation by the hash of its signed bytes.
type OperationID [idhash.Size]byte

// EndorsementID identifies an endorsement.
type EndorsementID [idhash.Size]byte

func (id BlockID) String() string { return encodeCheck(id[:]) }

// MarshalText implements encoding.TextMarshaler.
func (id BlockID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *BlockID) UnmarshalText(text []byte) error {
	if err := decodeCheck(id[:], string(text)); err != nil {
		return fmt.Errorf("parse block id: %w", err)
	}
	return nil
}

// ParseBlockID decodes a base58check block id.
func ParseBlockID(s string) (BlockID, error) {
	var id BlockID
	err := id.UnmarshalText([]byte(s))
	return id, err
}

func (id OperationID) String() string { return encodeCheck(id[:]) }

// MarshalText implements encoding.TextMarshaler.
func (id OperationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *OperationID) UnmarshalText(text []byte) error {
	if err := decodeCheck(id[:], string(text)); err != nil {
		return fmt.Errorf("parse operation id: %w", err)
	}
	return nil
}

// ParseOperationID decodes a base58check operation id.
func ParseOperationID(s string) (OperationID, error) {
	var id OperationID
	err := id.UnmarshalText([]byte(s))
	return id, err
}

func (id EndorsementID) String() string { return encodeCheck(id[:]) }

// MarshalText implements encoding.TextMarshaler.
func (id EndorsementID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *EndorsementID) UnmarshalText(text []byte) error {
	if err := decodeCheck(id[:], string(text)); err != nil {
		return fmt.Errorf("parse endorsement id: %w", err)
	}
	return nil
}

// ParseEndorsementID decodes a base58check endorsement id.
func ParseEndorsementID(s string) (EndorsementID, error) {
	var id EndorsementID
	err := id.UnmarshalText([]byte(s))
	return id, err
}
