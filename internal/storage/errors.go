package storage

import "errors"

// Journal and snapshot store errors.
var (
	// ErrNotFound is returned when no record matches the lookup key.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an operation id or snapshot id is
	// already stored. Records are never overwritten.
	ErrDuplicateKey = errors.New("duplicate key: record already stored")

	// ErrInvalidInput is returned for nil records, empty keys or values
	// the backend cannot represent.
	ErrInvalidInput = errors.New("invalid input")
)
