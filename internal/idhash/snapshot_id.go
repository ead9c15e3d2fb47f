package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeSnapshotID computes a deterministic snapshot_id using SHA256.
// Formula: SHA256(address|timestamp_ms)
// Returns hex-encoded hash (64 characters).
func ComputeSnapshotID(address string, timestampMs int64) string {
	data := fmt.Sprintf("%s|%d", address, timestampMs)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
