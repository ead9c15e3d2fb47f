package domain

// SubmittedOperation is a journal entry for an operation accepted by a node.
type SubmittedOperation struct {
	OperationID  string // base58check OperationID, primary key
	Address      string // sender address
	OpType       string // OperationType name, e.g. "RollBuy"
	RollCount    uint64 // rolls bought or sold, 0 for other types
	FeeRaw       uint64
	ExpirePeriod uint64
	SubmittedAt  int64 // Unix ms
}

// AddressSnapshot is the state of an address observed at one point in time.
type AddressSnapshot struct {
	SnapshotID          string // deterministic, see idhash.ComputeSnapshotID
	Address             string
	TimestampMs         int64
	Thread              uint8
	FinalBalanceRaw     uint64
	CandidateBalanceRaw uint64
	ActiveRolls         uint64
	FinalRolls          uint64
	CandidateRolls      uint64
}
