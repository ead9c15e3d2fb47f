package massa

import (
	"massa-autoroll/internal/domain"
)

// PubkeySig is the node's answer to node_sign_message.
type PubkeySig struct {
	PublicKey domain.PublicKey `json:"public_key"`
	Signature domain.Signature `json:"signature"`
}

// NodeConfig is the compact consensus configuration embedded in NodeStatus.
// Timestamps and t0 are in milliseconds.
type NodeConfig struct {
	GenesisTimestamp         uint64        `json:"genesis_timestamp"`
	EndTimestamp             *uint64       `json:"end_timestamp"`
	ThreadCount              uint8         `json:"thread_count"`
	T0                       uint64        `json:"t0"`
	DeltaF0                  uint64        `json:"delta_f0"`
	OperationValidityPeriods uint64        `json:"operation_validity_periods"`
	PeriodsPerCycle          uint64        `json:"periods_per_cycle"`
	PosLookbackCycles        uint64        `json:"pos_lookback_cycles"`
	PosLockCycles            uint64        `json:"pos_lock_cycles"`
	BlockReward              domain.Amount `json:"block_reward"`
	RollPrice                domain.Amount `json:"roll_price"`
}

// ConsensusStats summarises recent block production.
type ConsensusStats struct {
	StartTimespan       uint64 `json:"start_timespan"`
	EndTimespan         uint64 `json:"end_timespan"`
	FinalBlockCount     uint64 `json:"final_block_count"`
	FinalOperationCount uint64 `json:"final_operation_count"`
	StaleBlockCount     uint64 `json:"stale_block_count"`
	CliqueCount         uint64 `json:"clique_count"`
	StakerCount         uint64 `json:"staker_count"`
}

// PoolStats holds operation and endorsement pool sizes.
type PoolStats struct {
	OperationCount   uint64 `json:"operation_count"`
	EndorsementCount uint64 `json:"endorsement_count"`
}

// NetworkStats holds peer counters.
type NetworkStats struct {
	InConnectionCount  uint64 `json:"in_connection_count"`
	OutConnectionCount uint64 `json:"out_connection_count"`
	KnownPeerCount     uint64 `json:"known_peer_count"`
	BannedPeerCount    uint64 `json:"banned_peer_count"`
	ActiveNodeCount    uint64 `json:"active_node_count"`
}

// NodeStatus is the result of get_status.
type NodeStatus struct {
	NodeID         string            `json:"node_id"`
	NodeIP         *string           `json:"node_ip"`
	Version        string            `json:"version"`
	CurrentTime    uint64            `json:"current_time"`
	CurrentCycle   uint64            `json:"current_cycle"`
	ConnectedNodes map[string]string `json:"connected_nodes"`
	LastSlot       *domain.Slot      `json:"last_slot"`
	NextSlot       domain.Slot       `json:"next_slot"`
	ConsensusStats ConsensusStats    `json:"consensus_stats"`
	PoolStats      PoolStats         `json:"pool_stats"`
	NetworkStats   NetworkStats      `json:"network_stats"`
	Config         NodeConfig        `json:"config"`
}

// Clique is a maximal consistent set of blocks in the block graph.
type Clique struct {
	BlockIDs      []domain.BlockID `json:"block_ids"`
	Fitness       uint64           `json:"fitness"`
	IsBlockclique bool             `json:"is_blockclique"`
}

// LedgerData is one view of an address's balance.
type LedgerData struct {
	Balance domain.Amount `json:"balance"`
}

// LedgerInfo holds the candidate and final balances of an address.
type LedgerInfo struct {
	CandidateLedgerInfo LedgerData    `json:"candidate_ledger_info"`
	FinalLedgerInfo     LedgerData    `json:"final_ledger_info"`
	LockedBalance       domain.Amount `json:"locked_balance"`
}

// RollsInfo holds roll counts of an address.
type RollsInfo struct {
	ActiveRolls    uint64 `json:"active_rolls"`
	FinalRolls     uint64 `json:"final_rolls"`
	CandidateRolls uint64 `json:"candidate_rolls"`
}

// IndexedSlot is an endorsement draw: a slot plus the endorsement index.
type IndexedSlot struct {
	Slot  domain.Slot `json:"slot"`
	Index uint64      `json:"index"`
}

// ProductionStats counts blocks produced by an address in one cycle.
type ProductionStats struct {
	Cycle    uint64 `json:"cycle"`
	IsFinal  bool   `json:"is_final"`
	OkCount  uint64 `json:"ok_count"`
	NokCount uint64 `json:"nok_count"`
}

// AddressInfo is one element of the get_addresses result.
type AddressInfo struct {
	Address                domain.Address         `json:"address"`
	Thread                 uint8                  `json:"thread"`
	LedgerInfo             LedgerInfo             `json:"ledger_info"`
	Rolls                  RollsInfo              `json:"rolls"`
	BlockDraws             []domain.Slot          `json:"block_draws"`
	EndorsementDraws       []IndexedSlot          `json:"endorsement_draws"`
	BlocksCreated          []domain.BlockID       `json:"blocks_created"`
	InvolvedInEndorsements []domain.EndorsementID `json:"involved_in_endorsements"`
	InvolvedInOperations   []domain.OperationID   `json:"involved_in_operations"`
	ProductionStats        []ProductionStats      `json:"production_stats"`
}

// OperationInfo is one element of the get_operations result.
type OperationInfo struct {
	ID        domain.OperationID      `json:"id"`
	InPool    bool                    `json:"in_pool"`
	InBlocks  []domain.BlockID        `json:"in_blocks"`
	IsFinal   bool                    `json:"is_final"`
	Operation *domain.SignedOperation `json:"operation"`
}

// EndorsementContent is the unsigned part of an endorsement.
type EndorsementContent struct {
	SenderPublicKey domain.PublicKey `json:"sender_public_key"`
	Slot            domain.Slot      `json:"slot"`
	Index           uint32           `json:"index"`
	EndorsedBlock   domain.BlockID   `json:"endorsed_block"`
}

// Endorsement is a signed endorsement.
type Endorsement struct {
	Content   EndorsementContent `json:"content"`
	Signature domain.Signature   `json:"signature"`
}

// EndorsementInfo is one element of the get_endorsements result.
type EndorsementInfo struct {
	ID          domain.EndorsementID `json:"id"`
	InPool      bool                 `json:"in_pool"`
	InBlocks    []domain.BlockID     `json:"in_blocks"`
	IsFinal     bool                 `json:"is_final"`
	Endorsement Endorsement          `json:"endorsement"`
}

// BlockHeaderContent is the unsigned part of a block header.
type BlockHeaderContent struct {
	Creator             domain.PublicKey `json:"creator"`
	Slot                domain.Slot      `json:"slot"`
	Parents             []domain.BlockID `json:"parents"`
	OperationMerkleRoot string           `json:"operation_merkle_root"`
	Endorsements        []Endorsement    `json:"endorsements"`
}

// BlockHeader is a signed block header.
type BlockHeader struct {
	Content   BlockHeaderContent `json:"content"`
	Signature domain.Signature   `json:"signature"`
}

// Block is a header plus its operations.
type Block struct {
	Header     BlockHeader               `json:"header"`
	Operations []*domain.SignedOperation `json:"operations"`
}

// BlockInfoContent describes a known block.
type BlockInfoContent struct {
	IsFinal         bool  `json:"is_final"`
	IsStale         bool  `json:"is_stale"`
	IsInBlockclique bool  `json:"is_in_blockclique"`
	Block           Block `json:"block"`
}

// BlockInfo is the result of get_block. Content is nil for unknown blocks.
type BlockInfo struct {
	ID      domain.BlockID    `json:"id"`
	Content *BlockInfoContent `json:"content"`
}

// BlockSummary is one element of the get_graph_interval result.
type BlockSummary struct {
	ID              domain.BlockID   `json:"id"`
	IsFinal         bool             `json:"is_final"`
	IsStale         bool             `json:"is_stale"`
	IsInBlockclique bool             `json:"is_in_blockclique"`
	Slot            domain.Slot      `json:"slot"`
	Creator         domain.Address   `json:"creator"`
	Parents         []domain.BlockID `json:"parents"`
}

// TimeInterval bounds get_graph_interval in milliseconds. Start is
// inclusive, End exclusive; nil means unbounded.
type TimeInterval struct {
	Start *uint64 `json:"start"`
	End   *uint64 `json:"end"`
}
