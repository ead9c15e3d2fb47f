package massa

import (
	"context"
	"net/netip"

	"massa-autoroll/internal/domain"
)

// NodeControl groups the node's private methods. Authorization is enforced
// by the node, not here.
type NodeControl interface {
	StopNode(ctx context.Context) error
	NodeSignMessage(ctx context.Context, message []byte) (PubkeySig, error)
	AddStakingPrivateKeys(ctx context.Context, keys []domain.PrivateKey) error
	RemoveStakingAddresses(ctx context.Context, addrs []domain.Address) error
	GetStakingAddresses(ctx context.Context) ([]domain.Address, error)
	Ban(ctx context.Context, ips []netip.Addr) error
	Unban(ctx context.Context, ips []netip.Addr) error
}

// StatusFetcher returns the node status.
type StatusFetcher interface {
	GetStatus(ctx context.Context) (*NodeStatus, error)
}

// AddressReader returns address info.
type AddressReader interface {
	GetAddresses(ctx context.Context, addrs []domain.Address) ([]AddressInfo, error)
}

// Explorer groups the public read-only methods.
type Explorer interface {
	StatusFetcher
	AddressReader
	GetCliques(ctx context.Context) ([]Clique, error)
	GetStakers(ctx context.Context) (map[domain.Address]uint64, error)
	GetOperations(ctx context.Context, ids []domain.OperationID) ([]OperationInfo, error)
	GetEndorsements(ctx context.Context, ids []domain.EndorsementID) ([]EndorsementInfo, error)
	GetBlock(ctx context.Context, id domain.BlockID) (*BlockInfo, error)
	GetGraphInterval(ctx context.Context, interval TimeInterval) ([]BlockSummary, error)
}

// Submitter submits signed operations.
type Submitter interface {
	SendOperations(ctx context.Context, ops []*domain.SignedOperation) ([]domain.OperationID, error)
}

// API is the full method catalogue.
type API interface {
	NodeControl
	Explorer
	Submitter
}

var _ API = (*Client)(nil)
