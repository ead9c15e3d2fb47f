package massa

import (
	"context"
	"encoding/json"
	"net/netip"

	"massa-autoroll/internal/domain"
)

// Client is the typed catalogue of node RPC methods.
// Each method is a single round trip over the shared Transport; nothing is
// retried.
type Client struct {
	transport Transport
}

// NewClient wraps an already connected transport.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// Transport returns the underlying transport.
func (c *Client) Transport() Transport {
	return c.transport
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.transport.Close()
}

// call discards a null result.
func (c *Client) call(ctx context.Context, method string, params ...any) error {
	_, err := Call[json.RawMessage](ctx, c.transport, method, params...)
	return err
}

// Node control.

// StopNode gracefully stops the node.
func (c *Client) StopNode(ctx context.Context) error {
	return c.call(ctx, "stop_node")
}

// NodeSignMessage signs message with the node's key.
func (c *Client) NodeSignMessage(ctx context.Context, message []byte) (PubkeySig, error) {
	return Call[PubkeySig](ctx, c.transport, "node_sign_message", domain.Bytes(nonNil(message)))
}

// AddStakingPrivateKeys hands new staking keys to the node. No confirmation is returned.
func (c *Client) AddStakingPrivateKeys(ctx context.Context, keys []domain.PrivateKey) error {
	return c.call(ctx, "add_staking_private_keys", nonNil(keys))
}

// RemoveStakingAddresses stops staking with the given addresses.
func (c *Client) RemoveStakingAddresses(ctx context.Context, addrs []domain.Address) error {
	return c.call(ctx, "remove_staking_addresses", nonNil(addrs))
}

// GetStakingAddresses returns the set of addresses the node stakes with.
func (c *Client) GetStakingAddresses(ctx context.Context) ([]domain.Address, error) {
	addrs, err := Call[[]domain.Address](ctx, c.transport, "get_staking_addresses")
	return nonNil(addrs), err
}

// Ban bans peers by IP.
func (c *Client) Ban(ctx context.Context, ips []netip.Addr) error {
	return c.call(ctx, "ban", nonNil(ips))
}

// Unban lifts bans on the given IPs.
func (c *Client) Unban(ctx context.Context, ips []netip.Addr) error {
	return c.call(ctx, "unban", nonNil(ips))
}

// Explorer.

// GetStatus returns node status including its consensus configuration.
func (c *Client) GetStatus(ctx context.Context) (*NodeStatus, error) {
	status, err := Call[NodeStatus](ctx, c.transport, "get_status")
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// GetCliques returns the current cliques of the block graph.
func (c *Client) GetCliques(ctx context.Context) ([]Clique, error) {
	return Call[[]Clique](ctx, c.transport, "get_cliques")
}

// GetStakers returns active stakers and their roll counts for the current cycle.
func (c *Client) GetStakers(ctx context.Context) (map[domain.Address]uint64, error) {
	stakers, err := Call[map[domain.Address]uint64](ctx, c.transport, "get_stakers")
	if err == nil && stakers == nil {
		stakers = map[domain.Address]uint64{}
	}
	return stakers, err
}

// GetOperations looks up operations by id.
func (c *Client) GetOperations(ctx context.Context, ids []domain.OperationID) ([]OperationInfo, error) {
	return Call[[]OperationInfo](ctx, c.transport, "get_operations", nonNil(ids))
}

// GetEndorsements looks up endorsements by id.
func (c *Client) GetEndorsements(ctx context.Context, ids []domain.EndorsementID) ([]EndorsementInfo, error) {
	return Call[[]EndorsementInfo](ctx, c.transport, "get_endorsements", nonNil(ids))
}

// GetBlock returns information on a block.
func (c *Client) GetBlock(ctx context.Context, id domain.BlockID) (*BlockInfo, error) {
	info, err := Call[BlockInfo](ctx, c.transport, "get_block", id)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// GetGraphInterval returns the block graph within interval.
func (c *Client) GetGraphInterval(ctx context.Context, interval TimeInterval) ([]BlockSummary, error) {
	return Call[[]BlockSummary](ctx, c.transport, "get_graph_interval", interval)
}

// GetAddresses returns ledger, roll and production info per address.
func (c *Client) GetAddresses(ctx context.Context, addrs []domain.Address) ([]AddressInfo, error) {
	return Call[[]AddressInfo](ctx, c.transport, "get_addresses", nonNil(addrs))
}

// User actions.

// SendOperations adds operations to the node's pool and returns the ids
// the node accepted. Acceptance does not imply inclusion in a block.
func (c *Client) SendOperations(ctx context.Context, ops []*domain.SignedOperation) ([]domain.OperationID, error) {
	if len(ops) == 0 {
		return []domain.OperationID{}, nil
	}
	ids, err := Call[[]domain.OperationID](ctx, c.transport, "send_operations", ops)
	if err != nil {
		return nil, err
	}
	return nonNil(ids), nil
}

// nonNil keeps list params encoded as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
