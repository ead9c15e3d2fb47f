package stub

import (
	"context"
	"errors"
	"net/netip"
	"sync"

	"massa-autoroll/internal/domain"
	"massa-autoroll/internal/massa"
)

// ErrNotFound is returned when a block is not found.
var ErrNotFound = errors.New("not found")

// Node implements massa.API in memory for testing.
// Set Err to make every call fail with an RPCError wrapping it.
type Node struct {
	mu sync.Mutex

	Status       massa.NodeStatus
	Addresses    map[domain.Address]massa.AddressInfo
	Stakers      map[domain.Address]uint64
	Cliques      []massa.Clique
	Blocks       map[domain.BlockID]massa.BlockInfo
	Operations   map[domain.OperationID]massa.OperationInfo
	Endorsements map[domain.EndorsementID]massa.EndorsementInfo
	Graph        []massa.BlockSummary

	StakingKeys map[domain.Address]domain.PrivateKey
	Banned      map[netip.Addr]bool
	Stopped     bool
	NodeKey     domain.PrivateKey

	// Reject, when set, decides which submitted operations are refused.
	Reject func(op *domain.SignedOperation) bool
	// Sent holds every accepted operation in submission order.
	Sent []*domain.SignedOperation

	Err   error
	Calls []string
}

// NewNode creates a stub node with the given consensus configuration.
func NewNode(cfg massa.NodeConfig) *Node {
	return &Node{
		Status:       massa.NodeStatus{NodeID: "stub", Version: "STUB.0.0", Config: cfg},
		Addresses:    make(map[domain.Address]massa.AddressInfo),
		Stakers:      make(map[domain.Address]uint64),
		Blocks:       make(map[domain.BlockID]massa.BlockInfo),
		Operations:   make(map[domain.OperationID]massa.OperationInfo),
		Endorsements: make(map[domain.EndorsementID]massa.EndorsementInfo),
		StakingKeys:  make(map[domain.Address]domain.PrivateKey),
		Banned:       make(map[netip.Addr]bool),
	}
}

// AddAddress registers address info returned by GetAddresses.
func (n *Node) AddAddress(info massa.AddressInfo) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Addresses[info.Address] = info
}

// SentOperations returns a copy of the accepted operations.
func (n *Node) SentOperations() []*domain.SignedOperation {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*domain.SignedOperation, len(n.Sent))
	copy(out, n.Sent)
	return out
}

// CallCount returns how many calls were made to method.
func (n *Node) CallCount(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, c := range n.Calls {
		if c == method {
			count++
		}
	}
	return count
}

// begin records the call and returns the configured failure.
func (n *Node) begin(method string) error {
	n.Calls = append(n.Calls, method)
	if n.Err != nil {
		return &massa.RPCError{Method: method, Message: n.Err.Error(), Err: n.Err}
	}
	return nil
}

// StopNode marks the node stopped.
func (n *Node) StopNode(_ context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("stop_node"); err != nil {
		return err
	}
	n.Stopped = true
	return nil
}

// NodeSignMessage signs message with NodeKey.
func (n *Node) NodeSignMessage(_ context.Context, message []byte) (massa.PubkeySig, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("node_sign_message"); err != nil {
		return massa.PubkeySig{}, err
	}
	return massa.PubkeySig{PublicKey: n.NodeKey.PublicKey(), Signature: n.NodeKey.Sign(message)}, nil
}

// AddStakingPrivateKeys stores keys by derived address.
func (n *Node) AddStakingPrivateKeys(_ context.Context, keys []domain.PrivateKey) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("add_staking_private_keys"); err != nil {
		return err
	}
	for _, k := range keys {
		n.StakingKeys[domain.AddressFromPublicKey(k.PublicKey())] = k
	}
	return nil
}

// RemoveStakingAddresses drops staking keys.
func (n *Node) RemoveStakingAddresses(_ context.Context, addrs []domain.Address) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("remove_staking_addresses"); err != nil {
		return err
	}
	for _, a := range addrs {
		delete(n.StakingKeys, a)
	}
	return nil
}

// GetStakingAddresses returns addresses with staking keys.
func (n *Node) GetStakingAddresses(_ context.Context) ([]domain.Address, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("get_staking_addresses"); err != nil {
		return nil, err
	}
	out := make([]domain.Address, 0, len(n.StakingKeys))
	for a := range n.StakingKeys {
		out = append(out, a)
	}
	return out, nil
}

// Ban records banned IPs.
func (n *Node) Ban(_ context.Context, ips []netip.Addr) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("ban"); err != nil {
		return err
	}
	for _, ip := range ips {
		n.Banned[ip] = true
	}
	return nil
}

// Unban removes IPs from the ban list.
func (n *Node) Unban(_ context.Context, ips []netip.Addr) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("unban"); err != nil {
		return err
	}
	for _, ip := range ips {
		delete(n.Banned, ip)
	}
	return nil
}

// GetStatus returns a copy of Status.
func (n *Node) GetStatus(_ context.Context) (*massa.NodeStatus, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("get_status"); err != nil {
		return nil, err
	}
	status := n.Status
	return &status, nil
}

// GetCliques returns Cliques.
func (n *Node) GetCliques(_ context.Context) ([]massa.Clique, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("get_cliques"); err != nil {
		return nil, err
	}
	return append([]massa.Clique{}, n.Cliques...), nil
}

// GetStakers returns a copy of Stakers.
func (n *Node) GetStakers(_ context.Context) (map[domain.Address]uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("get_stakers"); err != nil {
		return nil, err
	}
	out := make(map[domain.Address]uint64, len(n.Stakers))
	for a, r := range n.Stakers {
		out[a] = r
	}
	return out, nil
}

// GetOperations returns known operations; unknown ids are skipped.
func (n *Node) GetOperations(_ context.Context, ids []domain.OperationID) ([]massa.OperationInfo, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("get_operations"); err != nil {
		return nil, err
	}
	out := make([]massa.OperationInfo, 0, len(ids))
	for _, id := range ids {
		if info, ok := n.Operations[id]; ok {
			out = append(out, info)
		}
	}
	return out, nil
}

// GetEndorsements returns known endorsements; unknown ids are skipped.
func (n *Node) GetEndorsements(_ context.Context, ids []domain.EndorsementID) ([]massa.EndorsementInfo, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("get_endorsements"); err != nil {
		return nil, err
	}
	out := make([]massa.EndorsementInfo, 0, len(ids))
	for _, id := range ids {
		if info, ok := n.Endorsements[id]; ok {
			out = append(out, info)
		}
	}
	return out, nil
}

// GetBlock returns a block or BlockInfo with nil content.
func (n *Node) GetBlock(_ context.Context, id domain.BlockID) (*massa.BlockInfo, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("get_block"); err != nil {
		return nil, err
	}
	info, ok := n.Blocks[id]
	if !ok {
		return &massa.BlockInfo{ID: id}, nil
	}
	return &info, nil
}

// GetGraphInterval returns Graph regardless of interval.
func (n *Node) GetGraphInterval(_ context.Context, _ massa.TimeInterval) ([]massa.BlockSummary, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("get_graph_interval"); err != nil {
		return nil, err
	}
	return append([]massa.BlockSummary{}, n.Graph...), nil
}

// GetAddresses returns registered info; unknown addresses get an empty entry.
func (n *Node) GetAddresses(_ context.Context, addrs []domain.Address) ([]massa.AddressInfo, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("get_addresses"); err != nil {
		return nil, err
	}
	out := make([]massa.AddressInfo, 0, len(addrs))
	for _, a := range addrs {
		info, ok := n.Addresses[a]
		if !ok {
			info = massa.AddressInfo{Address: a, Thread: a.Thread(n.Status.Config.ThreadCount)}
		}
		out = append(out, info)
	}
	return out, nil
}

// SendOperations accepts every operation not refused by Reject.
func (n *Node) SendOperations(_ context.Context, ops []*domain.SignedOperation) ([]domain.OperationID, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("send_operations"); err != nil {
		return nil, err
	}
	ids := make([]domain.OperationID, 0, len(ops))
	for _, op := range ops {
		if n.Reject != nil && n.Reject(op) {
			continue
		}
		n.Sent = append(n.Sent, op)
		n.Operations[op.ID] = massa.OperationInfo{ID: op.ID, InPool: true, Operation: op}
		ids = append(ids, op.ID)
	}
	return ids, nil
}

var _ massa.API = (*Node)(nil)
