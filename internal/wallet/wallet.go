// Package wallet provides a read-only key store loaded from a wallet file.
package wallet

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"massa-autoroll/internal/domain"
)

// DefaultPath is the wallet file read when no path is configured.
const DefaultPath = "wallet.dat"

// ErrUnknownAddress is returned when signing for an address without a key.
var ErrUnknownAddress = errors.New("address not in wallet")

// Wallet maps addresses to their keys. Safe for concurrent use.
type Wallet struct {
	mu   sync.RWMutex
	keys map[domain.Address]domain.PrivateKey
}

// New creates a wallet holding keys.
func New(keys ...domain.PrivateKey) *Wallet {
	w := &Wallet{keys: make(map[domain.Address]domain.PrivateKey, len(keys))}
	for _, k := range keys {
		w.keys[domain.AddressFromPublicKey(k.PublicKey())] = k
	}
	return w
}

// Load reads a wallet file: a JSON array of base58check private keys.
func Load(path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	w, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse wallet %s: %w", path, err)
	}
	return w, nil
}

// Parse decodes wallet file contents.
func Parse(data []byte) (*Wallet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return New(), nil
	}
	var keys []domain.PrivateKey
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, err
	}
	return New(keys...), nil
}

// Addresses returns every address in the wallet, sorted.
func (w *Wallet) Addresses() []domain.Address {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]domain.Address, 0, len(w.keys))
	for a := range w.keys {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}

// FindAssociatedPublicKey returns the public key owning addr.
func (w *Wallet) FindAssociatedPublicKey(addr domain.Address) (domain.PublicKey, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	key, ok := w.keys[addr]
	if !ok {
		return domain.PublicKey{}, false
	}
	return key.PublicKey(), true
}

// SignOperation signs content with the key owning addr.
func (w *Wallet) SignOperation(content domain.OperationContent, addr domain.Address) (*domain.SignedOperation, error) {
	w.mu.RLock()
	key, ok := w.keys[addr]
	w.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAddress, addr)
	}
	return domain.SignOperation(content, key)
}
