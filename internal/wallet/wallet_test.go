package wallet

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"massa-autoroll/internal/domain"
)

func testKeys(n int) []domain.PrivateKey {
	keys := make([]domain.PrivateKey, n)
	for i := range keys {
		keys[i][0] = byte(i + 1)
	}
	return keys
}

func writeWallet(t *testing.T, keys []domain.PrivateKey) string {
	t.Helper()
	data, err := json.Marshal(keys)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoad(t *testing.T) {
	keys := testKeys(3)
	w, err := Load(writeWallet(t, keys))
	require.NoError(t, err)

	addrs := w.Addresses()
	require.Len(t, addrs, 3)
	for i := 1; i < len(addrs); i++ {
		assert.Negative(t, bytes.Compare(addrs[i-1][:], addrs[i][:]), "addresses not sorted")
	}

	for _, k := range keys {
		addr := domain.AddressFromPublicKey(k.PublicKey())
		pub, ok := w.FindAssociatedPublicKey(addr)
		require.True(t, ok)
		assert.Equal(t, k.PublicKey(), pub)
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.dat"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.dat")
	require.NoError(t, os.WriteFile(path, []byte(`["not-a-key"]`), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	w, err := Parse([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, w.Addresses())
}

func TestFindAssociatedPublicKey_Unknown(t *testing.T) {
	w := New(testKeys(1)...)

	_, ok := w.FindAssociatedPublicKey(domain.Address{0xff})
	assert.False(t, ok)
}

func TestSignOperation(t *testing.T) {
	keys := testKeys(2)
	w := New(keys...)
	addr := domain.AddressFromPublicKey(keys[1].PublicKey())

	content := domain.OperationContent{
		SenderPublicKey: keys[1].PublicKey(),
		Fee:             domain.AmountFromRaw(1),
		ExpirePeriod:    42,
		Op:              domain.RollBuy{RollCount: 1},
	}
	op, err := w.SignOperation(content, addr)
	require.NoError(t, err)
	assert.True(t, op.Verify())
	assert.Equal(t, uint64(42), op.Content.ExpirePeriod)

	_, err = w.SignOperation(content, domain.Address{0xff})
	assert.ErrorIs(t, err, ErrUnknownAddress)

	other := domain.AddressFromPublicKey(keys[0].PublicKey())
	_, err = w.SignOperation(content, other)
	assert.ErrorIs(t, err, domain.ErrKeyMismatch)
}

func TestConcurrentSigning(t *testing.T) {
	keys := testKeys(4)
	w := New(keys...)

	var wg sync.WaitGroup
	for _, k := range keys {
		wg.Add(1)
		go func(k domain.PrivateKey) {
			defer wg.Done()
			addr := domain.AddressFromPublicKey(k.PublicKey())
			pub, ok := w.FindAssociatedPublicKey(addr)
			if !assert.True(t, ok) {
				return
			}
			_, err := w.SignOperation(domain.OperationContent{
				SenderPublicKey: pub,
				Op:              domain.RollBuy{RollCount: 1},
			}, addr)
			assert.NoError(t, err)
		}(k)
	}
	wg.Wait()
}
