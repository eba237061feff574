package ledger_test

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"ledgerbank/internal/block"
	"ledgerbank/internal/codec"
	"ledgerbank/internal/identity"
	"ledgerbank/internal/ledger"
	"ledgerbank/internal/tx"
)

// memStore is a trivial in-memory ChainStore for tests, grounded on the
// same Load/Save contract as JSONStore but without touching disk.
type memStore struct {
	blocks map[int]*block.Block
}

func newMemStore() *memStore { return &memStore{blocks: map[int]*block.Block{}} }

func (m *memStore) Load() (map[int]*block.Block, error) {
	out := make(map[int]*block.Block, len(m.blocks))
	for n, b := range m.blocks {
		out[n] = b
	}
	return out, nil
}

func (m *memStore) Save(blocks map[int]*block.Block) error {
	m.blocks = make(map[int]*block.Block, len(blocks))
	for n, b := range blocks {
		m.blocks[n] = b
	}
	return nil
}

func genKey(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return pub, priv
}

func TestSealCurrentBlockMintsCoinbaseAndIndexes(t *testing.T) {
	_, minerPriv := genKey(t)
	l := ledger.New(newMemStore(), minerPriv, 1, 1000)

	sealed, err := l.SealCurrentBlock(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, sealed.Header.Num)

	minerAddr := identity.AddressOf(minerPriv.Public().(ed25519.PublicKey))
	require.Equal(t, 1000, l.Balance(minerAddr))
}

func TestSubmitRejectsDoubleSpend(t *testing.T) {
	_, minerPriv := genKey(t)
	l := ledger.New(newMemStore(), minerPriv, 1, 1000)

	_, err := l.SealCurrentBlock(context.Background())
	require.NoError(t, err)

	bPub, bPriv := genKey(t)
	bAddr := identity.AddressOf(bPub)

	genesis, ok := l.Block(0)
	require.True(t, ok)
	coinbaseHash := genesis.Coinbase.Hash()

	send := func() *tx.Transaction {
		txn := &tx.Transaction{
			Inputs:  []tx.TxInput{{Hash: codec.ToB64(coinbaseHash), Index: 0, Amount: 1000}},
			Outputs: []tx.TxOutput{{Address: bAddr, Amount: 1000}},
			Message: "to b",
		}
		txn.Sign(minerPriv)
		return txn
	}

	require.NoError(t, l.Submit(send()))
	err = l.Submit(send())
	require.Error(t, err)
	require.Equal(t, "this hash is already spent", err.(*tx.InvalidError).Reason)

	require.Equal(t, 1000, l.Balance(bAddr))
	_ = bPriv
}



func TestReloadRebuildsIndicesFromStore(t *testing.T) {
	_, minerPriv := genKey(t)
	st := newMemStore()
	l := ledger.New(st, minerPriv, 1, 500)

	_, err := l.SealCurrentBlock(context.Background())
	require.NoError(t, err)

	l2 := ledger.New(st, minerPriv, 1, 500)
	require.NoError(t, l2.Reload())

	minerAddr := identity.AddressOf(minerPriv.Public().(ed25519.PublicKey))
	require.Equal(t, 500, l2.Balance(minerAddr))
	require.Len(t, l2.History(minerAddr), 1)
}
