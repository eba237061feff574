package tx_test

import (
	"crypto/ed25519"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ledgerbank/internal/codec"
	"ledgerbank/internal/identity"
	"ledgerbank/internal/tx"
)

func newSignedTx(t *testing.T, priv ed25519.PrivateKey, inputs []tx.TxInput, outputs []tx.TxOutput, coinbase *int, msg string) *tx.Transaction {
	t.Helper()
	txn := &tx.Transaction{Inputs: inputs, Outputs: outputs, Message: msg, Coinbase: coinbase}
	txn.Sign(priv)
	return txn
}

func TestHashStableAcrossEncodeDecode(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	addr := identity.AddressOf(pub)

	txn := newSignedTx(t, priv, nil, []tx.TxOutput{{Address: addr, Amount: 10}}, intPtr(0), "hi")
	want := txn.Hash()

	raw, err := json.Marshal(txn)
	require.NoError(t, err)
	var roundTripped tx.Transaction
	require.NoError(t, json.Unmarshal(raw, &roundTripped))

	require.Equal(t, want, roundTripped.Hash())
}

func TestValidateCoinbaseVsRegular(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	num := 0
	coinbase := newSignedTx(t, priv, nil, []tx.TxOutput{{Address: "addr", Amount: 1000}}, &num, "coinbase 0")
	require.NoError(t, coinbase.Validate())

	withInputs := newSignedTx(t, priv, []tx.TxInput{{Hash: "x", Index: 0, Amount: 1}}, []tx.TxOutput{{Address: "addr", Amount: 1}}, &num, "bad")
	err = withInputs.Validate()
	require.Error(t, err)
	require.Equal(t, "inputs in coinbase", err.(*tx.InvalidError).Reason)

	noInputs := newSignedTx(t, priv, nil, []tx.TxOutput{{Address: "addr", Amount: 1}}, nil, "bad")
	err = noInputs.Validate()
	require.Error(t, err)
	require.Equal(t, "no inputs", err.(*tx.InvalidError).Reason)
}

func TestValidateMessageLength(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	ok := newSignedTx(t, priv, []tx.TxInput{{Hash: "a", Index: 0, Amount: 5}}, []tx.TxOutput{{Address: "b", Amount: 5}}, nil, strings.Repeat("x", 140))
	require.NoError(t, ok.Validate())

	tooLong := newSignedTx(t, priv, []tx.TxInput{{Hash: "a", Index: 0, Amount: 5}}, []tx.TxOutput{{Address: "b", Amount: 5}}, nil, strings.Repeat("x", 141))
	err = tooLong.Validate()
	require.Error(t, err)
	require.Equal(t, "message too long", err.(*tx.InvalidError).Reason)
}

func TestValidateDuplicateInputsAndOutputs(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	dupIn := newSignedTx(t, priv,
		[]tx.TxInput{{Hash: "a", Index: 0, Amount: 5}, {Hash: "a", Index: 1, Amount: 5}},
		[]tx.TxOutput{{Address: "b", Amount: 10}}, nil, "")
	err = dupIn.Validate()
	require.Error(t, err)
	require.Equal(t, "input txes must not repeat", err.(*tx.InvalidError).Reason)

	dupOut := newSignedTx(t, priv,
		[]tx.TxInput{{Hash: "a", Index: 0, Amount: 10}},
		[]tx.TxOutput{{Address: "b", Amount: 5}, {Address: "b", Amount: 5}}, nil, "")
	err = dupOut.Validate()
	require.Error(t, err)
	require.Equal(t, "duplicate output address", err.(*tx.InvalidError).Reason)
}

func TestValidateConservationOfValue(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	mismatched := newSignedTx(t, priv,
		[]tx.TxInput{{Hash: "a", Index: 0, Amount: 300}},
		[]tx.TxOutput{{Address: "b", Amount: 299}}, nil, "")
	err = mismatched.Validate()
	require.Error(t, err)
	require.Equal(t, "mismatched in/out", err.(*tx.InvalidError).Reason)
}

func TestValidateBadSignature(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	txn := newSignedTx(t, priv,
		[]tx.TxInput{{Hash: "a", Index: 0, Amount: 5}},
		[]tx.TxOutput{{Address: "b", Amount: 5}}, nil, "")
	txn.Signature[0] ^= 0xFF

	err = txn.Validate()
	require.Error(t, err)
	require.Equal(t, "signature verification failed", err.(*tx.InvalidError).Reason)
}

func TestValidatePreviousNoStealingAndMissing(t *testing.T) {
	_, ownerPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	ownerPub := ownerPriv.Public().(ed25519.PublicKey)
	ownerAddr := identity.AddressOf(ownerPub)

	_, thiefPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	prev := newSignedTx(t, ownerPriv, nil, []tx.TxOutput{{Address: ownerAddr, Amount: 100}}, intPtr(0), "coinbase 0")
	prevHash := codec.ToB64(prev.Hash())

	index := map[string]*tx.Transaction{prevHash: prev}

	stolen := newSignedTx(t, thiefPriv,
		[]tx.TxInput{{Hash: prevHash, Index: 0, Amount: 100}},
		[]tx.TxOutput{{Address: "someone", Amount: 100}}, nil, "")
	err = stolen.ValidatePrevious(index)
	require.Error(t, err)
	require.Equal(t, "no stealing", err.(*tx.InvalidError).Reason)

	missing := newSignedTx(t, ownerPriv,
		[]tx.TxInput{{Hash: "does-not-exist", Index: 0, Amount: 100}},
		[]tx.TxOutput{{Address: "someone", Amount: 100}}, nil, "")
	err = missing.ValidatePrevious(index)
	require.Error(t, err)
	require.Equal(t, "previous tx missing", err.(*tx.InvalidError).Reason)

	spend := newSignedTx(t, ownerPriv,
		[]tx.TxInput{{Hash: prevHash, Index: 0, Amount: 100}},
		[]tx.TxOutput{{Address: "someone", Amount: 100}}, nil, "")
	require.NoError(t, spend.ValidatePrevious(index))
}

func intPtr(v int) *int { return &v }
