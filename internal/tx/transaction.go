// Package tx implements the UTXO transaction model: inputs, outputs,
// content hashing, ed25519 signing and the two-stage validation pipeline
// (self-validation and previous-output validation) described in §3 and §4.3
// of the spec.
package tx

import (
	"crypto/ed25519"
	"crypto/sha256"
	"time"

	"ledgerbank/internal/codec"
	"ledgerbank/internal/identity"
)

// MaxMessageLen is the maximum number of Unicode code points allowed in a
// transaction's message field.
const MaxMessageLen = 140

// TxInput references one output of a previous transaction by its content
// hash and output index, mirroring that output's amount for validation.
type TxInput struct {
	Hash   string `json:"hash"`
	Index  int    `json:"index"`
	Amount int    `json:"amount"`
}

// TxOutput pays Amount to Address.
type TxOutput struct {
	Address string `json:"address"`
	Amount  int    `json:"amount"`
}

// Transaction is the UTXO transaction record. Its identity (Hash) is the
// SHA-256 of the canonical JSON of {inputs, outputs, message} only;
// Coinbase, Datetime, PubKey and Signature are derived/optional fields and
// are excluded from the content hash (§3, §9).
type Transaction struct {
	Inputs    []TxInput      `json:"inputs"`
	Outputs   []TxOutput     `json:"outputs"`
	Message   string         `json:"message"`
	Coinbase  *int           `json:"coinbase"`
	Datetime  *time.Time     `json:"datetime"`
	PubKey    codec.B64Bytes `json:"pubkey"`
	Signature codec.B64Bytes `json:"signature"`
}

// hashPayload is the explicit, hash-relevant field schema for a
// Transaction, per the design note on declaring serialization schemas
// explicitly rather than relying on reflection-style field harvesting.
type hashPayload struct {
	Inputs  []TxInput  `json:"inputs"`
	Outputs []TxOutput `json:"outputs"`
	Message string     `json:"message"`
}

// Hash returns the 32-byte content digest of tx. It never fails: the
// payload is a plain value type with no cyclical or unmarshalable fields.
func (t *Transaction) Hash() []byte {
	raw, err := codec.CanonicalJSON(hashPayload{Inputs: t.Inputs, Outputs: t.Outputs, Message: t.Message})
	if err != nil {
		panic(err)
	}
	sum := sha256.Sum256(raw)
	return sum[:]
}

// IsCoinbase reports whether tx mints new value for a block rather than
// spending prior outputs.
func (t *Transaction) IsCoinbase() bool {
	return t.Coinbase != nil
}

// Sign populates PubKey and Signature over Hash() using priv.
func (t *Transaction) Sign(priv ed25519.PrivateKey) {
	t.PubKey = codec.B64Bytes(priv.Public().(ed25519.PublicKey))
	t.Signature = codec.B64Bytes(ed25519.Sign(priv, t.Hash()))
}

// FromAddress returns the spender's address, derived from PubKey. It is
// defined for any signed transaction, coinbase or not: the coinbase is
// signed by the miner during block assembly (§4.4).
func (t *Transaction) FromAddress() string {
	return identity.AddressOf(t.PubKey)
}

// ToAddresses returns the set of addresses targeted by tx's outputs.
func (t *Transaction) ToAddresses() []string {
	addrs := make([]string, len(t.Outputs))
	for i, o := range t.Outputs {
		addrs[i] = o.Address
	}
	return addrs
}

// TotalOut returns the sum of all output amounts.
func (t *Transaction) TotalOut() int {
	total := 0
	for _, o := range t.Outputs {
		total += o.Amount
	}
	return total
}

// Received returns the sum of output amounts paid to addr (zero if none).
func (t *Transaction) Received(addr string) int {
	total := 0
	for _, o := range t.Outputs {
		if o.Address == addr {
			total += o.Amount
		}
	}
	return total
}

// Sent returns the net amount tx moves out of its spender's control: the
// total paid out minus whatever change comes back to the spender.
func (t *Transaction) Sent() int {
	return t.TotalOut() - t.Received(t.FromAddress())
}

// TotalIn returns the sum of all input amounts.
func (t *Transaction) TotalIn() int {
	total := 0
	for _, i := range t.Inputs {
		total += i.Amount
	}
	return total
}
