// Package block assembles blocks: a coinbase plus a set of pending
// transactions, sealed under a proof-of-work target and signed by the
// miner, chained to its predecessor by header hash (§4.4).
package block

import (
	"crypto/ed25519"
	"crypto/sha256"

	"ledgerbank/internal/codec"
)

// BlockHeader is the sealed, content-addressed header of a block.
type BlockHeader struct {
	Num          int            `json:"num"`
	PubKey       codec.B64Bytes `json:"pubkey"`
	Reward       int            `json:"reward"`
	TxHashes     string         `json:"tx_hashes"`
	CoinbaseHash string         `json:"coinbase_hash"`
	PrevHash     string         `json:"prev_hash"`
	Nonce        codec.B64Bytes `json:"nonce"`
	Signature    codec.B64Bytes `json:"signature"`
	Mined        bool           `json:"mined"`
}

// headerHashPayload is the explicit non-nonce, non-signature, non-mined
// field schema hashed into a header's identity (§3: "Identity = SHA-256
// over canonical JSON of the non-nonce fields concatenated with the raw
// nonce bytes").
type headerHashPayload struct {
	Num          int            `json:"num"`
	PubKey       codec.B64Bytes `json:"pubkey"`
	Reward       int            `json:"reward"`
	TxHashes     string         `json:"tx_hashes"`
	CoinbaseHash string         `json:"coinbase_hash"`
	PrevHash     string         `json:"prev_hash"`
}

// Hash returns the 32-byte content digest of the header.
func (h *BlockHeader) Hash() []byte {
	raw, err := codec.CanonicalJSON(headerHashPayload{
		Num:          h.Num,
		PubKey:       h.PubKey,
		Reward:       h.Reward,
		TxHashes:     h.TxHashes,
		CoinbaseHash: h.CoinbaseHash,
		PrevHash:     h.PrevHash,
	})
	if err != nil {
		panic(err)
	}
	buf := append(raw, h.Nonce...)
	sum := sha256.Sum256(buf)
	return sum[:]
}

// MeetsDifficulty reports whether the header's hash begins with difficulty
// zero bytes.
func (h *BlockHeader) MeetsDifficulty(difficulty int) bool {
	hash := h.Hash()
	if difficulty > len(hash) {
		difficulty = len(hash)
	}
	for i := 0; i < difficulty; i++ {
		if hash[i] != 0 {
			return false
		}
	}
	return true
}

// Sign signs the header's hash with priv. It refuses to sign an unmined
// header.
func (h *BlockHeader) Sign(priv ed25519.PrivateKey) error {
	if !h.Mined {
		return errNotMined
	}
	h.Signature = codec.B64Bytes(ed25519.Sign(priv, h.Hash()))
	return nil
}

// VerifySignature checks the header's signature against its own pubkey.
func (h *BlockHeader) VerifySignature() bool {
	if len(h.PubKey) == 0 || len(h.Signature) == 0 {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(h.PubKey), h.Hash(), h.Signature)
}
