package block

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	"ledgerbank/internal/codec"
	"ledgerbank/internal/identity"
	"ledgerbank/internal/tx"
)

// Block bundles a sealed (or, for the ledger's open block, empty and
// header-less) header with its coinbase and ordinary transactions.
type Block struct {
	Header       BlockHeader       `json:"header"`
	Coinbase     *tx.Transaction   `json:"coinbase"`
	Transactions []*tx.Transaction `json:"transactions"`
}

// NewOpenBlock returns an empty, unsealed block ready to accumulate pending
// transactions.
func NewOpenBlock() *Block {
	return &Block{Transactions: []*tx.Transaction{}}
}

// combinedTxHashes computes §4.4's tx_hashes: the base64url SHA-256 of the
// byte-concatenation of coinbase.Hash() followed by each pending
// transaction's Hash(), in list order. This is a flat re-hash, not a
// Merkle root (§9): no inclusion proofs are derivable from it.
func combinedTxHashes(coinbase *tx.Transaction, pending []*tx.Transaction) string {
	var buf bytes.Buffer
	buf.Write(coinbase.Hash())
	for _, t := range pending {
		buf.Write(t.Hash())
	}
	sum := sha256.Sum256(buf.Bytes())
	return codec.ToB64(sum[:])
}

// Build assembles, mines and signs a new block on top of prev (nil for the
// genesis block) containing pending. priv is the miner's key; reward is
// the fixed coinbase amount (§9: variable block reward is a non-goal).
func Build(ctx context.Context, priv ed25519.PrivateKey, prev *BlockHeader, pending []*tx.Transaction, difficulty, reward int) (*Block, error) {
	num := 0
	prevHash := ""
	if prev != nil {
		num = prev.Num + 1
		prevHash = codec.ToB64(prev.Hash())
	}

	minerAddr := identity.AddressOf(priv.Public().(ed25519.PublicKey))
	coinbase := &tx.Transaction{
		Outputs:  []tx.TxOutput{{Address: minerAddr, Amount: reward}},
		Message:  fmt.Sprintf("coinbase %d", num),
		Coinbase: &num,
	}
	coinbase.Sign(priv)

	header := BlockHeader{
		Num:          num,
		PubKey:       codec.B64Bytes(priv.Public().(ed25519.PublicKey)),
		Reward:       reward,
		TxHashes:     combinedTxHashes(coinbase, pending),
		CoinbaseHash: codec.ToB64(coinbase.Hash()),
		PrevHash:     prevHash,
		Mined:        false,
	}

	if err := Mine(ctx, &header, difficulty); err != nil {
		return nil, err
	}
	if err := header.Sign(priv); err != nil {
		return nil, err
	}

	return &Block{Header: header, Coinbase: coinbase, Transactions: pending}, nil
}

// ValidateLinkage checks that this sealed block correctly chains onto prev
// (nil for block 0) per invariant 5: prev_hash matches prev's header hash
// and num is exactly one greater.
func (b *Block) ValidateLinkage(prev *BlockHeader) error {
	if prev == nil {
		if b.Header.Num != 0 {
			return fmt.Errorf("block: expected genesis num 0, got %d", b.Header.Num)
		}
		if b.Header.PrevHash != "" {
			return fmt.Errorf("block: genesis must have empty prev_hash")
		}
		return nil
	}
	if b.Header.Num != prev.Num+1 {
		return fmt.Errorf("block: expected num %d, got %d", prev.Num+1, b.Header.Num)
	}
	if b.Header.PrevHash != codec.ToB64(prev.Hash()) {
		return fmt.Errorf("block: prev_hash does not match predecessor")
	}
	return nil
}

// ValidateSeal checks invariant 6: the header meets the difficulty target
// and its signature verifies.
func (b *Block) ValidateSeal(difficulty int) error {
	if !b.Header.Mined || !b.Header.MeetsDifficulty(difficulty) {
		return fmt.Errorf("block: proof of work does not meet difficulty %d", difficulty)
	}
	if !b.Header.VerifySignature() {
		return fmt.Errorf("block: header signature does not verify")
	}
	return nil
}

// ValidateCoinbase resolves the spec's open question on coinbase
// validation: it verifies the coinbase referenced by the header exists,
// that the header's coinbase_hash matches it, and that its sole reward
// output equals reward. No checks beyond these three are added.
func (b *Block) ValidateCoinbase(reward int) error {
	if b.Coinbase == nil {
		return fmt.Errorf("block: missing coinbase")
	}
	if codec.ToB64(b.Coinbase.Hash()) != b.Header.CoinbaseHash {
		return fmt.Errorf("block: coinbase_hash does not match coinbase transaction")
	}
	if len(b.Coinbase.Outputs) != 1 || b.Coinbase.Outputs[0].Amount != reward {
		return fmt.Errorf("block: coinbase reward output must equal %d", reward)
	}
	return nil
}

// AllTransactions returns the coinbase followed by the ordinary
// transactions, the same order used on disk (§6).
func (b *Block) AllTransactions() []*tx.Transaction {
	all := make([]*tx.Transaction, 0, len(b.Transactions)+1)
	if b.Coinbase != nil {
		all = append(all, b.Coinbase)
	}
	return append(all, b.Transactions...)
}
