package store

import (
	"ledgerbank/internal/block"
	"ledgerbank/internal/tx"
)

// blockDoc is the on-disk shape of a single block (§6): the coinbase
// transaction is stored as the first element of "transactions" rather
// than in its own field.
type blockDoc struct {
	Header       block.BlockHeader `json:"header"`
	Transactions []*tx.Transaction `json:"transactions"`
}

func toDoc(b *block.Block) blockDoc {
	txs := make([]*tx.Transaction, 0, len(b.Transactions)+1)
	txs = append(txs, b.Coinbase)
	txs = append(txs, b.Transactions...)
	return blockDoc{Header: b.Header, Transactions: txs}
}

// fromDoc detaches the first transaction into the Coinbase slot, per §6's
// load contract.
func fromDoc(d blockDoc) *block.Block {
	var coinbase *tx.Transaction
	var rest []*tx.Transaction
	if len(d.Transactions) > 0 {
		coinbase = d.Transactions[0]
		rest = d.Transactions[1:]
	}
	return &block.Block{Header: d.Header, Coinbase: coinbase, Transactions: rest}
}
