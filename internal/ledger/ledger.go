// Package ledger is the in-memory authoritative index: every transaction
// ever accepted, the spent-output set that rejects double-spends, the
// sealed chain, and the current open block accumulating pending
// transactions (§4.5). It is the single mutation entry point for the
// core — no process-wide globals (§9).
package ledger

import (
	"context"
	"crypto/ed25519"
	"sort"
	"strconv"
	"sync"
	"time"

	"ledgerbank/internal/block"
	"ledgerbank/internal/codec"
	"ledgerbank/internal/logging"
	"ledgerbank/internal/metrics"
	"ledgerbank/internal/store"
	"ledgerbank/internal/tx"
)

// spentKey is the (prev_tx_hash, spender_address) pair used to detect
// double-spends. Per §9's preserved open question, this is coarser than a
// standard UTXO key: it does not distinguish which output of a prior
// transaction was spent, only that the (hash, spender) pair was used once.
type spentKey struct {
	Hash    string
	Spender string
}

// Ledger owns tx_by_hash, the spent set, the sealed chain and the current
// open block behind a single mutex, per the "shared resource policy"
// design note (§5): all four form one coherent mutable unit.
type Ledger struct {
	mu sync.Mutex

	txByHash map[string]*tx.Transaction
	spent    map[spentKey]struct{}
	blocks   map[int]*block.Block
	current  *block.Block

	store      store.ChainStore
	minerPriv  ed25519.PrivateKey
	difficulty int
	reward     int

	log *logging.Logger
}

// Option configures a Ledger at construction time.
type Option func(*Ledger)

// WithLogger overrides the default no-op logger.
func WithLogger(l *logging.Logger) Option {
	return func(le *Ledger) { le.log = l }
}

// New constructs an empty Ledger. Call Reload to populate it from
// persisted state.
func New(st store.ChainStore, minerPriv ed25519.PrivateKey, difficulty, reward int, opts ...Option) *Ledger {
	l := &Ledger{
		txByHash:   map[string]*tx.Transaction{},
		spent:      map[spentKey]struct{}{},
		blocks:     map[int]*block.Block{},
		current:    block.NewOpenBlock(),
		store:      st,
		minerPriv:  minerPriv,
		difficulty: difficulty,
		reward:     reward,
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// coinbaseSpentKey builds the pseudo spent-set key for a coinbase
// transaction: §4.5 step 3 keys it by (tx.coinbase, spender) rather than
// by a prior-transaction hash, since a coinbase has no inputs.
func coinbaseSpentKey(t *tx.Transaction, spender string) spentKey {
	return spentKey{Hash: strconv.Itoa(*t.Coinbase), Spender: spender}
}

// Submit is the critical admission path (§4.5). On success t is stamped
// with Datetime, appended to the current open block, and indexed; on
// failure nothing is mutated.
func (l *Ledger) Submit(t *tx.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := t.Validate(); err != nil {
		metrics.TxRejectedTotal.WithLabelValues(err.Error()).Inc()
		return err
	}

	addr := t.FromAddress()
	var keys []spentKey

	if t.IsCoinbase() {
		key := coinbaseSpentKey(t, addr)
		if _, spent := l.spent[key]; spent {
			metrics.TxRejectedTotal.WithLabelValues("this hash is already spent").Inc()
			return &tx.InvalidError{Reason: "this hash is already spent"}
		}
		keys = append(keys, key)
	} else {
		if err := t.ValidatePrevious(l.txByHash); err != nil {
			metrics.TxRejectedTotal.WithLabelValues(err.Error()).Inc()
			return err
		}
		for _, in := range t.Inputs {
			key := spentKey{Hash: in.Hash, Spender: addr}
			if _, spent := l.spent[key]; spent {
				metrics.TxRejectedTotal.WithLabelValues("this hash is already spent").Inc()
				return &tx.InvalidError{Reason: "this hash is already spent"}
			}
			keys = append(keys, key)
		}
	}

	now := time.Now().UTC()
	t.Datetime = &now

	l.current.Transactions = append(l.current.Transactions, t)
	l.txByHash[codec.ToB64(t.Hash())] = t
	for _, k := range keys {
		l.spent[k] = struct{}{}
	}

	metrics.TxSubmittedTotal.Inc()
	l.log.Infow("tx submitted", "hash", codec.ToB64(t.Hash()), "spender", addr, "coinbase", t.IsCoinbase())
	return nil
}

// lastSealedHeader returns the header of the highest-numbered sealed
// block, or nil if the chain is empty.
func (l *Ledger) lastSealedHeader() *block.BlockHeader {
	if len(l.blocks) == 0 {
		return nil
	}
	max := -1
	for n := range l.blocks {
		if n > max {
			max = n
		}
	}
	return &l.blocks[max].Header
}

// validateSealed re-checks a sealed block against invariants 5 and 6 and
// the coinbase sanity rule (§4.4, §9's coinbase-validation open question)
// before it is trusted as part of the chain, whether just-mined or loaded
// from disk.
func (l *Ledger) validateSealed(b *block.Block, prev *block.BlockHeader) error {
	if err := b.ValidateLinkage(prev); err != nil {
		return &CorruptChainError{Num: b.Header.Num, Err: err}
	}
	if err := b.ValidateSeal(l.difficulty); err != nil {
		return &CorruptChainError{Num: b.Header.Num, Err: err}
	}
	if err := b.ValidateCoinbase(l.reward); err != nil {
		return &CorruptChainError{Num: b.Header.Num, Err: err}
	}
	return nil
}

// SealCurrentBlock invokes the block package to assemble a coinbase, mine
// and sign a header over the current pending transactions, re-validates
// the result before trusting it, appends the sealed block to the chain,
// persists it, and rebuilds the indices from the just-written state
// (§4.5).
func (l *Ledger) SealCurrentBlock(ctx context.Context) (*block.Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	prev := l.lastSealedHeader()
	sealed, err := block.Build(ctx, l.minerPriv, prev, l.current.Transactions, l.difficulty, l.reward)
	if err != nil {
		return nil, err
	}
	metrics.MiningSeconds.Observe(time.Since(start).Seconds())

	if err := l.validateSealed(sealed, prev); err != nil {
		l.log.Errorw("sealed block failed self-validation", "num", sealed.Header.Num, "err", err)
		return nil, err
	}

	l.blocks[sealed.Header.Num] = sealed
	if err := l.store.Save(l.blocks); err != nil {
		// The sealed block stays in memory even if the write failed; reload
		// is the recovery mechanism (§7).
		l.log.Errorw("persist sealed block failed", "num", sealed.Header.Num, "err", err)
		return sealed, err
	}

	if err := l.reloadLocked(); err != nil {
		return sealed, err
	}

	metrics.BlocksSealedTotal.Inc()
	metrics.ChainHeight.Set(float64(len(l.blocks)))
	l.log.Infow("block sealed", "num", sealed.Header.Num, "tx_count", len(sealed.Transactions))
	return sealed, nil
}

// Reload clears tx_by_hash and spent and rebuilds both, plus the sealed
// chain, from persisted state — the recovery path after restart or for
// test isolation (§4.5). It is idempotent.
func (l *Ledger) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reloadLocked()
}

// reloadLocked rebuilds the chain and indices from the store, re-validating
// every block's linkage, seal and coinbase on the way in: a hand-edited or
// corrupted chain file must not load silently (§7, §9).
func (l *Ledger) reloadLocked() error {
	loaded, err := l.store.Load()
	if err != nil {
		return err
	}

	nums := make([]int, 0, len(loaded))
	for n := range loaded {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	var prev *block.BlockHeader
	for _, n := range nums {
		if err := l.validateSealed(loaded[n], prev); err != nil {
			return err
		}
		prev = &loaded[n].Header
	}

	l.blocks = loaded
	l.txByHash = map[string]*tx.Transaction{}
	l.spent = map[spentKey]struct{}{}

	for _, n := range nums {
		for _, t := range loaded[n].AllTransactions() {
			l.indexTx(t)
		}
	}

	l.current = block.NewOpenBlock()
	metrics.ChainHeight.Set(float64(len(l.blocks)))
	return nil
}

// indexTx applies the same spent-key policy as Submit, without
// re-validating: persisted blocks were validated when they were sealed.
func (l *Ledger) indexTx(t *tx.Transaction) {
	addr := t.FromAddress()
	l.txByHash[codec.ToB64(t.Hash())] = t

	if t.IsCoinbase() {
		l.spent[coinbaseSpentKey(t, addr)] = struct{}{}
		return
	}
	for _, in := range t.Inputs {
		l.spent[spentKey{Hash: in.Hash, Spender: addr}] = struct{}{}
	}
}
