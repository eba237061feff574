package ledger

import "fmt"

// CorruptChainError is returned when a sealed block fails linkage, proof
// of work, signature or coinbase validation — either a block this process
// just mined (a bug in block.Build) or one read back from the chain store
// (a hand-edited or corrupted chain file).
type CorruptChainError struct {
	Num int
	Err error
}

func (e *CorruptChainError) Error() string {
	return fmt.Sprintf("ledger: block %d failed validation: %v", e.Num, e.Err)
}

func (e *CorruptChainError) Unwrap() error { return e.Err }
