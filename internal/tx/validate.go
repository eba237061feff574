package tx

import (
	"crypto/ed25519"
	"unicode/utf8"

	"ledgerbank/internal/codec"
)

// Validate enforces the self-validation rules of §4.3, in order, failing
// with an *InvalidError on the first violated rule.
func (t *Transaction) Validate() error {
	switch {
	case t.Coinbase == nil && len(t.Inputs) == 0:
		return invalid("no inputs")
	case t.Coinbase != nil && len(t.Inputs) != 0:
		return invalid("inputs in coinbase")
	}

	if len(t.Outputs) == 0 {
		return invalid("no outputs")
	}

	seenInputs := make(map[string]struct{}, len(t.Inputs))
	for _, in := range t.Inputs {
		if in.Hash == "" {
			return invalid("input missing hash")
		}
		if in.Index < 0 {
			return invalid("input has negative index")
		}
		if in.Amount <= 0 {
			return invalid("input amount must be positive")
		}
		if _, dup := seenInputs[in.Hash]; dup {
			return invalid("input txes must not repeat")
		}
		seenInputs[in.Hash] = struct{}{}
	}

	seenOutputs := make(map[string]struct{}, len(t.Outputs))
	for _, out := range t.Outputs {
		if out.Address == "" {
			return invalid("output missing address")
		}
		if out.Amount <= 0 {
			return invalid("output amount must be positive")
		}
		if _, dup := seenOutputs[out.Address]; dup {
			return invalid("duplicate output address")
		}
		seenOutputs[out.Address] = struct{}{}
	}

	if t.Coinbase == nil {
		if t.TotalIn() != t.TotalOut() {
			return invalid("mismatched in/out")
		}
	}

	if utf8.RuneCountInString(t.Message) > MaxMessageLen {
		return invalid("message too long")
	}

	if len(t.PubKey) == 0 || len(t.Signature) == 0 {
		return invalid("missing pubkey or signature")
	}

	if !ed25519.Verify(ed25519.PublicKey(t.PubKey), t.Hash(), t.Signature) {
		return invalid("signature verification failed")
	}

	return nil
}

// ValidatePrevious checks every input against index, the hash→transaction
// map of all transactions known to the ledger, per §4.3. The spender
// address is derived from t.PubKey.
func (t *Transaction) ValidatePrevious(index map[string]*Transaction) error {
	spender := t.FromAddress()
	for _, in := range t.Inputs {
		prev, ok := index[in.Hash]
		if !ok {
			return invalid("previous tx missing")
		}
		if codec.ToB64(prev.Hash()) != in.Hash {
			return invalid("previous tx hash mismatch")
		}
		if err := prev.Validate(); err != nil {
			return invalid("previous tx invalid")
		}
		if in.Index < 0 || in.Index >= len(prev.Outputs) {
			return invalid("invalid output index")
		}
		out := prev.Outputs[in.Index]
		if out.Address != spender {
			return invalid("no stealing")
		}
		if out.Amount != in.Amount {
			return invalid("input amount does not match output")
		}
	}
	return nil
}
