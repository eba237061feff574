package block

import (
	"context"
	"crypto/rand"
)

// NonceLen is the width of the mined nonce in bytes.
const NonceLen = 64

// Mine searches for a nonce under which the header's hash begins with
// difficulty zero bytes. Each attempt draws NonceLen fresh random bytes
// (§4.4: "MUST NOT depend on the prior nonce"), so the search runs in
// constant memory regardless of how long it takes. If ctx is cancelled
// before a valid nonce is found, Mine returns a *CancelledError and leaves
// the header unmined.
func Mine(ctx context.Context, h *BlockHeader, difficulty int) error {
	nonce := make([]byte, NonceLen)
	for {
		select {
		case <-ctx.Done():
			return &CancelledError{}
		default:
		}

		if _, err := rand.Read(nonce); err != nil {
			return err
		}
		h.Nonce = append(h.Nonce[:0], nonce...)
		if h.MeetsDifficulty(difficulty) {
			h.Mined = true
			return nil
		}
	}
}
