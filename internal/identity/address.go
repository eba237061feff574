// Package identity derives ledger addresses from ed25519 public keys.
package identity

import (
	"crypto/sha256"

	"ledgerbank/internal/codec"
)

// AddressLen is the number of leading SHA-256 bytes kept before
// Base58Check-encoding an address. Addresses are a truncated hash and are
// therefore not unique per key; collisions are out of scope (§3).
const AddressLen = 8

// AddressOf derives the address of an ed25519 public key: the Base58Check
// encoding of the first AddressLen bytes of SHA-256(pubkey).
func AddressOf(pubkey []byte) string {
	h := sha256.Sum256(pubkey)
	return codec.Base58CheckEncode(h[:AddressLen])
}

// Valid reports whether addr decodes as a well-formed Base58Check address
// of the expected length. It does not (and cannot) verify that a pubkey
// exists for it.
func Valid(addr string) bool {
	payload, err := codec.Base58CheckDecode(addr)
	if err != nil {
		return false
	}
	return len(payload) == AddressLen
}

// LegacyAddressOf derives the Bitcoin-style counterpart of AddressOf: the
// Base58Check encoding of RIPEMD160(SHA256(pubkey)) instead of a truncated
// SHA-256. It exists for wallets that need to hand a pubkey to interop
// tooling built against that 20-byte hash rather than the ledger's own
// 8-byte address; it is never used for on-ledger identity.
func LegacyAddressOf(pubkey []byte) string {
	return codec.Base58CheckEncode(codec.LegacyHash160(pubkey))
}
