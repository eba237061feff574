package codec

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // kept for the legacy 20-byte identity variant below
)

// LegacyHash160 computes RIPEMD160(SHA256(data)), the Bitcoin-style pubkey
// hash. The ledger's address algorithm (§4.2) truncates SHA-256 to 8 bytes
// instead; this helper is exposed only for callers that want the tighter
// 20-byte variant (e.g. interop tooling), it is not used by AddressOf.
func LegacyHash160(data []byte) []byte {
	sha := sha256.Sum256(data)
	hasher := ripemd160.New()
	hasher.Write(sha[:])
	return hasher.Sum(nil)
}
