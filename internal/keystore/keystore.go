// Package keystore is a local JSON wallet file, keyed by a chosen login
// name rather than by address, grounded on the wallets.dat pattern but
// using JSON + ed25519 instead of gob + ecdsa to match the core's key
// type (§6, §9).
package keystore

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"ledgerbank/internal/codec"
	"ledgerbank/internal/identity"
)

// entry is the on-disk shape of one wallet. ID is a uuid stamped at
// creation time so a wallet keeps a stable identifier across renames of
// its login name; LegacyAddress is the RIPEMD160-based address some
// interop tooling expects alongside the ledger's own Address.
type entry struct {
	ID            string         `json:"id"`
	PrivateKey    codec.B64Bytes `json:"private_key"`
	PublicKey     codec.B64Bytes `json:"public_key"`
	Address       string         `json:"address"`
	LegacyAddress string         `json:"legacy_address"`
}

// Keystore is a name-keyed collection of ed25519 wallets persisted to a
// single JSON file.
type Keystore struct {
	Path    string
	wallets map[string]entry
}

// Open loads Path, treating a missing file as an empty keystore.
func Open(path string) (*Keystore, error) {
	ks := &Keystore{Path: path, wallets: map[string]entry{}}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ks, nil
	}
	if err != nil {
		return nil, fmt.Errorf("keystore: read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &ks.wallets); err != nil {
		return nil, fmt.Errorf("keystore: decode %s: %w", path, err)
	}
	return ks, nil
}

// Save writes the keystore back to Path atomically, matching the chain
// store's tmp-file-then-rename discipline.
func (ks *Keystore) Save() error {
	raw, err := json.MarshalIndent(ks.wallets, "", "  ")
	if err != nil {
		return fmt.Errorf("keystore: encode: %w", err)
	}
	tmp := ks.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("keystore: write %s: %w", tmp, err)
	}
	return os.Rename(tmp, ks.Path)
}

// Create generates a fresh ed25519 wallet under name, overwriting any
// existing wallet of that name, and returns its address.
func (ks *Keystore) Create(name string) (string, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return "", fmt.Errorf("keystore: generate key: %w", err)
	}
	addr := identity.AddressOf(pub)
	ks.wallets[name] = entry{
		ID:            uuid.NewString(),
		PrivateKey:    codec.B64Bytes(priv),
		PublicKey:     codec.B64Bytes(pub),
		Address:       addr,
		LegacyAddress: identity.LegacyAddressOf(pub),
	}
	return addr, nil
}

// Names returns every login name held in the keystore.
func (ks *Keystore) Names() []string {
	names := make([]string, 0, len(ks.wallets))
	for n := range ks.wallets {
		names = append(names, n)
	}
	return names
}

// Address returns the address for name.
func (ks *Keystore) Address(name string) (string, bool) {
	e, ok := ks.wallets[name]
	return e.Address, ok
}

// ID returns the stable uuid assigned to name's wallet at creation time.
func (ks *Keystore) ID(name string) (string, bool) {
	e, ok := ks.wallets[name]
	return e.ID, ok
}

// LegacyAddress returns the RIPEMD160-based address for name, for
// handing to tooling that expects that format instead of the ledger's
// own.
func (ks *Keystore) LegacyAddress(name string) (string, bool) {
	e, ok := ks.wallets[name]
	return e.LegacyAddress, ok
}

// PrivateKey returns the signing key for name, for use by the CLI wallet
// to sign outgoing transactions.
func (ks *Keystore) PrivateKey(name string) (ed25519.PrivateKey, bool) {
	e, ok := ks.wallets[name]
	if !ok {
		return nil, false
	}
	return ed25519.PrivateKey(e.PrivateKey), true
}
