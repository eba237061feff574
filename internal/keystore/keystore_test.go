package keystore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ledgerbank/internal/keystore"
)

func TestCreateSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")

	ks, err := keystore.Open(path)
	require.NoError(t, err)

	addr, err := ks.Create("alice")
	require.NoError(t, err)
	require.NotEmpty(t, addr)
	require.NoError(t, ks.Save())

	reloaded, err := keystore.Open(path)
	require.NoError(t, err)

	gotAddr, ok := reloaded.Address("alice")
	require.True(t, ok)
	require.Equal(t, addr, gotAddr)

	priv, ok := reloaded.PrivateKey("alice")
	require.True(t, ok)
	require.NotEmpty(t, priv)

	id, ok := reloaded.ID("alice")
	require.True(t, ok)
	require.NotEmpty(t, id)

	legacyAddr, ok := reloaded.LegacyAddress("alice")
	require.True(t, ok)
	require.NotEmpty(t, legacyAddr)
	require.NotEqual(t, addr, legacyAddr)
}

func TestOpenMissingFileIsEmpty(t *testing.T) {
	ks, err := keystore.Open(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	require.Empty(t, ks.Names())
}
