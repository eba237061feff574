package block_test

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"ledgerbank/internal/block"
)

func TestBuildGenesisChainsAndMeetsDifficulty(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	genesis, err := block.Build(context.Background(), priv, nil, nil, 0, 1000)
	require.NoError(t, err)
	require.NoError(t, genesis.ValidateLinkage(nil))
	require.NoError(t, genesis.ValidateSeal(0))
	require.NoError(t, genesis.ValidateCoinbase(1000))

	next, err := block.Build(context.Background(), priv, &genesis.Header, nil, 0, 1000)
	require.NoError(t, err)
	require.NoError(t, next.ValidateLinkage(&genesis.Header))
	require.Equal(t, 1, next.Header.Num)
}

func TestValidateLinkageRejectsWrongNum(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	genesis, err := block.Build(context.Background(), priv, nil, nil, 0, 1000)
	require.NoError(t, err)

	next, err := block.Build(context.Background(), priv, &genesis.Header, nil, 0, 1000)
	require.NoError(t, err)
	next.Header.Num = 5

	require.Error(t, next.ValidateLinkage(&genesis.Header))
}

func TestMineCancellation(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = block.Build(ctx, priv, nil, nil, 2, 1000)
	require.Error(t, err)
	var cancelled *block.CancelledError
	require.ErrorAs(t, err, &cancelled)
}
