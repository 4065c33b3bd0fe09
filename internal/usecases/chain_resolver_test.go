package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainerrors "payroute.backend/internal/domain/errors"
	"payroute.backend/internal/infrastructure/repositories"
	"payroute.backend/internal/usecases"
)

func newRegistryResolver() *usecases.ChainResolver {
	return usecases.NewChainResolver(repositories.NewChainRepository(), repositories.NewTokenRepository())
}

func TestChainResolver_ResolveChain(t *testing.T) {
	resolver := newRegistryResolver()
	ctx := context.Background()

	cases := map[string]string{
		"0xa4b1":       "42161",
		"0XA4B1":       "42161",
		"0x2105":       "8453",
		"arbitrum":     "42161",
		"Arbitrum One": "42161",
		"  BASE  ":     "8453",
		"matic":        "137",
		"op":           "10",
		"mainnet":      "1",
		"base.eth":     "8453",
		"arbitrum.eth": "42161",
		"avax":         "43114",
	}
	for input, want := range cases {
		chain, err := resolver.ResolveChain(ctx, input)
		require.NoError(t, err, input)
		assert.Equal(t, want, chain.ChainID, input)
	}
}

func TestChainResolver_ResolveChain_Errors(t *testing.T) {
	resolver := newRegistryResolver()
	ctx := context.Background()

	for _, input := range []string{"", "   ", "0x", "0xzz", "0x539", "fantom", "unknown.eth", ".eth", "42161"} {
		_, err := resolver.ResolveChain(ctx, input)
		require.Error(t, err, input)

		var chainErr *domainerrors.ChainValidationError
		assert.True(t, errors.As(err, &chainErr), input)
		assert.ErrorIs(t, err, domainerrors.ErrUnsupportedChain, input)
	}
}

func TestChainResolver_ResolveChainID(t *testing.T) {
	resolver := newRegistryResolver()

	id, err := resolver.ResolveChainID(context.Background(), "polygon")
	require.NoError(t, err)
	assert.Equal(t, "137", id)

	_, err = resolver.ResolveChainID(context.Background(), "nope")
	assert.Error(t, err)
}

func TestChainResolver_ResolveFromAny(t *testing.T) {
	resolver := newRegistryResolver()
	ctx := context.Background()

	for input, want := range map[string]string{
		"42161":        "42161",
		"eip155:8453":  "8453",
		"EIP155:10":    "10",
		"0x38":         "56",
		"bsc":          "56",
		"ethereum.eth": "1",
	} {
		chain, err := resolver.ResolveFromAny(ctx, input)
		require.NoError(t, err, input)
		assert.Equal(t, want, chain.ChainID, input)
	}

	for _, input := range []string{"999", "eip155:999", "solana:mainnet", ""} {
		_, err := resolver.ResolveFromAny(ctx, input)
		assert.ErrorIs(t, err, domainerrors.ErrValidation, input)
	}
}

func TestChainResolver_TokenAddress(t *testing.T) {
	resolver := newRegistryResolver()
	ctx := context.Background()

	addr, err := resolver.TokenAddress(ctx, "usdc", "8453")
	require.NoError(t, err)
	assert.Equal(t, "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", addr)

	addr, err = resolver.TokenAddress(ctx, "ETH", "42161")
	require.NoError(t, err)
	assert.Equal(t, "0x0000000000000000000000000000000000000000", addr)

	_, err = resolver.TokenAddress(ctx, "USDT", "8453")
	assert.ErrorIs(t, err, domainerrors.ErrUnsupportedToken)
}
