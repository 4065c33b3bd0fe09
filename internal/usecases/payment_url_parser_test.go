package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"payroute.backend/internal/domain/entities"
	domainerrors "payroute.backend/internal/domain/errors"
	"payroute.backend/internal/usecases"
)

const vitalik = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"

func newTestParser() *usecases.PaymentURLParser {
	return usecases.NewPaymentURLParser(newRegistryResolver(), "42161")
}

func TestPaymentURLParser_ENSWithDefaultChain(t *testing.T) {
	intent, err := newTestParser().Parse(context.Background(), []string{"alice.eth", "10usdc"})
	require.NoError(t, err)

	assert.Equal(t, "alice.eth", intent.RecipientIdentifier)
	assert.Equal(t, entities.RecipientTypeENS, intent.RecipientType)
	assert.Equal(t, "42161", intent.ChainIdentifier.String)
	assert.True(t, intent.ChainIdentifier.Valid)
	assert.Equal(t, "10", intent.AmountLiteral.String)
	assert.Equal(t, "USDC", intent.TokenSymbol.String)
}

func TestPaymentURLParser_ChainSpecificRecipient(t *testing.T) {
	parser := newTestParser()
	ctx := context.Background()

	intent, err := parser.Parse(ctx, []string{vitalik + "@base", "12.5"})
	require.NoError(t, err)
	assert.Equal(t, vitalik, intent.RecipientIdentifier)
	assert.Equal(t, entities.RecipientTypeAddress, intent.RecipientType)
	assert.Equal(t, "8453", intent.ChainIdentifier.String)
	assert.Equal(t, "12.5", intent.AmountLiteral.String)
	assert.False(t, intent.TokenSymbol.Valid)

	for chain, want := range map[string]string{"0xa4b1": "42161", "arbitrum.eth": "42161", "Polygon": "137"} {
		intent, err = parser.Parse(ctx, []string{"bob@" + chain})
		require.NoError(t, err, chain)
		assert.Equal(t, "bob", intent.RecipientIdentifier)
		assert.Equal(t, entities.RecipientTypeUsername, intent.RecipientType)
		assert.Equal(t, want, intent.ChainIdentifier.String, chain)
	}
}

func TestPaymentURLParser_UnresolvedChainLeavesChainUnset(t *testing.T) {
	intent, err := newTestParser().Parse(context.Background(), []string{"alice.eth@fantom", "5eth"})
	require.NoError(t, err)
	assert.Equal(t, "alice.eth", intent.RecipientIdentifier)
	assert.False(t, intent.ChainIdentifier.Valid)
	assert.Equal(t, "fantom", intent.UnresolvedChain)
	assert.Equal(t, "ETH", intent.TokenSymbol.String)
}

func TestPaymentURLParser_EncodedSeparator(t *testing.T) {
	intent, err := newTestParser().Parse(context.Background(), []string{"alice.eth%40optimism"})
	require.NoError(t, err)
	assert.Equal(t, "alice.eth", intent.RecipientIdentifier)
	assert.Equal(t, "10", intent.ChainIdentifier.String)
}

func TestPaymentURLParser_AmountForms(t *testing.T) {
	parser := newTestParser()
	ctx := context.Background()

	tests := []struct {
		segment string
		amount  string
		token   string
	}{
		{"500usdc", "500", "USDC"},
		{"12.5eth", "12.5", "ETH"},
		{"100", "100", ""},
		{".5eth", "0.5", "ETH"},
		{"12.", "12", ""},
		{"0.000001WETH", "0.000001", "WETH"},
	}
	for _, tt := range tests {
		intent, err := parser.Parse(ctx, []string{"alice.eth", tt.segment})
		require.NoError(t, err, tt.segment)
		assert.Equal(t, tt.amount, intent.AmountLiteral.String, tt.segment)
		assert.Equal(t, tt.token, intent.TokenSymbol.String, tt.segment)
		assert.Equal(t, tt.token != "", intent.TokenSymbol.Valid, tt.segment)
	}

	intent, err := parser.Parse(ctx, []string{"alice.eth", ""})
	require.NoError(t, err)
	assert.False(t, intent.AmountLiteral.Valid)
	assert.False(t, intent.TokenSymbol.Valid)
}

func TestPaymentURLParser_Errors(t *testing.T) {
	parser := newTestParser()
	ctx := context.Background()

	cases := map[string][]string{
		"no segments":       {},
		"too many segments": {"alice.eth", "10usdc", "extra"},
		"empty recipient":   {"  "},
		"token only":        {"alice.eth", "usdc"},
		"signed amount":     {"alice.eth", "-5usdc"},
		"two dots":          {"alice.eth", "1.2.3"},
		"invalid recipient": {"not valid!"},
		"double separator":  {"a@b@c"},
		"bad escape":        {"alice%zz"},
		"overlong username": {"a123456789012345678901234567890123456789012345678901234567890123456789"},
	}
	for name, segments := range cases {
		_, err := parser.Parse(ctx, segments)
		require.Error(t, err, name)

		var parseErr *domainerrors.ParseError
		assert.True(t, errors.As(err, &parseErr), name)
		assert.ErrorIs(t, err, domainerrors.ErrParse, name)
	}
}

func TestPaymentURLParser_RecipientTypes(t *testing.T) {
	parser := newTestParser()
	ctx := context.Background()

	tests := []struct {
		recipient string
		want      entities.RecipientType
	}{
		{"vitalik.eth", entities.RecipientTypeENS},
		{"Sub.Domain.ETH", entities.RecipientTypeENS},
		{vitalik, entities.RecipientTypeAddress},
		{"0xd8da6bf26964af9d7eed9e03e53415d37aa96045", entities.RecipientTypeAddress},
		{"0xD8dA6BF26964aF9D7eEd9e03E53415D37aA96045", entities.RecipientTypeUsername},
		{"alice_01", entities.RecipientTypeUsername},
	}
	for _, tt := range tests {
		intent, err := parser.Parse(ctx, []string{tt.recipient})
		require.NoError(t, err, tt.recipient)
		assert.Equal(t, tt.want, intent.RecipientType, tt.recipient)
	}
}

func TestPaymentURLParser_NoDefaultChain(t *testing.T) {
	parser := usecases.NewPaymentURLParser(newRegistryResolver(), "")

	intent, err := parser.Parse(context.Background(), []string{"alice.eth"})
	require.NoError(t, err)
	assert.False(t, intent.ChainIdentifier.Valid)
}

func TestPaymentURLParser_Idempotent(t *testing.T) {
	parser := newTestParser()
	ctx := context.Background()

	for _, segments := range [][]string{
		{"alice.eth", "10usdc"},
		{vitalik + "@base", ".5"},
		{"bob@fantom"},
	} {
		first, err := parser.Parse(ctx, segments)
		require.NoError(t, err)
		second, err := parser.Parse(ctx, segments)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}
