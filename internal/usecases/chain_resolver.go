package usecases

import (
	"context"
	"math/big"
	"strings"

	"payroute.backend/internal/domain/entities"
	domainerrors "payroute.backend/internal/domain/errors"
	"payroute.backend/internal/domain/repositories"
)

const ensSuffix = ".eth"

type ChainResolver struct {
	chainRepo repositories.ChainRepository
	tokenRepo repositories.TokenRepository
}

func NewChainResolver(chainRepo repositories.ChainRepository, tokenRepo repositories.TokenRepository) *ChainResolver {
	return &ChainResolver{
		chainRepo: chainRepo,
		tokenRepo: tokenRepo,
	}
}

// ResolveChain resolves a human chain identifier. Forms are tried in order:
// hex chain id ("0xa4b1"), short name or known spelling ("arbitrum one"),
// then "<short name>.eth".
func (r *ChainResolver) ResolveChain(ctx context.Context, identifier string) (*entities.ResolvedChain, error) {
	value := strings.ToLower(strings.TrimSpace(identifier))
	if value == "" {
		return nil, domainerrors.NewChainValidationError(identifier, "chain identifier cannot be empty")
	}

	// 1. Hex chain id
	if strings.HasPrefix(value, "0x") {
		id, ok := new(big.Int).SetString(value[2:], 16)
		if !ok {
			return nil, domainerrors.NewChainValidationError(identifier, "invalid hex chain id: %s", identifier)
		}
		chain, err := r.chainRepo.GetByChainID(ctx, id.String())
		if err != nil {
			return nil, domainerrors.NewChainValidationError(identifier, "unsupported chain id: %s", identifier)
		}
		return chain, nil
	}

	// 2. Short name or spelling variant
	if chain, err := r.chainRepo.GetByName(ctx, value); err == nil {
		return chain, nil
	}

	// 3. ENS-style "<short name>.eth"
	if prefix := strings.TrimSuffix(value, ensSuffix); prefix != value && prefix != "" {
		if chain, err := r.chainRepo.GetByName(ctx, prefix); err == nil {
			return chain, nil
		}
	}

	return nil, domainerrors.NewChainValidationError(identifier, "unsupported chain: %s", identifier)
}

// ResolveChainID resolves identifier to its decimal chain id
func (r *ChainResolver) ResolveChainID(ctx context.Context, identifier string) (string, error) {
	chain, err := r.ResolveChain(ctx, identifier)
	if err != nil {
		return "", err
	}
	return chain.ChainID, nil
}

// ResolveFromAny also accepts decimal and CAIP-2 chain ids
func (r *ChainResolver) ResolveFromAny(ctx context.Context, identifier string) (*entities.ResolvedChain, error) {
	value := strings.TrimSpace(identifier)
	if isDecimalChainID(value) || strings.HasPrefix(strings.ToLower(value), "eip155:") {
		chain, err := r.chainRepo.GetByChainID(ctx, strings.ToLower(value))
		if err != nil {
			return nil, domainerrors.NewChainValidationError(identifier, "unsupported chain id: %s", identifier)
		}
		return chain, nil
	}
	return r.ResolveChain(ctx, value)
}

// TokenAddress returns the contract address of symbol on chainID
func (r *ChainResolver) TokenAddress(ctx context.Context, symbol, chainID string) (string, error) {
	token, err := r.tokenRepo.GetBySymbolOnChain(ctx, symbol, chainID)
	if err != nil {
		return "", domainerrors.NewTokenValidationError(symbol, "token %s is not supported on chain %s", strings.ToUpper(symbol), chainID)
	}
	addr, _ := token.AddressOn(chainID)
	return addr, nil
}

func isDecimalChainID(value string) bool {
	if value == "" {
		return false
	}
	for _, c := range value {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
