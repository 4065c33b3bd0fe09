package repositories

import (
	"context"

	"payroute.backend/internal/domain/entities"
)

// TokenRepository defines supported token lookups
type TokenRepository interface {
	GetBySymbol(ctx context.Context, symbol string) (*entities.ChainToken, error)
	// GetBySymbolOnChain returns the token only when it has an address on chainID
	GetBySymbolOnChain(ctx context.Context, symbol, chainID string) (*entities.ChainToken, error)
	// GetByAddressOnChain matches a contract address, or the native sentinel,
	// on chainID
	GetByAddressOnChain(ctx context.Context, address, chainID string) (*entities.ChainToken, error)
	GetAll(ctx context.Context) ([]*entities.ChainToken, error)
	GetSupportedByChain(ctx context.Context, chainID string) ([]*entities.ChainToken, error)
}
