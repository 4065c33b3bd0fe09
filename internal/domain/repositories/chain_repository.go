package repositories

import (
	"context"

	"payroute.backend/internal/domain/entities"
)

// ChainRepository defines supported chain lookups
type ChainRepository interface {
	// GetByChainID looks a chain up by its decimal chain id
	GetByChainID(ctx context.Context, chainID string) (*entities.ResolvedChain, error)
	// GetByName looks a chain up by short name or any known spelling
	GetByName(ctx context.Context, name string) (*entities.ResolvedChain, error)
	GetAll(ctx context.Context) ([]*entities.ResolvedChain, error)
}
