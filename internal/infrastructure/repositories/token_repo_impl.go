package repositories

import (
	"context"
	"sort"
	"strings"

	"payroute.backend/internal/domain/entities"
	domainerrors "payroute.backend/internal/domain/errors"
	"payroute.backend/internal/domain/repositories"
	"payroute.backend/internal/infrastructure/models"
)

// TokenRepository implements token lookups over an in-memory table
type TokenRepository struct {
	bySymbol map[string]*models.Token
	ordered  []*models.Token
}

var _ repositories.TokenRepository = (*TokenRepository)(nil)

// NewTokenRepository creates a token repository backed by the built-in table
func NewTokenRepository() *TokenRepository {
	return NewTokenRepositoryFrom(SupportedTokens)
}

// NewTokenRepositoryFrom creates a token repository over the given records
func NewTokenRepositoryFrom(tokens []models.Token) *TokenRepository {
	r := &TokenRepository{bySymbol: make(map[string]*models.Token, len(tokens))}
	for i := range tokens {
		m := &tokens[i]
		r.bySymbol[strings.ToUpper(m.Symbol)] = m
		r.ordered = append(r.ordered, m)
	}
	sort.Slice(r.ordered, func(i, j int) bool { return r.ordered[i].Symbol < r.ordered[j].Symbol })
	return r
}

// GetBySymbol gets a token by symbol on any chain
func (r *TokenRepository) GetBySymbol(ctx context.Context, symbol string) (*entities.ChainToken, error) {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	if key == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	m, ok := r.bySymbol[key]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return r.toEntity(m), nil
}

// GetBySymbolOnChain gets a token by symbol when it is deployed on chainID
func (r *TokenRepository) GetBySymbolOnChain(ctx context.Context, symbol, chainID string) (*entities.ChainToken, error) {
	token, err := r.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if _, ok := token.AddressOn(strings.TrimSpace(chainID)); !ok {
		return nil, domainerrors.ErrNotFound
	}
	return token, nil
}

// GetByAddressOnChain gets the token deployed at address on chainID. Any
// native sentinel matches the chain's native currency.
func (r *TokenRepository) GetByAddressOnChain(ctx context.Context, address, chainID string) (*entities.ChainToken, error) {
	address = strings.TrimSpace(address)
	chainID = strings.TrimSpace(chainID)
	if address == "" || chainID == "" {
		return nil, domainerrors.ErrInvalidInput
	}

	native := entities.IsNativeTokenAddress(address)
	for _, m := range r.ordered {
		token := r.toEntity(m)
		if native {
			if token.IsNativeOn(chainID) {
				return token, nil
			}
			continue
		}
		if addr, ok := token.AddressOn(chainID); ok && strings.EqualFold(addr, address) {
			return token, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

// GetAll gets all tokens ordered by symbol
func (r *TokenRepository) GetAll(ctx context.Context) ([]*entities.ChainToken, error) {
	tokens := make([]*entities.ChainToken, 0, len(r.ordered))
	for _, m := range r.ordered {
		tokens = append(tokens, r.toEntity(m))
	}
	return tokens, nil
}

// GetSupportedByChain gets the tokens deployed on chainID
func (r *TokenRepository) GetSupportedByChain(ctx context.Context, chainID string) ([]*entities.ChainToken, error) {
	var tokens []*entities.ChainToken
	for _, m := range r.ordered {
		if _, ok := m.ContractAddresses[chainID]; ok {
			tokens = append(tokens, r.toEntity(m))
		}
	}
	return tokens, nil
}

func (r *TokenRepository) toEntity(m *models.Token) *entities.ChainToken {
	addresses := make(map[string]string, len(m.ContractAddresses))
	for chainID, addr := range m.ContractAddresses {
		addresses[chainID] = addr
	}
	return &entities.ChainToken{
		Symbol:           m.Symbol,
		Name:             m.Name,
		Decimals:         int32(m.Decimals),
		AddressesByChain: addresses,
		MinAmount:        m.MinAmount,
		MaxAmount:        m.MaxAmount,
	}
}
