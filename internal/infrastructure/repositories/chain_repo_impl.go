package repositories

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"payroute.backend/internal/domain/entities"
	domainerrors "payroute.backend/internal/domain/errors"
	"payroute.backend/internal/domain/repositories"
	"payroute.backend/internal/infrastructure/models"
)

// chainRepo implements repositories.ChainRepository over an in-memory table
type chainRepo struct {
	byID    map[string]*models.Chain
	byName  map[string]*models.Chain
	ordered []*models.Chain
}

// NewChainRepository creates a chain repository backed by the built-in table
func NewChainRepository() repositories.ChainRepository {
	return NewChainRepositoryFrom(SupportedChains)
}

// NewChainRepositoryFrom creates a chain repository over the given records
func NewChainRepositoryFrom(chains []models.Chain) repositories.ChainRepository {
	r := &chainRepo{
		byID:   make(map[string]*models.Chain, len(chains)),
		byName: make(map[string]*models.Chain),
	}
	for i := range chains {
		m := &chains[i]
		r.ordered = append(r.ordered, m)
		r.byID[strconv.FormatUint(m.ChainID, 10)] = m
		r.byName[normalizeName(m.ShortName)] = m
		for _, alias := range m.Aliases {
			r.byName[normalizeName(alias)] = m
		}
	}
	sort.Slice(r.ordered, func(i, j int) bool { return r.ordered[i].ChainID < r.ordered[j].ChainID })
	return r
}

// GetByChainID gets a chain by decimal chain id. CAIP-2 ids are accepted too.
func (r *chainRepo) GetByChainID(ctx context.Context, chainID string) (*entities.ResolvedChain, error) {
	value := strings.TrimSpace(chainID)
	if value == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	// Fallback match by reference part (e.g. "eip155:8453" -> "8453").
	if ns, ref, ok := strings.Cut(value, ":"); ok {
		if ns != "eip155" {
			return nil, domainerrors.ErrNotFound
		}
		value = strings.TrimSpace(ref)
	}
	m, ok := r.byID[value]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return r.toEntity(m), nil
}

// GetByName gets a chain by short name or alias, ignoring case and surrounding spaces
func (r *chainRepo) GetByName(ctx context.Context, name string) (*entities.ResolvedChain, error) {
	key := normalizeName(name)
	if key == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	m, ok := r.byName[key]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return r.toEntity(m), nil
}

// GetAll gets all chains ordered by chain id
func (r *chainRepo) GetAll(ctx context.Context) ([]*entities.ResolvedChain, error) {
	chains := make([]*entities.ResolvedChain, 0, len(r.ordered))
	for _, m := range r.ordered {
		chains = append(chains, r.toEntity(m))
	}
	return chains, nil
}

func (r *chainRepo) toEntity(m *models.Chain) *entities.ResolvedChain {
	chainType := entities.ChainType(m.ChainType)
	if chainType == "" {
		chainType = entities.ChainTypeEVM
	}
	return &entities.ResolvedChain{
		ChainID:      strconv.FormatUint(m.ChainID, 10),
		Name:         m.Name,
		ShortName:    m.ShortName,
		NativeSymbol: m.NativeSymbol,
		Type:         chainType,
	}
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
