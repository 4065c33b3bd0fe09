package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"payroute.backend/internal/domain/entities"
	"payroute.backend/internal/domain/repositories"
	"payroute.backend/internal/interfaces/http/response"
)

// ChainHandler handles chain endpoints
type ChainHandler struct {
	chainRepo repositories.ChainRepository
	tokenRepo repositories.TokenRepository
}

// NewChainHandler creates a new chain handler
func NewChainHandler(chainRepo repositories.ChainRepository, tokenRepo repositories.TokenRepository) *ChainHandler {
	return &ChainHandler{chainRepo: chainRepo, tokenRepo: tokenRepo}
}

// ListChains lists the supported chains with the tokens available on each
// GET /api/v1/chains
func (h *ChainHandler) ListChains(c *gin.Context) {
	ctx := c.Request.Context()
	chains, err := h.chainRepo.GetAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list chains"})
		return
	}

	type tokenResponse struct {
		Symbol   string `json:"symbol"`
		Name     string `json:"name"`
		Decimals int32  `json:"decimals"`
		Address  string `json:"address"`
	}
	type chainResponse struct {
		*entities.ResolvedChain
		CAIP2  string          `json:"caip2"`
		Tokens []tokenResponse `json:"tokens"`
	}

	out := make([]chainResponse, 0, len(chains))
	for _, chain := range chains {
		tokens, err := h.tokenRepo.GetSupportedByChain(ctx, chain.ChainID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tokens"})
			return
		}
		item := chainResponse{ResolvedChain: chain, CAIP2: chain.GetCAIP2ID(), Tokens: []tokenResponse{}}
		for _, token := range tokens {
			addr, _ := token.AddressOn(chain.ChainID)
			item.Tokens = append(item.Tokens, tokenResponse{
				Symbol:   token.Symbol,
				Name:     token.Name,
				Decimals: token.Decimals,
				Address:  addr,
			})
		}
		out = append(out, item)
	}

	response.Success(c, http.StatusOK, gin.H{"chains": out})
}
