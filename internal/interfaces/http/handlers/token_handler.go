package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"payroute.backend/internal/domain/entities"
	"payroute.backend/internal/domain/repositories"
	"payroute.backend/internal/interfaces/http/response"
	"payroute.backend/pkg/utils"
)

// ChainLookup resolves any accepted chain identifier
type ChainLookup interface {
	ResolveFromAny(ctx context.Context, identifier string) (*entities.ResolvedChain, error)
}

// TokenHandler handles token endpoints
type TokenHandler struct {
	tokenRepo repositories.TokenRepository
	chains    ChainLookup
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(tokenRepo repositories.TokenRepository, chains ChainLookup) *TokenHandler {
	return &TokenHandler{tokenRepo: tokenRepo, chains: chains}
}

// ListTokens lists tokens, optionally filtered by chain. chainId accepts a
// decimal id, a CAIP-2 id, a hex id or a chain name. page and limit page
// through the registry order.
// GET /api/v1/tokens
func (h *TokenHandler) ListTokens(c *gin.Context) {
	ctx := c.Request.Context()
	pagination := utils.ParsePaginationParams(c.Query("page"), c.Query("limit"))

	if chainParam := strings.TrimSpace(c.Query("chainId")); chainParam != "" {
		chain, err := h.chains.ResolveFromAny(ctx, chainParam)
		if err != nil {
			response.Error(c, err)
			return
		}

		tokens, err := h.tokenRepo.GetSupportedByChain(ctx, chain.ChainID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tokens"})
			return
		}

		page, meta := utils.Paginate(tokens, pagination)
		c.JSON(http.StatusOK, gin.H{"chainId": chain.ChainID, "tokens": page, "meta": meta})
		return
	}

	tokens, err := h.tokenRepo.GetAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tokens"})
		return
	}

	page, meta := utils.Paginate(tokens, pagination)
	c.JSON(http.StatusOK, gin.H{"tokens": page, "meta": meta})
}
