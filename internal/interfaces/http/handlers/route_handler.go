package handlers

import (
	"context"
	"math/big"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"payroute.backend/internal/domain/entities"
	domainerrors "payroute.backend/internal/domain/errors"
	"payroute.backend/internal/interfaces/http/response"
	"payroute.backend/internal/usecases"
)

// RouteService resolves route plans
type RouteService interface {
	GetRoute(ctx context.Context, req entities.RouteRequest, opts usecases.RouteOptions) entities.RouteResult
}

// RouteHandler handles route endpoints
type RouteHandler struct {
	routes RouteService
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routes RouteService) *RouteHandler {
	return &RouteHandler{routes: routes}
}

type routeEndpointInput struct {
	Address      string `json:"address" binding:"required"`
	TokenAddress string `json:"tokenAddress" binding:"required"`
	ChainID      string `json:"chainId" binding:"required"`
}

type routeInput struct {
	From             routeEndpointInput   `json:"from"`
	To               routeEndpointInput   `json:"to"`
	FromAmount       string               `json:"fromAmount"`
	ToAmount         string               `json:"toAmount"`
	FromUSD          string               `json:"fromUsd"`
	ToUSD            string               `json:"toUsd"`
	DisableCoral     bool                 `json:"disableCoral"`
	DestinationPrice *entities.TokenPrice `json:"destinationPrice"`
}

// GetRoute resolves a route plan. Route failures are returned as 200 with
// an error field; malformed requests get 400.
// POST /api/v1/routes
func (h *RouteHandler) GetRoute(c *gin.Context) {
	var input routeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	amount, err := input.amount()
	if err != nil {
		response.Error(c, err)
		return
	}
	if p := input.DestinationPrice; p != nil && (p.Price <= 0 || p.Decimals <= 0) {
		response.Error(c, domainerrors.BadRequest("destinationPrice requires a positive price and decimals"))
		return
	}

	req := entities.RouteRequest{
		From:   entities.RouteEndpoint(input.From),
		To:     entities.RouteEndpoint(input.To),
		Amount: amount,
	}
	result := h.routes.GetRoute(c.Request.Context(), req, usecases.RouteOptions{
		DisableCoral:     input.DisableCoral,
		DestinationPrice: input.DestinationPrice,
	})
	response.Success(c, http.StatusOK, result)
}

// amount picks the single amount mode present in the input
func (in routeInput) amount() (entities.RouteAmount, error) {
	var (
		modes  int
		amount entities.RouteAmount
	)
	if v := strings.TrimSpace(in.FromAmount); v != "" {
		modes++
		units, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return amount, domainerrors.BadRequest("fromAmount must be an integer in base units")
		}
		amount = entities.FromAmount(units)
	}
	if v := strings.TrimSpace(in.ToAmount); v != "" {
		modes++
		units, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return amount, domainerrors.BadRequest("toAmount must be an integer in base units")
		}
		amount = entities.ToAmount(units)
	}
	if v := strings.TrimSpace(in.FromUSD); v != "" {
		modes++
		amount = entities.FromUSD(v)
	}
	if v := strings.TrimSpace(in.ToUSD); v != "" {
		modes++
		amount = entities.ToUSD(v)
	}

	if modes != 1 {
		return entities.RouteAmount{}, domainerrors.BadRequest("exactly one of fromAmount, toAmount, fromUsd or toUsd is required")
	}
	return amount, nil
}
