package main

import (
	"context"

	"payroute.backend/internal/config"
	"payroute.backend/internal/domain/entities"
	"payroute.backend/internal/infrastructure/blockchain"
	"payroute.backend/internal/infrastructure/pricing"
	"payroute.backend/internal/infrastructure/repositories"
	"payroute.backend/internal/infrastructure/squid"
	"payroute.backend/internal/usecases"
)

type chainLookup interface {
	ResolveFromAny(ctx context.Context, identifier string) (*entities.ResolvedChain, error)
	TokenAddress(ctx context.Context, symbol, chainID string) (string, error)
}

type intentParser interface {
	Parse(ctx context.Context, segments []string) (*entities.ParsedPaymentIntent, error)
}

type intentValidator interface {
	Validate(ctx context.Context, parsed *entities.ParsedPaymentIntent) (*entities.ValidatedPayment, error)
}

type routeResolver interface {
	GetRoute(ctx context.Context, req entities.RouteRequest, opts usecases.RouteOptions) entities.RouteResult
}

// services are the usecases the commands drive
type services struct {
	chains    chainLookup
	parser    intentParser
	validator intentValidator
	routes    routeResolver
}

// newServices wires the usecases the same way the server does. Redis is not
// used; every price lookup goes to the price API.
func newServices(cfg *config.Config) *services {
	chainRepo := repositories.NewChainRepository()
	tokenRepo := repositories.NewTokenRepository()
	factory := blockchain.NewClientFactory(cfg.Blockchain.RPCURLs)
	prices := pricing.NewClientFromConfig(cfg.Pricing, chainRepo, tokenRepo)

	resolver := usecases.NewChainResolver(chainRepo, tokenRepo)
	return &services{
		chains:    resolver,
		parser:    usecases.NewPaymentURLParser(resolver, cfg.Payment.DefaultChainID),
		validator: usecases.NewPaymentValidator(resolver, tokenRepo, blockchain.NewENSResolver(factory), nil),
		routes: usecases.NewRouteUsecase(
			squid.NewClientFromConfig(cfg.Squid, nil),
			prices,
			blockchain.NewERC20Reader(factory),
			blockchain.NewGasCostEstimator(factory, prices),
			nil,
		),
	}
}
