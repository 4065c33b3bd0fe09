package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"payroute.backend/internal/config"
	"payroute.backend/internal/infrastructure/blockchain"
	"payroute.backend/internal/infrastructure/jobs"
	"payroute.backend/internal/infrastructure/metrics"
	"payroute.backend/internal/infrastructure/pricing"
	"payroute.backend/internal/infrastructure/repositories"
	"payroute.backend/internal/infrastructure/squid"
	"payroute.backend/internal/interfaces/http/handlers"
	"payroute.backend/internal/interfaces/http/middleware"
	"payroute.backend/internal/usecases"
	"payroute.backend/pkg/logger"
	"payroute.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	runServer  = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

// app holds the wired server and what must be released on shutdown
type app struct {
	router    *gin.Engine
	factory   *blockchain.ClientFactory
	warmupJob *jobs.PriceWarmupJob
}

func buildApp(cfg *config.Config) *app {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Registry
	chainRepo := repositories.NewChainRepository()
	tokenRepo := repositories.NewTokenRepository()

	// Infrastructure
	clientFactory := blockchain.NewClientFactory(cfg.Blockchain.RPCURLs)
	priceClient := pricing.NewClientFromConfig(cfg.Pricing, chainRepo, tokenRepo)
	priceOracle := pricing.NewCachedOracle(priceClient, cfg.Pricing.CacheTTL, m)
	quoteClient := squid.NewClientFromConfig(cfg.Squid, m)
	allowanceReader := blockchain.NewERC20Reader(clientFactory)
	gasEstimator := blockchain.NewGasCostEstimator(clientFactory, priceOracle)
	ensResolver := blockchain.NewENSResolver(clientFactory)

	// Usecases
	chainResolver := usecases.NewChainResolver(chainRepo, tokenRepo)
	parser := usecases.NewPaymentURLParser(chainResolver, cfg.Payment.DefaultChainID)
	validator := usecases.NewPaymentValidator(chainResolver, tokenRepo, ensResolver, nil)
	routeUsecase := usecases.NewRouteUsecase(quoteClient, priceOracle, allowanceReader, gasEstimator, m)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r, registry)
	registerAPIV1Routes(r, routeDeps{
		routeHandler:   handlers.NewRouteHandler(routeUsecase),
		paymentHandler: handlers.NewPaymentHandler(parser, validator, m),
		chainHandler:   handlers.NewChainHandler(chainRepo, tokenRepo),
		tokenHandler:   handlers.NewTokenHandler(tokenRepo, chainResolver),
	})

	a := &app{router: r, factory: clientFactory}
	if cfg.Pricing.WarmupInterval > 0 && redis.Enabled() {
		a.warmupJob = jobs.NewPriceWarmupJob(tokenRepo, priceOracle, cfg.Pricing.WarmupInterval)
	}
	return a
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	if redis.Enabled() {
		logger.Info(context.Background(), "Redis initialized")
	} else {
		logger.Info(context.Background(), "Redis disabled, prices are not cached")
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a := buildApp(cfg)
	defer a.factory.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.warmupJob != nil {
		go a.warmupJob.Start(ctx)
	}

	for _, route := range a.router.Routes() {
		logger.Debug(ctx, "Registered route", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(ctx, "Shutting down server")
		if a.warmupJob != nil {
			a.warmupJob.Stop()
		}
		cancel()
	}()

	logger.Info(ctx, "Payroute backend starting", zap.String("port", cfg.Server.Port))

	if err := runServer(a.router, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
