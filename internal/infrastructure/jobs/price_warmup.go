package jobs

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"payroute.backend/internal/domain/entities"
	"payroute.backend/pkg/logger"
)

const warmupConcurrency = 4

type tokenLister interface {
	GetAll(ctx context.Context) ([]*entities.ChainToken, error)
}

type priceRefresher interface {
	Refresh(ctx context.Context, tokenAddress, chainID string) (*entities.TokenPrice, error)
}

// PriceWarmupJob periodically refreshes cached prices for every registry token
type PriceWarmupJob struct {
	tokens   tokenLister
	prices   priceRefresher
	interval time.Duration
	stop     chan struct{}
}

func NewPriceWarmupJob(tokens tokenLister, prices priceRefresher, interval time.Duration) *PriceWarmupJob {
	return &PriceWarmupJob{
		tokens:   tokens,
		prices:   prices,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *PriceWarmupJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting price warm-up job", zap.Duration("interval", j.interval))

	j.refreshPrices(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Price warm-up job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Price warm-up job stopped")
			return
		case <-ticker.C:
			j.refreshPrices(ctx)
		}
	}
}

func (j *PriceWarmupJob) Stop() {
	close(j.stop)
}

type warmupTarget struct {
	address string
	chainID string
}

func (j *PriceWarmupJob) refreshPrices(ctx context.Context) {
	tokens, err := j.tokens.GetAll(ctx)
	if err != nil {
		logger.Error(ctx, "Error listing tokens for price warm-up", zap.Error(err))
		return
	}

	var targets []warmupTarget
	for _, token := range tokens {
		for chainID, addr := range token.AddressesByChain {
			targets = append(targets, warmupTarget{address: addr, chainID: chainID})
		}
	}
	if len(targets) == 0 {
		return
	}
	sort.Slice(targets, func(a, b int) bool {
		if targets[a].chainID != targets[b].chainID {
			return targets[a].chainID < targets[b].chainID
		}
		return targets[a].address < targets[b].address
	})

	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmupConcurrency)
	for _, target := range targets {
		target := target
		g.Go(func() error {
			if _, err := j.prices.Refresh(gctx, target.address, target.chainID); err != nil {
				failed.Add(1)
				logger.Warn(gctx, "Price refresh failed",
					zap.String("token", target.address),
					zap.String("chain_id", target.chainID),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	logger.Debug(ctx, "Refreshed token prices",
		zap.Int("targets", len(targets)),
		zap.Int32("failed", failed.Load()),
	)
}
