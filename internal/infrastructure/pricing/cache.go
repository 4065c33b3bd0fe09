package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"payroute.backend/internal/domain/entities"
	"payroute.backend/internal/infrastructure/metrics"
	"payroute.backend/pkg/logger"
	"payroute.backend/pkg/redis"
)

const cacheKeyPrefix = "price:"

// PriceFetcher is the uncached price source
type PriceFetcher interface {
	FetchTokenPrice(ctx context.Context, tokenAddress, chainID string) (*entities.TokenPrice, error)
}

// CachedOracle serves prices from redis and falls through to the wrapped
// fetcher on a miss. Without a redis client it passes every call through.
type CachedOracle struct {
	next    PriceFetcher
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewCachedOracle(next PriceFetcher, ttl time.Duration, m *metrics.Metrics) *CachedOracle {
	return &CachedOracle{next: next, ttl: ttl, metrics: m}
}

func cacheKey(tokenAddress, chainID string) string {
	return fmt.Sprintf("%s%s:%s", cacheKeyPrefix, strings.TrimSpace(chainID), strings.ToLower(strings.TrimSpace(tokenAddress)))
}

func (o *CachedOracle) FetchTokenPrice(ctx context.Context, tokenAddress, chainID string) (*entities.TokenPrice, error) {
	if redis.Enabled() && o.ttl > 0 {
		var cached entities.TokenPrice
		err := redis.GetJSON(ctx, cacheKey(tokenAddress, chainID), &cached)
		if err == nil {
			o.metrics.ObservePriceLookup(metrics.PriceSourceCache)
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			logger.Warn(ctx, "Price cache read failed", zap.Error(err))
		}
	}
	return o.Refresh(ctx, tokenAddress, chainID)
}

// Refresh fetches a price from the wrapped source and stores it in the cache
func (o *CachedOracle) Refresh(ctx context.Context, tokenAddress, chainID string) (*entities.TokenPrice, error) {
	price, err := o.next.FetchTokenPrice(ctx, tokenAddress, chainID)
	if err != nil {
		o.metrics.ObservePriceLookup(metrics.PriceSourceError)
		return nil, err
	}
	o.metrics.ObservePriceLookup(metrics.PriceSourceAPI)
	if price == nil || !redis.Enabled() || o.ttl <= 0 {
		return price, nil
	}
	if err := redis.SetJSON(ctx, cacheKey(tokenAddress, chainID), price, o.ttl); err != nil {
		logger.Warn(ctx, "Price cache write failed", zap.Error(err))
	}
	return price, nil
}
