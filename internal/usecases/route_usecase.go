package usecases

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"payroute.backend/internal/domain/entities"
	"payroute.backend/internal/infrastructure/blockchain"
	"payroute.backend/internal/infrastructure/metrics"
	"payroute.backend/pkg/logger"
)

// ErrPricesUnavailable is returned when a token price lookup yields nothing
var ErrPricesUnavailable = errors.New("could not fetch token prices")

// QuoteClient requests forward route quotes from the aggregator
type QuoteClient interface {
	GetQuote(ctx context.Context, params entities.QuoteParams, disableCoral bool) (*entities.Quote, error)
}

// PriceOracle returns a token's USD price, or nil when unknown
type PriceOracle interface {
	FetchTokenPrice(ctx context.Context, tokenAddress, chainID string) (*entities.TokenPrice, error)
}

// AllowanceReader reads ERC-20 allowances
type AllowanceReader interface {
	Allowance(ctx context.Context, chainID, token, owner, spender string) (*big.Int, error)
}

// GasCostEstimator prices a transaction's gas in USD
type GasCostEstimator interface {
	EstimateTransactionCostUSD(ctx context.Context, chainID, from string, tx entities.PlannedTransaction) (float64, error)
}

// RouteOptions tunes a single route resolution
type RouteOptions struct {
	// DisableCoral excludes the short-expiry rfq liquidity source
	DisableCoral bool
	// DestinationPrice skips the destination price lookup when already known.
	// It is ignored unless both price and decimals are set.
	DestinationPrice *entities.TokenPrice
}

type RouteUsecase struct {
	quotes     QuoteClient
	prices     PriceOracle
	allowances AllowanceReader
	gas        GasCostEstimator
	metrics    *metrics.Metrics
}

func NewRouteUsecase(quotes QuoteClient, prices PriceOracle, allowances AllowanceReader, gas GasCostEstimator, m *metrics.Metrics) *RouteUsecase {
	return &RouteUsecase{
		quotes:     quotes,
		prices:     prices,
		allowances: allowances,
		gas:        gas,
		metrics:    m,
	}
}

// routeRun carries the state of one GetRoute call
type routeRun struct {
	req         entities.RouteRequest
	opts        RouteOptions
	oracleCalls int
}

// GetRoute resolves a route plan. Failures are reported in RouteResult.Error,
// never as a Go error or panic.
func (u *RouteUsecase) GetRoute(ctx context.Context, req entities.RouteRequest, opts RouteOptions) (result entities.RouteResult) {
	run := &routeRun{req: req, opts: opts}
	mode := string(req.Amount.Mode())

	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "Route resolution panicked", zap.Any("panic", r))
			result = entities.RouteResult{Error: fmt.Sprintf("route resolution failed: %v", r)}
		}
		outcome := "ok"
		if result.Error != "" {
			outcome = "error"
		}
		u.metrics.ObserveRoute(mode, outcome, run.oracleCalls)
	}()

	plan, err := u.resolve(ctx, run)
	if err != nil {
		logger.Warn(ctx, "Route resolution failed",
			zap.String("mode", mode),
			zap.Int("oracle_calls", run.oracleCalls),
			zap.Error(err),
		)
		return entities.RouteResult{Error: err.Error()}
	}

	logger.Info(ctx, "Route resolved",
		zap.String("mode", mode),
		zap.String("from_amount", plan.FromAmount),
		zap.Int("transactions", len(plan.Transactions)),
		zap.Int("oracle_calls", run.oracleCalls),
	)
	return entities.RouteResult{RoutePlan: plan}
}

func (u *RouteUsecase) resolve(ctx context.Context, run *routeRun) (*entities.RoutePlan, error) {
	if err := validateRouteRequest(run.req); err != nil {
		return nil, err
	}

	var (
		quote *entities.Quote
		err   error
	)
	amount := run.req.Amount
	switch amount.Mode() {
	case entities.AmountModeFromAmount:
		units := amount.Units()
		if units == nil || units.Sign() <= 0 {
			return nil, fmt.Errorf("fromAmount must be greater than zero")
		}
		quote, err = u.quote(ctx, run, units)

	case entities.AmountModeFromUSD:
		usd, perr := parseUSD(amount.USD())
		if perr != nil {
			return nil, perr
		}
		src, perr := u.fetchPrice(ctx, run.req.From)
		if perr != nil {
			return nil, perr
		}
		units := toBaseUnits(usd.DivRound(decimal.NewFromFloat(src.Price), src.Decimals), src.Decimals)
		if units.Sign() <= 0 {
			return nil, fmt.Errorf("fromUsd %s is below the smallest unit of the source token", amount.USD())
		}
		quote, err = u.quote(ctx, run, units)

	case entities.AmountModeToAmount:
		target := amount.Units()
		if target == nil || target.Sign() <= 0 {
			return nil, fmt.Errorf("toAmount must be greater than zero")
		}
		src, dst, perr := u.fetchPrices(ctx, run)
		if perr != nil {
			return nil, perr
		}
		quote, err = u.searchForTarget(ctx, run, target, src, dst)

	case entities.AmountModeToUSD:
		usd, perr := parseUSD(amount.USD())
		if perr != nil {
			return nil, perr
		}
		src, dst, perr := u.fetchPrices(ctx, run)
		if perr != nil {
			return nil, perr
		}
		target := toBaseUnits(usd.DivRound(decimal.NewFromFloat(dst.Price), dst.Decimals), dst.Decimals)
		if target.Sign() <= 0 {
			return nil, fmt.Errorf("toUsd %s is below the smallest unit of the destination token", amount.USD())
		}
		quote, err = u.searchForTarget(ctx, run, target, src, dst)

	default:
		return nil, fmt.Errorf("exactly one of fromAmount, toAmount, fromUsd or toUsd is required")
	}
	if err != nil {
		return nil, err
	}

	return u.assemble(ctx, run, quote)
}

func validateRouteRequest(req entities.RouteRequest) error {
	switch {
	case strings.TrimSpace(req.From.ChainID) == "" || strings.TrimSpace(req.To.ChainID) == "":
		return fmt.Errorf("source and destination chain ids are required")
	case strings.TrimSpace(req.From.TokenAddress) == "" || strings.TrimSpace(req.To.TokenAddress) == "":
		return fmt.Errorf("source and destination token addresses are required")
	case strings.TrimSpace(req.From.Address) == "" || strings.TrimSpace(req.To.Address) == "":
		return fmt.Errorf("source and destination addresses are required")
	}
	return nil
}

func parseUSD(value string) (decimal.Decimal, error) {
	usd, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid USD amount %q", value)
	}
	if !usd.IsPositive() {
		return decimal.Zero, fmt.Errorf("USD amount must be greater than zero")
	}
	return usd, nil
}

func (u *RouteUsecase) fetchPrice(ctx context.Context, endpoint entities.RouteEndpoint) (*entities.TokenPrice, error) {
	price, err := u.prices.FetchTokenPrice(ctx, endpoint.TokenAddress, endpoint.ChainID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPricesUnavailable, err)
	}
	if !usablePrice(price) {
		return nil, fmt.Errorf("%w: no usable price for %s on chain %s", ErrPricesUnavailable, endpoint.TokenAddress, endpoint.ChainID)
	}
	return price, nil
}

// usablePrice requires a positive price and known decimals. Zero decimals is
// what an API that omitted them decodes to.
func usablePrice(price *entities.TokenPrice) bool {
	return price != nil && price.Price > 0 && price.Decimals > 0
}

// fetchPrices looks up source and destination prices concurrently
func (u *RouteUsecase) fetchPrices(ctx context.Context, run *routeRun) (*entities.TokenPrice, *entities.TokenPrice, error) {
	var src, dst *entities.TokenPrice
	if known := run.opts.DestinationPrice; usablePrice(known) {
		dst = known
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		src, err = u.fetchPrice(gctx, run.req.From)
		return err
	})
	if dst == nil {
		g.Go(func() error {
			var err error
			dst, err = u.fetchPrice(gctx, run.req.To)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return src, dst, nil
}

func (u *RouteUsecase) quote(ctx context.Context, run *routeRun, fromAmount *big.Int) (*entities.Quote, error) {
	run.oracleCalls++
	return u.quotes.GetQuote(ctx, entities.QuoteParams{
		FromChain:   run.req.From.ChainID,
		FromToken:   run.req.From.TokenAddress,
		FromAmount:  fromAmount,
		FromAddress: run.req.From.Address,
		ToChain:     run.req.To.ChainID,
		ToToken:     run.req.To.TokenAddress,
		ToAddress:   run.req.To.Address,
	}, run.opts.DisableCoral)
}

// searchForTarget finds an input whose guaranteed output lands in
// [target, target*(1+maxOverage)] using at most 1+MaxSearchIterations quotes.
func (u *RouteUsecase) searchForTarget(ctx context.Context, run *routeRun, target *big.Int, src, dst *entities.TokenPrice) (*entities.Quote, error) {
	targetUSD := formatUnits(target, dst.Decimals).Mul(decimal.NewFromFloat(dst.Price))
	maxOverage := maxOverageFor(targetUSD)

	initial := toBaseUnits(targetUSD.DivRound(decimal.NewFromFloat(src.Price), src.Decimals), src.Decimals)
	if initial.Sign() <= 0 {
		initial = big.NewInt(1)
	}

	first, err := u.quote(ctx, run, initial)
	if err != nil {
		return nil, err
	}
	received := first.ToAmountMin
	if withinTolerance(received, target, maxOverage) {
		return first, nil
	}
	if received.Sign() == 0 {
		return first, nil
	}

	var (
		best        *entities.Quote
		bestOverage decimal.Decimal
	)
	if received.Cmp(target) >= 0 {
		best, bestOverage = first, overageOf(received, target)
	}

	adjusted := ceilDiv(new(big.Int).Mul(initial, target), received)
	delta := percentOf(adjusted, SearchWindowPercent, 100)
	low := new(big.Int).Sub(adjusted, delta)
	high := new(big.Int).Add(adjusted, delta)
	minGap := percentOf(adjusted, MinSearchGapPerMille, 1000)

	for iter := 0; iter < MaxSearchIterations && new(big.Int).Sub(high, low).Cmp(minGap) > 0; iter++ {
		mid := new(big.Int).Add(low, high)
		mid.Quo(mid, big.NewInt(2))

		q, err := u.quote(ctx, run, mid)
		if err != nil {
			logger.Warn(ctx, "Route search quote failed, raising lower bound",
				zap.String("from_amount", mid.String()),
				zap.Error(err),
			)
			low = mid
			continue
		}

		got := q.ToAmountMin
		if got.Cmp(target) >= 0 {
			if withinTolerance(got, target, maxOverage) {
				return q, nil
			}
			if ov := overageOf(got, target); best == nil || ov.LessThan(bestOverage) {
				best, bestOverage = q, ov
			}
			high = mid
		} else {
			low = mid
		}
	}

	if best != nil {
		return best, nil
	}
	return first, nil
}

// assemble orders the reset, approval and swap transactions and totals fees
func (u *RouteUsecase) assemble(ctx context.Context, run *routeRun, quote *entities.Quote) (*entities.RoutePlan, error) {
	if quote == nil || quote.FromAmount == nil {
		return nil, fmt.Errorf("aggregator returned an empty quote")
	}
	from := run.req.From
	spender := quote.Transaction.Target
	required := quote.FromAmount
	feeCosts := quote.TotalCostsUSD()
	var txs []entities.PlannedTransaction

	if !entities.IsNativeTokenAddress(from.TokenAddress) {
		allowance, err := u.allowances.Allowance(ctx, from.ChainID, from.TokenAddress, from.Address, spender)
		if err != nil {
			return nil, fmt.Errorf("failed to read allowance: %w", err)
		}

		if requiresAllowanceReset(from.ChainID, from.TokenAddress) && allowance.Sign() > 0 && allowance.Cmp(required) < 0 {
			reset, err := approvalTransaction(from.TokenAddress, spender, big.NewInt(0))
			if err != nil {
				return nil, err
			}
			txs = append(txs, reset)
			allowance = big.NewInt(0)
		}

		if allowance.Cmp(required) < 0 {
			approve, err := approvalTransaction(from.TokenAddress, spender, required)
			if err != nil {
				return nil, err
			}
			txs = append(txs, approve)

			cost, err := u.gas.EstimateTransactionCostUSD(ctx, from.ChainID, from.Address, approve)
			if err != nil {
				logger.Warn(ctx, "Approval gas estimate failed", zap.Error(err))
			} else {
				feeCosts += cost
			}
		}
	}

	txs = append(txs, entities.PlannedTransaction{
		To:    spender,
		Data:  quote.Transaction.Data,
		Value: quote.Transaction.Value,
	})

	return &entities.RoutePlan{
		Expiry:       quote.Transaction.Expiry,
		ActionType:   quote.ActionType(),
		FromAmount:   required.String(),
		Transactions: txs,
		FeeCostsUSD:  feeCosts,
	}, nil
}

func approvalTransaction(token, spender string, amount *big.Int) (entities.PlannedTransaction, error) {
	data, err := blockchain.EncodeApprove(spender, amount)
	if err != nil {
		return entities.PlannedTransaction{}, fmt.Errorf("failed to encode approval: %w", err)
	}
	return entities.PlannedTransaction{To: token, Data: hexutil.Encode(data), Value: "0"}, nil
}
