package squid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"payroute.backend/internal/config"
	"payroute.backend/internal/domain/entities"
	domainerrors "payroute.backend/internal/domain/errors"
	"payroute.backend/internal/infrastructure/metrics"
	"payroute.backend/pkg/logger"
)

const (
	routePath          = "/v2/route"
	integratorIDHeader = "x-integrator-id"
	responseSizeLimit  = 4 << 20
)

// Client requests forward route quotes from the Squid aggregator
type Client struct {
	baseURL                  string
	integratorID             string
	integratorIDWithoutCoral string
	httpClient               *http.Client
	limiter                  *rate.Limiter
	metrics                  *metrics.Metrics
}

// Options configures a Client. RequestsPerSecond <= 0 disables rate limiting.
type Options struct {
	BaseURL                  string
	IntegratorID             string
	IntegratorIDWithoutCoral string
	RequestsPerSecond        float64
	Timeout                  time.Duration
	HTTPClient               *http.Client
	Metrics                  *metrics.Metrics
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), int(math.Max(1, math.Ceil(opts.RequestsPerSecond))))
	}
	return &Client{
		baseURL:                  strings.TrimRight(opts.BaseURL, "/"),
		integratorID:             opts.IntegratorID,
		integratorIDWithoutCoral: opts.IntegratorIDWithoutCoral,
		httpClient:               httpClient,
		limiter:                  limiter,
		metrics:                  opts.Metrics,
	}
}

// NewClientFromConfig builds a Client from the aggregator config section
func NewClientFromConfig(cfg config.SquidConfig, m *metrics.Metrics) *Client {
	return NewClient(Options{
		BaseURL:                  cfg.BaseURL,
		IntegratorID:             cfg.IntegratorID,
		IntegratorIDWithoutCoral: cfg.IntegratorIDWithoutCoral,
		RequestsPerSecond:        cfg.RequestsPerSecond,
		Timeout:                  cfg.Timeout,
		Metrics:                  m,
	})
}

// GetQuote issues one route request. disableCoral selects the integrator id
// that excludes the short-expiry rfq liquidity source.
func (c *Client) GetQuote(ctx context.Context, params entities.QuoteParams, disableCoral bool) (*entities.Quote, error) {
	if params.FromAmount == nil {
		return nil, &domainerrors.QuoteError{Err: fmt.Errorf("missing fromAmount")}
	}
	body, err := json.Marshal(routeRequest{
		FromChain:   params.FromChain,
		FromToken:   params.FromToken,
		FromAmount:  params.FromAmount.String(),
		FromAddress: params.FromAddress,
		ToChain:     params.ToChain,
		ToToken:     params.ToToken,
		ToAddress:   params.ToAddress,
	})
	if err != nil {
		return nil, &domainerrors.QuoteError{Err: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domainerrors.QuoteError{Err: fmt.Errorf("rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+routePath, bytes.NewReader(body))
	if err != nil {
		return nil, &domainerrors.QuoteError{Err: fmt.Errorf("error constructing request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(integratorIDHeader, c.integratorFor(disableCoral))

	logger.Debug(ctx, "Requesting route quote",
		zap.String("from_chain", params.FromChain),
		zap.String("to_chain", params.ToChain),
		zap.String("from_amount", params.FromAmount.String()),
		zap.Bool("disable_coral", disableCoral),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveQuote(metrics.OutcomeTransportError, time.Since(start))
		return nil, &domainerrors.QuoteError{Err: fmt.Errorf("error performing request: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseSizeLimit))
	if err != nil {
		c.metrics.ObserveQuote(metrics.OutcomeTransportError, time.Since(start))
		return nil, &domainerrors.QuoteError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.ObserveQuote(metrics.OutcomeHTTPError, time.Since(start))
		var errResp errorResponse
		_ = json.Unmarshal(raw, &errResp)
		quoteErr := &domainerrors.QuoteError{StatusCode: resp.StatusCode, Message: errResp.text()}
		logger.Warn(ctx, "Route quote rejected", zap.Int("status", resp.StatusCode), zap.String("error", quoteErr.Error()))
		return nil, quoteErr
	}

	var routeResp routeResponse
	if err := json.Unmarshal(raw, &routeResp); err != nil {
		c.metrics.ObserveQuote(metrics.OutcomeDecodeError, time.Since(start))
		return nil, &domainerrors.QuoteError{StatusCode: resp.StatusCode, Err: fmt.Errorf("error decoding route response: %w", err)}
	}
	quote, err := routeResp.toQuote()
	if err != nil {
		c.metrics.ObserveQuote(metrics.OutcomeDecodeError, time.Since(start))
		return nil, &domainerrors.QuoteError{StatusCode: resp.StatusCode, Err: err}
	}

	c.metrics.ObserveQuote(metrics.OutcomeSuccess, time.Since(start))
	return quote, nil
}

func (c *Client) integratorFor(disableCoral bool) string {
	if disableCoral {
		return c.integratorIDWithoutCoral
	}
	return c.integratorID
}
