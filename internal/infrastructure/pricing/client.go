package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"payroute.backend/internal/config"
	"payroute.backend/internal/domain/entities"
	"payroute.backend/internal/domain/repositories"
	"payroute.backend/pkg/logger"
)

const (
	marketDataPath    = "/api/1/market/data"
	responseSizeLimit = 1 << 20
	nativeDecimals    = 18
)

// Client looks token prices up on a Mobula-compatible market data API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	chains     repositories.ChainRepository
	tokens     repositories.TokenRepository
}

// NewClient creates a price client. tokens supplies decimals when the API
// omits them; without it such prices are rejected.
func NewClient(baseURL, apiKey string, httpClient *http.Client, chains repositories.ChainRepository, tokens repositories.TokenRepository) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		chains:     chains,
		tokens:     tokens,
	}
}

// NewClientFromConfig builds a Client from the pricing config section
func NewClientFromConfig(cfg config.PricingConfig, chains repositories.ChainRepository, tokens repositories.TokenRepository) *Client {
	return NewClient(cfg.BaseURL, cfg.APIKey, nil, chains, tokens)
}

type marketDataResponse struct {
	Data struct {
		Price    decimal.NullDecimal `json:"price"`
		Decimals *int32              `json:"decimals"`
	} `json:"data"`
}

// FetchTokenPrice returns the USD price of a token, or nil when the API does
// not know it. Native currencies are looked up by their symbol.
func (c *Client) FetchTokenPrice(ctx context.Context, tokenAddress, chainID string) (*entities.TokenPrice, error) {
	asset := tokenAddress
	native := entities.IsNativeTokenAddress(tokenAddress)
	if native {
		symbol, err := c.nativeSymbol(ctx, chainID)
		if err != nil {
			return nil, err
		}
		asset = symbol
	}

	query := url.Values{}
	query.Set("asset", asset)
	query.Set("blockchain", chainID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+marketDataPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error constructing request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		logger.Debug(ctx, "Token price unknown", zap.String("asset", asset), zap.String("chain_id", chainID))
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price API error: %q (code %d)", resp.Status, resp.StatusCode)
	}

	var body marketDataResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseSizeLimit)).Decode(&body); err != nil {
		return nil, fmt.Errorf("error decoding price response: %w", err)
	}
	if !body.Data.Price.Valid || !body.Data.Price.Decimal.IsPositive() {
		return nil, nil
	}

	price := &entities.TokenPrice{Price: body.Data.Price.Decimal.InexactFloat64()}
	switch {
	case body.Data.Decimals != nil:
		price.Decimals = *body.Data.Decimals
	case native:
		price.Decimals = nativeDecimals
	default:
		decimals, err := c.registryDecimals(ctx, tokenAddress, chainID)
		if err != nil {
			return nil, err
		}
		price.Decimals = decimals
	}
	return price, nil
}

func (c *Client) registryDecimals(ctx context.Context, tokenAddress, chainID string) (int32, error) {
	if c.tokens == nil {
		return 0, fmt.Errorf("price API returned no decimals for %s on chain %s", tokenAddress, chainID)
	}
	token, err := c.tokens.GetByAddressOnChain(ctx, tokenAddress, chainID)
	if err != nil {
		return 0, fmt.Errorf("price API returned no decimals for %s on chain %s: %w", tokenAddress, chainID, err)
	}
	return token.Decimals, nil
}

func (c *Client) nativeSymbol(ctx context.Context, chainID string) (string, error) {
	if c.chains == nil {
		return entities.NativeTokenAddress, nil
	}
	chain, err := c.chains.GetByChainID(ctx, chainID)
	if err != nil {
		return "", fmt.Errorf("native token of chain %s: %w", chainID, err)
	}
	return chain.NativeSymbol, nil
}
