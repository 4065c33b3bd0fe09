package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	Squid      SquidConfig
	Pricing    PricingConfig
	Blockchain BlockchainConfig
	Payment    PaymentConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// RedisConfig holds Redis configuration. An empty URL disables caching.
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// SquidConfig holds the swap aggregator settings
type SquidConfig struct {
	BaseURL string
	// IntegratorID allows every liquidity source, including short-lived rfq quotes.
	IntegratorID string
	// IntegratorIDWithoutCoral routes around the rfq liquidity source.
	IntegratorIDWithoutCoral string
	RequestsPerSecond        float64
	Timeout                  time.Duration
}

// PricingConfig holds the token price API settings
type PricingConfig struct {
	BaseURL        string
	APIKey         string
	CacheTTL       time.Duration
	WarmupInterval time.Duration
}

// BlockchainConfig holds per-chain RPC URLs keyed by decimal chain id
type BlockchainConfig struct {
	RPCURLs map[string]string
}

// PaymentConfig holds payment link defaults
type PaymentConfig struct {
	DefaultChainID string
}

var defaultRPCURLs = map[string]string{
	"1":     "https://ethereum-rpc.publicnode.com",
	"10":    "https://mainnet.optimism.io",
	"56":    "https://bsc-dataseed.binance.org",
	"137":   "https://polygon-rpc.com",
	"8453":  "https://mainnet.base.org",
	"42161": "https://arb1.arbitrum.io/rpc",
	"43114": "https://api.avax.network/ext/bc/C/rpc",
}

const rpcURLEnvPrefix = "RPC_URL_"

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		Squid: SquidConfig{
			BaseURL:                  strings.TrimRight(getEnv("SQUID_API_URL", "https://apiplus.squidrouter.com"), "/"),
			IntegratorID:             getEnv("SQUID_INTEGRATOR_ID", ""),
			IntegratorIDWithoutCoral: getEnv("SQUID_INTEGRATOR_ID_WITHOUT_CORAL", ""),
			RequestsPerSecond:        getEnvAsFloat("SQUID_REQUESTS_PER_SECOND", 0),
			Timeout:                  getEnvAsDuration("SQUID_TIMEOUT", 0),
		},
		Pricing: PricingConfig{
			BaseURL:        strings.TrimRight(getEnv("PRICE_API_URL", "https://api.mobula.io"), "/"),
			APIKey:         getEnv("PRICE_API_KEY", ""),
			CacheTTL:       getEnvAsDuration("PRICE_CACHE_TTL", 30*time.Second),
			WarmupInterval: getEnvAsDuration("PRICE_WARMUP_INTERVAL", 0),
		},
		Blockchain: BlockchainConfig{
			RPCURLs: loadRPCURLs(),
		},
		Payment: PaymentConfig{
			DefaultChainID: getEnv("PAYMENT_DEFAULT_CHAIN_ID", "42161"),
		},
	}
}

// loadRPCURLs starts from the public defaults and applies RPC_URL_<chainID> overrides
func loadRPCURLs() map[string]string {
	urls := make(map[string]string, len(defaultRPCURLs))
	for chainID, url := range defaultRPCURLs {
		urls[chainID] = url
	}
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, rpcURLEnvPrefix) || value == "" {
			continue
		}
		chainID := strings.TrimPrefix(key, rpcURLEnvPrefix)
		if _, err := strconv.ParseUint(chainID, 10, 64); err != nil {
			continue
		}
		urls[chainID] = value
	}
	return urls
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
