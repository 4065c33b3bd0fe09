package entities

import (
	"strings"
)

// ChainType represents blockchain type
type ChainType string

const (
	ChainTypeEVM ChainType = "EVM"
)

const (
	// NativeTokenAddress is the registry sentinel for a chain's native currency.
	NativeTokenAddress = "0x0000000000000000000000000000000000000000"
	// AggregatorNativeTokenAddress is the sentinel the swap aggregator uses for
	// native currencies.
	AggregatorNativeTokenAddress = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"
)

// IsNativeTokenAddress reports whether address denotes a native currency
func IsNativeTokenAddress(address string) bool {
	a := strings.TrimSpace(address)
	return a == "" || strings.EqualFold(a, NativeTokenAddress) || strings.EqualFold(a, AggregatorNativeTokenAddress)
}

// ResolvedChain is a supported chain after identifier resolution
type ResolvedChain struct {
	ChainID      string    `json:"chainId"`
	Name         string    `json:"name"`
	ShortName    string    `json:"shortName"`
	NativeSymbol string    `json:"nativeSymbol"`
	Type         ChainType `json:"chainType"`
}

// GetCAIP2ID returns the CAIP-2 formatted chain ID
func (c *ResolvedChain) GetCAIP2ID() string {
	id := strings.TrimSpace(c.ChainID)
	if strings.HasPrefix(id, "eip155:") {
		return id
	}
	return "eip155:" + id
}

// ChainToken is a token known to the registry together with its per-chain
// contract addresses. MinAmount and MaxAmount are decimal strings in token
// units; empty means no bound.
type ChainToken struct {
	Symbol           string            `json:"symbol"`
	Name             string            `json:"name"`
	Decimals         int32             `json:"decimals"`
	AddressesByChain map[string]string `json:"addressesByChain"`
	MinAmount        string            `json:"minAmount,omitempty"`
	MaxAmount        string            `json:"maxAmount,omitempty"`
}

// AddressOn returns the token contract address on chainID
func (t *ChainToken) AddressOn(chainID string) (string, bool) {
	addr, ok := t.AddressesByChain[chainID]
	return addr, ok
}

// IsNativeOn reports whether the token is the native currency of chainID
func (t *ChainToken) IsNativeOn(chainID string) bool {
	addr, ok := t.AddressOn(chainID)
	return ok && IsNativeTokenAddress(addr)
}

// TokenPrice is a USD price quote for a token
type TokenPrice struct {
	Price    float64 `json:"price"`
	Decimals int32   `json:"decimals"`
}
