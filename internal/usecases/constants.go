package usecases

import (
	"github.com/shopspring/decimal"
)

// Route search policy
const (
	// SearchWindowPercent bounds the binary search at ± this percentage of the
	// rescaled estimate.
	SearchWindowPercent = 2
	// MaxSearchIterations caps the oracle calls made after the first quote.
	MaxSearchIterations = 2
	// MinSearchGapPerMille stops the search once the window is narrower than
	// this fraction (per mille) of the rescaled estimate.
	MinSearchGapPerMille = 1
)

// DefaultAmountDecimals scales amounts that have no token context
const DefaultAmountDecimals = 18

type toleranceTier struct {
	belowUSD   decimal.Decimal
	maxOverage decimal.Decimal
}

// Overage tolerance by target USD value; the last tier applies to everything above.
var toleranceTiers = []toleranceTier{
	{belowUSD: decimal.RequireFromString("0.30"), maxOverage: decimal.RequireFromString("0.05")},
	{belowUSD: decimal.RequireFromString("1"), maxOverage: decimal.RequireFromString("0.01")},
	{belowUSD: decimal.RequireFromString("10"), maxOverage: decimal.RequireFromString("0.005")},
	{belowUSD: decimal.RequireFromString("1000"), maxOverage: decimal.RequireFromString("0.003")},
}

var largeTradeMaxOverage = decimal.RequireFromString("0.001")

// allowanceResetTokens lists tokens whose approve reverts unless the current
// allowance is zero, keyed by chain id.
var allowanceResetTokens = map[string]string{
	"1": "0xdAC17F958D2ee523a2206206994597C13D831ec7", // USDT
}
