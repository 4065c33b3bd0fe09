package usecases

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// maxOverageFor returns the accepted overshoot fraction for a target worth targetUSD
func maxOverageFor(targetUSD decimal.Decimal) decimal.Decimal {
	for _, tier := range toleranceTiers {
		if targetUSD.LessThan(tier.belowUSD) {
			return tier.maxOverage
		}
	}
	return largeTradeMaxOverage
}

// withinTolerance reports target <= received <= target*(1+maxOverage)
func withinTolerance(received, target *big.Int, maxOverage decimal.Decimal) bool {
	if received.Cmp(target) < 0 {
		return false
	}
	upper := decimal.NewFromBigInt(target, 0).Mul(decimal.NewFromInt(1).Add(maxOverage))
	return decimal.NewFromBigInt(received, 0).LessThanOrEqual(upper)
}

// overageOf returns (received-target)/target
func overageOf(received, target *big.Int) decimal.Decimal {
	if target.Sign() == 0 {
		return decimal.Zero
	}
	diff := new(big.Int).Sub(received, target)
	return decimal.NewFromBigInt(diff, 0).DivRound(decimal.NewFromBigInt(target, 0), 18)
}

// formatUnits converts base units to whole tokens
func formatUnits(units *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(units, -decimals)
}

// toBaseUnits converts whole tokens to base units, rounding half up
func toBaseUnits(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Round(decimals).Shift(decimals).BigInt()
}

// ceilDiv returns ceil(a/b) for positive operands
func ceilDiv(a, b *big.Int) *big.Int {
	q, m := new(big.Int).DivMod(a, b, new(big.Int))
	if m.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// percentOf returns n*pct/denom rounded down
func percentOf(n *big.Int, pct, denom int64) *big.Int {
	out := new(big.Int).Mul(n, big.NewInt(pct))
	return out.Quo(out, big.NewInt(denom))
}

func requiresAllowanceReset(chainID, token string) bool {
	reset, ok := allowanceResetTokens[strings.TrimSpace(chainID)]
	return ok && strings.EqualFold(reset, strings.TrimSpace(token))
}
