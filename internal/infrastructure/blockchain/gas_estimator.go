package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"payroute.backend/internal/domain/entities"
)

// NativePriceLookup prices a chain's native currency
type NativePriceLookup interface {
	FetchTokenPrice(ctx context.Context, tokenAddress, chainID string) (*entities.TokenPrice, error)
}

// GasCostEstimator prices a transaction's gas in USD
type GasCostEstimator struct {
	factory *ClientFactory
	prices  NativePriceLookup
}

func NewGasCostEstimator(factory *ClientFactory, prices NativePriceLookup) *GasCostEstimator {
	return &GasCostEstimator{factory: factory, prices: prices}
}

// EstimateTransactionCostUSD estimates gas × gas price for tx sent by from,
// converted to USD at the native token price
func (e *GasCostEstimator) EstimateTransactionCostUSD(ctx context.Context, chainID, from string, tx entities.PlannedTransaction) (float64, error) {
	msg, err := buildCallMsg(from, tx)
	if err != nil {
		return 0, err
	}

	client, err := e.factory.ForChain(chainID)
	if err != nil {
		return 0, err
	}

	gas, err := client.EstimateGas(ctx, msg)
	if err != nil {
		if reason, ok := RevertReason(err); ok {
			return 0, fmt.Errorf("estimate gas failed: %s: %w", reason, err)
		}
		return 0, fmt.Errorf("estimate gas failed: %w", err)
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return 0, fmt.Errorf("gas price lookup failed: %w", err)
	}

	native, err := e.prices.FetchTokenPrice(ctx, entities.NativeTokenAddress, chainID)
	if err != nil {
		return 0, err
	}
	if native == nil {
		return 0, fmt.Errorf("no native token price for chain %s", chainID)
	}

	costWei := new(big.Int).Mul(new(big.Int).SetUint64(gas), gasPrice)
	return decimal.NewFromBigInt(costWei, -18).Mul(decimal.NewFromFloat(native.Price)).InexactFloat64(), nil
}

func buildCallMsg(from string, tx entities.PlannedTransaction) (ethereum.CallMsg, error) {
	if !common.IsHexAddress(tx.To) {
		return ethereum.CallMsg{}, fmt.Errorf("invalid transaction target %q", tx.To)
	}
	to := common.HexToAddress(tx.To)
	msg := ethereum.CallMsg{To: &to}
	if common.IsHexAddress(from) {
		msg.From = common.HexToAddress(from)
	}
	if tx.Data != "" && tx.Data != "0x" {
		data, err := hexutil.Decode(tx.Data)
		if err != nil {
			return ethereum.CallMsg{}, fmt.Errorf("invalid transaction data: %w", err)
		}
		msg.Data = data
	}
	if v := strings.TrimSpace(tx.Value); v != "" {
		value, ok := new(big.Int).SetString(v, 0)
		if !ok {
			return ethereum.CallMsg{}, fmt.Errorf("invalid transaction value %q", tx.Value)
		}
		if value.Sign() > 0 {
			msg.Value = value
		}
	}
	return msg, nil
}
