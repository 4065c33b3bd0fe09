package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const erc20ABIJSON = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

var erc20ABI = mustParseABI(erc20ABIJSON)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// ERC20Reader reads ERC-20 state over the per-chain clients
type ERC20Reader struct {
	factory *ClientFactory
}

func NewERC20Reader(factory *ClientFactory) *ERC20Reader {
	return &ERC20Reader{factory: factory}
}

// Allowance returns how much spender may move from owner's token balance
func (r *ERC20Reader) Allowance(ctx context.Context, chainID, token, owner, spender string) (*big.Int, error) {
	for _, addr := range []string{token, owner, spender} {
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid address %q", addr)
		}
	}

	client, err := r.factory.ForChain(chainID)
	if err != nil {
		return nil, err
	}

	data, err := erc20ABI.Pack("allowance", common.HexToAddress(owner), common.HexToAddress(spender))
	if err != nil {
		return nil, err
	}
	out, err := client.CallView(ctx, token, data)
	if err != nil {
		return nil, fmt.Errorf("allowance call failed: %w", err)
	}
	vals, err := erc20ABI.Unpack("allowance", out)
	if err != nil || len(vals) == 0 {
		return nil, fmt.Errorf("failed to decode allowance result")
	}
	value, ok := vals[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected allowance result type")
	}
	return value, nil
}

// EncodeApprove builds approve(spender, amount) calldata
func EncodeApprove(spender string, amount *big.Int) ([]byte, error) {
	if !common.IsHexAddress(spender) {
		return nil, fmt.Errorf("invalid spender address %q", spender)
	}
	if amount == nil || amount.Sign() < 0 {
		return nil, fmt.Errorf("invalid approval amount")
	}
	return erc20ABI.Pack("approve", common.HexToAddress(spender), amount)
}
