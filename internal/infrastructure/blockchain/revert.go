package blockchain

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	revertHexPattern = regexp.MustCompile(`0x[0-9a-fA-F]{8,}`)

	selectorError                    = selectorOf("Error(string)")
	selectorPanic                    = selectorOf("Panic(uint256)")
	selectorInsufficientAllowance    = selectorOf("ERC20InsufficientAllowance(address,uint256,uint256)")
	selectorInsufficientBalance      = selectorOf("ERC20InsufficientBalance(address,uint256,uint256)")
	selectorInsufficientBalanceNoArg = selectorOf("InsufficientBalance()")
)

// RevertReason extracts a readable revert reason from an eth_call or
// eth_estimateGas error. It reads rpc.DataError payloads first and falls back
// to hex found in the error string.
func RevertReason(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var dataErr interface{ ErrorData() interface{} }
	if errors.As(err, &dataErr) {
		if data, ok := revertBytes(dataErr.ErrorData()); ok {
			return decodeRevert(data), true
		}
	}

	for _, candidate := range revertHexPattern.FindAllString(err.Error(), -1) {
		if data, ok := parseHexBytes(candidate); ok {
			return decodeRevert(data), true
		}
	}
	return "", false
}

func revertBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case string:
		return parseHexBytes(v)
	case []byte:
		if len(v) == 0 {
			return nil, false
		}
		return append([]byte(nil), v...), true
	case map[string]interface{}:
		if raw, ok := v["data"]; ok {
			return revertBytes(raw)
		}
	}
	return nil, false
}

func parseHexBytes(raw string) ([]byte, bool) {
	value := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if len(value) < 8 || len(value)%2 != 0 {
		return nil, false
	}
	data, err := hex.DecodeString(value)
	if err != nil {
		return nil, false
	}
	return data, true
}

func decodeRevert(data []byte) string {
	if len(data) < 4 {
		return "execution reverted"
	}

	selector := "0x" + hex.EncodeToString(data[:4])
	payload := data[4:]
	switch selector {
	case selectorError:
		if values, ok := unpackArgs(payload, "string"); ok {
			if msg, ok := values[0].(string); ok {
				return msg
			}
		}
	case selectorPanic:
		if len(payload) >= 32 {
			return fmt.Sprintf("panic code: 0x%x", new(big.Int).SetBytes(payload[:32]))
		}
	case selectorInsufficientAllowance:
		if values, ok := unpackArgs(payload, "address", "uint256", "uint256"); ok {
			spender, _ := values[0].(common.Address)
			return fmt.Sprintf("insufficient allowance for %s (allowance=%v, needed=%v)", spender.Hex(), values[1], values[2])
		}
	case selectorInsufficientBalance:
		if values, ok := unpackArgs(payload, "address", "uint256", "uint256"); ok {
			sender, _ := values[0].(common.Address)
			return fmt.Sprintf("insufficient balance for %s (balance=%v, needed=%v)", sender.Hex(), values[1], values[2])
		}
	case selectorInsufficientBalanceNoArg:
		return "insufficient balance"
	}
	return "execution reverted: " + selector
}

func unpackArgs(payload []byte, typeNames ...string) ([]interface{}, bool) {
	args := make(abi.Arguments, 0, len(typeNames))
	for _, name := range typeNames {
		t, err := abi.NewType(name, "", nil)
		if err != nil {
			return nil, false
		}
		args = append(args, abi.Argument{Type: t})
	}
	values, err := args.Unpack(payload)
	if err != nil || len(values) != len(typeNames) {
		return nil, false
	}
	return values, true
}

func selectorOf(signature string) string {
	return "0x" + hex.EncodeToString(crypto.Keccak256([]byte(signature))[:4])
}
