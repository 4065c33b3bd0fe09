package blockchain

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dataError struct {
	msg  string
	data interface{}
}

func (e dataError) Error() string          { return e.msg }
func (e dataError) ErrorData() interface{} { return e.data }

func encodeRevert(t *testing.T, selector string, types []string, values ...interface{}) []byte {
	t.Helper()
	args := abi.Arguments{}
	for _, name := range types {
		typ, err := abi.NewType(name, "", nil)
		require.NoError(t, err)
		args = append(args, abi.Argument{Type: typ})
	}
	packed, err := args.Pack(values...)
	require.NoError(t, err)
	return append(hexutil.MustDecode(selector), packed...)
}

func TestRevertReason_ErrorString(t *testing.T) {
	data := encodeRevert(t, selectorError, []string{"string"}, "ERC20: transfer amount exceeds allowance")

	reason, ok := RevertReason(dataError{msg: "execution reverted", data: hexutil.Encode(data)})
	require.True(t, ok)
	assert.Equal(t, "ERC20: transfer amount exceeds allowance", reason)

	wrapped := fmt.Errorf("estimate gas failed: %w", dataError{msg: "execution reverted", data: map[string]interface{}{"data": hexutil.Encode(data)}})
	reason, ok = RevertReason(wrapped)
	require.True(t, ok)
	assert.Equal(t, "ERC20: transfer amount exceeds allowance", reason)
}

func TestRevertReason_CustomErrors(t *testing.T) {
	spender := common.HexToAddress("0xce16F69375520ab01377ce7B88f5BA8C48F8D666")
	data := encodeRevert(t, selectorInsufficientAllowance, []string{"address", "uint256", "uint256"}, spender, big.NewInt(0), big.NewInt(5000000))
	reason, ok := RevertReason(dataError{msg: "execution reverted", data: data})
	require.True(t, ok)
	assert.Equal(t, "insufficient allowance for 0xce16F69375520ab01377ce7B88f5BA8C48F8D666 (allowance=0, needed=5000000)", reason)

	panicData := encodeRevert(t, selectorPanic, []string{"uint256"}, big.NewInt(0x11))
	reason, ok = RevertReason(dataError{msg: "execution reverted", data: panicData})
	require.True(t, ok)
	assert.Equal(t, "panic code: 0x11", reason)

	reason, ok = RevertReason(errors.New("execution reverted: 0xdeadbeef"))
	require.True(t, ok)
	assert.Equal(t, "execution reverted: 0xdeadbeef", reason)
}

func TestRevertReason_NoData(t *testing.T) {
	_, ok := RevertReason(nil)
	assert.False(t, ok)

	_, ok = RevertReason(errors.New("connection refused"))
	assert.False(t, ok)

	_, ok = RevertReason(dataError{msg: "execution reverted", data: "0x"})
	assert.False(t, ok)
}
