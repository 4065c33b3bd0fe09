package blockchain

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestNameHash(t *testing.T) {
	require.Equal(t, common.Hash{}, NameHash(""))
	require.Equal(t, "0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae", NameHash("eth").Hex())
	require.Equal(t, "0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f", NameHash("foo.eth").Hex())
	require.Equal(t, NameHash("foo.eth"), NameHash(" FOO.eth "))
}

func newENSFactory(t *testing.T, resolver, target common.Address) *ClientFactory {
	t.Helper()
	const rpcURL = "mock://ens"
	f := NewClientFactory(map[string]string{"1": rpcURL})
	f.RegisterEVMClient(rpcURL, NewEVMClientWithCallView(big.NewInt(1), func(_ context.Context, to string, data []byte) ([]byte, error) {
		switch {
		case bytes.Equal(data[:4], ensABI.Methods["resolver"].ID):
			require.Equal(t, ENSRegistryAddress, to)
			return common.LeftPadBytes(resolver.Bytes(), 32), nil
		case bytes.Equal(data[:4], ensABI.Methods["addr"].ID):
			require.Equal(t, resolver.Hex(), to)
			require.Equal(t, NameHash("vitalik.eth").Bytes(), data[4:36])
			return common.LeftPadBytes(target.Bytes(), 32), nil
		}
		t.Fatalf("unexpected call data %x", data)
		return nil, nil
	}))
	return f
}

func TestENSResolver_ResolveName(t *testing.T) {
	resolver := common.HexToAddress("0x4976fb03C32e5B8cfe2b6cCB31c09Ba78EBaBa41")
	target := common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")

	got, err := NewENSResolver(newENSFactory(t, resolver, target)).ResolveName(context.Background(), "vitalik.eth")
	require.NoError(t, err)
	require.Equal(t, "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", got)
}

func TestENSResolver_NotFound(t *testing.T) {
	target := common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")

	_, err := NewENSResolver(newENSFactory(t, common.Address{}, target)).ResolveName(context.Background(), "vitalik.eth")
	require.ErrorIs(t, err, ErrNameNotFound)

	resolver := common.HexToAddress("0x4976fb03C32e5B8cfe2b6cCB31c09Ba78EBaBa41")
	_, err = NewENSResolver(newENSFactory(t, resolver, common.Address{})).ResolveName(context.Background(), "vitalik.eth")
	require.ErrorIs(t, err, ErrNameNotFound)
}

func TestENSResolver_NoMainnetRPC(t *testing.T) {
	_, err := NewENSResolver(NewClientFactory(nil)).ResolveName(context.Background(), "vitalik.eth")
	require.Error(t, err)
}
