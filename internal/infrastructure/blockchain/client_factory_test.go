package blockchain

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/stretchr/testify/require"
	domainerrors "payroute.backend/internal/domain/errors"
)

func TestNewClientFactory_InitializesMaps(t *testing.T) {
	f := NewClientFactory(map[string]string{" 8453 ": "mock://base"})
	require.NotNil(t, f)
	require.NotNil(t, f.evmClients)
	require.Equal(t, 0, len(f.evmClients))
	require.Equal(t, "mock://base", f.rpcURLs["8453"])
}

func TestClientFactory_GetEVMClient_InvalidURL(t *testing.T) {
	f := NewClientFactory(nil)
	_, err := f.GetEVMClient("://bad-url")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "failed to create EVM client"))
}

func TestClientFactory_ForChain(t *testing.T) {
	const rpcURL = "mock://base"
	f := NewClientFactory(map[string]string{"8453": rpcURL, "10": ""})
	injected := NewEVMClientWithCallView(big.NewInt(8453), func(context.Context, string, []byte) ([]byte, error) {
		return nil, nil
	})
	f.RegisterEVMClient(rpcURL, injected)

	got, err := f.ForChain("8453")
	require.NoError(t, err)
	require.Same(t, injected, got)

	_, err = f.ForChain("10")
	require.ErrorIs(t, err, domainerrors.ErrUnsupportedChain)

	_, err = f.ForChain("999")
	require.ErrorIs(t, err, domainerrors.ErrUnsupportedChain)
}

func TestEVMClient_ChainIDAccessor(t *testing.T) {
	id := big.NewInt(8453)
	c := &EVMClient{chainID: id}
	require.Equal(t, id, c.ChainID())
}

func TestNewEVMClient_InvalidURL(t *testing.T) {
	_, err := NewEVMClient("://bad-url")
	require.Error(t, err)
}

func TestClientFactory_RegisterEVMClient(t *testing.T) {
	f := NewClientFactory(nil)
	const rpcURL = "mock://rpc"
	injected := NewEVMClientWithCallView(big.NewInt(8453), func(context.Context, string, []byte) ([]byte, error) {
		return []byte{0x01}, nil
	})

	f.RegisterEVMClient(rpcURL, injected)
	got, err := f.GetEVMClient(rpcURL)
	require.NoError(t, err)
	require.Same(t, injected, got)

	f.Close()
	require.Equal(t, 0, len(f.evmClients))
}

func TestClientFactory_GetEVMClient_DoubleCheckBranchViaHook(t *testing.T) {
	f := NewClientFactory(nil)
	const rpcURL = "mock://race"
	injected := NewEVMClientWithCallView(big.NewInt(8453), func(context.Context, string, []byte) ([]byte, error) {
		return []byte{0x01}, nil
	})

	origHook := beforeGetEVMClientWriteLockHook
	t.Cleanup(func() { beforeGetEVMClientWriteLockHook = origHook })

	beforeGetEVMClientWriteLockHook = func(url string) {
		if url == rpcURL {
			f.RegisterEVMClient(url, injected)
		}
	}

	got, err := f.GetEVMClient(rpcURL)
	require.NoError(t, err)
	require.Same(t, injected, got)
}

func TestClientFactory_GetEVMClient_NewClientSuccessPath(t *testing.T) {
	f := NewClientFactory(nil)
	const rpcURL = "mock://new-client-success"

	origDial := dialEVMClient
	origChainID := getClientChainID
	t.Cleanup(func() {
		dialEVMClient = origDial
		getClientChainID = origChainID
	})

	dialEVMClient = func(string) (*ethclient.Client, error) {
		return &ethclient.Client{}, nil
	}
	getClientChainID = func(*ethclient.Client, context.Context) (*big.Int, error) {
		return big.NewInt(8453), nil
	}

	got, err := f.GetEVMClient(rpcURL)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, int64(8453), got.ChainID().Int64())
}
