package blockchain

import (
	"fmt"
	"strings"
	"sync"

	domainerrors "payroute.backend/internal/domain/errors"
)

var beforeGetEVMClientWriteLockHook = func(string) {}

// ClientFactory manages blockchain clients
type ClientFactory struct {
	rpcURLs    map[string]string
	evmClients map[string]*EVMClient
	mu         sync.RWMutex
}

// NewClientFactory creates a client factory. rpcURLs maps decimal chain ids to RPC endpoints.
func NewClientFactory(rpcURLs map[string]string) *ClientFactory {
	urls := make(map[string]string, len(rpcURLs))
	for chainID, url := range rpcURLs {
		urls[strings.TrimSpace(chainID)] = url
	}
	return &ClientFactory{
		rpcURLs:    urls,
		evmClients: make(map[string]*EVMClient),
	}
}

// ForChain returns the EVM client for a decimal chain id
func (f *ClientFactory) ForChain(chainID string) (*EVMClient, error) {
	url, ok := f.rpcURLs[strings.TrimSpace(chainID)]
	if !ok || url == "" {
		return nil, fmt.Errorf("no rpc url configured for chain %s: %w", chainID, domainerrors.ErrUnsupportedChain)
	}
	return f.GetEVMClient(url)
}

// GetEVMClient returns an EVM client for the given RPC URL
// If a client already exists for the URL, it returns the cached client
func (f *ClientFactory) GetEVMClient(rpcURL string) (*EVMClient, error) {
	f.mu.RLock()
	client, ok := f.evmClients[rpcURL]
	f.mu.RUnlock()
	if ok {
		return client, nil
	}

	beforeGetEVMClientWriteLockHook(rpcURL)

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double check
	if client, ok := f.evmClients[rpcURL]; ok {
		return client, nil
	}

	newClient, err := NewEVMClient(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create EVM client: %w", err)
	}

	f.evmClients[rpcURL] = newClient
	return newClient, nil
}

// RegisterEVMClient injects/overrides cached client for a specific rpcURL.
// Useful for deterministic unit tests.
func (f *ClientFactory) RegisterEVMClient(rpcURL string, client *EVMClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evmClients[rpcURL] = client
}

// Close closes every cached client
func (f *ClientFactory) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for url, client := range f.evmClients {
		client.Close()
		delete(f.evmClients, url)
	}
}
