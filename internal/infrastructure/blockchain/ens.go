package blockchain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ENSRegistryAddress is the ENS registry on Ethereum mainnet
const ENSRegistryAddress = "0x00000000000C2E074eC69A0bFb2997BA6C7d2e1e"

const ensMainnetChainID = "1"

const ensABIJSON = `[
	{"inputs":[{"name":"node","type":"bytes32"}],"name":"resolver","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"node","type":"bytes32"}],"name":"addr","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`

var ensABI = mustParseABI(ensABIJSON)

// ErrNameNotFound is returned when a name has no resolver or no address record
var ErrNameNotFound = errors.New("ens name not found")

// NameHash computes the ENS namehash of name
func NameHash(name string) common.Hash {
	var node common.Hash
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		node = common.BytesToHash(crypto.Keccak256(node.Bytes(), labelHash))
	}
	return node
}

// ENSResolver resolves ENS names through the mainnet registry
type ENSResolver struct {
	factory  *ClientFactory
	registry string
}

func NewENSResolver(factory *ClientFactory) *ENSResolver {
	return &ENSResolver{factory: factory, registry: ENSRegistryAddress}
}

// ResolveName returns the checksummed address name points to
func (r *ENSResolver) ResolveName(ctx context.Context, name string) (string, error) {
	client, err := r.factory.ForChain(ensMainnetChainID)
	if err != nil {
		return "", err
	}
	node := [32]byte(NameHash(name))

	resolver, err := r.callAddress(ctx, client, r.registry, "resolver", node)
	if err != nil {
		return "", fmt.Errorf("ens resolver lookup failed: %w", err)
	}
	if resolver == (common.Address{}) {
		return "", fmt.Errorf("%s: %w", name, ErrNameNotFound)
	}

	addr, err := r.callAddress(ctx, client, resolver.Hex(), "addr", node)
	if err != nil {
		return "", fmt.Errorf("ens address lookup failed: %w", err)
	}
	if addr == (common.Address{}) {
		return "", fmt.Errorf("%s: %w", name, ErrNameNotFound)
	}
	return addr.Hex(), nil
}

func (r *ENSResolver) callAddress(ctx context.Context, client *EVMClient, contract, method string, node [32]byte) (common.Address, error) {
	data, err := ensABI.Pack(method, node)
	if err != nil {
		return common.Address{}, err
	}
	out, err := client.CallView(ctx, contract, data)
	if err != nil {
		return common.Address{}, err
	}
	vals, err := ensABI.Unpack(method, out)
	if err != nil || len(vals) == 0 {
		return common.Address{}, fmt.Errorf("failed to decode address result")
	}
	value, ok := vals[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected address result type")
	}
	return value, nil
}
