// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

// Package networks holds the static registry of chains the bridge client
// understands, along with the per-network contract deployment addresses.
package networks

import (
	"bitrwa.org/bridge/rwa"
	"github.com/ethereum/go-ethereum/common"
)

// Chain IDs of the supported networks.
const (
	EthMainnetChainID       = 1
	EthSepoliaChainID       = 11155111
	RootstockMainnetChainID = 30
	RootstockTestnetChainID = 31
	SimnetChainID           = 1337 // see testing harness
)

// NativeCurrency describes the gas-paying asset of a chain.
type NativeCurrency struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// ChainParams are the connection and display parameters for a chain. These
// are also the parameters handed to a wallet when asking it to register a
// chain it doesn't know yet.
type ChainParams struct {
	ChainID           uint64
	Name              string
	NativeCurrency    NativeCurrency
	RPCURLs           []string
	BlockExplorerURLs []string
}

var chains = map[uint64]*ChainParams{
	EthMainnetChainID: {
		ChainID:           EthMainnetChainID,
		Name:              "Ethereum Mainnet",
		NativeCurrency:    NativeCurrency{Name: "ETH", Symbol: "ETH", Decimals: 18},
		RPCURLs:           []string{"https://mainnet.infura.io/v3/"},
		BlockExplorerURLs: []string{"https://etherscan.io"},
	},
	EthSepoliaChainID: {
		ChainID:           EthSepoliaChainID,
		Name:              "Ethereum Sepolia",
		NativeCurrency:    NativeCurrency{Name: "ETH", Symbol: "ETH", Decimals: 18},
		RPCURLs:           []string{"https://rpc.sepolia.org"},
		BlockExplorerURLs: []string{"https://sepolia.etherscan.io"},
	},
	RootstockMainnetChainID: {
		ChainID:           RootstockMainnetChainID,
		Name:              "Rootstock Mainnet",
		NativeCurrency:    NativeCurrency{Name: "RBTC", Symbol: "RBTC", Decimals: 18},
		RPCURLs:           []string{"https://public-node.rsk.co"},
		BlockExplorerURLs: []string{"https://explorer.rsk.co"},
	},
	RootstockTestnetChainID: {
		ChainID:           RootstockTestnetChainID,
		Name:              "Rootstock Testnet",
		NativeCurrency:    NativeCurrency{Name: "RBTC", Symbol: "RBTC", Decimals: 18},
		RPCURLs:           []string{"https://public-node.testnet.rsk.co"},
		BlockExplorerURLs: []string{"https://explorer.testnet.rsk.co"},
	},
	SimnetChainID: {
		ChainID:        SimnetChainID,
		Name:           "Simnet",
		NativeCurrency: NativeCurrency{Name: "ETH", Symbol: "ETH", Decimals: 18},
		RPCURLs:        []string{"http://127.0.0.1:38556"},
	},
}

// Chain returns the registered parameters for the chain ID, or false if the
// chain is not supported.
func Chain(chainID uint64) (*ChainParams, bool) {
	c, found := chains[chainID]
	return c, found
}

// Supported indicates whether the chain ID is in the registry.
func Supported(chainID uint64) bool {
	_, found := chains[chainID]
	return found
}

// ChainName returns the display name of the chain, or a best-effort label for
// unregistered chains.
func ChainName(chainID uint64) string {
	if c, found := chains[chainID]; found {
		return c.Name
	}
	return "Unknown Network"
}

// SourceChainIDs maps networks to the chain the locking happens on.
var SourceChainIDs = map[rwa.Network]uint64{
	rwa.Mainnet: EthMainnetChainID,
	rwa.Testnet: EthSepoliaChainID,
	rwa.Simnet:  SimnetChainID,
}

// DestinationChainIDs maps networks to the chain where the bridged
// representation is issued.
var DestinationChainIDs = map[rwa.Network]uint64{
	rwa.Mainnet: RootstockMainnetChainID,
	rwa.Testnet: RootstockTestnetChainID,
	rwa.Simnet:  SimnetChainID,
}

// ContractAddresses are the per-network deployment addresses the gateway
// binds to.
type ContractAddresses struct {
	// Token is the source-chain asset accepted by the bridge.
	Token common.Address
	// Bridge is the lock-and-bridge contract, also the allowance spender.
	Bridge common.Address
	// DestinationToken is the bridged representation on the destination
	// chain.
	DestinationToken common.Address
}

// Addresses indexes deployments by network. Mainnet deployment is pending.
var Addresses = map[rwa.Network]*ContractAddresses{
	rwa.Testnet: {
		Token:            common.HexToAddress("0x717C3087fe043A4C9455142148932b94562D1244"),
		Bridge:           common.HexToAddress("0x94Da0f6a574AA9Add852595F281afE8725F7B7e4"),
		DestinationToken: common.HexToAddress("0x936A3dC8f7d72B2edd4EE232500Ec9d873cd2416"),
	},
	rwa.Mainnet: {},
}

// TokenSymbol and DestinationTokenSymbol are the display symbols for the
// bridged pair.
const (
	TokenSymbol            = "USDY"
	DestinationTokenSymbol = "rUSDY"
	TokenDecimals          = 18
)
