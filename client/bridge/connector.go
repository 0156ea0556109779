// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package bridge

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"bitrwa.org/bridge/rwa"
	"bitrwa.org/bridge/rwa/networks"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// EventKind identifies a wallet-originated event.
type EventKind uint8

const (
	// AccountsChanged indicates the wallet's account list changed. An empty
	// account list means the wallet revoked access entirely.
	AccountsChanged EventKind = iota
	// ChainChanged indicates the wallet moved to a different chain. All
	// derived state is stale after this event.
	ChainChanged
)

// Event is a wallet-originated notification delivered on the session's event
// channel.
type Event struct {
	Kind     EventKind
	Accounts []common.Address
	ChainID  uint64
	// Wallet, when set on a ChainChanged event, is the replacement wallet
	// handle. Connectors that re-dial on a chain switch must set it, since
	// the previously issued node and signer are stale for the new chain.
	Wallet *Wallet
}

// Wallet is an established wallet connection handed back by a Connector. A
// Wallet is immutable once issued. Account and chain changes are delivered as
// events and the session installs a replacement handle.
type Wallet struct {
	Addr    common.Address
	ChainID uint64
	Node    Provider
	// Auth prepares signing options for a state-changing call.
	Auth func() (*bind.TransactOpts, error)
	// Events delivers wallet notifications until the connector disconnects.
	Events <-chan Event
}

// Connector establishes wallet sessions for one connection mechanism.
// Availability is not polled. A connector either connects on demand or fails.
type Connector interface {
	Name() string
	Connect(ctx context.Context) (*Wallet, error)
	Disconnect()
}

// NetworkSwitcher is implemented by connectors that can move the wallet to a
// different chain.
type NetworkSwitcher interface {
	// SwitchChain moves the wallet to chainID. If the chain is unknown to the
	// wallet the connector registers it from the supplied parameters first.
	SwitchChain(ctx context.Context, params *networks.ChainParams) error
}

// KeystoreConnector is a Connector backed by a geth keystore directory and a
// direct RPC endpoint. It is the signing path for headless use, standing in
// for a browser-injected provider.
type KeystoreConnector struct {
	log        rwa.Logger
	dir        string
	passphrase string
	rpcURL     string

	mtx    sync.Mutex
	ks     *keystore.KeyStore
	acct   accounts.Account
	client *ethclient.Client
	events chan Event
}

var _ Connector = (*KeystoreConnector)(nil)
var _ NetworkSwitcher = (*KeystoreConnector)(nil)

// NewKeystoreConnector creates a connector that signs with the first account
// in the keystore at dir and talks to the node at rpcURL.
func NewKeystoreConnector(dir, passphrase, rpcURL string, log rwa.Logger) *KeystoreConnector {
	return &KeystoreConnector{
		log:        log,
		dir:        dir,
		passphrase: passphrase,
		rpcURL:     rpcURL,
	}
}

func (c *KeystoreConnector) Name() string {
	return "keystore"
}

// Connect opens the keystore, unlocks the first account, and dials the RPC
// endpoint.
func (c *KeystoreConnector) Connect(ctx context.Context) (*Wallet, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.client != nil {
		return nil, fmt.Errorf("already connected")
	}

	ks := keystore.NewKeyStore(c.dir, keystore.StandardScryptN, keystore.StandardScryptP)
	accts := ks.Accounts()
	if len(accts) == 0 {
		return nil, fmt.Errorf("no accounts in keystore at %q", c.dir)
	}
	acct := accts[0]
	if err := ks.Unlock(acct, c.passphrase); err != nil {
		return nil, fmt.Errorf("error unlocking account %s: %w", acct.Address, err)
	}

	client, err := ethclient.DialContext(ctx, c.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("error dialing %q: %w", c.rpcURL, err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("error reading chain id: %w", err)
	}

	c.ks = ks
	c.acct = acct
	c.client = client
	c.events = make(chan Event, 4)
	c.log.Infof("Connected account %s on chain %d via %s", acct.Address, chainID, c.rpcURL)

	return &Wallet{
		Addr:    acct.Address,
		ChainID: chainID.Uint64(),
		Node:    client,
		Auth:    keystoreAuth(ks, acct, chainID),
		Events:  c.events,
	}, nil
}

func keystoreAuth(ks *keystore.KeyStore, acct accounts.Account, chainID *big.Int) func() (*bind.TransactOpts, error) {
	return func() (*bind.TransactOpts, error) {
		return bind.NewKeyStoreTransactorWithChainID(ks, acct, chainID)
	}
}

// SwitchChain redials the registry RPC endpoint for the target chain and
// emits a ChainChanged event carrying a replacement Wallet. The old node and
// signer are stale for the new chain, so the session must adopt the new
// handle before rebuilding its gateway. A keystore wallet knows every chain
// the registry does, so no registration step is needed.
func (c *KeystoreConnector) SwitchChain(ctx context.Context, params *networks.ChainParams) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.client == nil {
		return fmt.Errorf("not connected")
	}
	if len(params.RPCURLs) == 0 {
		return fmt.Errorf("no rpc endpoints for chain %d", params.ChainID)
	}
	client, err := ethclient.DialContext(ctx, params.RPCURLs[0])
	if err != nil {
		return fmt.Errorf("error dialing %q: %w", params.RPCURLs[0], err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return fmt.Errorf("error reading chain id: %w", err)
	}
	if chainID.Uint64() != params.ChainID {
		client.Close()
		return fmt.Errorf("endpoint %q reports chain %d, expected %d",
			params.RPCURLs[0], chainID, params.ChainID)
	}
	c.client.Close()
	c.client = client
	c.rpcURL = params.RPCURLs[0]
	select {
	case c.events <- Event{
		Kind:    ChainChanged,
		ChainID: params.ChainID,
		Wallet: &Wallet{
			Addr:    c.acct.Address,
			ChainID: params.ChainID,
			Node:    client,
			Auth:    keystoreAuth(c.ks, c.acct, chainID),
			Events:  c.events,
		},
	}:
	default:
		c.log.Warnf("Event channel full. Dropping chain change notification.")
	}
	return nil
}

// Disconnect closes the RPC client and the event channel. Safe to call when
// not connected.
func (c *KeystoreConnector) Disconnect() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.client == nil {
		return
	}
	c.client.Close()
	c.client = nil
	close(c.events)
	c.events = nil
}
