// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package bridge

import (
	"context"
	"fmt"
	"sync"

	"bitrwa.org/bridge/rwa"
	"bitrwa.org/bridge/rwa/networks"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Status is the wallet session state.
type Status uint8

const (
	// StatusDisconnected means no wallet session exists.
	StatusDisconnected Status = iota
	// StatusConnecting means a connector is establishing a session.
	StatusConnecting
	// StatusConnected means a wallet is connected with no destination
	// address bound.
	StatusConnected
	// StatusBound means a wallet is connected and bound to a destination
	// address.
	StatusBound
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusBound:
		return "bound"
	}
	return "unknown"
}

// Balance categories.
const (
	BalanceAvailable = "available"
	BalanceLocked    = "locked"
)

// Balance is one display balance entry, derived entirely from remote reads.
type Balance struct {
	Symbol   string `json:"symbol"`
	Amount   string `json:"amount"`
	Pair     string `json:"pair"`
	Chain    string `json:"chain"`
	Category string `json:"category"`
}

// Snapshot is the cohesive user-facing view of the session, refreshed after
// every operation.
type Snapshot struct {
	Status             Status    `json:"status"`
	Address            string    `json:"address"`
	Connector          string    `json:"connector"`
	ChainID            uint64    `json:"chainID"`
	NetworkName        string    `json:"networkName"`
	BoundAddress       string    `json:"boundAddress"`
	DestinationBalance string    `json:"destinationBalance"`
	Balances           []Balance `json:"balances"`
	ConnectionErr      string    `json:"connectionErr"`
	BindingErr         string    `json:"bindingErr"`
	Binding            bool      `json:"binding"`
}

// ValidateDestinationAddress is the coarse format guard applied to a
// destination address before it is sent anywhere. True validity is determined
// by the bridge contract's own checks.
func ValidateDestinationAddress(addr string) error {
	if len(addr) < 8 || len(addr) > 64 {
		return rwa.NewError(ErrInvalidRequest, fmt.Sprintf("destination address must be 8 to 64 characters, got %d", len(addr)))
	}
	return nil
}

// Config is the session Manager configuration.
type Config struct {
	// Net selects the contract deployment and the expected source chain.
	Net rwa.Network
	// Connectors are the available wallet connection mechanisms. If exactly
	// one is configured it is selected implicitly on Connect.
	Connectors []Connector
	// Store caches the bound destination address across restarts. Defaults
	// to an in-memory store.
	Store BoundStore
	// DialDestination opens a read-only connection to the destination chain
	// for native-balance reads. Optional.
	DialDestination func(ctx context.Context, params *networks.ChainParams) (BalanceReader, error)
	Logger          rwa.Logger
}

// Manager owns the wallet session. It is the only mutator of session state.
// All other components read session data through accessors.
type Manager struct {
	log        rwa.Logger
	net        rwa.Network
	connectors map[string]Connector
	store      BoundStore
	dialDest   func(ctx context.Context, params *networks.ChainParams) (BalanceReader, error)
	// newGateway is swapped out in tests.
	newGateway func(ctx context.Context, w *Wallet) (gateway, error)

	mtx    sync.RWMutex
	ctx    context.Context
	status Status
	conn   Connector
	// wallet is replaced on events, never mutated, so handles handed out by
	// session() are safe to read after the lock is released.
	wallet    *Wallet
	gw        gateway
	boundAddr common.Address
	destBal   string
	balances  []Balance
	connErr   error
	bindErr   error
	binding   bool
	loopDone  chan struct{}
}

// NewManager creates a session Manager. No connection is attempted.
func NewManager(cfg *Config) (*Manager, error) {
	if len(cfg.Connectors) == 0 {
		return nil, fmt.Errorf("no connectors configured")
	}
	connectors := make(map[string]Connector, len(cfg.Connectors))
	for _, c := range cfg.Connectors {
		if _, exists := connectors[c.Name()]; exists {
			return nil, fmt.Errorf("duplicate connector %q", c.Name())
		}
		connectors[c.Name()] = c
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryBoundStore()
	}
	log := cfg.Logger
	if log == nil {
		log = rwa.StdOutLogger("SESS", rwa.LevelOff)
	}
	m := &Manager{
		log:        log,
		net:        cfg.Net,
		connectors: connectors,
		store:      store,
		dialDest:   cfg.DialDestination,
	}
	m.newGateway = m.dialGateway
	return m, nil
}

// dialGateway is the production gateway factory.
func (m *Manager) dialGateway(ctx context.Context, w *Wallet) (gateway, error) {
	var dest BalanceReader
	if m.dialDest != nil {
		destChainID, found := networks.DestinationChainIDs[m.net]
		if !found {
			return nil, fmt.Errorf("no destination chain for %s", m.net)
		}
		params, _ := networks.Chain(destChainID)
		var err error
		dest, err = m.dialDest(ctx, params)
		if err != nil {
			m.log.Warnf("Destination chain unavailable, destination balances disabled: %v", err)
		}
	}
	return newRPCGateway(w.Node, dest, w.ChainID, m.net, m.log)
}

// Connect establishes a wallet session. connector may be empty when exactly
// one connector is configured. A session on an unsupported chain is retained
// in the connected state with empty balances, and the NetworkUnsupported
// error is both returned and exposed in the Snapshot so the caller can offer
// a network switch.
func (m *Manager) Connect(ctx context.Context, connector string) error {
	m.mtx.Lock()
	if m.status != StatusDisconnected {
		m.mtx.Unlock()
		return rwa.NewError(ErrInvalidRequest, "already connected")
	}
	conn, err := m.pickConnector(connector)
	if err != nil {
		m.mtx.Unlock()
		return err
	}
	m.status = StatusConnecting
	m.connErr = nil
	m.mtx.Unlock()

	w, err := conn.Connect(ctx)
	if err != nil {
		connErr := rwa.NewError(ErrConnectionFailed, err.Error())
		m.mtx.Lock()
		m.status = StatusDisconnected
		m.connErr = connErr
		m.mtx.Unlock()
		return connErr
	}

	m.mtx.Lock()
	m.ctx = ctx
	m.conn = conn
	m.wallet = w
	m.status = StatusConnected
	m.loopDone = make(chan struct{})
	go m.eventLoop(w.Events, m.loopDone)
	m.mtx.Unlock()

	return m.verifyAndRefresh(ctx)
}

// pickConnector resolves the connector by name, or implicitly iff exactly one
// is configured. Callers hold the write lock.
func (m *Manager) pickConnector(name string) (Connector, error) {
	if name == "" {
		if len(m.connectors) != 1 {
			return nil, rwa.NewError(ErrAmbiguousConnector,
				fmt.Sprintf("%d connectors available, none specified", len(m.connectors)))
		}
		for _, c := range m.connectors {
			return c, nil
		}
	}
	c, found := m.connectors[name]
	if !found {
		return nil, rwa.NewError(ErrInvalidRequest, fmt.Sprintf("unknown connector %q", name))
	}
	return c, nil
}

// verifyAndRefresh checks the connected chain against the registry, builds
// the contract gateway, and loads the binding record and balances.
func (m *Manager) verifyAndRefresh(ctx context.Context) error {
	m.mtx.RLock()
	w := m.wallet
	m.mtx.RUnlock()
	if w == nil {
		return rwa.NewError(ErrNotConnected, "no wallet")
	}

	expectedChain := networks.SourceChainIDs[m.net]
	if w.ChainID != expectedChain {
		connErr := rwa.NewError(ErrNetworkUnsupported,
			fmt.Sprintf("connected to %s (chain %d), expected %s",
				networks.ChainName(w.ChainID), w.ChainID, networks.ChainName(expectedChain)))
		m.mtx.Lock()
		m.gw = nil
		m.balances = nil
		m.boundAddr = common.Address{}
		m.destBal = ""
		m.status = StatusConnected
		m.connErr = connErr
		m.mtx.Unlock()
		return connErr
	}

	gw, err := m.newGateway(ctx, w)
	if err != nil {
		connErr := rwa.NewError(ErrConnectionFailed, err.Error())
		m.mtx.Lock()
		m.connErr = connErr
		m.mtx.Unlock()
		return connErr
	}
	m.mtx.Lock()
	m.gw = gw
	m.connErr = nil
	m.mtx.Unlock()

	return m.refresh(ctx)
}

// refresh re-reads the binding record and balances and reconciles the local
// binding cache against the chain.
func (m *Manager) refresh(ctx context.Context) error {
	m.mtx.RLock()
	gw, w := m.gw, m.wallet
	m.mtx.RUnlock()
	if gw == nil || w == nil {
		return rwa.NewError(ErrNotConnected, "no gateway")
	}

	boundAddr, err := gw.bindingFor(ctx, w.Addr)
	if err != nil {
		connErr := rwa.NewError(ErrRemoteRead, fmt.Sprintf("binding lookup: %v", err))
		m.mtx.Lock()
		m.connErr = connErr
		m.mtx.Unlock()
		return connErr
	}

	bound := boundAddr != (common.Address{})
	// The chain record is authoritative. Fix the cache to match.
	if bound {
		if err := m.store.Save(w.Addr, boundAddr); err != nil {
			m.log.Warnf("Error caching bound address: %v", err)
		}
	} else if err := m.store.Delete(w.Addr); err != nil {
		m.log.Warnf("Error clearing stale binding cache: %v", err)
	}

	balances, balErr := m.loadBalances(ctx, gw, w)
	if balErr != nil {
		m.log.Warnf("Balance read error: %v", balErr)
	}

	var destBal string
	if bound {
		if destWei, err := gw.destinationBalance(ctx, boundAddr); err == nil {
			destBal = networks.FormatEther(destWei)
		} else {
			m.log.Debugf("Destination balance unavailable: %v", err)
		}
	}

	m.mtx.Lock()
	m.boundAddr = boundAddr
	m.destBal = destBal
	m.balances = balances
	if bound {
		m.status = StatusBound
	} else {
		m.status = StatusConnected
	}
	m.connErr = nil
	m.mtx.Unlock()
	return nil
}

// loadBalances assembles the display balances: the wallet's token balance on
// the source chain and the total locked in the bridge contract's custody.
func (m *Manager) loadBalances(ctx context.Context, gw gateway, w *Wallet) ([]Balance, error) {
	chainName := networks.ChainName(w.ChainID)
	pair := networks.TokenSymbol + "/" + networks.DestinationTokenSymbol

	avail, err := gw.tokenBalance(ctx, w.Addr)
	if err != nil {
		return nil, fmt.Errorf("token balance: %w", err)
	}
	locked, err := gw.tokenBalance(ctx, gw.contracts().Bridge)
	if err != nil {
		return nil, fmt.Errorf("locked balance: %w", err)
	}
	return []Balance{{
		Symbol:   networks.TokenSymbol,
		Amount:   networks.FormatUnits(avail, networks.TokenDecimals),
		Pair:     pair,
		Chain:    chainName,
		Category: BalanceAvailable,
	}, {
		Symbol:   networks.TokenSymbol,
		Amount:   networks.FormatUnits(locked, networks.TokenDecimals),
		Pair:     pair,
		Chain:    chainName,
		Category: BalanceLocked,
	}}, nil
}

// eventLoop consumes wallet events until the connector closes the channel.
func (m *Manager) eventLoop(events <-chan Event, done chan struct{}) {
	defer close(done)
	for ev := range events {
		switch ev.Kind {
		case AccountsChanged:
			if len(ev.Accounts) == 0 {
				m.log.Infof("Wallet revoked account access. Disconnecting.")
				go m.Disconnect()
				return
			}
			// Wallets are immutable once issued. Install a replacement so
			// handles already read via session() stay coherent.
			m.mtx.Lock()
			if m.wallet != nil {
				w := *m.wallet
				w.Addr = ev.Accounts[0]
				m.wallet = &w
			}
			ctx := m.ctx
			m.mtx.Unlock()
			if err := m.refresh(ctx); err != nil {
				m.log.Errorf("Refresh after account change: %v", err)
			}
		case ChainChanged:
			// A chain change invalidates every cached contract address and
			// balance. Adopt the replacement wallet when the connector sends
			// one, then re-run the full verification so the gateway is
			// rebuilt over the new chain's node and signer.
			m.mtx.Lock()
			if m.wallet != nil {
				if ev.Wallet != nil {
					m.wallet = ev.Wallet
				} else {
					w := *m.wallet
					w.ChainID = ev.ChainID
					m.wallet = &w
				}
			}
			ctx := m.ctx
			m.mtx.Unlock()
			if err := m.verifyAndRefresh(ctx); err != nil {
				m.log.Errorf("Refresh after chain change: %v", err)
			}
		}
	}
}

// Disconnect tears down the session. Idempotent.
func (m *Manager) Disconnect() {
	m.mtx.Lock()
	conn, loopDone := m.conn, m.loopDone
	m.conn = nil
	m.wallet = nil
	m.gw = nil
	m.status = StatusDisconnected
	m.boundAddr = common.Address{}
	m.destBal = ""
	m.balances = nil
	m.connErr = nil
	m.bindErr = nil
	m.binding = false
	m.loopDone = nil
	m.mtx.Unlock()

	if conn != nil {
		conn.Disconnect()
	}
	if loopDone != nil {
		<-loopDone
	}
}

// BindWallet submits a binding of the connected wallet to destAddr, waits for
// confirmation, and refreshes the session. The wallet's compliance is checked
// before the transaction is offered for signing.
func (m *Manager) BindWallet(ctx context.Context, destAddr string) (common.Hash, error) {
	fail := func(err error) (common.Hash, error) {
		m.mtx.Lock()
		m.bindErr = err
		m.binding = false
		m.mtx.Unlock()
		return common.Hash{}, err
	}

	m.mtx.Lock()
	if m.binding {
		m.mtx.Unlock()
		return common.Hash{}, rwa.NewError(ErrOperationInProgress, "binding already in progress")
	}
	m.binding = true
	m.bindErr = nil
	gw, w := m.gw, m.wallet
	m.mtx.Unlock()

	if gw == nil || w == nil {
		return fail(rwa.NewError(ErrNotConnected, "connect a wallet first"))
	}
	if err := ValidateDestinationAddress(destAddr); err != nil {
		return fail(err)
	}
	if !common.IsHexAddress(destAddr) {
		return fail(rwa.NewError(ErrInvalidRequest, "destination is not a valid address"))
	}
	dest := common.HexToAddress(destAddr)

	compliant, err := gw.compliance(ctx, w.Addr)
	if err != nil {
		return fail(rwa.NewError(ErrRemoteRead, fmt.Sprintf("compliance check: %v", err)))
	}
	if !compliant {
		return fail(rwa.NewError(ErrPreconditionFailed, "wallet address is not compliant with bridge requirements"))
	}

	txOpts, err := w.Auth()
	if err != nil {
		return fail(rwa.NewError(ErrRemoteWrite, fmt.Sprintf("signer unavailable: %v", err)))
	}
	txOpts.Context = ctx

	tx, err := gw.bindWallet(txOpts, dest)
	if err != nil {
		return fail(translateWriteError(err))
	}

	receipt, err := bind.WaitMined(ctx, w.Node, tx)
	if err != nil {
		return fail(rwa.NewError(ErrRemoteWrite, fmt.Sprintf("awaiting bind confirmation: %v", err)))
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fail(rwa.NewError(ErrRemoteWrite, "bind transaction reverted"))
	}

	m.mtx.Lock()
	m.binding = false
	m.mtx.Unlock()
	if err := m.refresh(ctx); err != nil {
		m.log.Warnf("Refresh after bind: %v", err)
	}
	return tx.Hash(), nil
}

// SwitchNetwork asks the connector to move the wallet to chainID, registering
// the chain from Network Registry parameters when the wallet does not know
// it. The session refreshes via the resulting chain-change event.
func (m *Manager) SwitchNetwork(ctx context.Context, chainID uint64) error {
	params, found := networks.Chain(chainID)
	if !found {
		return rwa.NewError(ErrNetworkUnsupported, fmt.Sprintf("chain id %d", chainID))
	}
	m.mtx.RLock()
	conn := m.conn
	m.mtx.RUnlock()
	if conn == nil {
		return rwa.NewError(ErrNotConnected, "connect a wallet first")
	}
	sw, ok := conn.(NetworkSwitcher)
	if !ok {
		return rwa.NewError(ErrInvalidRequest, fmt.Sprintf("connector %q cannot switch networks", conn.Name()))
	}
	if err := sw.SwitchChain(ctx, params); err != nil {
		return rwa.NewError(ErrConnectionFailed, fmt.Sprintf("network switch: %v", err))
	}
	return nil
}

// VerifyContracts is a read-only diagnostic that confirms the configured
// contracts respond: token metadata and the caller's binding record.
func (m *Manager) VerifyContracts(ctx context.Context) error {
	m.mtx.RLock()
	gw, w := m.gw, m.wallet
	m.mtx.RUnlock()
	if gw == nil || w == nil {
		return rwa.NewError(ErrNotConnected, "connect a wallet first")
	}
	info, err := gw.tokenMetadata(ctx)
	if err != nil {
		return rwa.NewError(ErrRemoteRead, fmt.Sprintf("token contract: %v", err))
	}
	if _, err := gw.bindingFor(ctx, w.Addr); err != nil {
		return rwa.NewError(ErrRemoteRead, fmt.Sprintf("bridge contract: %v", err))
	}
	m.log.Infof("Contract check OK. Token %s (%s), %d decimals.", info.name, info.symbol, info.decimals)
	return nil
}

// Refresh re-reads all session-derived remote state.
func (m *Manager) Refresh(ctx context.Context) error {
	return m.refresh(ctx)
}

// Snapshot returns the current user-facing session view.
func (m *Manager) Snapshot() *Snapshot {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	snap := &Snapshot{
		Status:             m.status,
		DestinationBalance: m.destBal,
		Balances:           append([]Balance(nil), m.balances...),
		Binding:            m.binding,
	}
	if m.conn != nil {
		snap.Connector = m.conn.Name()
	}
	if m.wallet != nil {
		snap.Address = m.wallet.Addr.Hex()
		snap.ChainID = m.wallet.ChainID
		snap.NetworkName = networks.ChainName(m.wallet.ChainID)
	}
	if m.boundAddr != (common.Address{}) {
		snap.BoundAddress = m.boundAddr.Hex()
	}
	if m.connErr != nil {
		snap.ConnectionErr = m.connErr.Error()
	}
	if m.bindErr != nil {
		snap.BindingErr = m.bindErr.Error()
	}
	return snap
}

// session is the read surface the orchestrator uses.
func (m *Manager) session() (w *Wallet, gw gateway, boundAddr common.Address, err error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	if m.wallet == nil || m.gw == nil {
		return nil, nil, common.Address{}, rwa.NewError(ErrNotConnected, "connect a wallet first")
	}
	return m.wallet, m.gw, m.boundAddr, nil
}
