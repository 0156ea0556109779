// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package bridge

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"bitrwa.org/bridge/rwa"
	"bitrwa.org/bridge/rwa/networks"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	tLogger     = rwa.StdOutLogger("TBRIDGE", rwa.LevelTrace)
	tWalletAddr = common.HexToAddress("0x18d65fb8d60c1199bb1ad381be47aa692b482605")
	tDestAddr   = common.HexToAddress("0x2b84c791b79ee37de042ad2ffF1a253c3ce9bc27")
	tCtx        = context.Background()
)

func tEther(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

// tNode is a no-op Provider for tests. Only TransactionReceipt matters, for
// bind confirmation waits.
type tNode struct {
	receipt    *types.Receipt
	receiptErr error
}

func (n *tNode) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x01}, nil
}
func (n *tNode) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return nil, nil
}
func (n *tNode) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{}, nil
}
func (n *tNode) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return nil, nil
}
func (n *tNode) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return 0, nil
}
func (n *tNode) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}
func (n *tNode) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}
func (n *tNode) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return 21000, nil
}
func (n *tNode) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return nil
}
func (n *tNode) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}
func (n *tNode) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("not implemented")
}
func (n *tNode) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if n.receiptErr != nil {
		return nil, n.receiptErr
	}
	if n.receipt != nil {
		return n.receipt, nil
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(1)}, nil
}
func (n *tNode) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return tEther(1), nil
}

// tGateway is a fake gateway with per-call error fields and write counters.
type tGateway struct {
	mtx sync.Mutex

	addrs networks.ContractAddresses

	balances     map[common.Address]*big.Int
	balanceErr   error
	allowanceVal *big.Int
	allowanceErr error
	nativeBal    *big.Int
	nativeErr    error
	destBal      *big.Int
	destErr      error
	bound        common.Address
	boundErr     error
	compliant    bool
	complyErr    error
	canBridge    bool
	reason       string
	canBridgeErr error
	fee          *big.Int
	feeErr       error
	metaErr      error

	// gate, if non-nil, blocks bridgePrecondition until closed.
	gate chan struct{}

	approveCalls int
	bindCalls    int
	lockCalls    int
	lockOpts     *bind.TransactOpts

	nonce uint64
}

func newTGateway() *tGateway {
	return &tGateway{
		addrs: networks.ContractAddresses{
			Token:  common.HexToAddress("0x0000000000000000000000000000000000000a01"),
			Bridge: common.HexToAddress("0x0000000000000000000000000000000000000b01"),
		},
		balances:     map[common.Address]*big.Int{tWalletAddr: tEther(100)},
		allowanceVal: new(big.Int),
		nativeBal:    tEther(1),
		destBal:      tEther(2),
		compliant:    true,
		canBridge:    true,
		fee:          big.NewInt(1e16), // 0.01
	}
}

func (g *tGateway) tx() *types.Transaction {
	g.nonce++
	return types.NewTx(&types.LegacyTx{Nonce: g.nonce})
}

func (g *tGateway) contracts() *networks.ContractAddresses {
	return &g.addrs
}

func (g *tGateway) tokenBalance(_ context.Context, holder common.Address) (*big.Int, error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	if g.balanceErr != nil {
		return nil, g.balanceErr
	}
	bal, found := g.balances[holder]
	if !found {
		bal = new(big.Int)
	}
	return new(big.Int).Set(bal), nil
}

func (g *tGateway) allowance(_ context.Context, owner common.Address) (*big.Int, error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	if g.allowanceErr != nil {
		return nil, g.allowanceErr
	}
	return new(big.Int).Set(g.allowanceVal), nil
}

func (g *tGateway) nativeBalance(_ context.Context, acct common.Address) (*big.Int, error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	if g.nativeErr != nil {
		return nil, g.nativeErr
	}
	return new(big.Int).Set(g.nativeBal), nil
}

func (g *tGateway) destinationBalance(_ context.Context, acct common.Address) (*big.Int, error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	if g.destErr != nil {
		return nil, g.destErr
	}
	return new(big.Int).Set(g.destBal), nil
}

func (g *tGateway) bindingFor(_ context.Context, source common.Address) (common.Address, error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return g.bound, g.boundErr
}

func (g *tGateway) compliance(_ context.Context, acct common.Address) (bool, error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return g.compliant, g.complyErr
}

func (g *tGateway) bridgePrecondition(_ context.Context, wallet, tokenHolder common.Address, amount *big.Int) (bool, string, error) {
	g.mtx.Lock()
	gate := g.gate
	g.mtx.Unlock()
	if gate != nil {
		<-gate
	}
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return g.canBridge, g.reason, g.canBridgeErr
}

func (g *tGateway) requiredFee(_ context.Context, amount *big.Int) (*big.Int, error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	if g.feeErr != nil {
		return nil, g.feeErr
	}
	return new(big.Int).Set(g.fee), nil
}

func (g *tGateway) tokenMetadata(_ context.Context) (*tokenInfo, error) {
	if g.metaErr != nil {
		return nil, g.metaErr
	}
	return &tokenInfo{name: "Test Dollar", symbol: networks.TokenSymbol, decimals: networks.TokenDecimals}, nil
}

func (g *tGateway) approve(txOpts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	g.approveCalls++
	g.allowanceVal = new(big.Int).Set(amount)
	return g.tx(), nil
}

func (g *tGateway) bindWallet(txOpts *bind.TransactOpts, dest common.Address) (*types.Transaction, error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	g.bindCalls++
	g.bound = dest
	return g.tx(), nil
}

func (g *tGateway) lockAndBridge(txOpts *bind.TransactOpts, amount *big.Int, tokenHolder common.Address) (*types.Transaction, error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	g.lockCalls++
	g.lockOpts = txOpts
	return g.tx(), nil
}

func (g *tGateway) writeCalls() int {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return g.approveCalls + g.bindCalls + g.lockCalls
}

var _ gateway = (*tGateway)(nil)

// tConnector is a fake Connector that hands out a prepared Wallet.
type tConnector struct {
	mtx        sync.Mutex
	name       string
	addr       common.Address
	chainID    uint64
	node       *tNode
	connectErr error
	events     chan Event
}

func newTConnector(chainID uint64) *tConnector {
	return &tConnector{name: "test", addr: tWalletAddr, chainID: chainID, node: &tNode{}}
}

func (c *tConnector) Name() string { return c.name }

func (c *tConnector) Connect(ctx context.Context) (*Wallet, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.connectErr != nil {
		return nil, c.connectErr
	}
	c.events = make(chan Event, 4)
	return &Wallet{
		Addr:    c.addr,
		ChainID: c.chainID,
		Node:    c.node,
		Auth: func() (*bind.TransactOpts, error) {
			return &bind.TransactOpts{From: c.addr}, nil
		},
		Events: c.events,
	}, nil
}

func (c *tConnector) Disconnect() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.events != nil {
		close(c.events)
		c.events = nil
	}
}

func (c *tConnector) emit(ev Event) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.events != nil {
		c.events <- ev
	}
}

var _ Connector = (*tConnector)(nil)

func tNewSession(t *testing.T, gw *tGateway, conns ...Connector) *Manager {
	t.Helper()
	if len(conns) == 0 {
		conns = []Connector{newTConnector(networks.EthSepoliaChainID)}
	}
	m, err := NewManager(&Config{
		Net:        rwa.Testnet,
		Connectors: conns,
		Logger:     tLogger,
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	m.newGateway = func(ctx context.Context, w *Wallet) (gateway, error) {
		return gw, nil
	}
	return m
}

func tConnectedSession(t *testing.T, gw *tGateway) *Manager {
	t.Helper()
	m := tNewSession(t, gw)
	if err := m.Connect(tCtx, ""); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	return m
}

func tBoundSession(t *testing.T, gw *tGateway) *Manager {
	t.Helper()
	gw.bound = tDestAddr
	m := tConnectedSession(t, gw)
	if snap := m.Snapshot(); snap.Status != StatusBound {
		t.Fatalf("expected bound session, got %s", snap.Status)
	}
	return m
}

func TestValidateDestinationAddress(t *testing.T) {
	longAddr := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = 'a'
		}
		return string(b)
	}
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"empty", "", true},
		{"seven chars", longAddr(7), true},
		{"eight chars", longAddr(8), false},
		{"sixty-four chars", longAddr(64), false},
		{"sixty-five chars", longAddr(65), true},
		{"hex address", tDestAddr.Hex(), false},
	}
	for _, test := range tests {
		err := ValidateDestinationAddress(test.addr)
		if (err != nil) != test.wantErr {
			t.Fatalf("%s: err = %v, wantErr = %t", test.name, err, test.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("%s: wrong error kind: %v", test.name, err)
		}
	}
}

func TestConnectImplicitAndAmbiguous(t *testing.T) {
	gw := newTGateway()
	m := tNewSession(t, gw)
	if err := m.Connect(tCtx, ""); err != nil {
		t.Fatalf("implicit single-connector Connect error: %v", err)
	}
	m.Disconnect()

	m = tNewSession(t, gw,
		newTConnector(networks.EthSepoliaChainID),
		&tConnector{name: "other", addr: tWalletAddr, chainID: networks.EthSepoliaChainID, node: &tNode{}})
	err := m.Connect(tCtx, "")
	if !errors.Is(err, ErrAmbiguousConnector) {
		t.Fatalf("expected AmbiguousConnector, got %v", err)
	}
	if err := m.Connect(tCtx, "other"); err != nil {
		t.Fatalf("named Connect error: %v", err)
	}
}

func TestDisconnectIdempotent(t *testing.T) {
	gw := newTGateway()
	gw.bound = tDestAddr
	m := tConnectedSession(t, gw)

	m.Disconnect()
	first := m.Snapshot()
	m.Disconnect()
	second := m.Snapshot()

	for i, snap := range []*Snapshot{first, second} {
		if snap.Status != StatusDisconnected || snap.Address != "" ||
			snap.BoundAddress != "" || len(snap.Balances) != 0 {
			t.Fatalf("disconnect %d left residual state: %+v", i+1, snap)
		}
	}
}

func TestConnectFailure(t *testing.T) {
	gw := newTGateway()
	conn := newTConnector(networks.EthSepoliaChainID)
	conn.connectErr = errors.New("user closed the prompt")
	m := tNewSession(t, gw, conn)
	err := m.Connect(tCtx, "")
	if !errors.Is(err, ErrConnectionFailed) {
		t.Fatalf("expected ConnectionFailed, got %v", err)
	}
	if snap := m.Snapshot(); snap.Status != StatusDisconnected {
		t.Fatalf("expected disconnected after failed connect, got %s", snap.Status)
	}
}

func TestUnsupportedNetwork(t *testing.T) {
	gw := newTGateway()
	m := tNewSession(t, gw, newTConnector(424242))
	err := m.Connect(tCtx, "")
	if !errors.Is(err, ErrNetworkUnsupported) {
		t.Fatalf("expected NetworkUnsupported, got %v", err)
	}
	snap := m.Snapshot()
	if snap.Status != StatusConnected {
		t.Fatalf("expected session retained in connected state, got %s", snap.Status)
	}
	if len(snap.Balances) != 0 {
		t.Fatalf("expected empty balances on unsupported network, got %d", len(snap.Balances))
	}
	if snap.ConnectionErr == "" {
		t.Fatal("expected connection error in snapshot")
	}
}

func TestLockAndBridgeInsufficientAllowance(t *testing.T) {
	gw := newTGateway()
	m := tBoundSession(t, gw)
	o := NewOrchestrator(m, tLogger)

	gw.allowanceVal = tEther(1) // below the requested 5
	_, err := o.LockAndBridge(tCtx, "5", "")
	if !errors.Is(err, ErrInsufficientAllowance) {
		t.Fatalf("expected InsufficientAllowance, got %v", err)
	}
	if gw.lockCalls != 0 {
		t.Fatalf("lock transaction submitted despite insufficient allowance")
	}
	if o.ErrorMessage() == "" {
		t.Fatal("expected error state to be set")
	}
}

func TestApproveThenLock(t *testing.T) {
	gw := newTGateway()
	m := tBoundSession(t, gw)
	o := NewOrchestrator(m, tLogger)

	if _, err := o.LockAndBridge(tCtx, "5", ""); !errors.Is(err, ErrInsufficientAllowance) {
		t.Fatalf("expected InsufficientAllowance first, got %v", err)
	}
	if _, err := o.ApproveForBridge(tCtx, "5"); err != nil {
		t.Fatalf("ApproveForBridge error: %v", err)
	}
	if _, err := o.LockAndBridge(tCtx, "5", ""); err != nil {
		t.Fatalf("LockAndBridge after approval error: %v", err)
	}
	if gw.approveCalls != 1 {
		t.Fatalf("expected exactly 1 approval, got %d", gw.approveCalls)
	}
	if gw.lockCalls != 1 {
		t.Fatalf("expected exactly 1 lock, got %d", gw.lockCalls)
	}
	if o.ErrorMessage() != "" {
		t.Fatalf("error state not cleared: %q", o.ErrorMessage())
	}
}

func TestLockAndBridgeZeroAmount(t *testing.T) {
	gw := newTGateway()
	gw.allowanceErr = errors.New("should not be read")
	gw.canBridgeErr = errors.New("should not be read")
	m := tBoundSession(t, gw)
	o := NewOrchestrator(m, tLogger)

	_, err := o.LockAndBridge(tCtx, "0", "")
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected InvalidRequest for zero amount, got %v", err)
	}
	_, err = o.LockAndBridge(tCtx, "not a number", "")
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected InvalidRequest for garbage amount, got %v", err)
	}
}

func TestLockAndBridgeNotBound(t *testing.T) {
	gw := newTGateway()
	m := tConnectedSession(t, gw)
	o := NewOrchestrator(m, tLogger)

	_, err := o.LockAndBridge(tCtx, "5", "")
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected InvalidRequest on unbound session, got %v", err)
	}
}

func TestLockAndBridgePreconditionFailed(t *testing.T) {
	gw := newTGateway()
	gw.allowanceVal = tEther(10)
	gw.canBridge = false
	gw.reason = "transfers are paused"
	m := tBoundSession(t, gw)
	o := NewOrchestrator(m, tLogger)

	_, err := o.LockAndBridge(tCtx, "5", "")
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected PreconditionFailed, got %v", err)
	}
	var kindErr rwa.Error
	if !errors.As(err, &kindErr) {
		t.Fatalf("not an rwa.Error: %v", err)
	}
	if want := "transfers are paused"; !strings.Contains(err.Error(), want) {
		t.Fatalf("reason %q not passed through: %q", want, err.Error())
	}
}

func TestLockAndBridgeFeeFallback(t *testing.T) {
	gw := newTGateway()
	gw.allowanceVal = tEther(10)
	gw.feeErr = errors.New("quote unavailable")
	m := tBoundSession(t, gw)
	o := NewOrchestrator(m, tLogger)

	// Native balance below the 0.1 fallback: flow must reach the balance
	// check and fail there.
	gw.nativeBal = big.NewInt(1e16)
	_, err := o.LockAndBridge(tCtx, "5", "")
	if !errors.Is(err, ErrInsufficientFee) {
		t.Fatalf("expected InsufficientFee with fallback fee, got %v", err)
	}

	// Funded: the lock submits with the fallback as transaction value.
	gw.nativeBal = tEther(1)
	if _, err := o.LockAndBridge(tCtx, "5", ""); err != nil {
		t.Fatalf("LockAndBridge error: %v", err)
	}
	if gw.lockOpts == nil || gw.lockOpts.Value.Cmp(fallbackFee) != 0 {
		t.Fatalf("lock not submitted with fallback fee: %+v", gw.lockOpts)
	}
	if gw.lockOpts.GasLimit != lockGasLimit {
		t.Fatalf("wrong gas limit %d", gw.lockOpts.GasLimit)
	}
}

func TestCheckBridgeStatusPureRead(t *testing.T) {
	gw := newTGateway()
	gw.allowanceVal = tEther(10)
	m := tBoundSession(t, gw)
	o := NewOrchestrator(m, tLogger)
	writesBefore := gw.writeCalls()

	status, err := o.CheckBridgeStatus(tCtx, "5", "")
	if err != nil {
		t.Fatalf("CheckBridgeStatus error: %v", err)
	}
	if !status.Allowed {
		t.Fatalf("expected allowed, got %+v", status)
	}
	if status.Fee.Cmp(gw.fee) != 0 || status.FeeEstimated {
		t.Fatalf("expected live fee quote, got %+v", status)
	}
	if writes := gw.writeCalls(); writes != writesBefore {
		t.Fatalf("CheckBridgeStatus performed %d writes", writes-writesBefore)
	}

	gw.feeErr = errors.New("quote unavailable")
	status, err = o.CheckBridgeStatus(tCtx, "5", "")
	if err != nil {
		t.Fatalf("CheckBridgeStatus with fee error: %v", err)
	}
	if !status.FeeEstimated || status.Fee.Cmp(fallbackFee) != 0 {
		t.Fatalf("expected fallback fee flagged as estimated, got %+v", status)
	}
	if writes := gw.writeCalls(); writes != writesBefore {
		t.Fatalf("CheckBridgeStatus performed writes on fee fallback")
	}
}

func TestConcurrentLock(t *testing.T) {
	gw := newTGateway()
	gw.allowanceVal = tEther(10)
	gw.gate = make(chan struct{})
	m := tBoundSession(t, gw)
	o := NewOrchestrator(m, tLogger)

	firstDone := make(chan error, 1)
	go func() {
		_, err := o.LockAndBridge(tCtx, "5", "")
		firstDone <- err
	}()

	// Wait for the first call to claim the in-flight slot and block in the
	// precondition read.
	tStart := time.Now()
	for atomic.LoadUint32(&o.inFlight) == 0 {
		if time.Since(tStart) > 5*time.Second {
			t.Fatal("first lock never started")
		}
		time.Sleep(time.Millisecond)
	}

	_, err := o.LockAndBridge(tCtx, "5", "")
	if !errors.Is(err, ErrOperationInProgress) {
		t.Fatalf("expected OperationInProgress, got %v", err)
	}

	close(gw.gate)
	if err := <-firstDone; err != nil {
		t.Fatalf("first lock affected by rejected second call: %v", err)
	}
	if gw.lockCalls != 1 {
		t.Fatalf("expected 1 lock submission, got %d", gw.lockCalls)
	}
}

func TestBindWalletRoundTrip(t *testing.T) {
	gw := newTGateway()
	m := tConnectedSession(t, gw)

	// Lowercased input must round-trip to the same address.
	lower := "0x2b84c791b79ee37de042ad2fff1a253c3ce9bc27"
	if _, err := m.BindWallet(tCtx, lower); err != nil {
		t.Fatalf("BindWallet error: %v", err)
	}
	snap := m.Snapshot()
	if snap.Status != StatusBound {
		t.Fatalf("expected bound status, got %s", snap.Status)
	}
	if snap.BoundAddress != tDestAddr.Hex() {
		t.Fatalf("bound address %q does not round-trip to %q", snap.BoundAddress, tDestAddr.Hex())
	}
	if gw.bindCalls != 1 {
		t.Fatalf("expected 1 bind call, got %d", gw.bindCalls)
	}

	// The store cache must be reconciled to the chain record.
	dest, found, err := m.store.Get(tWalletAddr)
	if err != nil || !found {
		t.Fatalf("cached binding missing: %v", err)
	}
	if dest != tDestAddr {
		t.Fatalf("cached %s, want %s", dest, tDestAddr)
	}
}

func TestBindWalletValidation(t *testing.T) {
	gw := newTGateway()
	m := tConnectedSession(t, gw)

	if _, err := m.BindWallet(tCtx, "short"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected InvalidRequest for short address, got %v", err)
	}
	if _, err := m.BindWallet(tCtx, "not-hex-but-long-enough"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected InvalidRequest for non-hex address, got %v", err)
	}
	if gw.bindCalls != 0 {
		t.Fatalf("bind submitted for invalid input")
	}

	gw.compliant = false
	if _, err := m.BindWallet(tCtx, tDestAddr.Hex()); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected PreconditionFailed for non-compliant wallet, got %v", err)
	}
	if gw.bindCalls != 0 {
		t.Fatalf("bind submitted for non-compliant wallet")
	}
}

func TestAccountsRevokedDisconnects(t *testing.T) {
	gw := newTGateway()
	conn := newTConnector(networks.EthSepoliaChainID)
	m := tNewSession(t, gw, conn)
	if err := m.Connect(tCtx, ""); err != nil {
		t.Fatalf("Connect error: %v", err)
	}

	conn.emit(Event{Kind: AccountsChanged})

	tStart := time.Now()
	for m.Snapshot().Status != StatusDisconnected {
		if time.Since(tStart) > 5*time.Second {
			t.Fatal("session never disconnected after account revocation")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestChainChangedReverifies(t *testing.T) {
	gw := newTGateway()
	conn := newTConnector(networks.EthSepoliaChainID)
	m := tNewSession(t, gw, conn)

	// Record the wallet handle the gateway is built over.
	var mtx sync.Mutex
	var factoryWallets []*Wallet
	m.newGateway = func(ctx context.Context, w *Wallet) (gateway, error) {
		mtx.Lock()
		factoryWallets = append(factoryWallets, w)
		mtx.Unlock()
		return gw, nil
	}

	if err := m.Connect(tCtx, ""); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	if snap := m.Snapshot(); len(snap.Balances) == 0 {
		t.Fatal("no balances after connect")
	}

	waitFor := func(desc string, pass func(*Snapshot) bool) {
		t.Helper()
		tStart := time.Now()
		for !pass(m.Snapshot()) {
			if time.Since(tStart) > 5*time.Second {
				t.Fatalf("timed out waiting for %s: %+v", desc, m.Snapshot())
			}
			time.Sleep(time.Millisecond)
		}
	}

	// A switch to an unsupported chain resets the derived caches and leaves
	// the session connected with the error exposed.
	conn.emit(Event{Kind: ChainChanged, ChainID: 424242, Wallet: &Wallet{
		Addr:    tWalletAddr,
		ChainID: 424242,
		Node:    &tNode{},
	}})
	waitFor("unsupported-chain reset", func(snap *Snapshot) bool {
		return snap.ChainID == 424242 && snap.ConnectionErr != ""
	})
	snap := m.Snapshot()
	if snap.Status != StatusConnected {
		t.Fatalf("expected session retained in connected state, got %s", snap.Status)
	}
	if len(snap.Balances) != 0 || snap.BoundAddress != "" {
		t.Fatalf("derived caches not reset on chain change: %+v", snap)
	}

	// Switching back re-verifies and rebuilds the gateway over the
	// replacement wallet's node, never the pre-switch one.
	goodNode := &tNode{}
	conn.emit(Event{Kind: ChainChanged, ChainID: networks.EthSepoliaChainID, Wallet: &Wallet{
		Addr:    tWalletAddr,
		ChainID: networks.EthSepoliaChainID,
		Node:    goodNode,
	}})
	waitFor("supported-chain recovery", func(snap *Snapshot) bool {
		return snap.ChainID == networks.EthSepoliaChainID &&
			snap.ConnectionErr == "" && len(snap.Balances) > 0
	})

	mtx.Lock()
	last := factoryWallets[len(factoryWallets)-1]
	mtx.Unlock()
	if last.Node != goodNode {
		t.Fatal("gateway rebuilt over the stale pre-switch node")
	}
	if last.ChainID != networks.EthSepoliaChainID {
		t.Fatalf("gateway built for chain %d", last.ChainID)
	}
}

func TestConcurrentEventReads(t *testing.T) {
	gw := newTGateway()
	gw.allowanceVal = tEther(10)
	gw.bound = tDestAddr
	conn := newTConnector(networks.EthSepoliaChainID)
	m := tNewSession(t, gw, conn)
	if err := m.Connect(tCtx, ""); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	o := NewOrchestrator(m, tLogger)

	// Hammer the session with account-change events while reads run. The
	// race detector flags any unsynchronized wallet access.
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				conn.emit(Event{Kind: AccountsChanged, Accounts: []common.Address{tWalletAddr}})
			}
		}
	}()

	for i := 0; i < 50; i++ {
		if _, err := o.CheckBridgeStatus(tCtx, "5", ""); err != nil {
			t.Fatalf("CheckBridgeStatus error during events: %v", err)
		}
		m.Snapshot()
	}

	close(done)
	wg.Wait()
}

func TestVerifyContracts(t *testing.T) {
	gw := newTGateway()
	m := tConnectedSession(t, gw)
	if err := m.VerifyContracts(tCtx); err != nil {
		t.Fatalf("VerifyContracts error: %v", err)
	}
	gw.metaErr = errors.New("no contract at address")
	if err := m.VerifyContracts(tCtx); !errors.Is(err, ErrRemoteRead) {
		t.Fatalf("expected RemoteReadError, got %v", err)
	}
}
