// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package bridge

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"bitrwa.org/bridge/rwa"
	"bitrwa.org/bridge/rwa/networks"
	"github.com/ethereum/go-ethereum/common"
)

// lockGasLimit caps gas for the locking transaction.
const lockGasLimit = 500_000

// fallbackFee is the fixed native-currency fee substituted when the fee quote
// read fails. It may over- or under-shoot the true fee for the amount, in
// which case the contract's own fee check rejects the transaction.
var fallbackFee = big.NewInt(1e17) // 0.1 ether

// BridgeStatus is the result of a read-only pre-flight check.
type BridgeStatus struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	// Fee is the quoted fee in native-currency atoms, or the fixed fallback
	// when the quote read failed.
	Fee *big.Int `json:"fee"`
	// FeeEstimated is true when Fee is the fallback, not a live quote.
	FeeEstimated bool `json:"feeEstimated"`
}

// Orchestrator runs the multi-step bridging workflows against a session.
// State-changing workflows are serialized per session. A second lock or
// approve while one is pending fails immediately with OperationInProgress.
type Orchestrator struct {
	log     rwa.Logger
	session *Manager

	inFlight uint32

	errMtx  sync.Mutex
	lastErr error
}

// NewOrchestrator creates an Orchestrator over the session.
func NewOrchestrator(session *Manager, log rwa.Logger) *Orchestrator {
	return &Orchestrator{log: log, session: session}
}

// ErrorMessage is the orchestrator's current user-facing error, empty when
// the last workflow succeeded.
func (o *Orchestrator) ErrorMessage() string {
	o.errMtx.Lock()
	defer o.errMtx.Unlock()
	if o.lastErr != nil {
		return o.lastErr.Error()
	}
	return ""
}

// acquire claims the in-flight slot and clears the error state for a new
// attempt.
func (o *Orchestrator) acquire() error {
	if !atomic.CompareAndSwapUint32(&o.inFlight, 0, 1) {
		return rwa.NewError(ErrOperationInProgress, "another bridge operation is pending")
	}
	o.errMtx.Lock()
	o.lastErr = nil
	o.errMtx.Unlock()
	return nil
}

func (o *Orchestrator) release() {
	atomic.StoreUint32(&o.inFlight, 0)
}

// fail records the workflow error and returns it.
func (o *Orchestrator) fail(err error) (common.Hash, error) {
	o.errMtx.Lock()
	o.lastErr = err
	o.errMtx.Unlock()
	return common.Hash{}, err
}

// prepare validates the amount and resolves the effective token holder. No
// remote calls are made.
func (o *Orchestrator) prepare(amount, tokenHolder string) (w *Wallet, gw gateway, amt *big.Int, holder common.Address, err error) {
	w, gw, boundAddr, err := o.session.session()
	if err != nil {
		return
	}
	if boundAddr == (common.Address{}) {
		err = rwa.NewError(ErrInvalidRequest, "bind a destination wallet before bridging")
		return
	}
	amt, err = networks.ParseUnits(amount, networks.TokenDecimals)
	if err != nil {
		err = rwa.NewError(ErrInvalidRequest, fmt.Sprintf("bad amount %q: %v", amount, err))
		return
	}
	if amt.Sign() <= 0 {
		err = rwa.NewError(ErrInvalidRequest, "amount must be greater than zero")
		return
	}
	holder = w.Addr
	if tokenHolder != "" {
		if !common.IsHexAddress(tokenHolder) {
			err = rwa.NewError(ErrInvalidRequest, fmt.Sprintf("bad token holder address %q", tokenHolder))
			return
		}
		holder = common.HexToAddress(tokenHolder)
	}
	return
}

// resolveFee quotes the dynamic fee, substituting the fixed fallback when the
// quote read fails.
func (o *Orchestrator) resolveFee(ctx context.Context, gw gateway, amt *big.Int) (fee *big.Int, estimated bool) {
	fee, err := gw.requiredFee(ctx, amt)
	if err != nil {
		o.log.Warnf("Fee quote failed, using fixed fallback of %s: %v",
			networks.FormatEther(fallbackFee), err)
		return new(big.Int).Set(fallbackFee), true
	}
	return fee, false
}

// LockAndBridge runs the full locking workflow: allowance check, aggregate
// precondition, fee quote, native-balance check, then submission. The
// transaction hash is returned on submission, not confirmation. An
// insufficient allowance fails fast with InsufficientAllowance and submits
// nothing. The caller runs ApproveForBridge and retries. Auto-approving here
// would collapse the two wallet confirmations the flow is built around.
func (o *Orchestrator) LockAndBridge(ctx context.Context, amount, tokenHolder string) (common.Hash, error) {
	if err := o.acquire(); err != nil {
		return common.Hash{}, err
	}
	defer o.release()

	w, gw, amt, holder, err := o.prepare(amount, tokenHolder)
	if err != nil {
		return o.fail(err)
	}

	allowance, err := gw.allowance(ctx, holder)
	if err != nil {
		return o.fail(rwa.NewError(ErrRemoteRead, fmt.Sprintf("allowance read: %v", err)))
	}
	if allowance.Cmp(amt) < 0 {
		return o.fail(rwa.NewError(ErrInsufficientAllowance,
			fmt.Sprintf("bridge allowance is %s, need %s. approve first",
				networks.FormatUnits(allowance, networks.TokenDecimals),
				networks.FormatUnits(amt, networks.TokenDecimals))))
	}

	allowed, reason, err := gw.bridgePrecondition(ctx, w.Addr, holder, amt)
	if err != nil {
		return o.fail(rwa.NewError(ErrRemoteRead, fmt.Sprintf("precondition check: %v", err)))
	}
	if !allowed {
		return o.fail(rwa.NewError(ErrPreconditionFailed, reason))
	}

	fee, _ := o.resolveFee(ctx, gw, amt)

	nativeBal, err := gw.nativeBalance(ctx, w.Addr)
	if err != nil {
		return o.fail(rwa.NewError(ErrRemoteRead, fmt.Sprintf("native balance read: %v", err)))
	}
	if nativeBal.Cmp(fee) < 0 {
		return o.fail(rwa.NewError(ErrInsufficientFee,
			fmt.Sprintf("bridge fee is %s, wallet holds %s",
				networks.FormatEther(fee), networks.FormatEther(nativeBal))))
	}

	txOpts, err := w.Auth()
	if err != nil {
		return o.fail(rwa.NewError(ErrRemoteWrite, fmt.Sprintf("signer unavailable: %v", err)))
	}
	txOpts.Context = ctx
	txOpts.Value = fee
	txOpts.GasLimit = lockGasLimit

	tx, err := gw.lockAndBridge(txOpts, amt, holder)
	if err != nil {
		return o.fail(translateWriteError(err))
	}
	o.log.Infof("Submitted lock of %s %s for holder %s, fee %s, txid %s",
		amount, networks.TokenSymbol, holder, networks.FormatEther(fee), tx.Hash())

	if err := o.session.Refresh(ctx); err != nil {
		o.log.Warnf("Session refresh after lock: %v", err)
	}
	return tx.Hash(), nil
}

// ApproveForBridge grants the bridge contract an allowance of amount from the
// connected wallet. This is the explicit first half of the two-step
// approve-then-bridge flow.
func (o *Orchestrator) ApproveForBridge(ctx context.Context, amount string) (common.Hash, error) {
	if err := o.acquire(); err != nil {
		return common.Hash{}, err
	}
	defer o.release()

	w, gw, amt, _, err := o.prepare(amount, "")
	if err != nil {
		return o.fail(err)
	}

	txOpts, err := w.Auth()
	if err != nil {
		return o.fail(rwa.NewError(ErrRemoteWrite, fmt.Sprintf("signer unavailable: %v", err)))
	}
	txOpts.Context = ctx

	tx, err := gw.approve(txOpts, amt)
	if err != nil {
		return o.fail(translateWriteError(err))
	}
	o.log.Infof("Submitted approval of %s %s to the bridge contract, txid %s",
		amount, networks.TokenSymbol, tx.Hash())
	return tx.Hash(), nil
}

// CheckBridgeStatus is the read-only pre-flight: validation, the aggregate
// precondition check, and the fee quote. Nothing is submitted.
func (o *Orchestrator) CheckBridgeStatus(ctx context.Context, amount, tokenHolder string) (*BridgeStatus, error) {
	w, gw, amt, holder, err := o.prepare(amount, tokenHolder)
	if err != nil {
		return nil, err
	}
	allowed, reason, err := gw.bridgePrecondition(ctx, w.Addr, holder, amt)
	if err != nil {
		return nil, rwa.NewError(ErrRemoteRead, fmt.Sprintf("precondition check: %v", err))
	}
	fee, estimated := o.resolveFee(ctx, gw, amt)
	return &BridgeStatus{
		Allowed:      allowed,
		Reason:       reason,
		Fee:          fee,
		FeeEstimated: estimated,
	}, nil
}
