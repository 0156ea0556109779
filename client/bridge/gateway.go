// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package bridge

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"bitrwa.org/bridge/rwa"
	"bitrwa.org/bridge/rwa/networks"
	"bitrwa.org/bridge/rwa/networks/erc20"
	"bitrwa.org/bridge/rwa/networks/rwabridge"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// readTimeout is the upper bound applied to every remote read. A provider
// that hangs longer than this surfaces an error instead of stalling the
// session.
const readTimeout = 30 * time.Second

// Provider is the remote node surface a connector hands the gateway. An
// *ethclient.Client satisfies it.
type Provider interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// BalanceReader is the slice of Provider needed for destination-chain
// native-balance reads.
type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// tokenInfo is the result of a token metadata smoke read.
type tokenInfo struct {
	name     string
	symbol   string
	decimals uint8
}

// gateway abstracts the contract read/write surface so tests can substitute a
// fake backend. rpcGateway is the production implementation.
type gateway interface {
	// contracts returns the token and bridge addresses in use.
	contracts() *networks.ContractAddresses
	// tokenBalance is the token balance of holder.
	tokenBalance(ctx context.Context, holder common.Address) (*big.Int, error)
	// allowance is the token allowance from owner to the bridge contract.
	allowance(ctx context.Context, owner common.Address) (*big.Int, error)
	// nativeBalance is the source-chain native balance of acct.
	nativeBalance(ctx context.Context, acct common.Address) (*big.Int, error)
	// destinationBalance is the destination-chain native balance of acct.
	destinationBalance(ctx context.Context, acct common.Address) (*big.Int, error)
	// bindingFor resolves the destination address bound to source. The zero
	// address means unbound.
	bindingFor(ctx context.Context, source common.Address) (common.Address, error)
	// compliance reports whether acct is permitted to use the bridge.
	compliance(ctx context.Context, acct common.Address) (bool, error)
	// bridgePrecondition is the aggregate eligibility check.
	bridgePrecondition(ctx context.Context, wallet, tokenHolder common.Address, amount *big.Int) (allowed bool, reason string, err error)
	// requiredFee quotes the native-currency fee for amount.
	requiredFee(ctx context.Context, amount *big.Int) (*big.Int, error)
	// tokenMetadata reads the token's display metadata.
	tokenMetadata(ctx context.Context) (*tokenInfo, error)
	// approve submits an allowance grant to the bridge contract.
	approve(txOpts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error)
	// bindWallet submits a destination-address binding.
	bindWallet(txOpts *bind.TransactOpts, dest common.Address) (*types.Transaction, error)
	// lockAndBridge submits the locking transaction. The fee rides in
	// txOpts.Value.
	lockAndBridge(txOpts *bind.TransactOpts, amount *big.Int, tokenHolder common.Address) (*types.Transaction, error)
}

// rpcGateway serves contract reads and writes through an injected Provider.
// Writes are single-shot with no automatic retry, and remote errors pass
// through unmodified for decoding at the orchestration boundary.
type rpcGateway struct {
	node    Provider
	dest    BalanceReader // read-only destination chain, may be nil
	chainID uint64
	addrs   *networks.ContractAddresses
	token   *erc20.IERC20
	bridge  *rwabridge.RWABridge
	log     rwa.Logger
}

var _ gateway = (*rpcGateway)(nil)

// newRPCGateway binds the token and bridge contracts for chainID on the given
// provider. dest may be nil when no destination-chain endpoint is available.
func newRPCGateway(node Provider, dest BalanceReader, chainID uint64, net rwa.Network, log rwa.Logger) (*rpcGateway, error) {
	if !networks.Supported(chainID) {
		return nil, rwa.NewError(ErrNetworkUnsupported, fmt.Sprintf("chain id %d", chainID))
	}
	addrs, found := networks.Addresses[net]
	if !found || addrs.Token == (common.Address{}) || addrs.Bridge == (common.Address{}) {
		return nil, fmt.Errorf("no contract addresses configured for %s", net)
	}
	token, err := erc20.NewIERC20(addrs.Token, node)
	if err != nil {
		return nil, fmt.Errorf("error binding token contract: %w", err)
	}
	bridge, err := rwabridge.NewRWABridge(addrs.Bridge, node)
	if err != nil {
		return nil, fmt.Errorf("error binding bridge contract: %w", err)
	}
	return &rpcGateway{
		node:    node,
		dest:    dest,
		chainID: chainID,
		addrs:   addrs,
		token:   token,
		bridge:  bridge,
		log:     log,
	}, nil
}

func (g *rpcGateway) contracts() *networks.ContractAddresses {
	return g.addrs
}

// callOpts prepares read options with the bounded timeout. The returned
// cancel func must be called when the read completes.
func callOpts(ctx context.Context) (*bind.CallOpts, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	return &bind.CallOpts{Context: ctx}, cancel
}

func (g *rpcGateway) tokenBalance(ctx context.Context, holder common.Address) (*big.Int, error) {
	opts, cancel := callOpts(ctx)
	defer cancel()
	return g.token.BalanceOf(opts, holder)
}

func (g *rpcGateway) allowance(ctx context.Context, owner common.Address) (*big.Int, error) {
	opts, cancel := callOpts(ctx)
	defer cancel()
	return g.token.Allowance(opts, owner, g.addrs.Bridge)
}

func (g *rpcGateway) nativeBalance(ctx context.Context, acct common.Address) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	return g.node.BalanceAt(ctx, acct, nil)
}

func (g *rpcGateway) destinationBalance(ctx context.Context, acct common.Address) (*big.Int, error) {
	if g.dest == nil {
		return nil, fmt.Errorf("no destination chain connection")
	}
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	return g.dest.BalanceAt(ctx, acct, nil)
}

func (g *rpcGateway) bindingFor(ctx context.Context, source common.Address) (common.Address, error) {
	opts, cancel := callOpts(ctx)
	defer cancel()
	return g.bridge.BitmaskWalletBindings(opts, source)
}

func (g *rpcGateway) compliance(ctx context.Context, acct common.Address) (bool, error) {
	opts, cancel := callOpts(ctx)
	defer cancel()
	return g.bridge.IsCompliant(opts, acct)
}

func (g *rpcGateway) bridgePrecondition(ctx context.Context, wallet, tokenHolder common.Address, amount *big.Int) (bool, string, error) {
	opts, cancel := callOpts(ctx)
	defer cancel()
	res, err := g.bridge.CanBridge(opts, wallet, tokenHolder, amount)
	if err != nil {
		return false, "", err
	}
	return res.Allowed, res.Reason, nil
}

func (g *rpcGateway) requiredFee(ctx context.Context, amount *big.Int) (*big.Int, error) {
	opts, cancel := callOpts(ctx)
	defer cancel()
	return g.bridge.GetRequiredFee(opts, amount)
}

func (g *rpcGateway) tokenMetadata(ctx context.Context) (*tokenInfo, error) {
	opts, cancel := callOpts(ctx)
	defer cancel()
	name, err := g.token.Name(opts)
	if err != nil {
		return nil, fmt.Errorf("name read error: %w", err)
	}
	symbol, err := g.token.Symbol(opts)
	if err != nil {
		return nil, fmt.Errorf("symbol read error: %w", err)
	}
	decimals, err := g.token.Decimals(opts)
	if err != nil {
		return nil, fmt.Errorf("decimals read error: %w", err)
	}
	return &tokenInfo{name: name, symbol: symbol, decimals: decimals}, nil
}

func (g *rpcGateway) approve(txOpts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error) {
	return g.token.Approve(txOpts, g.addrs.Bridge, amount)
}

func (g *rpcGateway) bindWallet(txOpts *bind.TransactOpts, dest common.Address) (*types.Transaction, error) {
	return g.bridge.BindBitmaskWallet(txOpts, dest)
}

func (g *rpcGateway) lockAndBridge(txOpts *bind.TransactOpts, amount *big.Int, tokenHolder common.Address) (*types.Transaction, error) {
	return g.bridge.LockAndBridge(txOpts, amount, tokenHolder)
}
