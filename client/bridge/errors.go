// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package bridge

import (
	"errors"
	"fmt"
	"math/big"

	"bitrwa.org/bridge/rwa"
	"bitrwa.org/bridge/rwa/networks"
	"bitrwa.org/bridge/rwa/networks/rwabridge"
	"github.com/ethereum/go-ethereum/rpc"
)

// Error kinds surfaced by the session manager and orchestrator. Callers match
// these with errors.Is.
const (
	ErrConnectionFailed      = rwa.ErrorKind("connection failed")
	ErrAmbiguousConnector    = rwa.ErrorKind("ambiguous connector")
	ErrNetworkUnsupported    = rwa.ErrorKind("network unsupported")
	ErrInvalidRequest        = rwa.ErrorKind("invalid request")
	ErrInsufficientAllowance = rwa.ErrorKind("insufficient allowance")
	ErrInsufficientFee       = rwa.ErrorKind("insufficient fee")
	ErrPreconditionFailed    = rwa.ErrorKind("bridge precondition failed")
	ErrUserRejected          = rwa.ErrorKind("user rejected request")
	ErrRemoteRead            = rwa.ErrorKind("remote read error")
	ErrRemoteWrite           = rwa.ErrorKind("remote write error")
	ErrOperationInProgress   = rwa.ErrorKind("operation in progress")
	ErrNotConnected          = rwa.ErrorKind("no wallet session")
)

// walletRejectionCode is the EIP-1193 error code a provider returns when the
// user declines a signing prompt.
const walletRejectionCode = 4001

// userRejected reports whether err is a signer-level rejection.
func userRejected(err error) bool {
	var rpcErr rpc.Error
	return errors.As(err, &rpcErr) && rpcErr.ErrorCode() == walletRejectionCode
}

// translateWriteError converts a raw submission error into the user-facing
// taxonomy. The decode chain is ordered: wallet rejection, then contract
// custom errors by name, then standard revert strings verbatim, then a
// generic reverted/remote-write classification.
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if userRejected(err) {
		return rwa.NewError(ErrUserRejected, "transaction was rejected in the wallet")
	}
	if revErr := rwabridge.DecodeRevert(err); revErr != nil {
		return translateRevert(revErr)
	}
	return rwa.NewError(ErrRemoteWrite, err.Error())
}

// translateRevert maps a decoded contract revert to its user message.
// Unrecognized custom errors get the generic reverted message.
func translateRevert(revErr *rwabridge.RevertError) error {
	switch revErr.Name {
	case "NotCompliant":
		return rwa.NewError(ErrPreconditionFailed, "wallet address is not compliant with bridge requirements")
	case "WalletNotBound":
		return rwa.NewError(ErrPreconditionFailed, "no destination wallet is bound to this address")
	case "InsufficientTokenBalance":
		return rwa.NewError(ErrPreconditionFailed, amountsDetail("token balance too low", revErr.Args))
	case "InsufficientTokenAllowance":
		return rwa.NewError(ErrInsufficientAllowance, amountsDetail("bridge allowance too low", revErr.Args))
	case "InsufficientFee":
		return rwa.NewError(ErrInsufficientFee, amountsDetail("bridge fee too low", revErr.Args))
	case "ZeroAmount":
		return rwa.NewError(ErrInvalidRequest, "amount must be greater than zero")
	case "InvalidTokenHolder":
		return rwa.NewError(ErrInvalidRequest, "invalid token holder address")
	case "InvalidWalletAddress":
		return rwa.NewError(ErrInvalidRequest, "invalid wallet address")
	case "Error": // require(...) reason string, shown verbatim
		if len(revErr.Args) == 1 {
			if reason, ok := revErr.Args[0].(string); ok {
				return rwa.NewError(ErrPreconditionFailed, reason)
			}
		}
	}
	return rwa.NewError(ErrRemoteWrite, "contract execution reverted")
}

// amountsDetail renders the (required, actual) argument pair carried by the
// quantity-shaped custom errors.
func amountsDetail(msg string, args []interface{}) string {
	if len(args) != 2 {
		return msg
	}
	required, ok1 := args[0].(*big.Int)
	actual, ok2 := args[1].(*big.Int)
	if !ok1 || !ok2 {
		return msg
	}
	return fmt.Sprintf("%s: required %s, have %s", msg,
		networks.FormatUnits(required, networks.TokenDecimals),
		networks.FormatUnits(actual, networks.TokenDecimals))
}
