// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package rwabridge

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// BridgeABI is the parsed ABI of the bridge contract, exported for packing
// calldata and matching custom error selectors.
var BridgeABI = func() *abi.ABI {
	parsedABI, err := RWABridgeMetaData.GetAbi()
	if err != nil {
		panic(fmt.Sprintf("failed to parse bridge abi: %v", err))
	}
	return parsedABI
}()

// revertStringSelector is the 4-byte selector of Error(string), the encoding
// used for require(...) revert reasons.
var revertStringSelector = []byte{0x08, 0xc3, 0x79, 0xa0}

// RevertError is a decoded contract revert. Name is the solidity custom error
// name, or "Error" when the contract reverted with a require string.
type RevertError struct {
	Name string
	Args []interface{}
}

func (e *RevertError) Error() string {
	if len(e.Args) == 0 {
		return fmt.Sprintf("contract reverted: %s", e.Name)
	}
	argStrs := make([]string, 0, len(e.Args))
	for _, arg := range e.Args {
		argStrs = append(argStrs, fmt.Sprintf("%v", arg))
	}
	return fmt.Sprintf("contract reverted: %s(%s)", e.Name, strings.Join(argStrs, ", "))
}

// DecodeRevertData decodes raw revert return data. Custom errors declared in
// the bridge ABI are matched by selector first, then Error(string) require
// reasons. The second return is false when the data matches neither.
func DecodeRevertData(data []byte) (*RevertError, bool) {
	if len(data) < 4 {
		return nil, false
	}
	for name, abiErr := range BridgeABI.Errors {
		if !bytes.Equal(abiErr.ID.Bytes()[:4], data[:4]) {
			continue
		}
		args, err := abiErr.Inputs.Unpack(data[4:])
		if err != nil {
			return nil, false
		}
		return &RevertError{Name: name, Args: args}, true
	}
	if bytes.Equal(data[:4], revertStringSelector) {
		reason, err := abi.UnpackRevert(data)
		if err != nil {
			return nil, false
		}
		return &RevertError{Name: "Error", Args: []interface{}{reason}}, true
	}
	return nil, false
}

// DecodeRevert pulls revert return data out of an RPC error and decodes it.
// Returns nil when err carries no decodable revert data.
func DecodeRevert(err error) *RevertError {
	data, ok := revertData(err)
	if !ok {
		return nil
	}
	revErr, ok := DecodeRevertData(data)
	if !ok {
		return nil
	}
	return revErr
}

// revertData extracts the raw return data from an rpc.DataError anywhere in
// the unwrap chain. Providers report the data as a 0x-prefixed hex string.
func revertData(err error) ([]byte, bool) {
	for ; err != nil; err = errors.Unwrap(err) {
		de, ok := err.(rpc.DataError)
		if !ok {
			continue
		}
		switch data := de.ErrorData().(type) {
		case string:
			b, decodeErr := hexutil.Decode(data)
			if decodeErr != nil {
				return nil, false
			}
			return b, true
		case []byte:
			return data, true
		}
	}
	return nil, false
}
