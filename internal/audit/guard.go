package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/scaleaudit/scaleaudit/internal/ledger"
	"github.com/scaleaudit/scaleaudit/internal/logging"
)

// checkAuthorized verifies that addr may write audit records: either the
// contract's registry marks it as an approved logger, or it is the
// registry's designated owner. Addresses compare canonically, so casing in
// config does not matter.
//
// This gate runs once at client construction. A revocation mid-session is
// not caught here; the contract itself rejects such writes and the
// submitter reports the revert.
func checkAuthorized(ctx context.Context, gw Gateway, contractABI abi.ABI, contract, addr common.Address) error {
	authorized, err := callBool(ctx, gw, contractABI, contract, "authorizedLoggers", addr)
	if err != nil {
		return err
	}
	if authorized {
		return nil
	}

	owner, err := callAddress(ctx, gw, contractABI, contract, "owner")
	if err != nil {
		return err
	}
	if owner == addr {
		logging.Debug("identity is registry owner, bypassing logger registry",
			logging.Address(addr.Hex()))
		return nil
	}

	return newError(KindUnauthorized, "",
		fmt.Sprintf("address %s is not an authorized logger and not the owner", addr.Hex()), nil)
}

func callBool(ctx context.Context, gw Gateway, contractABI abi.ABI, contract common.Address, method string, args ...interface{}) (bool, error) {
	vals, err := callContract(ctx, gw, contractABI, contract, method, args...)
	if err != nil {
		return false, err
	}
	out, ok := vals[0].(bool)
	if !ok {
		return false, newError(KindDecode, method, "expected bool result", nil)
	}
	return out, nil
}

func callAddress(ctx context.Context, gw Gateway, contractABI abi.ABI, contract common.Address, method string, args ...interface{}) (common.Address, error) {
	vals, err := callContract(ctx, gw, contractABI, contract, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	out, ok := vals[0].(common.Address)
	if !ok {
		return common.Address{}, newError(KindDecode, method, "expected address result", nil)
	}
	return out, nil
}

// callContract packs, executes, and unpacks a read-only contract call,
// classifying failures per the error taxonomy.
func callContract(ctx context.Context, gw Gateway, contractABI abi.ABI, contract common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, buildError(method, err)
	}

	out, err := gw.Call(ctx, contract, data)
	if err != nil {
		var revert *ledger.RevertError
		if errors.As(err, &revert) {
			return nil, newError(KindContractReverted, method, revert.Reason, err)
		}
		return nil, newError(KindRPCUnavailable, method, "", err)
	}

	vals, err := contractABI.Unpack(method, out)
	if err != nil {
		return nil, newError(KindDecode, method, "", err)
	}
	if len(vals) == 0 {
		return nil, newError(KindDecode, method, "empty result", nil)
	}
	return vals, nil
}
