package audit

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/scaleaudit/scaleaudit/internal/identity"
	"github.com/scaleaudit/scaleaudit/internal/ledger"
	"github.com/scaleaudit/scaleaudit/internal/logging"
)

// submitter builds, signs, broadcasts, and confirms contract writes.
//
// Nonce handling is the one real correctness hazard here. The gateway is
// queried fresh for every submission and nothing is cached client-side,
// because other processes may submit under the same identity. Two
// submissions racing for the same nonce is expected: the ledger accepts
// exactly one and the loser surfaces as a settlement timeout
// (SubmissionError), leaving the caller to retry with a fresh nonce after
// re-checking chain state.
type submitter struct {
	gw          Gateway
	signer      *identity.Signer
	contract    common.Address
	contractABI abi.ABI
	gasLimit    uint64
	maxGasPrice *big.Int // nil = no cap
}

// submit executes one contract write end to end and classifies the outcome.
// On success it returns the transaction hash of the settled transaction.
func (s *submitter) submit(ctx context.Context, method, target string, args ...interface{}) (common.Hash, error) {
	hash, err := s.submitOnce(ctx, method, args...)

	event := logging.AuditEvent{
		Operation: method,
		Actor:     s.signer.Address().Hex(),
		Target:    target,
		Result:    "success",
	}
	if hash != (common.Hash{}) {
		event.TxHash = hash.Hex()
	}
	if err != nil {
		event.Result = "failure"
		event.Details = err.Error()
	}
	logging.Audit(event)

	return hash, err
}

func (s *submitter) submitOnce(ctx context.Context, method string, args ...interface{}) (common.Hash, error) {
	data, err := s.contractABI.Pack(method, args...)
	if err != nil {
		return common.Hash{}, buildError(method, err)
	}

	// Everything up to broadcast is retry-safe: no chain state has been
	// touched, so failures here are BuildError.
	nonce, err := s.gw.Nonce(ctx, s.signer.Address())
	if err != nil {
		return common.Hash{}, buildError(method, err)
	}
	chainID, err := s.gw.ChainID(ctx)
	if err != nil {
		return common.Hash{}, buildError(method, err)
	}
	gasPrice, err := s.gw.GasPrice(ctx)
	if err != nil {
		return common.Hash{}, buildError(method, err)
	}
	if s.maxGasPrice != nil && gasPrice.Cmp(s.maxGasPrice) > 0 {
		gasPrice = new(big.Int).Set(s.maxGasPrice)
	}

	tx := types.NewTransaction(nonce, s.contract, big.NewInt(0), s.gasLimit, gasPrice, data)
	signed, err := s.signer.SignTx(tx, chainID)
	if err != nil {
		return common.Hash{}, newError(KindSubmission, method, "signing failed", err)
	}

	if err := s.gw.Broadcast(ctx, signed); err != nil {
		var revert *ledger.RevertError
		if errors.As(err, &revert) {
			return common.Hash{}, newError(KindContractReverted, method, revert.Reason, err)
		}
		return common.Hash{}, newError(KindSubmission, method, "broadcast failed", err)
	}

	hash := signed.Hash()
	logging.Debug("transaction broadcast",
		logging.Method(method),
		logging.TxHash(hash.Hex()),
		"nonce", nonce,
		"gas_price", gasPrice.String(),
	)

	receipt, err := s.gw.WaitForReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ledger.ErrNotConfirmed) {
			return hash, newError(KindSubmission, method, "not confirmed within timeout", err)
		}
		return hash, newError(KindSubmission, method, "settlement wait failed", err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return hash, newError(KindTransactionFailed, method, "execution status failure", nil)
	}

	return hash, nil
}
