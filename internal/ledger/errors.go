package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// ErrUnavailable wraps connectivity faults talking to the ledger RPC
// endpoint. These are transient; the whole operation may be retried.
var ErrUnavailable = errors.New("ledger rpc unavailable")

// ErrNotConfirmed is returned when a transaction is not included within the
// configured settlement timeout. The transaction may still confirm later,
// so this is not safe to retry without re-checking chain state.
var ErrNotConfirmed = errors.New("not confirmed within timeout")

// RevertError carries a contract-side rejection with its decoded reason.
type RevertError struct {
	Reason string
	Err    error
}

func (e *RevertError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("contract reverted: %s", e.Reason)
	}
	return "contract reverted"
}

func (e *RevertError) Unwrap() error {
	return e.Err
}

// revertReason extracts a revert reason from an RPC error, if the error is
// a revert at all. Geth-family nodes either attach ABI-encoded revert data
// via rpc.DataError or put "execution reverted: <reason>" in the message.
func revertReason(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if hexData, ok := dataErr.ErrorData().(string); ok {
			if data, decErr := hexutil.Decode(hexData); decErr == nil {
				if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
					return reason, true
				}
			}
		}
	}

	const marker = "execution reverted"
	msg := err.Error()
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return "", false
	}
	reason := strings.TrimPrefix(msg[idx+len(marker):], ":")
	return strings.TrimSpace(reason), true
}

// wrapCallError classifies an RPC fault from a read or broadcast: a revert
// becomes a RevertError with its reason, anything else is a connectivity
// fault wrapped as ErrUnavailable.
func wrapCallError(err error) error {
	if reason, ok := revertReason(err); ok {
		return &RevertError{Reason: reason, Err: err}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
