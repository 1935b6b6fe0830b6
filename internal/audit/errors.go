package audit

import "errors"

// Kind classifies an audit-client failure. The split matters operationally:
// some kinds are safe to retry as-is, others require re-checking chain
// state first because a transaction may already be in flight.
type Kind int

const (
	KindUnknown Kind = iota

	// KindConfig: missing or malformed configuration, including the
	// contract interface description. Construction-time, fatal.
	KindConfig

	// KindInvalidKey: signing key material could not be parsed or
	// decrypted. Construction-time, fatal.
	KindInvalidKey

	// KindUnauthorized: the identity is neither an approved logger nor
	// the registry owner. Construction-time, fatal.
	KindUnauthorized

	// KindRPCUnavailable: transient connectivity fault on a read path.
	// The whole operation may be retried.
	KindRPCUnavailable

	// KindBuild: failure before anything was broadcast - malformed
	// arguments or the gateway unreachable while fetching nonce, gas
	// price, or chain id. No chain state was mutated; retrying is safe.
	KindBuild

	// KindContractReverted: the ledger executed the call and the
	// contract rejected it, with the decoded reason when available.
	KindContractReverted

	// KindTransactionFailed: the transaction was included but its
	// execution status is failure (e.g. out of gas).
	KindTransactionFailed

	// KindSubmission: ambiguous fault after broadcast, including a
	// settlement timeout. The transaction may still confirm later, so
	// callers must re-check chain state (a fresh nonce fetch) before
	// resubmitting.
	KindSubmission

	// KindNotFound: a read found no record for the subject.
	KindNotFound

	// KindDecode: the ledger returned data this client cannot interpret,
	// such as an unknown status code.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "ConfigError"
	case KindInvalidKey:
		return "InvalidKey"
	case KindUnauthorized:
		return "Unauthorized"
	case KindRPCUnavailable:
		return "RpcUnavailable"
	case KindBuild:
		return "BuildError"
	case KindContractReverted:
		return "ContractReverted"
	case KindTransactionFailed:
		return "TransactionFailed"
	case KindSubmission:
		return "SubmissionError"
	case KindNotFound:
		return "NotFound"
	case KindDecode:
		return "DecodeError"
	default:
		return "Unknown"
	}
}

// RetrySafe reports whether an operation failing with this kind can be
// retried without first re-checking chain state.
func (k Kind) RetrySafe() bool {
	switch k {
	case KindRPCUnavailable, KindBuild:
		return true
	default:
		return false
	}
}

// Error is a classified audit-client failure.
type Error struct {
	Kind   Kind
	Method string // contract method involved, empty for construction failures
	Reason string // revert reason or human-readable detail
	Err    error  // underlying cause
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Method != "" {
		msg += ": " + e.Method
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the classification from err, or KindUnknown if err does
// not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is classified as k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

func newError(kind Kind, method, reason string, err error) *Error {
	return &Error{Kind: kind, Method: method, Reason: reason, Err: err}
}

func buildError(method string, err error) *Error {
	return &Error{Kind: KindBuild, Method: method, Err: err}
}
