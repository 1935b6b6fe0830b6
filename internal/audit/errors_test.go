package audit

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindStrings(t *testing.T) {
	cases := map[Kind]string{
		KindConfig:            "ConfigError",
		KindInvalidKey:        "InvalidKey",
		KindUnauthorized:      "Unauthorized",
		KindRPCUnavailable:    "RpcUnavailable",
		KindBuild:             "BuildError",
		KindContractReverted:  "ContractReverted",
		KindTransactionFailed: "TransactionFailed",
		KindSubmission:        "SubmissionError",
		KindNotFound:          "NotFound",
		KindDecode:            "DecodeError",
	}
	for kind, want := range cases {
		if kind.String() != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, kind.String(), want)
		}
	}
}

func TestRetrySafetySplit(t *testing.T) {
	// The one subtle correctness property: pre-broadcast failures may be
	// retried blindly, post-broadcast failures may not.
	safe := []Kind{KindBuild, KindRPCUnavailable}
	unsafe := []Kind{KindSubmission, KindContractReverted, KindTransactionFailed, KindUnauthorized, KindConfig}

	for _, k := range safe {
		if !k.RetrySafe() {
			t.Errorf("%v should be retry-safe", k)
		}
	}
	for _, k := range unsafe {
		if k.RetrySafe() {
			t.Errorf("%v should not be retry-safe", k)
		}
	}
}

func TestKindOfUnwrapsThroughWrapping(t *testing.T) {
	inner := newError(KindNotFound, "getLatestNodeMetrics", "no records", nil)
	wrapped := fmt.Errorf("lookup failed: %w", inner)

	if KindOf(wrapped) != KindNotFound {
		t.Errorf("KindOf did not see through wrapping: %v", KindOf(wrapped))
	}
	if !IsKind(wrapped, KindNotFound) {
		t.Error("IsKind did not see through wrapping")
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("plain error should classify as Unknown")
	}
}

func TestErrorMessageComposition(t *testing.T) {
	err := newError(KindContractReverted, "logNodeMetrics", "Not authorized", errors.New("execution reverted"))
	msg := err.Error()
	for _, part := range []string{"ContractReverted", "logNodeMetrics", "Not authorized", "execution reverted"} {
		if !strings.Contains(msg, part) {
			t.Errorf("message %q missing %q", msg, part)
		}
	}
}
