package audit

import (
	"context"
	"fmt"
	"testing"

	"github.com/scaleaudit/scaleaudit/internal/ledger"
)

func TestGuardUnreachableRegistryIsRPCUnavailable(t *testing.T) {
	m := newMockGateway(t)
	m.callErr = fmt.Errorf("%w: dial tcp: connection refused", ledger.ErrUnavailable)

	_, err := NewClient(context.Background(), testConfig(), mustSigner(t), m)
	if !IsKind(err, KindRPCUnavailable) {
		t.Fatalf("expected RpcUnavailable, got %v", err)
	}
}

func TestGuardRevertingRegistryIsContractReverted(t *testing.T) {
	m := newMockGateway(t)
	m.callErr = &ledger.RevertError{Reason: "registry paused"}

	_, err := NewClient(context.Background(), testConfig(), mustSigner(t), m)
	if !IsKind(err, KindContractReverted) {
		t.Fatalf("expected ContractReverted, got %v", err)
	}
}
