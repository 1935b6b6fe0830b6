package audit

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/scaleaudit/scaleaudit/internal/ledger"
)

// Gateway is the client's view of the remote ledger. The production
// implementation is ledger.Client; tests substitute a scripted one.
type Gateway interface {
	// ChainID returns the ledger's chain identifier.
	ChainID(ctx context.Context) (*big.Int, error)

	// Nonce returns the confirmed transaction count for addr, which is
	// the next nonce to use. Must be queried fresh per submission.
	Nonce(ctx context.Context, addr common.Address) (uint64, error)

	// GasPrice returns the network-suggested gas price.
	GasPrice(ctx context.Context) (*big.Int, error)

	// Broadcast submits a signed transaction.
	Broadcast(ctx context.Context, tx *types.Transaction) error

	// WaitForReceipt blocks until the transaction settles or a bounded
	// timeout elapses (ledger.ErrNotConfirmed).
	WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)

	// Call executes a read-only contract call.
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

var _ Gateway = (*ledger.Client)(nil)
