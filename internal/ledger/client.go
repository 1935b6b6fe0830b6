package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/scaleaudit/scaleaudit/internal/util"
)

// Config holds connection settings for the ledger RPC endpoint
type Config struct {
	RPCURL         string
	ChainID        int64 // 0 = accept whatever the node reports
	ReceiptTimeout time.Duration
	PollInterval   time.Duration
	Retries        int
	RetryBaseDelay time.Duration
}

// Client is a thin gateway over the remote ledger RPC endpoint: nonce and
// gas queries, raw transaction broadcast, receipt polling, and read-only
// contract calls. The connection is stateless between calls and safe for
// concurrent use.
type Client struct {
	eth   *ethclient.Client
	cfg   Config
	retry *util.RetryConfig
}

// Dial connects to the ledger RPC endpoint and, when cfg.ChainID is set,
// verifies the node is on the expected chain.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	retryCfg := util.DefaultRetryConfig()
	if cfg.Retries > 0 {
		retryCfg.MaxRetries = cfg.Retries
	}
	if cfg.RetryBaseDelay > 0 {
		retryCfg.BaseDelay = cfg.RetryBaseDelay
	}
	// Reverts are definitive answers from the chain, never retried.
	retryCfg.RetryIf = func(err error) bool {
		var revert *RevertError
		return !errors.As(err, &revert)
	}

	eth, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c := &Client{eth: eth, cfg: cfg, retry: retryCfg}

	if cfg.ChainID != 0 {
		chainID, err := c.ChainID(ctx)
		if err != nil {
			eth.Close()
			return nil, err
		}
		if chainID.Int64() != cfg.ChainID {
			eth.Close()
			return nil, fmt.Errorf("chain ID mismatch: expected %d, got %s", cfg.ChainID, chainID)
		}
	}

	return c, nil
}

// Close releases the underlying RPC connection
func (c *Client) Close() {
	c.eth.Close()
}

// ChainID returns the ledger's chain identifier
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := util.RetryWithValue(ctx, c.retry, func() (*big.Int, error) {
		return c.eth.ChainID(ctx)
	})
	if err != nil {
		return nil, wrapCallError(err)
	}
	return id, nil
}

// Nonce returns the count of confirmed transactions from addr, which is the
// next nonce to use. Queried fresh per submission; the ledger, not this
// client, is the source of truth, since other processes may share the
// identity.
func (c *Client) Nonce(ctx context.Context, addr common.Address) (uint64, error) {
	nonce, err := util.RetryWithValue(ctx, c.retry, func() (uint64, error) {
		return c.eth.NonceAt(ctx, addr, nil)
	})
	if err != nil {
		return 0, wrapCallError(err)
	}
	return nonce, nil
}

// GasPrice returns the network-suggested gas price
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	price, err := util.RetryWithValue(ctx, c.retry, func() (*big.Int, error) {
		return c.eth.SuggestGasPrice(ctx)
	})
	if err != nil {
		return nil, wrapCallError(err)
	}
	return price, nil
}

// Broadcast submits a signed transaction to the network. Not retried:
// after a broadcast attempt the transaction may already be in flight, and
// resubmitting the same nonce is not safe.
func (c *Client) Broadcast(ctx context.Context, tx *types.Transaction) error {
	if err := c.eth.SendTransaction(ctx, tx); err != nil {
		return wrapCallError(err)
	}
	return nil
}

// WaitForReceipt blocks until the transaction is included or the configured
// settlement timeout elapses. Timeout yields ErrNotConfirmed, which callers
// must treat as ambiguous: the transaction may still confirm later.
func (c *Client) WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ReceiptTimeout)
	defer cancel()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.eth.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		// ethereum.NotFound means not yet included. Transient RPC faults
		// are ridden out the same way: keep polling until the deadline.

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrNotConfirmed
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Call executes a read-only contract call. No signing, no nonce, no gas
// spent. Reverts surface as RevertError with the decoded reason.
func (c *Client) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	out, err := util.RetryWithValue(ctx, c.retry, func() ([]byte, error) {
		result, callErr := c.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
		if callErr != nil {
			if reason, ok := revertReason(callErr); ok {
				return nil, &RevertError{Reason: reason, Err: callErr}
			}
			return nil, callErr
		}
		return result, nil
	})
	if err != nil {
		var revert *RevertError
		if errors.As(err, &revert) {
			return nil, revert
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out, nil
}
