package audit

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/scaleaudit/scaleaudit/internal/config"
	"github.com/scaleaudit/scaleaudit/internal/identity"
	"github.com/scaleaudit/scaleaudit/internal/logging"
	"github.com/scaleaudit/scaleaudit/pkg/types"
)

// Client records node telemetry and autoscaling decisions as signed
// transactions on the audit contract, and retrieves recorded entries.
//
// Construction is the authorization gate: NewClient fails with Unauthorized
// unless the signing identity is an approved logger or the contract owner,
// and a failed construction must not be used. Per-call failures are
// returned classified per the Kind taxonomy and logged with the acting
// address and target method.
type Client struct {
	signer    *identity.Signer
	gw        Gateway
	contract  common.Address
	submitter *submitter
	reader    *reader
}

// LoadSigner builds the signing identity from whichever source the config
// names, classifying bad key material as InvalidKey.
func LoadSigner(cfg config.IdentityConfig) (*identity.Signer, error) {
	var signer *identity.Signer
	var err error
	if cfg.PrivateKeyHex != "" {
		signer, err = identity.FromHex(cfg.PrivateKeyHex)
	} else {
		signer, err = identity.FromKeystore(cfg.KeystoreFile, cfg.PasswordFile)
	}
	if err != nil {
		if errors.Is(err, identity.ErrInvalidKey) {
			return nil, newError(KindInvalidKey, "", "", err)
		}
		return nil, newError(KindConfig, "", "failed to load signing identity", err)
	}
	return signer, nil
}

// NewClient validates the configuration, loads the contract interface,
// and verifies the identity's write authorization against the ledger.
func NewClient(ctx context.Context, cfg *config.Config, signer *identity.Signer, gw Gateway) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, newError(KindConfig, "", "", err)
	}

	contractABI, err := loadInterface(cfg.Ledger.ABIPath)
	if err != nil {
		return nil, newError(KindConfig, "", "failed to load contract interface", err)
	}

	contract := common.HexToAddress(cfg.Ledger.ContractAddress)

	if err := checkAuthorized(ctx, gw, contractABI, contract, signer.Address()); err != nil {
		return nil, err
	}

	var maxGasPrice *big.Int
	if cfg.Ledger.MaxGasPriceWei > 0 {
		maxGasPrice = new(big.Int).SetUint64(cfg.Ledger.MaxGasPriceWei)
	}

	c := &Client{
		signer:   signer,
		gw:       gw,
		contract: contract,
		submitter: &submitter{
			gw:          gw,
			signer:      signer,
			contract:    contract,
			contractABI: contractABI,
			gasLimit:    cfg.Ledger.GasLimit,
			maxGasPrice: maxGasPrice,
		},
		reader: &reader{
			gw:          gw,
			contract:    contract,
			contractABI: contractABI,
		},
	}

	logging.Info("audit client ready",
		logging.Address(signer.Address().Hex()),
		"contract", contract.Hex(),
	)

	return c, nil
}

// Address returns the client's signing address.
func (c *Client) Address() common.Address {
	return c.signer.Address()
}

// LogNodeMetrics records one resource reading for a node. The ledger
// assigns the record timestamp at write time. Returns the hash of the
// settled transaction.
func (c *Client) LogNodeMetrics(ctx context.Context, nodeID string, memoryUsageMB, cpuLoadPercent, allocatedMemoryMB uint64, status types.NodeStatus) (common.Hash, error) {
	const method = "logNodeMetrics"

	if nodeID == "" {
		return common.Hash{}, newError(KindBuild, method, "node id must not be empty", nil)
	}
	if cpuLoadPercent > 100 {
		return common.Hash{}, newError(KindBuild, method, "cpu load must be within [0,100]", nil)
	}
	if !status.IsValid() {
		return common.Hash{}, newError(KindBuild, method, "unknown node status", nil)
	}

	return c.submitter.submit(ctx, method, nodeID,
		nodeID,
		new(big.Int).SetUint64(memoryUsageMB),
		new(big.Int).SetUint64(cpuLoadPercent),
		new(big.Int).SetUint64(allocatedMemoryMB),
		uint8(status),
	)
}

// LogScalingAction records an autoscaling decision for a node.
func (c *Client) LogScalingAction(ctx context.Context, action types.ScalingAction) (common.Hash, error) {
	const method = "logScalingAction"

	if action.NodeID == "" {
		return common.Hash{}, newError(KindBuild, method, "node id must not be empty", nil)
	}
	if action.Action == "" {
		return common.Hash{}, newError(KindBuild, method, "action must not be empty", nil)
	}

	return c.submitter.submit(ctx, method, action.NodeID,
		action.NodeID, action.Action, action.Reason)
}

// GetLatestNodeMetrics returns the most recent record for a node, or
// NotFound if the ledger has none.
func (c *Client) GetLatestNodeMetrics(ctx context.Context, nodeID string) (types.NodeMetricsRecord, error) {
	return c.reader.getLatest(ctx, nodeID)
}

// GetNodeMetricsHistory returns up to count records starting at startIndex,
// oldest-first.
func (c *Client) GetNodeMetricsHistory(ctx context.Context, nodeID string, startIndex, count uint64) ([]types.NodeMetricsRecord, error) {
	return c.reader.getHistory(ctx, nodeID, startIndex, count)
}
