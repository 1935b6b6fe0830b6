package audit

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/scaleaudit/scaleaudit/pkg/types"
)

// reader performs read-only queries against the audit contract: no nonce,
// no signing, no gas.
type reader struct {
	gw          Gateway
	contract    common.Address
	contractABI abi.ABI
}

// metricsTuple mirrors the NodeMetrics struct the contract returns. Field
// names map to the ABI tuple component names.
type metricsTuple struct {
	NodeId          string
	Timestamp       *big.Int
	MemoryUsage     *big.Int
	CpuLoad         *big.Int
	AllocatedMemory *big.Int
	Status          uint8
	ScaleAction     string
}

// getLatest returns the most recent record for nodeID. The contract
// signals absence with an empty tuple, which is reported as NotFound.
func (r *reader) getLatest(ctx context.Context, nodeID string) (types.NodeMetricsRecord, error) {
	const method = "getLatestNodeMetrics"

	if nodeID == "" {
		return types.NodeMetricsRecord{}, newError(KindBuild, method, "node id must not be empty", nil)
	}

	vals, err := callContract(ctx, r.gw, r.contractABI, r.contract, method, nodeID)
	if err != nil {
		return types.NodeMetricsRecord{}, err
	}

	tuple := *abi.ConvertType(vals[0], new(metricsTuple)).(*metricsTuple)
	if tuple.NodeId == "" {
		return types.NodeMetricsRecord{}, newError(KindNotFound, method, "no records for node "+nodeID, nil)
	}

	return decodeRecord(method, tuple)
}

// getHistory returns up to count records for nodeID starting at startIndex,
// oldest-first in the ledger's storage order. A count exceeding what exists
// returns only the available records; callers wanting newest-first reverse.
func (r *reader) getHistory(ctx context.Context, nodeID string, startIndex, count uint64) ([]types.NodeMetricsRecord, error) {
	const method = "getNodeMetricsHistory"

	if nodeID == "" {
		return nil, newError(KindBuild, method, "node id must not be empty", nil)
	}
	if count == 0 {
		return nil, newError(KindBuild, method, "count must be positive", nil)
	}

	vals, err := callContract(ctx, r.gw, r.contractABI, r.contract, method,
		nodeID, new(big.Int).SetUint64(startIndex), new(big.Int).SetUint64(count))
	if err != nil {
		return nil, err
	}

	tuples := *abi.ConvertType(vals[0], new([]metricsTuple)).(*[]metricsTuple)
	records := make([]types.NodeMetricsRecord, 0, len(tuples))
	for _, tuple := range tuples {
		record, err := decodeRecord(method, tuple)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// decodeRecord normalizes a raw ledger tuple into a structured record,
// rejecting status codes this client does not know.
func decodeRecord(method string, tuple metricsTuple) (types.NodeMetricsRecord, error) {
	status, err := types.NodeStatusFromInt(tuple.Status)
	if err != nil {
		return types.NodeMetricsRecord{}, newError(KindDecode, method, "", err)
	}

	return types.NodeMetricsRecord{
		NodeID:            tuple.NodeId,
		Timestamp:         tuple.Timestamp.Int64(),
		MemoryUsageMB:     tuple.MemoryUsage.Uint64(),
		CPULoadPercent:    tuple.CpuLoad.Uint64(),
		AllocatedMemoryMB: tuple.AllocatedMemory.Uint64(),
		Status:            status,
		ScaleAction:       tuple.ScaleAction,
	}, nil
}
