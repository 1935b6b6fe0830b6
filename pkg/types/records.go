package types

import "time"

// NodeMetricsRecord is one audit entry as stored by the AuditLogger contract.
// Records are append-only; history for a node is strictly time-ordered.
type NodeMetricsRecord struct {
	NodeID            string     `json:"nodeId"`
	Timestamp         int64      `json:"timestamp"` // unix seconds, set at ledger-write time
	MemoryUsageMB     uint64     `json:"memoryUsage"`
	CPULoadPercent    uint64     `json:"cpuLoad"` // 0-100
	AllocatedMemoryMB uint64     `json:"allocatedMemory"`
	Status            NodeStatus `json:"status"`
	ScaleAction       string     `json:"scaleAction"` // empty if none
}

// Time returns the record timestamp as a time.Time.
func (r NodeMetricsRecord) Time() time.Time {
	return time.Unix(r.Timestamp, 0)
}

// ScalingAction describes an autoscaling decision to be recorded on chain.
// The ledger assigns the timestamp at write time.
type ScalingAction struct {
	NodeID string `json:"nodeId"`
	Action string `json:"action"` // e.g. "scale_up", "scale_down"
	Reason string `json:"reason"`
}

// MetricsSample is the raw reading a node's metrics endpoint reports.
// Producers hand these to the audit client; they carry no signing or
// ledger concerns. Float fields match the JSON the node agents emit.
type MetricsSample struct {
	NodeID            string  `json:"nodeId"`
	MemoryUsageMB     float64 `json:"memoryUsage"`
	CPULoadPercent    float64 `json:"cpuLoad"`
	AllocatedMemoryMB float64 `json:"allocatedMemory"`
	Status            string  `json:"status"`
	Timestamp         float64 `json:"timestamp"`
}
