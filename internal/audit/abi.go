package audit

import (
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// AuditLoggerABI is the interface of the deployed AuditLogger contract.
// The contract is an external fixed API; this ABI must match its deployed
// method signatures exactly.
const AuditLoggerABI = `[
	{
		"constant": false,
		"inputs": [
			{"name": "nodeId", "type": "string"},
			{"name": "memoryUsage", "type": "uint256"},
			{"name": "cpuLoad", "type": "uint256"},
			{"name": "allocatedMemory", "type": "uint256"},
			{"name": "status", "type": "uint8"}
		],
		"name": "logNodeMetrics",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "nodeId", "type": "string"},
			{"name": "action", "type": "string"},
			{"name": "reason", "type": "string"}
		],
		"name": "logScalingAction",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "", "type": "address"}],
		"name": "authorizedLoggers",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "owner",
		"outputs": [{"name": "", "type": "address"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "nodeId", "type": "string"}],
		"name": "getLatestNodeMetrics",
		"outputs": [
			{"name": "", "type": "tuple", "components": [
				{"name": "nodeId", "type": "string"},
				{"name": "timestamp", "type": "uint256"},
				{"name": "memoryUsage", "type": "uint256"},
				{"name": "cpuLoad", "type": "uint256"},
				{"name": "allocatedMemory", "type": "uint256"},
				{"name": "status", "type": "uint8"},
				{"name": "scaleAction", "type": "string"}
			]}
		],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "nodeId", "type": "string"},
			{"name": "startIndex", "type": "uint256"},
			{"name": "count", "type": "uint256"}
		],
		"name": "getNodeMetricsHistory",
		"outputs": [
			{"name": "", "type": "tuple[]", "components": [
				{"name": "nodeId", "type": "string"},
				{"name": "timestamp", "type": "uint256"},
				{"name": "memoryUsage", "type": "uint256"},
				{"name": "cpuLoad", "type": "uint256"},
				{"name": "allocatedMemory", "type": "uint256"},
				{"name": "status", "type": "uint8"},
				{"name": "scaleAction", "type": "string"}
			]}
		],
		"type": "function"
	}
]`

// loadInterface parses the contract interface description: the JSON at
// abiPath when set, otherwise the embedded ABI.
func loadInterface(abiPath string) (abi.ABI, error) {
	abiJSON := AuditLoggerABI
	if abiPath != "" {
		data, err := os.ReadFile(abiPath)
		if err != nil {
			return abi.ABI{}, err
		}
		abiJSON = string(data)
	}
	return abi.JSON(strings.NewReader(abiJSON))
}
