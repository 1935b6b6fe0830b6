package types

import "fmt"

// NodeStatus describes the operational state of a node as recorded on chain.
// The integer values mirror the NodeStatus enum in the AuditLogger contract
// and must not be reordered.
type NodeStatus uint8

const (
	StatusNormal  NodeStatus = 0
	StatusScaling NodeStatus = 1
	StatusAlert   NodeStatus = 2
)

// String returns the human-readable status name.
func (s NodeStatus) String() string {
	switch s {
	case StatusNormal:
		return "Normal"
	case StatusScaling:
		return "Scaling"
	case StatusAlert:
		return "Alert"
	default:
		return fmt.Sprintf("NodeStatus(%d)", uint8(s))
	}
}

// IsValid reports whether the status is one of the known enum values.
func (s NodeStatus) IsValid() bool {
	return s <= StatusAlert
}

// NodeStatusFromInt decodes the contract's integer encoding. Unknown values
// are rejected rather than defaulted so a contract upgrade that adds states
// cannot be silently misread.
func NodeStatusFromInt(v uint8) (NodeStatus, error) {
	s := NodeStatus(v)
	if !s.IsValid() {
		return 0, fmt.Errorf("unknown node status code %d", v)
	}
	return s, nil
}

// ParseNodeStatus parses a status name as used in config files and CLI flags.
func ParseNodeStatus(name string) (NodeStatus, error) {
	switch name {
	case "Normal", "normal":
		return StatusNormal, nil
	case "Scaling", "scaling":
		return StatusScaling, nil
	case "Alert", "alert":
		return StatusAlert, nil
	default:
		return 0, fmt.Errorf("unknown node status %q", name)
	}
}
