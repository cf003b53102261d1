package vdom

import "fmt"

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchSetText     PatchOp = 0x01 // Update text content
	PatchSetAttr     PatchOp = 0x02 // Set/update attribute
	PatchRemoveAttr  PatchOp = 0x03 // Remove attribute
	PatchInsertNode  PatchOp = 0x04 // Insert new node
	PatchRemoveNode  PatchOp = 0x05 // Remove node
	PatchMoveNode    PatchOp = 0x06 // Move node to new position
	PatchReplaceNode PatchOp = 0x07 // Replace node entirely
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchInsertNode:
		return "InsertNode"
	case PatchRemoveNode:
		return "RemoveNode"
	case PatchMoveNode:
		return "MoveNode"
	case PatchReplaceNode:
		return "ReplaceNode"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the op by name for JSON transports.
func (op PatchOp) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// Patch represents a single DOM operation to apply.
type Patch struct {
	Op       PatchOp `json:"op"`
	HID      string  `json:"hid,omitempty"`
	Key      string  `json:"key,omitempty"`
	Value    string  `json:"value,omitempty"`
	Node     *VNode  `json:"-"`
	HTML     string  `json:"html,omitempty"` // Rendered Node, filled in by transports
	Index    int     `json:"index,omitempty"`
	ParentID string  `json:"parent,omitempty"`
}

// String renders a compact human-readable form used in logs and journals.
func (p Patch) String() string {
	switch p.Op {
	case PatchSetAttr:
		return fmt.Sprintf("%s %s %s=%q", p.Op, p.HID, p.Key, p.Value)
	case PatchRemoveAttr:
		return fmt.Sprintf("%s %s %s", p.Op, p.HID, p.Key)
	case PatchSetText:
		return fmt.Sprintf("%s %s %q", p.Op, p.HID, p.Value)
	case PatchInsertNode:
		return fmt.Sprintf("%s %s[%d]", p.Op, p.ParentID, p.Index)
	case PatchMoveNode:
		return fmt.Sprintf("%s %s -> %s[%d]", p.Op, p.HID, p.ParentID, p.Index)
	default:
		return fmt.Sprintf("%s %s", p.Op, p.HID)
	}
}
