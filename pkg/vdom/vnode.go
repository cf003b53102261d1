package vdom

import "strings"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <section>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes and event handlers
	Children []*VNode // Child nodes
	Key      string   // Reconciliation key
	Text     string   // For KindText
	HID      string   // Hydration ID (assigned by the patch host)
}

// Props holds attributes and event handlers.
type Props map[string]any

// Clone returns a shallow copy of p. A nil map clones to an empty one.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// IsInteractive returns true if this node has event handlers.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if IsEventKey(key) {
			return true
		}
	}
	return false
}

// IsEventKey reports whether a prop key names an event handler ("on" prefix,
// any case).
func IsEventKey(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event handler.
type EventHandler struct {
	Event   string // "onclick", "ontransitionend", etc.
	Handler any    // Function to call
}

// Walk visits v and its descendants depth-first. Returning false from fn
// skips the node's children.
func Walk(v *VNode, fn func(*VNode) bool) {
	if v == nil {
		return
	}
	if !fn(v) {
		return
	}
	for _, child := range v.Children {
		Walk(child, fn)
	}
}

// Clone deep-copies the tree rooted at v. Prop values are copied shallowly.
func Clone(v *VNode) *VNode {
	if v == nil {
		return nil
	}
	out := *v
	if v.Props != nil {
		out.Props = v.Props.Clone()
	}
	if v.Children != nil {
		out.Children = make([]*VNode, len(v.Children))
		for i, child := range v.Children {
			out.Children[i] = Clone(child)
		}
	}
	return &out
}
