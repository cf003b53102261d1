package vdom

import "fmt"

// HIDGenerator generates hydration IDs. It belongs to one loop goroutine.
type HIDGenerator struct {
	counter uint32
}

// NewHIDGenerator creates a new HIDGenerator.
func NewHIDGenerator() *HIDGenerator {
	return &HIDGenerator{}
}

// Next returns the next hydration ID (e.g., "h1", "h2", ...).
func (g *HIDGenerator) Next() string {
	g.counter++
	return fmt.Sprintf("h%d", g.counter)
}

// AssignMissingHIDs gives every element without a HID a fresh one. It
// returns the number of IDs assigned.
func AssignMissingHIDs(node *VNode, gen *HIDGenerator) int {
	n := 0
	Walk(node, func(v *VNode) bool {
		if v.Kind == KindElement && v.HID == "" {
			v.HID = gen.Next()
			n++
		}
		return true
	})
	return n
}

// FindByHID finds a node by its HID in the tree.
func FindByHID(node *VNode, hid string) *VNode {
	var found *VNode
	Walk(node, func(v *VNode) bool {
		if found != nil {
			return false
		}
		if v.HID == hid {
			found = v
			return false
		}
		return true
	})
	return found
}
