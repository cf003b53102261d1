package vdom

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// Diff compares two VNode trees and returns the patches needed to transform
// prev into next. HIDs are carried over from prev to matching next nodes.
func Diff(prev, next *VNode) []Patch {
	var patches []Patch
	diff(prev, next, "", &patches)
	return patches
}

func diff(prev, next *VNode, parentHID string, patches *[]Patch) {
	switch {
	case prev == nil:
		// Additions are emitted by the parent as InsertNode.
		return
	case next == nil:
		*patches = append(*patches, Patch{Op: PatchRemoveNode, HID: prev.HID})
		return
	case prev.Kind != next.Kind, prev.Kind == KindElement && prev.Tag != next.Tag:
		*patches = append(*patches, Patch{Op: PatchReplaceNode, HID: prev.HID, Node: next})
		return
	}

	next.HID = prev.HID

	switch prev.Kind {
	case KindText:
		if prev.Text == next.Text {
			return
		}
		// Text nodes have no HID of their own; the client rewrites the
		// parent's text content.
		target := prev.HID
		if target == "" {
			target = parentHID
		}
		if target != "" {
			*patches = append(*patches, Patch{Op: PatchSetText, HID: target, Value: next.Text})
		}
	case KindElement:
		diffProps(prev, next, patches)
		diffChildren(prev, next, prev.HID, patches)
	case KindFragment:
		diffChildren(prev, next, parentHID, patches)
	}
}

// diffProps emits attribute patches in key order so output is stable.
func diffProps(prev, next *VNode, patches *[]Patch) {
	keys := make(map[string]struct{}, len(prev.Props)+len(next.Props))
	for k := range prev.Props {
		keys[k] = struct{}{}
	}
	for k := range next.Props {
		keys[k] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		if IsEventKey(k) || k == "key" {
			continue
		}
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, key := range sorted {
		prevVal, hadPrev := prev.Props[key]
		nextVal, hasNext := next.Props[key]
		hasNext = hasNext && nextVal != nil && nextVal != false

		switch {
		case !hasNext && hadPrev:
			*patches = append(*patches, Patch{Op: PatchRemoveAttr, HID: prev.HID, Key: key})
		case hasNext && (!hadPrev || !propsEqual(prevVal, nextVal)):
			*patches = append(*patches, Patch{
				Op:    PatchSetAttr,
				HID:   prev.HID,
				Key:   key,
				Value: PropString(nextVal),
			})
		}
	}
}

func diffChildren(prev, next *VNode, parentHID string, patches *[]Patch) {
	if hasKeys(prev.Children) || hasKeys(next.Children) {
		diffKeyedChildren(prev, next.Children, parentHID, patches)
		return
	}

	for i := 0; i < len(prev.Children) || i < len(next.Children); i++ {
		var p, n *VNode
		if i < len(prev.Children) {
			p = prev.Children[i]
		}
		if i < len(next.Children) {
			n = next.Children[i]
		}
		if p == nil && n != nil {
			*patches = append(*patches, Patch{
				Op:       PatchInsertNode,
				ParentID: prev.HID,
				Index:    i,
				Node:     n,
			})
			continue
		}
		diff(p, n, parentHID, patches)
	}
}

func diffKeyedChildren(parent *VNode, next []*VNode, parentHID string, patches *[]Patch) {
	prev := parent.Children
	prevIndex := make(map[string]int, len(prev))
	for i, child := range prev {
		if child != nil && child.Key != "" {
			prevIndex[child.Key] = i
		}
	}

	matched := make(map[int]bool)
	for i, n := range next {
		j, ok := prevIndex[n.Key]
		if n.Key == "" || !ok {
			*patches = append(*patches, Patch{
				Op:       PatchInsertNode,
				ParentID: parent.HID,
				Index:    i,
				Node:     n,
			})
			continue
		}
		matched[j] = true
		if i != j {
			*patches = append(*patches, Patch{
				Op:       PatchMoveNode,
				HID:      prev[j].HID,
				ParentID: parent.HID,
				Index:    i,
			})
		}
		diff(prev[j], n, parentHID, patches)
	}

	for i, p := range prev {
		if !matched[i] && p != nil {
			*patches = append(*patches, Patch{Op: PatchRemoveNode, HID: p.HID})
		}
	}
}

func hasKeys(children []*VNode) bool {
	for _, child := range children {
		if child != nil && child.Key != "" {
			return true
		}
	}
	return false
}

func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

// PropString converts a prop value to its attribute string.
func PropString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
