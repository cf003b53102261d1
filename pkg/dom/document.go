package dom

import (
	"fmt"
	"strings"

	"github.com/vango-dev/vango-transition/pkg/vdom"
)

// MutationKind classifies a journal entry.
type MutationKind string

const (
	MutationAddClass    MutationKind = "add-class"
	MutationRemoveClass MutationKind = "remove-class"
	MutationReveal      MutationKind = "reveal"
	MutationMount       MutationKind = "mount"
)

// Mutation is one recorded change to the document.
type Mutation struct {
	Kind  MutationKind
	Node  *vdom.VNode
	Names []string
}

// String renders the mutation as "kind label names...".
func (m Mutation) String() string {
	parts := []string{string(m.Kind), Label(m.Node)}
	parts = append(parts, m.Names...)
	return strings.Join(parts, " ")
}

// Label returns a short human-readable name for an element: the tag plus
// its id or data-name attribute when present.
func Label(node *vdom.VNode) string {
	if node == nil {
		return "<nil>"
	}
	if node.Kind != vdom.KindElement {
		return "#" + strings.ToLower(node.Kind.String())
	}
	if id, ok := node.Props["id"].(string); ok && id != "" {
		return node.Tag + "#" + id
	}
	if name, ok := node.Props["data-name"].(string); ok && name != "" {
		return fmt.Sprintf("%s[%s]", node.Tag, name)
	}
	return node.Tag
}

// TimingResolver computes the transition timing of an element.
type TimingResolver func(node *vdom.VNode) Timing

type listener struct {
	event string
	fn    func(Event)
	live  bool
}

// Document is an in-memory Host over rendered VNode trees. It belongs to
// one loop goroutine.
type Document struct {
	root      *vdom.VNode
	listeners map[*vdom.VNode][]*listener
	journal   []Mutation
	resolver  TimingResolver
	observers []func(Mutation)
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithTimingResolver replaces the default timing resolver.
func WithTimingResolver(r TimingResolver) DocumentOption {
	return func(d *Document) {
		if r != nil {
			d.resolver = r
		}
	}
}

// NewDocument creates an empty document.
func NewDocument(opts ...DocumentOption) *Document {
	d := &Document{
		listeners: make(map[*vdom.VNode][]*listener),
		resolver:  ResolveTiming,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Observe registers fn to be called after every recorded mutation.
func (d *Document) Observe(fn func(Mutation)) {
	d.observers = append(d.observers, fn)
}

// Mount replaces the rendered tree.
func (d *Document) Mount(tree *vdom.VNode) {
	d.root = tree
	d.record(Mutation{Kind: MutationMount, Node: tree})
}

// Root returns the rendered tree.
func (d *Document) Root() *vdom.VNode {
	return d.root
}

// Contains reports whether node is part of the rendered tree.
func (d *Document) Contains(node *vdom.VNode) bool {
	return node != nil && d.path(node) != nil
}

// Journal returns the recorded mutations.
func (d *Document) Journal() []Mutation {
	return d.journal
}

// ResetJournal discards recorded mutations.
func (d *Document) ResetJournal() {
	d.journal = nil
}

// AddClass implements Host.
func (d *Document) AddClass(node *vdom.VNode, names ...string) {
	if node == nil {
		return
	}
	var added []string
	for _, name := range names {
		if node.AddClass(name) {
			added = append(added, name)
		}
	}
	if len(added) > 0 {
		d.record(Mutation{Kind: MutationAddClass, Node: node, Names: added})
	}
}

// RemoveClass implements Host.
func (d *Document) RemoveClass(node *vdom.VNode, names ...string) {
	if node == nil {
		return
	}
	var removed []string
	for _, name := range names {
		if node.RemoveClass(name) {
			removed = append(removed, name)
		}
	}
	if len(removed) > 0 {
		d.record(Mutation{Kind: MutationRemoveClass, Node: node, Names: removed})
	}
}

// Reveal implements Host.
func (d *Document) Reveal(node *vdom.VNode) {
	if node == nil {
		return
	}
	hidden := node.RemoveAttr("hidden")
	display := node.RemoveStyle("display")
	if hidden || display {
		d.record(Mutation{Kind: MutationReveal, Node: node})
	}
}

// ComputedTiming implements Host.
func (d *Document) ComputedTiming(node *vdom.VNode) Timing {
	if node == nil {
		return Timing{}
	}
	return d.resolver(node)
}

// Listen implements Host.
func (d *Document) Listen(node *vdom.VNode, event string, fn func(Event)) func() {
	if node == nil || fn == nil {
		return noop
	}
	l := &listener{event: event, fn: fn, live: true}
	d.listeners[node] = append(d.listeners[node], l)
	return func() {
		if !l.live {
			return
		}
		l.live = false
		list := d.listeners[node]
		for i, other := range list {
			if other == l {
				d.listeners[node] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(d.listeners[node]) == 0 {
			delete(d.listeners, node)
		}
	}
}

// ListenerCount returns the number of live listeners on node.
func (d *Document) ListenerCount(node *vdom.VNode) int {
	return len(d.listeners[node])
}

// Fire dispatches an event on target and bubbles it through the target's
// ancestors in the rendered tree.
func (d *Document) Fire(target *vdom.VNode, event string) {
	if target == nil {
		return
	}
	path := d.path(target)
	if path == nil {
		d.FireFrom(target, target, event)
		return
	}
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].Kind == vdom.KindElement {
			d.FireFrom(target, path[i], event)
		}
	}
}

// FireFrom delivers an event that originated on target to the listeners of
// current only.
func (d *Document) FireFrom(target, current *vdom.VNode, event string) {
	if current == nil {
		return
	}
	snapshot := append([]*listener(nil), d.listeners[current]...)
	for _, l := range snapshot {
		if !l.live || l.event != event {
			continue
		}
		l.fn(Event{Type: event, Target: target, CurrentTarget: current})
	}
}

// path returns the chain from the root to node, or nil.
func (d *Document) path(node *vdom.VNode) []*vdom.VNode {
	var stack []*vdom.VNode
	var found []*vdom.VNode
	var visit func(v *vdom.VNode) bool
	visit = func(v *vdom.VNode) bool {
		if v == nil {
			return false
		}
		stack = append(stack, v)
		if v == node {
			found = append([]*vdom.VNode(nil), stack...)
			return true
		}
		for _, child := range v.Children {
			if visit(child) {
				return true
			}
		}
		stack = stack[:len(stack)-1]
		return false
	}
	visit(d.root)
	return found
}

func (d *Document) record(m Mutation) {
	d.journal = append(d.journal, m)
	for _, fn := range d.observers {
		fn(m)
	}
}
