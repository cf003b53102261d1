package dom

import (
	"github.com/vango-dev/vango-transition/pkg/vdom"
)

// PatchSink receives the patches produced by one mutation or mount.
type PatchSink func(patches []vdom.Patch)

// PatchHost is a Host that mirrors a Document onto a remote client. Every
// class or visibility change becomes a SetAttr/RemoveAttr patch, and every
// Mount is diffed against the previously mounted tree.
type PatchHost struct {
	*Document

	sink    PatchSink
	encode  func(*vdom.VNode) string
	gen     *vdom.HIDGenerator
	mounted *vdom.VNode // snapshot of what the client has
}

// PatchHostOption configures a PatchHost.
type PatchHostOption func(*PatchHost)

// WithNodeEncoder sets the function used to fill Patch.HTML for inserted
// and replaced nodes.
func WithNodeEncoder(fn func(*vdom.VNode) string) PatchHostOption {
	return func(h *PatchHost) {
		h.encode = fn
	}
}

// NewPatchHost wraps doc. A nil doc creates a fresh Document.
func NewPatchHost(doc *Document, sink PatchSink, opts ...PatchHostOption) *PatchHost {
	if doc == nil {
		doc = NewDocument()
	}
	h := &PatchHost{
		Document: doc,
		sink:     sink,
		gen:      vdom.NewHIDGenerator(),
	}
	for _, opt := range opts {
		opt(h)
	}
	doc.Observe(h.onMutation)
	return h
}

// Mount replaces the rendered tree and sends the structural diff.
func (h *PatchHost) Mount(tree *vdom.VNode) {
	var patches []vdom.Patch
	if h.mounted == nil {
		vdom.AssignMissingHIDs(tree, h.gen)
		if tree != nil {
			patches = append(patches, vdom.Patch{Op: vdom.PatchReplaceNode, HID: "root", Node: tree})
		}
	} else if tree == nil {
		patches = append(patches, vdom.Patch{Op: vdom.PatchRemoveNode, HID: h.mounted.HID})
	} else {
		patches = vdom.Diff(h.mounted, tree)
		vdom.AssignMissingHIDs(tree, h.gen)
	}
	h.mounted = vdom.Clone(tree)
	h.Document.Mount(tree)
	h.emit(patches)
}

// HandleEvent routes a client-side event to the element with the given HID.
// It reports whether the element was found.
func (h *PatchHost) HandleEvent(hid, event string) bool {
	node := vdom.FindByHID(h.Root(), hid)
	if node == nil {
		return false
	}
	h.Fire(node, event)
	return true
}

func (h *PatchHost) onMutation(m Mutation) {
	if m.Kind == MutationMount || m.Node == nil || m.Node.HID == "" {
		return
	}

	var patches []vdom.Patch
	switch m.Kind {
	case MutationAddClass, MutationRemoveClass:
		patches = append(patches, attrPatch(m.Node, "class"))
	case MutationReveal:
		patches = append(patches,
			vdom.Patch{Op: vdom.PatchRemoveAttr, HID: m.Node.HID, Key: "hidden"},
			attrPatch(m.Node, "style"),
		)
	}

	if snap := vdom.FindByHID(h.mounted, m.Node.HID); snap != nil {
		snap.Props = m.Node.Props.Clone()
	}
	h.emit(patches)
}

func attrPatch(node *vdom.VNode, key string) vdom.Patch {
	val, ok := node.Props[key]
	if !ok {
		return vdom.Patch{Op: vdom.PatchRemoveAttr, HID: node.HID, Key: key}
	}
	return vdom.Patch{Op: vdom.PatchSetAttr, HID: node.HID, Key: key, Value: vdom.PropString(val)}
}

func (h *PatchHost) emit(patches []vdom.Patch) {
	if len(patches) == 0 || h.sink == nil {
		return
	}
	if h.encode != nil {
		for i := range patches {
			if patches[i].Node != nil {
				patches[i].HTML = h.encode(patches[i].Node)
			}
		}
	}
	h.sink(patches)
}
