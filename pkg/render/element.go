package render

import (
	"sort"
	"strings"

	"github.com/vango-dev/vango-transition/internal/errors"
	"github.com/vango-dev/vango-transition/pkg/props"
	"github.com/vango-dev/vango-transition/pkg/vdom"
)

// Features selects which visibility features Element honours.
type Features uint8

const (
	FeatureNone Features = 0

	// FeatureRenderStrategy lets a hidden element be unmounted or kept in
	// the tree with hidden presentation.
	FeatureRenderStrategy Features = 1 << 0

	// FeatureStatic lets the caller force rendering regardless of
	// visibility.
	FeatureStatic Features = 1 << 1
)

// Strategy is how a hidden element is rendered.
type Strategy uint8

const (
	// Unmount removes the element from the output.
	Unmount Strategy = iota
	// Hidden keeps the element with the hidden attribute and display:none.
	Hidden
)

// String returns "unmount" or "hidden".
func (s Strategy) String() string {
	if s == Hidden {
		return "hidden"
	}
	return "unmount"
}

// StateAttr is the attribute that exposes boolean slot values.
const StateAttr = "data-vango-state"

// Options describes one element render.
type Options struct {
	Our   vdom.Props // Props owned by the component; win over Their
	Their vdom.Props // Props passed by the caller
	Slot  map[string]any

	// Tag is the element tag. An empty tag renders a fragment, which
	// forwards props onto its single element child.
	Tag string

	Features Features
	Visible  bool
	Strategy Strategy
	Static   bool

	// Name identifies the component in usage errors.
	Name     string
	Children []*vdom.VNode
}

// Element renders a component's element. It returns nil when the element is
// not visible and the Unmount strategy applies.
func Element(opts Options) (*vdom.VNode, error) {
	merged := props.Merge(opts.Their, opts.Our)

	if !opts.Visible {
		switch {
		case opts.Features&FeatureStatic != 0 && opts.Static:
		case opts.Features&FeatureRenderStrategy != 0:
			if opts.Strategy == Unmount {
				return nil, nil
			}
			merged["hidden"] = true
			merged["style"] = hideStyle(merged["style"])
		}
	}

	return build(merged, opts)
}

func build(p vdom.Props, opts Options) (*vdom.VNode, error) {
	state, exposeState := stateValue(opts.Slot)

	if opts.Tag != "" {
		node := vdom.El(opts.Tag, p, opts.Children)
		if exposeState {
			node.Props[StateAttr] = state
		}
		return node, nil
	}

	rest := props.Compact(p)
	if len(rest) == 0 {
		return vdom.Fragment(opts.Children), nil
	}

	child := singleElement(opts.Children)
	if child == nil {
		keys := make([]string, 0, len(rest))
		for k := range rest {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, errors.New("E104").
			WithSubject(opts.Name).
			WithDetail("Props that need a target element:\n  - " + strings.Join(keys, "\n  - "))
	}

	forwarded := props.Merge(child.Props, props.Omit(rest, "class", "style"))
	if class := joinClass(child.Props["class"], rest["class"]); class != "" {
		forwarded["class"] = class
	}
	if style := mergeStyle(child.Props["style"], rest["style"]); style != "" {
		forwarded["style"] = style
	}
	if exposeState {
		forwarded[StateAttr] = state
	}

	out := *child
	out.Props = forwarded
	return &out, nil
}

// stateValue space-joins the true boolean slot keys in sorted order. The
// attribute is exposed only when the slot holds at least one boolean.
func stateValue(slot map[string]any) (string, bool) {
	var names []string
	expose := false
	for k, v := range slot {
		b, ok := v.(bool)
		if !ok {
			continue
		}
		expose = true
		if b {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return strings.Join(names, " "), expose
}

// singleElement returns the only child if it is an element.
func singleElement(children []*vdom.VNode) *vdom.VNode {
	var found *vdom.VNode
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.Kind != vdom.KindElement || found != nil {
			return nil
		}
		found = c
	}
	return found
}

func joinClass(values ...any) string {
	var parts []string
	for _, v := range values {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	return strings.Join(parts, " ")
}

// mergeStyle applies the declarations of extra over base.
func mergeStyle(base, extra any) string {
	b, _ := base.(string)
	tmp := &vdom.VNode{Kind: vdom.KindElement, Props: vdom.Props{"style": b}}
	e, _ := extra.(string)
	for _, decl := range strings.Split(e, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(name) != "" {
			tmp.SetStyle(strings.ToLower(strings.TrimSpace(name)), strings.TrimSpace(value))
		}
	}
	out, _ := tmp.Props["style"].(string)
	return out
}

// hideStyle sets display:none on an inline style, replacing any display
// declaration already there.
func hideStyle(existing any) string {
	s, _ := existing.(string)
	tmp := &vdom.VNode{Kind: vdom.KindElement, Props: vdom.Props{"style": s}}
	tmp.SetStyle("display", "none")
	out, _ := tmp.Props["style"].(string)
	return out
}
