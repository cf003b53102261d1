package scenario

import (
	"github.com/vango-dev/vango-transition/pkg/transition"
	"github.com/vango-dev/vango-transition/pkg/vdom"
)

// Tree is a scenario's node tree built on a runtime.
type Tree struct {
	Root *transition.Root

	nodes map[string]*transition.Node
	root  Node
}

// Build creates the root and every nested node of sc on rt. When hook is
// non-nil, each lifecycle callback of a node calls hook("name:beforeEnter")
// and so on. Mount the returned tree with Root.Mount(tree.View).
func Build(rt *transition.Runtime, sc *Scenario, hook func(name string) func()) (*Tree, error) {
	t := &Tree{
		nodes: make(map[string]*transition.Node),
		root:  sc.Root,
	}

	root, err := transition.NewRoot(rt, transition.RootProps{
		ChildProps: withHooks(sc.Root, hook),
		Show:       transition.Bool(sc.Show),
		Appear:     sc.Appear,
	})
	if err != nil {
		return nil, err
	}
	t.Root = root
	t.nodes[sc.Root.Name] = root.Node()

	if err := t.children(root.Node(), sc.Root.Children, hook); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) children(parent *transition.Node, specs []Node, hook func(string) func()) error {
	for _, spec := range specs {
		n, err := transition.NewChild(parent, withHooks(spec, hook))
		if err != nil {
			return err
		}
		t.nodes[spec.Name] = n
		if err := t.children(n, spec.Children, hook); err != nil {
			return err
		}
	}
	return nil
}

func withHooks(spec Node, hook func(string) func()) transition.ChildProps {
	p := spec.props()
	if hook != nil {
		p.BeforeEnter = hook(spec.Name + ":beforeEnter")
		p.AfterEnter = hook(spec.Name + ":afterEnter")
		p.BeforeLeave = hook(spec.Name + ":beforeLeave")
		p.AfterLeave = hook(spec.Name + ":afterLeave")
	}
	return p
}

// View renders the root's content. It is the view passed to Root.Mount.
func (t *Tree) View() *vdom.VNode {
	return t.content(t.root)
}

func (t *Tree) content(spec Node) *vdom.VNode {
	var kids []*vdom.VNode
	if spec.Text != "" {
		kids = append(kids, vdom.Text(spec.Text))
	}
	for _, c := range spec.Children {
		if n, ok := t.nodes[c.Name]; ok {
			kids = append(kids, n.Render(t.content(c)))
		}
	}
	return vdom.Fragment(kids)
}

// Node returns the node with the given name.
func (t *Tree) Node(name string) *transition.Node {
	return t.nodes[name]
}

// Element returns the rendered element of the named node, or nil.
func (t *Tree) Element(name string) *vdom.VNode {
	if n := t.nodes[name]; n != nil {
		return n.Element()
	}
	return nil
}

// Remove detaches the named node. The root cannot be removed.
func (t *Tree) Remove(name string) {
	n := t.nodes[name]
	if n == nil || n == t.Root.Node() {
		return
	}
	delete(t.nodes, name)
	n.Remove()
}
