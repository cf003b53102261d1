package transition

import (
	"fmt"
	"strings"
	"time"

	"github.com/vango-dev/vango-transition/pkg/disposable"
	"github.com/vango-dev/vango-transition/pkg/flags"
	"github.com/vango-dev/vango-transition/pkg/ref"
	"github.com/vango-dev/vango-transition/pkg/render"
	"github.com/vango-dev/vango-transition/pkg/vdom"
)

// ChildProps configures a transition node.
type ChildProps struct {
	// Name identifies the node in logs, errors and metrics.
	Name string

	// As is the element tag. Defaults to "div".
	As string

	// Attrs are passed through to the element.
	Attrs vdom.Props

	// Class is the node's own class, kept across transitions.
	Class string

	Enter     string
	EnterFrom string
	EnterTo   string
	Entered   string
	Leave     string
	LeaveFrom string
	LeaveTo   string

	BeforeEnter func()
	AfterEnter  func()
	BeforeLeave func()
	AfterLeave  func()

	// Strategy decides whether a hidden node is unmounted or kept hidden.
	Strategy render.Strategy

	// Ref receives the element whenever it changes, and nil on removal.
	Ref ref.Setter[*vdom.VNode]
}

// Parent is a Root or a Node that children attach to.
type Parent interface {
	parentNode() *Node
}

// Node is one element with enter/leave transitions. It runs on the loop
// goroutine of its Runtime.
type Node struct {
	rt    *Runtime
	root  *Root
	owner *Node
	id    uint64

	props   ChildProps
	classes Classes

	mounted    bool
	visible    bool
	registered bool
	nesting    *Coordinator
	flags      *flags.Set
	bag        *disposable.Bag

	prevShow      *bool
	dir           Direction
	transitioning bool
	gen           uint64 // bumped on start, mount and unmount
	run           uint64 // bumped on start only
	work          func()

	el       *vdom.VNode
	rendered []string
	refEl    *vdom.VNode
	children []*Node

	subs    map[int]func()
	nextSub int
}

// NewChild creates a node nested under parent, which is a *Root or *Node.
// A missing parent is a usage error.
func NewChild(parent Parent, p ChildProps) (*Node, error) {
	var owner *Node
	if parent != nil {
		owner = parent.parentNode()
	}
	if owner == nil {
		return nil, usageError("E101", p.Name, ErrMissingParent)
	}
	n := newNode(owner.root, owner, p)
	owner.children = append(owner.children, n)
	if owner.mounted {
		n.invalidate()
	}
	return n, nil
}

func newNode(root *Root, owner *Node, p ChildProps) *Node {
	n := &Node{
		rt:    root.rt,
		root:  root,
		owner: owner,
		id:    root.rt.newID(),
		subs:  make(map[int]func()),
	}
	n.setProps(p)
	return n
}

func (n *Node) parentNode() *Node { return n }

func (n *Node) setProps(p ChildProps) {
	if p.As == "" {
		p.As = "div"
	}
	if p.Name == "" {
		p.Name = fmt.Sprintf("%s-%d", p.As, n.id)
	}
	n.props = p
	n.classes = ParseClasses(p)
}

// SetProps replaces the node's props. New classes apply from the next
// transition on; callbacks apply immediately.
func (n *Node) SetProps(p ChildProps) {
	n.setProps(p)
	n.invalidate()
}

// Remove unmounts the node and detaches it from its parent.
func (n *Node) Remove() {
	n.unmount()
	if o := n.owner; o != nil {
		for i, c := range o.children {
			if c == n {
				o.children = append(o.children[:i], o.children[i+1:]...)
				break
			}
		}
	}
	n.invalidate()
}

func (n *Node) ID() uint64 { return n.id }
func (n *Node) Name() string { return n.props.Name }
func (n *Node) Mounted() bool { return n.mounted }
func (n *Node) Visible() bool { return n.visible }
func (n *Node) Transitioning() bool { return n.transitioning }
func (n *Node) Element() *vdom.VNode { return n.el }
func (n *Node) Children() []*Node { return n.children }
func (n *Node) Coordinator() *Coordinator { return n.nesting }

// Direction returns the direction of the running transition, or Idle.
func (n *Node) Direction() Direction {
	if !n.transitioning {
		return Idle
	}
	return n.dir
}

// OpenClosed returns the open/closed state nested consumers see: Open or
// Closed by visibility, plus Opening or Closing while transitioning. An
// unmounted node is always just Closed; its flags die with its scope, so a
// leave's Closing flag can outlive the run otherwise.
func (n *Node) OpenClosed() flags.State {
	if !n.mounted {
		return flags.Closed
	}
	s := flags.Closed
	if n.visible {
		s = flags.Open
	}
	if n.flags != nil {
		s |= flags.State(n.flags.Bits())
	}
	return s
}

// Subscribe calls fn whenever OpenClosed may have changed.
func (n *Node) Subscribe(fn func()) (unsubscribe func()) {
	id := n.nextSub
	n.nextSub++
	n.subs[id] = fn
	return func() { delete(n.subs, id) }
}

func (n *Node) notify() {
	for _, fn := range n.subs {
		fn()
	}
}

func (n *Node) invalidate() { n.root.invalidate() }

func (n *Node) parentCoord() *Coordinator {
	if n.owner == nil {
		return n.root.coord
	}
	return n.owner.nesting
}

func (n *Node) mount() {
	if n.mounted {
		return
	}
	n.mounted = true
	n.gen++
	n.prevShow = nil
	n.dir = Idle
	n.transitioning = false
	n.visible = n.root.show
	n.bag = disposable.New(n.rt.sched)

	alive := true
	n.bag.Add(func() { alive = false })
	n.flags = flags.New(0, func() bool { return alive }, flags.WithOnChange(func(prev, next uint32) {
		n.notify()
		n.invalidate()
	}))

	n.nesting = NewCoordinator(n.rt.sched, n.parentCoord(), n.props.Name, n.onIdle, func() bool { return n.mounted })
	if n.visible {
		n.register()
	}
	n.notify()
}

func (n *Node) unmount() {
	if !n.mounted {
		return
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		n.children[i].unmount()
	}
	n.mounted = false
	n.gen++
	n.cancelWork()
	n.nesting.Dispose()
	n.bag.Dispose()
	if n.registered {
		n.registered = false
		n.parentCoord().Unregister(n.id, Remove)
	}
	n.visible = false
	n.el = nil
	n.rendered = nil
	n.setRef(nil)
	n.notify()
}

func (n *Node) register() {
	n.parentCoord().Register(n)
	n.registered = true
}

func (n *Node) cancelWork() {
	if w := n.work; w != nil {
		n.work = nil
		w()
	}
}

// prepare re-shows hidden nodes and mounts or unmounts children before the
// view renders.
func (n *Node) prepare() {
	if !n.mounted {
		return
	}
	if n.root.show && !n.visible {
		n.visible = true
		n.register()
		n.notify()
	}
	keep := n.visible || n.props.Strategy == render.Hidden
	for _, c := range n.children {
		if keep {
			c.mount()
			c.prepare()
		} else {
			c.unmount()
		}
	}
}

// Render returns the node's element wrapping children, or nil when the node
// is unmounted or hidden with the Unmount strategy. Call it from the view
// passed to Root.Mount.
func (n *Node) Render(children ...*vdom.VNode) *vdom.VNode {
	if n == nil || !n.mounted {
		return nil
	}

	class := []string{n.props.Class}
	if c, ok := n.props.Attrs["class"].(string); ok {
		class = append([]string{c}, class...)
	}
	if n.rt.serverRender && n.root.appear && n.root.show {
		class = append(class, n.props.Enter, n.props.EnterFrom)
	}
	our := vdom.Props{}
	if tokens := SplitClasses(strings.Join(class, " ")); len(tokens) > 0 {
		our["class"] = strings.Join(tokens, " ")
	}

	out, err := render.Element(render.Options{
		Our:      our,
		Their:    n.props.Attrs,
		Slot:     n.slot(),
		Tag:      n.props.As,
		Features: render.FeatureRenderStrategy,
		Visible:  n.visible,
		Strategy: n.props.Strategy,
		Name:     n.props.Name,
		Children: children,
	})
	if err != nil {
		n.root.report(err)
		return nil
	}
	if out == nil {
		n.el = nil
		n.rendered = nil
		n.setRef(nil)
		return nil
	}
	return n.adopt(out)
}

// adopt moves a fresh render into the persistent element. Class tokens the
// previous render did not produce belong to the running transition and are
// kept.
func (n *Node) adopt(out *vdom.VNode) *vdom.VNode {
	rendered := out.ClassList()
	if n.el == nil {
		n.el = out
	} else {
		owned := subtract(n.el.ClassList(), n.rendered)
		n.el.Kind = out.Kind
		n.el.Tag = out.Tag
		n.el.Props = out.Props
		n.el.Children = out.Children
		n.el.Key = out.Key
		n.el.AddClass(owned...)
	}
	n.rendered = rendered
	n.setRef(n.el)
	return n.el
}

func (n *Node) setRef(el *vdom.VNode) {
	if n.props.Ref == nil || n.refEl == el {
		return
	}
	n.refEl = el
	n.props.Ref.Set(el)
}

func (n *Node) slot() map[string]any {
	st := n.OpenClosed()
	return map[string]any{
		"open":    st.Has(flags.Open),
		"closed":  st.Has(flags.Closed),
		"opening": st.Has(flags.Opening),
		"closing": st.Has(flags.Closing),
	}
}

// commit runs the node's effects after the output is published, parents
// before children.
func (n *Node) commit() error {
	if !n.mounted {
		return nil
	}
	var err error
	if n.visible && n.el == nil && !n.rt.serverRender {
		err = usageError("E103", n.props.Name, ErrMissingElement)
	} else if dir := n.direction(); dir != Idle {
		n.start(dir)
	}
	for _, c := range n.children {
		if cerr := c.commit(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// direction compares show with the value seen by the previous commit.
func (n *Node) direction() Direction {
	if n.rt.serverRender {
		return Idle
	}
	show := n.root.show
	if n.root.initial && !n.root.appear {
		n.prevShow = &show
		return Idle
	}
	if n.prevShow != nil && *n.prevShow == show {
		return Idle
	}
	first := n.prevShow == nil
	n.prevShow = &show
	switch {
	case show:
		return Enter
	case first:
		return Idle
	default:
		return Leave
	}
}

func flagFor(dir Direction) uint32 {
	if dir == Enter {
		return uint32(flags.Opening)
	}
	return uint32(flags.Closing)
}

func (n *Node) start(dir Direction) {
	if n.transitioning {
		n.flags.Remove(flagFor(n.dir))
	}
	n.gen++
	n.run++
	gen, run := n.gen, n.run
	n.cancelWork()

	n.dir = dir
	n.transitioning = true
	n.rt.seq++
	ev := Event{Seq: n.rt.seq, Node: n.props.Name, Direction: dir, At: n.rt.sched.Now()}

	n.rt.logger.Debug("transition start", "node", n.props.Name, "direction", dir.String())
	n.nesting.OnTransitionStart(n.id, dir, func() { n.before(gen, dir) })
	n.rt.observer.TransitionStarted(ev)

	n.work = n.rt.Run(n.el, n.classes, dir == Enter, func() { n.finish(gen, run, dir, ev) })
}

func (n *Node) before(gen uint64, dir Direction) {
	if gen != n.gen || !n.mounted {
		return
	}
	n.flags.Add(flagFor(dir))
	call(n.beforeHook(dir))
}

func (n *Node) finish(gen, run uint64, dir Direction, ev Event) {
	ev.Elapsed = n.rt.sched.Now().Sub(ev.At)
	if gen != n.gen || !n.mounted {
		ev.Cancelled = true
		n.rt.observer.TransitionFinished(ev)
		n.rt.logger.Debug("transition cancelled", "node", n.props.Name, "direction", dir.String())
		return
	}

	n.work = nil
	n.transitioning = false
	n.rt.observer.TransitionFinished(ev)
	n.rt.logger.Debug("transition end", "node", n.props.Name, "direction", dir.String(),
		"elapsed", ev.Elapsed.Round(time.Millisecond))

	n.nesting.OnTransitionStop(dir, func() { n.after(run, dir) })
	if dir == Leave && !n.nesting.HasVisibleChildren() {
		n.hide()
	}
}

// after runs once every nested transition of the same run has finished. It
// still runs when the node was unmounted meanwhile; a newer run only takes
// over the flag when it goes the same way.
func (n *Node) after(run uint64, dir Direction) {
	if run == n.run || n.dir != dir {
		n.flags.Remove(flagFor(dir))
	}
	if run == n.run {
		call(n.afterHook(dir))
	}
}

func (n *Node) beforeHook(dir Direction) func() {
	if dir == Enter {
		return n.props.BeforeEnter
	}
	return n.props.BeforeLeave
}

func (n *Node) afterHook(dir Direction) func() {
	if dir == Enter {
		return n.props.AfterEnter
	}
	return n.props.AfterLeave
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

// hide moves the node to Hidden and leaves its parent's coordinator.
func (n *Node) hide() {
	if !n.visible {
		return
	}
	n.visible = false
	if n.props.Strategy == render.Hidden {
		n.parentCoord().Unregister(n.id, MarkHidden)
	} else {
		n.registered = false
		n.parentCoord().Unregister(n.id, Remove)
		for i := len(n.children) - 1; i >= 0; i-- {
			n.children[i].unmount()
		}
	}
	n.rt.logger.Debug("transition hidden", "node", n.props.Name, "strategy", n.props.Strategy.String())
	n.notify()
	n.invalidate()
}

// onIdle runs when the last visible child of this node has gone.
func (n *Node) onIdle() {
	n.rt.observer.CoordinatorIdle(n.props.Name)
	if n.transitioning || n.root.show || !n.visible {
		return
	}
	n.hide()
}

func subtract(list, remove []string) []string {
	var out []string
	for _, s := range list {
		found := false
		for _, r := range remove {
			if s == r {
				found = true
				break
			}
		}
		if !found {
			out = append(out, s)
		}
	}
	return out
}
