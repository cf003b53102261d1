package transition

import (
	"github.com/vango-dev/vango-transition/internal/errors"
	"github.com/vango-dev/vango-transition/pkg/flags"
	"github.com/vango-dev/vango-transition/pkg/render"
	"github.com/vango-dev/vango-transition/pkg/vdom"
)

// OpenClosedSource provides the open/closed state of an enclosing
// component. A Root without Show derives it from the source.
type OpenClosedSource interface {
	OpenClosed() flags.State
	Subscribe(fn func()) (unsubscribe func())
}

// RootProps configures a Root. The embedded ChildProps configure the root's
// own element.
type RootProps struct {
	ChildProps

	// Show is the visibility input. When nil it is read from OpenClosed.
	Show *bool

	OpenClosed OpenClosedSource

	// Appear runs the enter transition on the first render when Show is
	// already true.
	Appear bool

	// OnOutput receives the rendered tree after every update. Defaults to
	// the host's Mount method when it has one.
	OnOutput func(*vdom.VNode)

	// OnError receives errors from asynchronous updates.
	OnError func(error)
}

// Context is the state a root shares with every node below it.
type Context struct {
	Show    bool
	Appear  bool
	Initial bool
}

// Bool returns a pointer to v, for RootProps.Show.
func Bool(v bool) *bool { return &v }

type mounter interface {
	Mount(*vdom.VNode)
}

// Root owns a transition tree: the show input, the top coordinator and the
// root's own node.
type Root struct {
	rt    *Runtime
	props RootProps

	show        bool
	initialShow bool
	initial     bool
	appear      bool
	visible     bool

	coord *Coordinator
	inner *Node

	view        func() *vdom.VNode
	output      *vdom.VNode
	err         error
	viewMounted bool
	closed      bool
	dirty       bool
	unsubscribe func()
}

// NewRoot creates a root. Show or an OpenClosed source is required.
func NewRoot(rt *Runtime, p RootProps) (*Root, error) {
	if p.Name == "" {
		p.Name = "transition"
	}
	if p.Show == nil && p.OpenClosed == nil {
		return nil, usageError("E102", p.Name, ErrMissingShow)
	}

	r := &Root{rt: rt, props: p, appear: p.Appear, initial: true}
	r.show = r.resolveShow()
	r.initialShow = r.show
	r.visible = r.show
	r.coord = NewCoordinator(rt.sched, nil, p.Name, r.onIdle, func() bool { return !r.closed })
	r.inner = newNode(r, nil, p.ChildProps)

	if p.OpenClosed != nil {
		r.unsubscribe = p.OpenClosed.Subscribe(r.invalidate)
	}
	return r, nil
}

func (r *Root) parentNode() *Node {
	if r == nil {
		return nil
	}
	return r.inner
}

func (r *Root) resolveShow() bool {
	if r.props.Show != nil {
		return *r.props.Show
	}
	return r.props.OpenClosed.OpenClosed().Has(flags.Open)
}

// Node returns the root's own transition node.
func (r *Root) Node() *Node { return r.inner }

// Coordinator returns the top-level coordinator.
func (r *Root) Coordinator() *Coordinator { return r.coord }

// Context returns the state shared with the tree.
func (r *Root) Context() Context {
	return Context{Show: r.show, Appear: r.appear, Initial: r.initial}
}

// Visible reports whether the root renders its content.
func (r *Root) Visible() bool { return r.visible }

// Output returns the tree published by the last update.
func (r *Root) Output() *vdom.VNode { return r.output }

// Err returns the last error reported by an asynchronous update.
func (r *Root) Err() error { return r.err }

// Mount renders the tree for the first time. view builds the root node's
// content and must call Render on every nested node. It is called again on
// every update.
func (r *Root) Mount(view func() *vdom.VNode) error {
	if r.closed {
		return usageError("E106", r.props.Name, ErrClosed)
	}
	if r.viewMounted {
		return usageError("E105", r.props.Name, ErrAlreadyMounted)
	}
	r.viewMounted = true
	r.view = view
	return r.update()
}

// SetShow changes the show input and updates the tree.
func (r *Root) SetShow(show bool) error {
	if r.closed {
		return usageError("E106", r.props.Name, ErrClosed)
	}
	r.props.Show = Bool(show)
	if !r.viewMounted {
		r.show = show
		r.initialShow = show
		r.visible = show
		return nil
	}
	return r.update()
}

// Invalidate schedules an update at the end of the current task.
func (r *Root) Invalidate() { r.invalidate() }

// Close unmounts the tree. The last output stays readable.
func (r *Root) Close() {
	if r.closed {
		return
	}
	r.inner.unmount()
	r.closed = true
	r.coord.Dispose()
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

func (r *Root) invalidate() {
	if !r.viewMounted || r.closed || r.dirty {
		return
	}
	r.dirty = true
	r.rt.sched.Microtask(func() {
		if !r.dirty || r.closed {
			return
		}
		if err := r.update(); err != nil {
			r.report(err)
		}
	})
}

func (r *Root) report(err error) {
	r.err = err
	r.rt.logger.Error("transition update failed", "root", r.props.Name, "error", err)
	if r.props.OnError != nil {
		r.props.OnError(err)
	}
}

// update runs one pass: prepare top-down, render the view, publish the
// output, then commit effects top-down.
func (r *Root) update() error {
	r.dirty = false

	show := r.resolveShow()
	r.show = show
	if r.initial && show != r.initialShow {
		r.initial = false
	}
	if show {
		r.visible = true
	} else if !r.coord.HasVisibleChildren() {
		r.visible = false
	}

	if r.visible || r.props.Strategy == render.Hidden {
		r.inner.mount()
		r.inner.prepare()
	} else {
		r.inner.unmount()
	}

	out, err := r.render()
	if err != nil {
		return err
	}
	r.output = out
	r.publish(out)

	return r.inner.commit()
}

func (r *Root) render() (*vdom.VNode, error) {
	var content *vdom.VNode
	if r.view != nil && r.inner.mounted && (r.inner.visible || r.inner.props.Strategy == render.Hidden) {
		content = r.view()
	}
	el := r.inner.Render(content)

	out, err := render.Element(render.Options{
		Features: render.FeatureRenderStrategy,
		Visible:  r.visible,
		Strategy: r.props.Strategy,
		Name:     "Transition",
		Children: []*vdom.VNode{el},
	})
	if err != nil {
		return nil, errors.FromError(err, "E104")
	}
	if el != nil && out != nil && out != el && out.Kind == vdom.KindElement {
		// Forwarded props go onto the live element so the host keeps
		// mutating the node it rendered.
		el.Props = out.Props
		out = el
	}
	return out, nil
}

func (r *Root) publish(out *vdom.VNode) {
	if r.props.OnOutput != nil {
		r.props.OnOutput(out)
		return
	}
	if m, ok := r.rt.host.(mounter); ok {
		m.Mount(out)
	}
}

// onIdle runs when the root node has finished leaving.
func (r *Root) onIdle() {
	r.rt.observer.CoordinatorIdle(r.props.Name)
	if r.show || !r.visible {
		return
	}
	r.visible = false
	r.invalidate()
}
