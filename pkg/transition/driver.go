package transition

import (
	"log/slog"
	"time"

	"github.com/vango-dev/vango-transition/pkg/disposable"
	"github.com/vango-dev/vango-transition/pkg/dom"
	"github.com/vango-dev/vango-transition/pkg/loop"
	"github.com/vango-dev/vango-transition/pkg/vdom"
)

// Runtime carries the services every transition node shares: the loop
// scheduler, the DOM host, logging and instrumentation.
type Runtime struct {
	sched        loop.Scheduler
	host         dom.Host
	logger       *slog.Logger
	observer     Observer
	serverRender bool

	nextID uint64
	seq    uint64
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithLogger sets the runtime logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) RuntimeOption {
	return func(rt *Runtime) {
		if l != nil {
			rt.logger = l
		}
	}
}

// WithObserver adds an observer. Multiple observers are called in order.
func WithObserver(o Observer) RuntimeOption {
	return func(rt *Runtime) {
		if o == nil {
			return
		}
		if rt.observer == nil {
			rt.observer = o
			return
		}
		rt.observer = MultiObserver(rt.observer, o)
	}
}

// WithServerRender marks the runtime as rendering on the server. Nodes
// never transition there; an appearing node is rendered in its enter-from
// state instead.
func WithServerRender(on bool) RuntimeOption {
	return func(rt *Runtime) {
		rt.serverRender = on
	}
}

// NewRuntime creates a runtime over a scheduler and a host.
func NewRuntime(s loop.Scheduler, h dom.Host, opts ...RuntimeOption) *Runtime {
	rt := &Runtime{
		sched:  s,
		host:   h,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.observer == nil {
		rt.observer = NopObserver{}
	}
	return rt
}

// Scheduler returns the runtime's scheduler.
func (rt *Runtime) Scheduler() loop.Scheduler { return rt.sched }

// Host returns the runtime's DOM host.
func (rt *Runtime) Host() dom.Host { return rt.host }

// ServerRender reports whether the runtime renders on the server.
func (rt *Runtime) ServerRender() bool { return rt.serverRender }

func (rt *Runtime) newID() uint64 {
	rt.nextID++
	return rt.nextID
}

// Run drives one class-list transition on node and calls done exactly once,
// either on completion or when the returned cancel func is called first.
// Cancelling skips every remaining class mutation.
//
// The sequence is: reveal the node when entering, remove every class group,
// add base+from, wait one paint frame, swap from for to, then wait for the
// element's transition (or a timer of its computed duration+delay). On
// completion base and to are removed and entered is added when entering.
func (rt *Runtime) Run(node *vdom.VNode, classes Classes, entering bool, done func()) (cancel func()) {
	bag := disposable.New(rt.sched)
	finished := false

	settle := func(mutate func()) {
		if finished {
			return
		}
		finished = true
		bag.Dispose()
		if mutate != nil {
			mutate()
		}
		if done != nil {
			done()
		}
	}
	cancel = func() { settle(nil) }

	if node == nil {
		bag.Microtask(cancel)
		return cancel
	}

	h := rt.host
	base, from, to := classes.groups(entering)

	if entering {
		h.Reveal(node)
	}
	h.RemoveClass(node, classes.All()...)
	h.AddClass(node, concat(base, from)...)

	complete := func() {
		settle(func() {
			h.RemoveClass(node, concat(base, to)...)
			if entering {
				h.AddClass(node, classes.Entered...)
			}
		})
	}

	bag.NextFrame(func() {
		h.RemoveClass(node, from...)
		h.AddClass(node, to...)

		total := TotalDuration(h.ComputedTiming(node))
		if total <= 0 {
			complete()
			return
		}
		rt.wait(bag, node, total, complete)
	})

	return cancel
}

// wait completes on the element's own transitionend or transitioncancel.
// A timer of the computed total is the fallback until transitionrun shows
// that something is actually transitioning.
func (rt *Runtime) wait(bag *disposable.Bag, node *vdom.VNode, total time.Duration, complete func()) {
	own := func(e dom.Event) bool { return e.Target == e.CurrentTarget }

	bag.Group(func(fallback *disposable.Bag) {
		fallback.SetTimeout(total, complete)
		fallback.AddEventListener(rt.host, node, vdom.EventTransitionRun, func(e dom.Event) {
			if own(e) {
				fallback.Dispose()
			}
		})
	})

	end := func(e dom.Event) {
		if own(e) {
			complete()
		}
	}
	bag.AddEventListener(rt.host, node, vdom.EventTransitionEnd, end)
	bag.AddEventListener(rt.host, node, vdom.EventTransitionCancel, end)
}

func concat(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
