package vtest

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vango-dev/vango-transition/pkg/dom"
	"github.com/vango-dev/vango-transition/pkg/loop"
	"github.com/vango-dev/vango-transition/pkg/transition"
	"github.com/vango-dev/vango-transition/pkg/vdom"
)

// Harness runs transition trees on a manual loop over an in-memory
// document. Time only moves when the test moves it.
type Harness struct {
	t       testing.TB
	Loop    *loop.Manual
	Doc     *dom.Document
	Runtime *transition.Runtime

	timeline []string
}

// HarnessConfig configures a Harness.
type HarnessConfig struct {
	// FrameInterval is the virtual time a Frame advances. Default 16ms.
	FrameInterval time.Duration

	// Timing replaces the document's timing resolver.
	Timing dom.TimingResolver

	// Observers are attached to the runtime.
	Observers []transition.Observer

	// ServerRender makes the runtime render without transitions.
	ServerRender bool

	// Logger defaults to a logger that discards everything.
	Logger *slog.Logger
}

// HarnessOption configures a Harness.
type HarnessOption func(*HarnessConfig)

// WithFrameInterval sets the virtual frame interval.
func WithFrameInterval(d time.Duration) HarnessOption {
	return func(c *HarnessConfig) {
		c.FrameInterval = d
	}
}

// WithTiming sets the document's timing resolver.
func WithTiming(r dom.TimingResolver) HarnessOption {
	return func(c *HarnessConfig) {
		c.Timing = r
	}
}

// WithObserver attaches an observer to the runtime.
func WithObserver(o transition.Observer) HarnessOption {
	return func(c *HarnessConfig) {
		c.Observers = append(c.Observers, o)
	}
}

// WithServerRender makes the harness render like a server would.
func WithServerRender() HarnessOption {
	return func(c *HarnessConfig) {
		c.ServerRender = true
	}
}

// WithLogger sets the runtime logger.
func WithLogger(l *slog.Logger) HarnessOption {
	return func(c *HarnessConfig) {
		c.Logger = l
	}
}

// NewHarness creates a harness. Class mutations are recorded on the
// timeline as "add-class div#id names..." entries.
//
// Example:
//
//	h := vtest.NewHarness(t)
//	root := h.Root(transition.RootProps{Show: transition.Bool(true)})
//	h.Mount(root, func() *vdom.VNode { return nil })
//	h.SetShow(root, false)
//	h.Settle()
func NewHarness(t testing.TB, opts ...HarnessOption) *Harness {
	t.Helper()
	cfg := HarnessConfig{
		FrameInterval: loop.DefaultFrameInterval,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &Harness{t: t}
	h.Loop = loop.NewManual(loop.WithFrameInterval(cfg.FrameInterval), loop.WithLogger(cfg.Logger))
	var docOpts []dom.DocumentOption
	if cfg.Timing != nil {
		docOpts = append(docOpts, dom.WithTimingResolver(cfg.Timing))
	}
	h.Doc = dom.NewDocument(docOpts...)
	h.Doc.Observe(func(m dom.Mutation) {
		if m.Kind != dom.MutationMount {
			h.timeline = append(h.timeline, m.String())
		}
	})

	rtOpts := []transition.RuntimeOption{
		transition.WithLogger(cfg.Logger),
		transition.WithServerRender(cfg.ServerRender),
	}
	for _, o := range cfg.Observers {
		rtOpts = append(rtOpts, transition.WithObserver(o))
	}
	h.Runtime = transition.NewRuntime(h.Loop, h.Doc, rtOpts...)
	return h
}

// Root creates a root and fails the test on error.
func (h *Harness) Root(p transition.RootProps) *transition.Root {
	h.t.Helper()
	r, err := transition.NewRoot(h.Runtime, p)
	if err != nil {
		h.t.Fatalf("NewRoot: %v", err)
	}
	return r
}

// Child creates a nested node and fails the test on error.
func (h *Harness) Child(parent transition.Parent, p transition.ChildProps) *transition.Node {
	h.t.Helper()
	n, err := transition.NewChild(parent, p)
	if err != nil {
		h.t.Fatalf("NewChild: %v", err)
	}
	return n
}

// Mount mounts r as one loop task and fails the test on error.
func (h *Harness) Mount(r *transition.Root, view func() *vdom.VNode) {
	h.t.Helper()
	var err error
	h.Loop.Run(func() { err = r.Mount(view) })
	if err != nil {
		h.t.Fatalf("Mount: %v", err)
	}
}

// SetShow changes the root's show input as one loop task.
func (h *Harness) SetShow(r *transition.Root, show bool) {
	h.t.Helper()
	var err error
	h.Loop.Run(func() { err = r.SetShow(show) })
	if err != nil {
		h.t.Fatalf("SetShow(%v): %v", show, err)
	}
}

// Frame runs one paint frame.
func (h *Harness) Frame() { h.Loop.Frame() }

// Advance moves virtual time forward, firing due timers.
func (h *Harness) Advance(d time.Duration) { h.Loop.Advance(d) }

// Settle runs frames and timers until nothing is pending.
func (h *Harness) Settle() {
	h.t.Helper()
	if !h.Loop.Settle() {
		h.t.Fatal("transitions did not settle")
	}
}

// Fire dispatches a DOM event on node as one loop task.
func (h *Harness) Fire(node *vdom.VNode, event string) {
	h.Loop.Run(func() { h.Doc.Fire(node, event) })
}

// Record returns a callback that appends name to the timeline.
func (h *Harness) Record(name string) func() {
	return func() { h.timeline = append(h.timeline, name) }
}

// Timeline returns recorded callbacks and class mutations in order.
func (h *Harness) Timeline() []string {
	return append([]string(nil), h.timeline...)
}

// ResetTimeline clears the timeline.
func (h *Harness) ResetTimeline() {
	h.timeline = nil
}

// Index returns the position of entry on the timeline, or -1.
func (h *Harness) Index(entry string) int {
	for i, e := range h.timeline {
		if e == entry {
			return i
		}
	}
	return -1
}
