package scenario

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vango-dev/vango-transition/internal/logging"
	"github.com/vango-dev/vango-transition/pkg/dom"
	"github.com/vango-dev/vango-transition/pkg/loop"
	"github.com/vango-dev/vango-transition/pkg/render"
	"github.com/vango-dev/vango-transition/pkg/transition"
)

// Entry is one timeline line: a class mutation or a lifecycle callback.
type Entry struct {
	At   time.Duration
	Text string
}

// Result is what a replay produced.
type Result struct {
	Name     string
	Timeline []Entry
	Events   []transition.Event
	// HTML is the final rendered output.
	HTML string
	// Elapsed is the virtual time the replay took.
	Elapsed time.Duration
}

// Option configures a replay.
type Option func(*runner)

// WithObserver attaches an extra observer, e.g. metrics or tracing.
func WithObserver(o transition.Observer) Option {
	return func(r *runner) { r.observers = append(r.observers, o) }
}

// WithLogger sets the runtime logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) { r.logger = l }
}

// WithFrameInterval sets the paint frame unless the scenario sets one.
func WithFrameInterval(d time.Duration) Option {
	return func(r *runner) { r.frame = d }
}

type runner struct {
	observers []transition.Observer
	logger    *slog.Logger
	frame     time.Duration

	m      *loop.Manual
	doc    *dom.Document
	start  time.Time
	result *Result
	tree   *Tree
}

// Run replays sc on a fresh manual loop and document.
func Run(sc *Scenario, opts ...Option) (*Result, error) {
	r := &runner{
		logger: logging.NewNop(),
		frame:  loop.DefaultFrameInterval,
		result: &Result{Name: sc.Name},
	}
	for _, opt := range opts {
		opt(r)
	}
	if sc.FrameInterval != "" {
		r.frame, _ = time.ParseDuration(sc.FrameInterval)
	}

	r.m = loop.NewManual(loop.WithFrameInterval(r.frame), loop.WithLogger(r.logger))
	r.start = r.m.Now()
	r.doc = dom.NewDocument()
	r.doc.Observe(func(m dom.Mutation) {
		if m.Kind != dom.MutationMount {
			r.record(m.String())
		}
	})

	rtOpts := []transition.RuntimeOption{transition.WithLogger(r.logger), transition.WithObserver(recorder{r})}
	for _, o := range r.observers {
		rtOpts = append(rtOpts, transition.WithObserver(o))
	}
	rt := transition.NewRuntime(r.m, r.doc, rtOpts...)

	tree, err := Build(rt, sc, r.callback)
	if err != nil {
		return nil, err
	}
	r.tree = tree
	root := tree.Root

	r.m.Run(func() { err = root.Mount(tree.View) })
	if err != nil {
		return nil, err
	}

	for i, st := range sc.Steps {
		if err := r.step(root, st); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	if err := root.Err(); err != nil {
		return nil, err
	}

	html, err := render.HTML(root.Output())
	if err != nil {
		return nil, err
	}
	r.result.HTML = html
	r.result.Elapsed = r.m.Now().Sub(r.start)

	// Runs still in flight are reported as cancelled.
	r.m.Run(root.Close)
	return r.result, nil
}

func (r *runner) step(root *transition.Root, st Step) error {
	switch {
	case st.Show != nil:
		var err error
		r.m.Run(func() { err = root.SetShow(*st.Show) })
		return err
	case st.Frames > 0:
		for range st.Frames {
			r.m.Frame()
		}
	case st.Advance != "":
		d, _ := time.ParseDuration(st.Advance)
		r.m.Advance(d)
	case st.Settle:
		if !r.m.Settle() {
			return fmt.Errorf("transitions did not settle")
		}
	case st.Fire != nil:
		el := r.tree.Element(st.Fire.Node)
		if el == nil {
			return fmt.Errorf("node %q has no element", st.Fire.Node)
		}
		r.m.Run(func() { r.doc.Fire(el, st.Fire.Event) })
	case st.Remove != "":
		r.m.Run(func() { r.tree.Remove(st.Remove) })
	}
	return nil
}

func (r *runner) callback(name string) func() {
	return func() { r.record(name) }
}

func (r *runner) record(text string) {
	r.result.Timeline = append(r.result.Timeline, Entry{At: r.m.Now().Sub(r.start), Text: text})
}

// recorder collects finished runs into the result.
type recorder struct{ r *runner }

func (recorder) TransitionStarted(transition.Event) {}

func (o recorder) TransitionFinished(e transition.Event) {
	o.r.result.Events = append(o.r.result.Events, e)
}

func (recorder) CoordinatorIdle(string) {}

// Write prints the result as a plain text report.
func (res *Result) Write(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario %s (%s virtual)\n", res.Name, res.Elapsed)
	for _, e := range res.Timeline {
		fmt.Fprintf(&b, "  %8s  %s\n", e.At, e.Text)
	}
	if len(res.Events) > 0 {
		b.WriteString("runs:\n")
		for _, e := range res.Events {
			status := "done"
			if e.Cancelled {
				status = "cancelled"
			}
			fmt.Fprintf(&b, "  #%d %s %s %s after %s\n", e.Seq, e.Node, e.Direction, status, e.Elapsed)
		}
	}
	if res.HTML != "" {
		fmt.Fprintf(&b, "output:\n  %s\n", res.HTML)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
