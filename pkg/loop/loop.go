package loop

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// ErrClosed is returned by Dispatch after the loop has stopped.
var ErrClosed = errors.New("loop: closed")

// ErrQueueFull is returned by Dispatch when the task queue is full.
var ErrQueueFull = errors.New("loop: dispatch queue full")

// DefaultFrameInterval is the paint cadence used when none is configured.
const DefaultFrameInterval = 16 * time.Millisecond

// Scheduler is the cooperative UI thread everything in the transition
// runtime runs on. Implementations must only be driven from one goroutine.
type Scheduler interface {
	// Microtask queues fn to run after the current task completes.
	Microtask(fn func())

	// AfterFrame queues fn for the next paint frame.
	AfterFrame(fn func()) (cancel func())

	// SetTimer runs fn once after d.
	SetTimer(d time.Duration, fn func()) (cancel func())

	// Now returns the loop's notion of the current time.
	Now() time.Time
}

// Option configures a loop.
type Option func(*options)

type options struct {
	frameInterval time.Duration
	queueSize     int
	logger        *slog.Logger
	start         time.Time
}

// WithFrameInterval sets the paint frame cadence.
func WithFrameInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.frameInterval = d
		}
	}
}

// WithQueueSize sets the dispatch queue capacity.
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithLogger sets the structured logger used for task panics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStartTime sets the initial virtual clock of a Manual loop.
func WithStartTime(t time.Time) Option {
	return func(o *options) {
		o.start = t
	}
}

func buildOptions(opts []Option) options {
	o := options{
		frameInterval: DefaultFrameInterval,
		queueSize:     256,
		logger:        slog.Default(),
		start:         time.Unix(0, 0).UTC(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// frameRequest is a queued frame callback. Cancelled requests stay in the
// queue and are skipped when the frame runs.
type frameRequest struct {
	fn        func()
	cancelled bool
}

// Loop is the production Scheduler. Run owns the loop goroutine; any other
// goroutine talks to it through Dispatch.
type Loop struct {
	opts options

	tasks chan func()
	done  chan struct{}

	// Fired timers bypass the bounded task queue so a fallback timer is
	// never dropped.
	timerMu sync.Mutex
	fired   []func()
	wake    chan struct{}

	running atomic.Bool
	closed  atomic.Bool
	once    sync.Once

	// Loop-goroutine state.
	micro  []func()
	frames []*frameRequest
}

// New creates a loop. Call Run to start processing.
func New(opts ...Option) *Loop {
	o := buildOptions(opts)
	return &Loop{
		opts:  o,
		tasks: make(chan func(), o.queueSize),
		done:  make(chan struct{}),
		wake:  make(chan struct{}, 1),
	}
}

// Run processes dispatched tasks, timers and paint frames until ctx is
// cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("loop: already running")
	}
	defer l.Close()

	ticker := time.NewTicker(l.opts.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case fn := <-l.tasks:
			l.execute(fn)

		case <-l.wake:
			l.runTimers()

		case <-ticker.C:
			l.runFrame()

		case <-ctx.Done():
			return ctx.Err()

		case <-l.done:
			return nil
		}
	}
}

// Close stops the loop. Pending tasks are discarded.
func (l *Loop) Close() {
	l.once.Do(func() {
		l.closed.Store(true)
		close(l.done)
	})
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Dispatch queues fn to run on the loop goroutine. It is safe to call from
// any goroutine.
func (l *Loop) Dispatch(fn func()) error {
	if l.closed.Load() {
		return ErrClosed
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrClosed
	default:
		l.opts.logger.Warn("dispatch queue full, discarding task")
		return ErrQueueFull
	}
}

// Microtask implements Scheduler. Must be called on the loop goroutine.
func (l *Loop) Microtask(fn func()) {
	l.micro = append(l.micro, fn)
}

// AfterFrame implements Scheduler. Must be called on the loop goroutine.
func (l *Loop) AfterFrame(fn func()) func() {
	req := &frameRequest{fn: fn}
	l.frames = append(l.frames, req)
	return func() { req.cancelled = true }
}

// SetTimer implements Scheduler. The callback is handed back to the loop
// goroutine when the timer fires. Unlike Dispatch this never fails on a full
// queue.
func (l *Loop) SetTimer(d time.Duration, fn func()) func() {
	var cancelled bool
	t := time.AfterFunc(d, func() {
		l.fire(func() {
			if !cancelled {
				fn()
			}
		})
	})
	return func() {
		cancelled = true
		t.Stop()
	}
}

func (l *Loop) fire(fn func()) {
	if l.closed.Load() {
		return
	}
	l.timerMu.Lock()
	l.fired = append(l.fired, fn)
	l.timerMu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) runTimers() {
	l.timerMu.Lock()
	fired := l.fired
	l.fired = nil
	l.timerMu.Unlock()
	for _, fn := range fired {
		l.execute(fn)
	}
}

// Now implements Scheduler.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// execute runs one task followed by the microtasks it queued.
func (l *Loop) execute(fn func()) {
	l.safeRun(fn)
	l.drain()
}

func (l *Loop) runFrame() {
	if len(l.frames) == 0 {
		return
	}
	frames := l.frames
	l.frames = nil
	for _, req := range frames {
		if req.cancelled {
			continue
		}
		l.execute(req.fn)
	}
}

func (l *Loop) drain() {
	for len(l.micro) > 0 {
		fn := l.micro[0]
		l.micro = l.micro[1:]
		l.safeRun(fn)
	}
	l.micro = nil
}

func (l *Loop) safeRun(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.opts.logger.Error("loop task panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}
