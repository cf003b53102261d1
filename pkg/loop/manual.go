package loop

import (
	"sort"
	"time"
)

// maxSettleSteps bounds Settle so a transition that keeps rescheduling
// itself fails loudly instead of hanging a test.
const maxSettleSteps = 10_000

// Manual is a deterministic Scheduler driven by explicit calls. Time only
// moves when Frame, Advance or Settle move it.
type Manual struct {
	opts options
	now  time.Time

	micro  []func()
	frames []*frameRequest
	timers []*manualTimer
	seq    uint64
}

type manualTimer struct {
	due       time.Time
	seq       uint64
	fn        func()
	cancelled bool
}

// NewManual creates a manual loop.
func NewManual(opts ...Option) *Manual {
	o := buildOptions(opts)
	return &Manual{opts: o, now: o.start}
}

// Microtask implements Scheduler.
func (m *Manual) Microtask(fn func()) {
	m.micro = append(m.micro, fn)
}

// AfterFrame implements Scheduler.
func (m *Manual) AfterFrame(fn func()) func() {
	req := &frameRequest{fn: fn}
	m.frames = append(m.frames, req)
	return func() { req.cancelled = true }
}

// SetTimer implements Scheduler.
func (m *Manual) SetTimer(d time.Duration, fn func()) func() {
	m.seq++
	t := &manualTimer{due: m.now.Add(d), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return func() { t.cancelled = true }
}

// Now implements Scheduler.
func (m *Manual) Now() time.Time {
	return m.now
}

// Run executes fn as a task and drains the microtasks it queued.
func (m *Manual) Run(fn func()) {
	fn()
	m.Flush()
}

// Flush drains the microtask queue, including microtasks queued while
// draining.
func (m *Manual) Flush() {
	for len(m.micro) > 0 {
		fn := m.micro[0]
		m.micro = m.micro[1:]
		fn()
	}
	m.micro = nil
}

// Frame advances the clock by one frame interval, firing timers due in
// between, then runs every frame callback queued before the call. It
// returns the number of callbacks run.
func (m *Manual) Frame() int {
	m.Flush()
	m.Advance(m.opts.frameInterval)

	frames := m.frames
	m.frames = nil
	n := 0
	for _, req := range frames {
		if req.cancelled {
			continue
		}
		req.fn()
		m.Flush()
		n++
	}
	return n
}

// Advance moves the clock forward by d, firing due timers in order.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		t := m.nextTimer()
		if t == nil || t.due.After(target) {
			break
		}
		m.removeTimer(t)
		if t.due.After(m.now) {
			m.now = t.due
		}
		t.fn()
		m.Flush()
	}
	m.now = target
}

// Settle runs frames and timers until nothing is pending. It returns false
// if the work did not settle within a bounded number of steps.
func (m *Manual) Settle() bool {
	for i := 0; i < maxSettleSteps; i++ {
		m.Flush()
		if m.pendingFrames() > 0 {
			m.Frame()
			continue
		}
		t := m.nextTimer()
		if t == nil {
			return true
		}
		m.Advance(t.due.Sub(m.now))
	}
	return false
}

// Pending reports queued microtasks, frame callbacks and timers.
func (m *Manual) Pending() (micro, frames, timers int) {
	return len(m.micro), m.pendingFrames(), len(m.liveTimers())
}

func (m *Manual) pendingFrames() int {
	n := 0
	for _, req := range m.frames {
		if !req.cancelled {
			n++
		}
	}
	return n
}

func (m *Manual) liveTimers() []*manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	m.timers = live
	return live
}

func (m *Manual) nextTimer() *manualTimer {
	live := m.liveTimers()
	if len(live) == 0 {
		return nil
	}
	sort.SliceStable(live, func(i, j int) bool {
		if live[i].due.Equal(live[j].due) {
			return live[i].seq < live[j].seq
		}
		return live[i].due.Before(live[j].due)
	})
	return live[0]
}

func (m *Manual) removeTimer(t *manualTimer) {
	for i, other := range m.timers {
		if other == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}
