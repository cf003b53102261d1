package loop

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualMicrotasksRunAfterTask(t *testing.T) {
	m := NewManual()
	var order []string

	m.Run(func() {
		m.Microtask(func() {
			order = append(order, "micro-1")
			m.Microtask(func() { order = append(order, "micro-nested") })
		})
		m.Microtask(func() { order = append(order, "micro-2") })
		order = append(order, "task")
	})

	assert.Equal(t, []string{"task", "micro-1", "micro-2", "micro-nested"}, order)
}

func TestManualFrameRunsOnlyQueuedCallbacks(t *testing.T) {
	m := NewManual()
	var ran []int

	m.AfterFrame(func() {
		ran = append(ran, 1)
		m.AfterFrame(func() { ran = append(ran, 2) })
	})

	require.Equal(t, 1, m.Frame())
	assert.Equal(t, []int{1}, ran)

	require.Equal(t, 1, m.Frame())
	assert.Equal(t, []int{1, 2}, ran)
	assert.Equal(t, 0, m.Frame())
}

func TestManualFrameCancel(t *testing.T) {
	m := NewManual()
	ran := false
	cancel := m.AfterFrame(func() { ran = true })
	cancel()

	assert.Equal(t, 0, m.Frame())
	assert.False(t, ran)
}

func TestManualFrameAdvancesClock(t *testing.T) {
	m := NewManual(WithFrameInterval(10 * time.Millisecond))
	start := m.Now()
	m.Frame()
	assert.Equal(t, 10*time.Millisecond, m.Now().Sub(start))
}

func TestManualTimersFireInOrder(t *testing.T) {
	m := NewManual()
	var fired []string

	m.SetTimer(30*time.Millisecond, func() { fired = append(fired, "30") })
	m.SetTimer(10*time.Millisecond, func() { fired = append(fired, "10a") })
	m.SetTimer(10*time.Millisecond, func() { fired = append(fired, "10b") })
	cancel := m.SetTimer(20*time.Millisecond, func() { fired = append(fired, "20") })
	cancel()

	m.Advance(15 * time.Millisecond)
	assert.Equal(t, []string{"10a", "10b"}, fired)

	m.Advance(15 * time.Millisecond)
	assert.Equal(t, []string{"10a", "10b", "30"}, fired)

	_, _, timers := m.Pending()
	assert.Zero(t, timers)
}

func TestManualTimerSeesDueTime(t *testing.T) {
	m := NewManual()
	start := m.Now()
	var at time.Duration
	m.SetTimer(40*time.Millisecond, func() { at = m.Now().Sub(start) })

	m.Advance(100 * time.Millisecond)
	assert.Equal(t, 40*time.Millisecond, at)
	assert.Equal(t, 100*time.Millisecond, m.Now().Sub(start))
}

func TestManualSettle(t *testing.T) {
	m := NewManual()
	steps := 0
	m.AfterFrame(func() {
		steps++
		m.SetTimer(time.Second, func() {
			steps++
			m.Microtask(func() { steps++ })
		})
	})

	require.True(t, m.Settle())
	assert.Equal(t, 3, steps)

	micro, frames, timers := m.Pending()
	assert.Zero(t, micro)
	assert.Zero(t, frames)
	assert.Zero(t, timers)
}

func TestManualSettleBounded(t *testing.T) {
	m := NewManual()
	var again func()
	again = func() { m.AfterFrame(again) }
	m.AfterFrame(again)

	assert.False(t, m.Settle())
}

func TestLoopDispatchRunsTaskThenMicrotasks(t *testing.T) {
	l := New(WithFrameInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	var mu sync.Mutex
	var order []string
	done := make(chan struct{})

	require.NoError(t, l.Dispatch(func() {
		l.Microtask(func() {
			mu.Lock()
			order = append(order, "micro")
			mu.Unlock()
			l.AfterFrame(func() {
				mu.Lock()
				order = append(order, "frame")
				mu.Unlock()
				close(done)
			})
		})
		mu.Lock()
		order = append(order, "task")
		mu.Unlock()
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("frame callback never ran")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"task", "micro", "frame"}, order)
}

func TestLoopTimerDispatchesOntoLoop(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	fired := make(chan struct{})
	require.NoError(t, l.Dispatch(func() {
		l.SetTimer(5*time.Millisecond, func() { close(fired) })
	}))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}

func TestLoopRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	logger := slog.New(slog.NewTextHandler(&lockedWriter{w: &buf, mu: &mu}, nil))

	l := New(WithLogger(logger))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	after := make(chan struct{})
	require.NoError(t, l.Dispatch(func() { panic("boom") }))
	require.NoError(t, l.Dispatch(func() { close(after) }))

	select {
	case <-after:
	case <-time.After(2 * time.Second):
		t.Fatal("loop stopped after panic")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, buf.String(), "loop task panic")
	assert.Contains(t, buf.String(), "boom")
}

func TestLoopDispatchAfterClose(t *testing.T) {
	l := New()
	l.Close()
	l.Close()

	assert.ErrorIs(t, l.Dispatch(func() {}), ErrClosed)
	select {
	case <-l.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestLoopQueueFull(t *testing.T) {
	l := New(WithQueueSize(1), WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	require.NoError(t, l.Dispatch(func() {}))
	assert.ErrorIs(t, l.Dispatch(func() {}), ErrQueueFull)
}

func TestLoopTimerSurvivesFullQueue(t *testing.T) {
	l := New(WithQueueSize(1), WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	fired := make(chan struct{})
	l.SetTimer(time.Millisecond, func() { close(fired) })
	require.NoError(t, l.Dispatch(func() {}))
	require.ErrorIs(t, l.Dispatch(func() {}), ErrQueueFull)

	// Let the timer fire while nothing drains the queue.
	require.Eventually(t, func() bool {
		l.timerMu.Lock()
		defer l.timerMu.Unlock()
		return len(l.fired) == 1
	}, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer was dropped")
	}
}

func TestLoopRunTwice(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	require.Eventually(t, func() bool { return l.running.Load() }, time.Second, time.Millisecond)
	assert.Error(t, l.Run(ctx))

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
