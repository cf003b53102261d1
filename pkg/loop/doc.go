// Package loop provides the single-goroutine scheduler the transition
// runtime runs on.
//
// Everything in the runtime (class mutations, coordinator bookkeeping,
// lifecycle callbacks) executes on one goroutine, so none of it takes
// locks. The Scheduler interface exposes the three suspension points the
// runtime needs:
//
//   - Microtask: run after the current task, before anything else.
//   - AfterFrame: run on the next paint frame.
//   - SetTimer: run after a duration.
//
// # Implementations
//
// Loop is the production scheduler. Run owns the goroutine and selects over
// dispatched tasks, timer firings and a frame ticker. Other goroutines
// (websocket readers, HTTP handlers) must go through Dispatch:
//
//	l := loop.New(loop.WithFrameInterval(16 * time.Millisecond))
//	go l.Run(ctx)
//	l.Dispatch(func() { root.SetShow(false) })
//
// Manual is a deterministic virtual clock used by tests, the scenario
// runner and the CLI simulator:
//
//	m := loop.NewManual()
//	m.Run(func() { root.SetShow(true) })
//	m.Frame()  // from -> to swap
//	m.Settle() // fallback timers
package loop
