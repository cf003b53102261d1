package transition

import (
	"weak"

	"github.com/vango-dev/vango-transition/pkg/disposable"
	"github.com/vango-dev/vango-transition/pkg/future"
	"github.com/vango-dev/vango-transition/pkg/loop"
)

// Direction is the way a node is transitioning.
type Direction uint8

const (
	Idle Direction = iota
	Enter
	Leave
)

func (d Direction) String() string {
	switch d {
	case Enter:
		return "enter"
	case Leave:
		return "leave"
	default:
		return "idle"
	}
}

// Visibility of a coordinator entry.
type Visibility uint8

const (
	Hidden Visibility = iota
	Visible
)

func (v Visibility) String() string {
	if v == Visible {
		return "visible"
	}
	return "hidden"
}

// UnregisterMode selects what Unregister does with the entry.
type UnregisterMode uint8

const (
	// Remove deletes the entry.
	Remove UnregisterMode = iota
	// MarkHidden keeps the entry with Hidden visibility.
	MarkHidden
)

type entry struct {
	id         uint64
	node       weak.Pointer[Node]
	visibility Visibility
}

type link struct {
	id uint64
	f  *future.Future
}

// Coordinator is the per-level bookkeeping that orders nested transitions.
// Entering is released top-down: a child's before-enter waits on its
// ancestors'. Leaving completes bottom-up: a level reports done only after
// every child that started in the same direction has.
//
// A Coordinator is owned by one node (or root) and is only touched on the
// loop goroutine.
type Coordinator struct {
	sched   loop.Scheduler
	parent  *Coordinator
	owner   string
	onIdle  func()
	mounted func() bool

	entries []*entry
	chains  [3][]link
	todos   []future.Resolve
	wait    *future.Future

	bag         *disposable.Bag
	idlePending bool
}

// NewCoordinator creates a coordinator below parent (nil for a root). onIdle
// is called once the last visible child unregisters, provided mounted still
// reports true.
func NewCoordinator(s loop.Scheduler, parent *Coordinator, owner string, onIdle func(), mounted func() bool) *Coordinator {
	if mounted == nil {
		mounted = func() bool { return true }
	}
	return &Coordinator{
		sched:   s,
		parent:  parent,
		owner:   owner,
		onIdle:  onIdle,
		mounted: mounted,
		wait:    future.Resolved(s),
		bag:     disposable.New(s),
	}
}

// Parent returns the coordinator one level up, or nil.
func (c *Coordinator) Parent() *Coordinator { return c.parent }

func (c *Coordinator) find(id uint64) int {
	for i, e := range c.entries {
		if e.id == id {
			return i
		}
	}
	return -1
}

// Register adds n as a Visible child, or reactivates its entry. The returned
// func removes the entry outright.
func (c *Coordinator) Register(n *Node) (unregister func()) {
	if i := c.find(n.id); i >= 0 {
		c.entries[i].visibility = Visible
		c.entries[i].node = weak.Make(n)
	} else {
		c.entries = append(c.entries, &entry{id: n.id, node: weak.Make(n), visibility: Visible})
	}
	id := n.id
	return func() { c.Unregister(id, Remove) }
}

// Unregister removes or hides the child entry for id. Unknown ids are
// ignored. When this leaves a previously busy coordinator without visible
// children, the idle callback is scheduled for the end of the current task.
func (c *Coordinator) Unregister(id uint64, mode UnregisterMode) {
	i := c.find(id)
	if i < 0 {
		return
	}
	busy := c.HasVisibleChildren()

	switch mode {
	case MarkHidden:
		c.entries[i].visibility = Hidden
	default:
		c.entries = append(c.entries[:i], c.entries[i+1:]...)
	}

	if busy && !c.HasVisibleChildren() {
		c.scheduleIdle()
	}
}

func (c *Coordinator) scheduleIdle() {
	if c.idlePending || c.bag.Disposed() {
		return
	}
	c.idlePending = true
	c.bag.Microtask(func() {
		c.idlePending = false
		if c.HasVisibleChildren() || !c.mounted() {
			return
		}
		if c.onIdle != nil {
			c.onIdle()
		}
	})
}

// HasVisibleChildren reports whether any child entry is Visible and still
// backed by a mounted node with an element.
func (c *Coordinator) HasVisibleChildren() bool {
	for _, e := range c.entries {
		if e.visibility != Visible {
			continue
		}
		if n := e.node.Value(); n != nil && n.mounted && n.el != nil {
			return true
		}
	}
	return false
}

// Len returns the number of child entries, hidden ones included.
func (c *Coordinator) Len() int { return len(c.entries) }

// OnTransitionStart is called on a node's own coordinator when the node
// starts transitioning in dir. It queues two futures on the parent level:
// one released by the matching OnTransitionStop and one for this level's
// own pending children. onReady runs once every ancestor has released its
// enter, or right away for a leave.
func (c *Coordinator) OnTransitionStart(id uint64, dir Direction, onReady func()) {
	// A new start supersedes whatever this node was waiting on.
	for _, resolve := range c.todos {
		resolve()
	}
	c.todos = nil

	if p := c.parent; p != nil {
		kept := p.chains[dir][:0]
		for _, l := range p.chains[dir] {
			if l.id != id {
				kept = append(kept, l)
			}
		}
		p.chains[dir] = kept

		ready, resolve := future.New(c.sched)
		c.todos = append(c.todos, resolve)
		p.chains[dir] = append(p.chains[dir],
			link{id: id, f: ready},
			link{id: id, f: future.All(c.sched, futures(c.chains[dir])...)},
		)
	}

	if dir == Enter {
		parent := c.parent
		c.wait = c.wait.ThenWait(func() *future.Future {
			if parent == nil {
				return nil
			}
			return parent.wait
		}).Then(func() {
			if onReady != nil {
				onReady()
			}
		})
		return
	}

	if onReady != nil {
		onReady()
	}
}

// OnTransitionStop waits for every future queued on this level for dir,
// releases the oldest pending ready resolution and then calls onDone.
func (c *Coordinator) OnTransitionStop(dir Direction, onDone func()) {
	pending := c.chains[dir]
	c.chains[dir] = nil

	future.All(c.sched, futures(pending)...).Then(func() {
		if len(c.todos) > 0 {
			resolve := c.todos[0]
			c.todos = c.todos[1:]
			resolve()
		}
	}).Then(func() {
		if onDone != nil {
			onDone()
		}
	})
}

// Pending returns how many futures are queued for dir on this level.
func (c *Coordinator) Pending(dir Direction) int { return len(c.chains[dir]) }

// Dispose releases every outstanding ready resolution and cancels a
// pending idle check.
func (c *Coordinator) Dispose() {
	for _, resolve := range c.todos {
		resolve()
	}
	c.todos = nil
	c.bag.Dispose()
}

func futures(links []link) []*future.Future {
	out := make([]*future.Future, len(links))
	for i, l := range links {
		out[i] = l.f
	}
	return out
}
