package playground

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/vango-transition/internal/scenario"
	"github.com/vango-dev/vango-transition/pkg/dom"
	"github.com/vango-dev/vango-transition/pkg/loop"
	"github.com/vango-dev/vango-transition/pkg/render"
	"github.com/vango-dev/vango-transition/pkg/transition"
	"github.com/vango-dev/vango-transition/pkg/vdom"
)

const (
	writeTimeout = 10 * time.Second
	sendQueue    = 256
)

// inbound is a message from the browser.
type inbound struct {
	Type  string `json:"type"`
	Show  *bool  `json:"show,omitempty"`
	HID   string `json:"hid,omitempty"`
	Event string `json:"event,omitempty"`
}

// outbound is a message to the browser.
type outbound struct {
	Type    string       `json:"type"`
	ID      string       `json:"id,omitempty"`
	Patches []vdom.Patch `json:"patches,omitempty"`
	Run     *runInfo     `json:"run,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type runInfo struct {
	Seq       uint64 `json:"seq"`
	Node      string `json:"node"`
	Direction string `json:"direction"`
	Cancelled bool   `json:"cancelled"`
	ElapsedMS int64  `json:"elapsedMs"`
}

// transitionEvents are the only DOM events a browser may report.
var transitionEvents = map[string]bool{
	vdom.EventTransitionRun:    true,
	vdom.EventTransitionStart:  true,
	vdom.EventTransitionEnd:    true,
	vdom.EventTransitionCancel: true,
}

// session is one browser connection with its own loop and tree. tree is
// only touched on the loop goroutine.
type session struct {
	id     string
	srv    *Server
	conn   *websocket.Conn
	logger *slog.Logger

	loop *loop.Loop
	host *dom.PatchHost
	tree *scenario.Tree

	send chan []byte
	done chan struct{}
	once sync.Once
}

func newSession(srv *Server, conn *websocket.Conn) *session {
	s := &session{
		id:   uuid.NewString(),
		srv:  srv,
		conn: conn,
		send: make(chan []byte, sendQueue),
		done: make(chan struct{}),
	}
	s.logger = srv.logger.With("session", s.id)
	s.loop = loop.New(loop.WithFrameInterval(srv.config.FrameInterval), loop.WithLogger(s.logger))
	s.host = dom.NewPatchHost(nil, s.sendPatches, dom.WithNodeEncoder(render.MustHTML))
	return s
}

// run serves the connection until the browser goes away.
func (s *session) run() {
	go func() { _ = s.loop.Run(context.Background()) }()
	go s.writeLoop()
	defer s.close()

	s.logger.Info("session opened")
	s.queue(outbound{Type: "hello", ID: s.id})

	opts := []transition.RuntimeOption{
		transition.WithLogger(s.logger),
		transition.WithObserver(s.srv.observer),
		transition.WithObserver(runReporter{s}),
	}
	if s.srv.config.NewObserver != nil {
		opts = append(opts, transition.WithObserver(s.srv.config.NewObserver(s.id)))
	}
	rt := transition.NewRuntime(s.loop, s.host, opts...)

	err := await(s.loop, func() error {
		tree, err := scenario.Build(rt, s.srv.config.Scenario, nil)
		if err != nil {
			return err
		}
		s.tree = tree
		return tree.Root.Mount(tree.View)
	})
	if err != nil {
		s.logger.Error("session setup failed", "error", err)
		s.queue(outbound{Type: "error", Error: err.Error()})
		return
	}

	s.readLoop()
}

// await runs fn on l and waits for its result. A task that is queued but
// never runs because the loop stopped yields loop.ErrClosed.
func await(l *loop.Loop, fn func() error) error {
	ready := make(chan error, 1)
	if err := l.Dispatch(func() { ready <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-ready:
		return err
	case <-l.Done():
		select {
		case err := <-ready:
			return err
		default:
			return loop.ErrClosed
		}
	}
}

func (s *session) readLoop() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("invalid message", "error", err)
			continue
		}
		s.handle(msg)
	}
}

func (s *session) handle(msg inbound) {
	var task func()
	switch msg.Type {
	case "show":
		if msg.Show == nil {
			return
		}
		show := *msg.Show
		task = func() { s.report(s.tree.Root.SetShow(show)) }
	case "toggle":
		task = func() { s.report(s.tree.Root.SetShow(!s.tree.Root.Context().Show)) }
	case "event":
		if !transitionEvents[msg.Event] {
			s.logger.Warn("ignoring event", "event", msg.Event)
			return
		}
		task = func() {
			if !s.host.HandleEvent(msg.HID, msg.Event) {
				s.logger.Debug("event for unknown element", "hid", msg.HID, "event", msg.Event)
			}
		}
	default:
		s.logger.Warn("unknown message type", "type", msg.Type)
		return
	}
	if err := s.loop.Dispatch(task); err != nil {
		s.logger.Warn("dispatch failed", "error", err)
	}
}

func (s *session) report(err error) {
	if err != nil {
		s.queue(outbound{Type: "error", Error: err.Error()})
	}
}

// sendPatches is the PatchHost sink. It runs on the loop goroutine.
func (s *session) sendPatches(patches []vdom.Patch) {
	s.queue(outbound{Type: "patches", Patches: patches})
}

func (s *session) queue(msg outbound) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("encode message", "error", err)
		return
	}
	select {
	case s.send <- data:
	case <-s.done:
	default:
		s.logger.Warn("send queue full, closing session")
		go s.close()
	}
}

func (s *session) writeLoop() {
	for {
		select {
		case data := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("write failed", "error", err)
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *session) close() {
	s.once.Do(func() {
		close(s.done)
		err := s.loop.Dispatch(func() {
			if s.tree != nil {
				s.tree.Root.Close()
			}
			s.loop.Close()
		})
		if err != nil {
			s.loop.Close()
		}
		_ = s.conn.Close()
		s.logger.Info("session closed")
	})
}

// runReporter forwards finished runs to the browser.
type runReporter struct{ s *session }

func (runReporter) TransitionStarted(transition.Event) {}

func (r runReporter) TransitionFinished(e transition.Event) {
	r.s.queue(outbound{Type: "run", Run: &runInfo{
		Seq:       e.Seq,
		Node:      e.Node,
		Direction: e.Direction.String(),
		Cancelled: e.Cancelled,
		ElapsedMS: e.Elapsed.Milliseconds(),
	}})
}

func (runReporter) CoordinatorIdle(string) {}
