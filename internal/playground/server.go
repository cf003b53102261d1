// Package playground serves an interactive page that drives a transition
// tree running on the server. The browser receives DOM patches over a
// WebSocket, applies them and reports transition events back, so real CSS
// transitions complete the server-side waits.
package playground

import (
	"context"
	_ "embed"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vango-transition/internal/scenario"
	"github.com/vango-dev/vango-transition/pkg/loop"
	"github.com/vango-dev/vango-transition/pkg/metrics"
	"github.com/vango-dev/vango-transition/pkg/transition"
)

//go:embed demo.yaml
var demoScenario []byte

// Demo returns the built-in dialog scenario.
func Demo() *scenario.Scenario {
	sc, err := scenario.Parse(demoScenario)
	if err != nil {
		panic("playground: invalid demo scenario: " + err.Error())
	}
	return sc
}

// Config configures the playground server.
type Config struct {
	// Addr is the address to listen on.
	Addr string

	// Scenario is the tree each connection gets. Steps are ignored.
	// Default: Demo().
	Scenario *scenario.Scenario

	// FrameInterval is the loop's paint cadence.
	FrameInterval time.Duration

	// AllowedOrigins lists origins allowed to connect besides the page's
	// own host.
	AllowedOrigins []string

	// Registry enables /metrics and a metrics observer on every session.
	Registry *prometheus.Registry

	// MetricsNamespace is the namespace of the session metrics.
	MetricsNamespace string

	// NewObserver, when set, is called once per session and its observer
	// is attached to that session's runtime. Observers that keep state,
	// like the tracing observer, must not be shared between sessions.
	NewObserver func(sessionID string) transition.Observer

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server is the playground HTTP server.
type Server struct {
	config   Config
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *slog.Logger
	observer transition.Observer // shared by every session

	mu       sync.Mutex
	sessions map[string]*session
	wg       sync.WaitGroup
}

// New creates a playground server.
func New(config Config) *Server {
	if config.Scenario == nil {
		config.Scenario = Demo()
	}
	if config.FrameInterval <= 0 {
		config.FrameInterval = loop.DefaultFrameInterval
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	s := &Server{
		config:   config,
		logger:   config.Logger,
		observer: transition.NopObserver{},
		sessions: make(map[string]*session),
	}
	if config.Registry != nil {
		opts := []metrics.Option{metrics.WithRegistry(config.Registry)}
		if config.MetricsNamespace != "" {
			opts = append(opts, metrics.WithNamespace(config.MetricsNamespace))
		}
		s.observer = metrics.New(opts...)
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handlePage)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	if config.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(config.Registry, promhttp.HandlerOpts{}))
	}
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SessionCount returns the number of live connections.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe serves until ctx is cancelled, then closes every session
// and shuts the HTTP server down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("playground listening", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close ends every session and waits for their goroutines.
func (s *Server) Close() {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
	s.wg.Wait()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(s, conn)
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sess.run()

		s.mu.Lock()
		delete(s.sessions, sess.id)
		s.mu.Unlock()
	}()
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(s.config.AllowedOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
