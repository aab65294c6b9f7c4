// Package server provides an importable fixture storefront.
// It renders the same element and route contract as SauceDemo so journeys
// can run hermetically; E2E tests start and stop it programmatically.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// Password shared by every fixture account.
const Password = "secret_sauce"

// Config holds server configuration options.
type Config struct {
	Addr         string        // Listen address (e.g., ":8080" or ":0" for random port)
	ReadTimeout  time.Duration // HTTP read timeout
	WriteTimeout time.Duration // HTTP write timeout

	Users       map[string]string // username -> password; nil uses DefaultUsers
	LockedUsers []string          // accounts that always fail to log in
	Catalog     *Catalog          // nil uses DefaultCatalog
	Logger      *slog.Logger
}

// DefaultConfig returns a configuration suitable for testing.
// Uses ":0" to bind to a random available port.
func DefaultConfig() Config {
	return Config{
		Addr:         ":0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		LockedUsers:  []string{"locked_out_user"},
	}
}

// DefaultUsers returns the fixture accounts.
func DefaultUsers() map[string]string {
	return map[string]string{
		"standard_user":   Password,
		"locked_out_user": Password,
	}
}

// Server is the fixture storefront HTTP server.
type Server struct {
	httpServer *http.Server
	handler    *handler
	listener   net.Listener
	addr       string
	log        *slog.Logger
	mu         sync.Mutex
	running    bool
	done       chan struct{}
}

// NewServer creates a new server with the given configuration.
// The server is not started until Start() is called.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Catalog != nil && cfg.Catalog.Len() == 0 {
		return nil, errors.New("catalog is empty")
	}
	h := newHandler(cfg)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      h.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		httpServer: httpServer,
		handler:    h,
		log:        h.log,
	}, nil
}

// Handler returns the HTTP handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Sessions returns the number of live sessions.
func (s *Server) Sessions() int {
	return s.handler.store.Len()
}

// Start begins listening and serving HTTP requests.
// Returns the actual address the server is listening on (useful when port is 0).
// This method is non-blocking - the server runs in a goroutine.
func (s *Server) Start() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return s.addr, nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = ln
	s.addr = ln.Addr().String()
	s.running = true
	s.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("fixture server stopped", "error", err)
		}
	}(s.done)

	s.log.Info("fixture storefront listening", "addr", s.addr)
	return s.addr, nil
}

// URL returns the base URL of the running server, using localhost.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr == "" {
		return ""
	}
	_, port, err := net.SplitHostPort(s.addr)
	if err != nil {
		return "http://" + s.addr + "/"
	}
	return "http://localhost:" + port + "/"
}

// Shutdown gracefully shuts down the server and waits for the serve loop.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	err := s.httpServer.Shutdown(ctx)
	select {
	case <-s.done:
	case <-ctx.Done():
	}
	return err
}

// Addr returns the address the server is listening on.
// Returns empty string if server is not running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}
