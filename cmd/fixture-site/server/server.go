// Package server provides an importable HTTP server for the book club
// fixture site. E2E tests start it on a random port to exercise the
// commands and scenarios without the hosted application.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/StacyCash/bookclub-e2e/internal/logging"
)

// Config holds server configuration options.
type Config struct {
	Addr         string        // Listen address (e.g., ":8080" or ":0" for random port)
	ReadTimeout  time.Duration // HTTP read timeout
	WriteTimeout time.Duration // HTTP write timeout
	Logger       *log.Logger   // Optional; nil discards
}

// DefaultConfig returns a configuration suitable for testing.
// Uses "127.0.0.1:0" to bind to a random available loopback port.
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is an importable HTTP server for the fixture site.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	addr       string
	logger     *log.Logger
	mu         sync.Mutex
	running    bool
}

// NewServer creates a new server with the given configuration.
// The server is not started until Start() is called.
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewHandler(logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		httpServer: httpServer,
		logger:     logger,
	}, nil
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

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("fixture site stopped", "err", err)
		}
	}()

	s.logger.Info("fixture site listening", "addr", s.addr)
	return s.addr, nil
}

// URL returns the site's base URL, or "" when not running.
func (s *Server) URL() string {
	addr := s.Addr()
	if addr == "" {
		return ""
	}
	return "http://" + addr + "/"
}

// APIURL returns the base URL the page calls its API under.
func (s *Server) APIURL() string {
	base := s.URL()
	if base == "" {
		return ""
	}
	return base + "api"
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
// Returns empty string if server is not running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return ""
	}
	return s.addr
}
