// Package httpserver provides the HTTP server for an outpost node.
//
// It exposes the outpost API over the Go standard library net/http:
// login, inventory management and the export/import sync endpoints.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/logger"
)

// ServerConfig holds the listener settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string

	// ReadTimeout bounds request reads.
	ReadTimeout time.Duration

	// WriteTimeout bounds response writes.
	WriteTimeout time.Duration
}

// Server wraps the HTTP listener for one outpost node.
type Server struct {
	httpServer *http.Server
	log        logger.Logger
}

// New creates an HTTP server serving the given handler.
func New(cfg ServerConfig, handler http.Handler, log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		log: log,
	}
}

// ListenAndServe starts the server. Blocks until the listener fails or
// Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.log.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
