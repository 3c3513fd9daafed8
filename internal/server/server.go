// Package server runs the MCP server over stdio or streamable HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/config"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/logging"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/middleware"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/tools"
)

// Name is the implementation name reported to MCP clients.
const Name = "itglue-mcp-server"

const instructions = "Tools for reading and updating IT Glue documentation: organizations, " +
	"configurations, passwords, documents, flexible assets, contacts and locations. " +
	"List tools are paginated; follow the footer to fetch more pages. " +
	"Pass response_format=json for machine-readable output."

// NewMCPServer creates an MCP server with every tool of ts registered.
func NewMCPServer(ts *tools.Toolset, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: Name, Version: version}, &mcp.ServerOptions{
		Instructions: instructions,
	})
	ts.Register(server)
	return server
}

// RunStdio serves mcpServer on stdin and stdout until the client disconnects
// or ctx is cancelled.
func RunStdio(ctx context.Context, mcpServer *mcp.Server, logger *logging.Logger) error {
	logger.InfoContext(ctx, "serving MCP over stdio")
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

// HTTPServer serves MCP over streamable HTTP.
type HTTPServer struct {
	srv      *http.Server
	sessions *SessionStore
	idle     time.Duration
	shutdown time.Duration
	logger   *logging.Logger
}

// NewHTTPServer builds the HTTP server for cfg. It does not start listening.
func NewHTTPServer(mcpServer *mcp.Server, cfg config.ServerConfig, logger *logging.Logger) *HTTPServer {
	sessions := NewSessionStore()
	return &HTTPServer{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           NewRouter(mcpServer, sessions, middleware.DefaultCORSConfig(cfg.AllowedOrigins), logger),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		sessions: sessions,
		idle:     cfg.SessionIdleTimeout,
		shutdown: cfg.ShutdownTimeout,
		logger:   logger,
	}
}

// Sessions exposes the session store.
func (s *HTTPServer) Sessions() *SessionStore {
	return s.sessions
}

// Handler returns the root handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.srv.Handler
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving MCP over streamable HTTP", "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if s.idle > 0 {
		go s.evictIdleSessions(ctx)
	}

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// evictIdleSessions sweeps the session store every half idle period until
// ctx is cancelled.
func (s *HTTPServer) evictIdleSessions(ctx context.Context) {
	ticker := time.NewTicker(s.idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Evict(s.idle); n > 0 {
				s.logger.Info("evicted idle sessions", "count", n, "idle_timeout", s.idle)
			}
		}
	}
}
