// Package server dispatches automation requests to the desktop components
// over HTTP (chi) or MCP (mcp-go).
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/desktop-pilot/internal/ax"
	"github.com/mj1618/desktop-pilot/internal/capture"
	"github.com/mj1618/desktop-pilot/internal/config"
	"github.com/mj1618/desktop-pilot/internal/input"
	"github.com/mj1618/desktop-pilot/internal/platform"
	"github.com/mj1618/desktop-pilot/internal/runner"
	"github.com/mj1618/desktop-pilot/internal/version"
	"github.com/mj1618/desktop-pilot/internal/windows"
)

// Options holds the components a Server dispatches to. Zero-valued
// components answer with an internal error.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Injector *input.Injector
	Capture  *capture.Engine
	Exporter ax.Exporter
	Resolver ax.Resolver
	Windows  windows.Enumerator
	Runner   runner.Runner
	Apps     platform.AppCatalog
}

// Server owns its components and routes. It keeps no state across
// requests: concurrent requests run in parallel and may interleave at the
// OS level (clipboard, focus, pointer). Callers that need an ordered
// sequence must serialize their own requests.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	injector *input.Injector
	capture  *capture.Engine
	exporter ax.Exporter
	resolver ax.Resolver
	windows  windows.Enumerator
	runner   runner.Runner
	apps     platform.AppCatalog

	router chi.Router
	mcp    *mcpserver.MCPServer
}

// New builds a Server and registers its HTTP routes and MCP tools.
func New(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	injector := opts.Injector
	if injector == nil {
		injector = &input.Injector{}
	}
	engine := opts.Capture
	if engine == nil {
		engine = &capture.Engine{}
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		injector: injector,
		capture:  engine,
		exporter: opts.Exporter,
		resolver: opts.Resolver,
		windows:  opts.Windows,
		runner:   opts.Runner,
		apps:     opts.Apps,
	}
	s.router = s.routes()
	s.mcp = mcpserver.NewMCPServer("desktop-pilot", version.Version)
	s.registerTools()
	return s
}

// FromProvider wires the platform backends into a Server configured by cfg.
func FromProvider(p *platform.Provider, cfg *config.Config, logger *slog.Logger) *Server {
	return New(Options{
		Config: cfg,
		Logger: logger,
		Injector: &input.Injector{
			Device:      p.Input,
			PasteSettle: cfg.Input.PasteSettle,
		},
		Capture: &capture.Engine{
			Source:  p.Screen,
			Timeout: cfg.Capture.Timeout,
			Logger:  logger,
		},
		Exporter: ax.Exporter{MaxDepth: cfg.Accessibility.MaxDepth},
		Resolver: ax.Resolver{System: p.Accessibility, Names: p.Names},
		Windows:  windows.Enumerator{Lister: p.Windows, System: p.Accessibility},
		Runner: runner.Runner{
			Timeout: cfg.Execute.Timeout,
			Dir:     cfg.Execute.Dir,
			Env:     cfg.Execute.Env,
		},
		Apps: p.Apps,
	})
}

// Handler returns the HTTP handler serving every endpoint.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve runs the configured transport until ctx is cancelled or the
// transport fails.
func (s *Server) Serve(ctx context.Context) error {
	switch s.cfg.Server.Transport {
	case config.TransportHTTP, "":
		return s.ListenAndServe(ctx)
	case config.TransportMCPStdio:
		return s.ServeStdio(ctx)
	case config.TransportMCPHTTP:
		return s.ServeMCPHTTP(ctx)
	default:
		return fmt.Errorf("unsupported transport: %s (use http, mcp-stdio, or mcp-http)", s.cfg.Server.Transport)
	}
}

// ListenAndServe serves HTTP on the configured address and shuts down
// gracefully when ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
	return s.run(ctx, "http", srv.ListenAndServe, srv.Shutdown)
}

// ServeMCPHTTP serves the MCP tools over streamable HTTP.
func (s *Server) ServeMCPHTTP(ctx context.Context) error {
	httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
	return s.run(ctx, "mcp-http", func() error {
		return httpServer.Start(s.cfg.Server.Addr)
	}, httpServer.Shutdown)
}

// ServeStdio serves the MCP tools over stdin and stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio")
	stdio := mcpserver.NewStdioServer(s.mcp)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

func (s *Server) run(ctx context.Context, name string, start func() error, shutdown func(context.Context) error) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "transport", name, "addr", s.cfg.Server.Addr)
		errCh <- start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down", "transport", name)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
