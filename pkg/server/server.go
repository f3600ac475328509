package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"mercator-hq/meter/pkg/config"
	"mercator-hq/meter/pkg/dispatch"
	"mercator-hq/meter/pkg/ledger"
	"mercator-hq/meter/pkg/ledger/export"
	"mercator-hq/meter/pkg/server/middleware"
	"mercator-hq/meter/pkg/telemetry/health"
	"mercator-hq/meter/pkg/telemetry/metrics"
)

// Options are the dependencies of a Server.
type Options struct {
	Config  config.ServerConfig
	Export  config.ExportConfig
	Metrics config.MetricsConfig

	Dispatcher *dispatch.Dispatcher
	Collector  *metrics.Collector
	Checker    *health.Checker
	Version    health.VersionInfo
}

// Server is the meter HTTP API. One ledger is shared by every request.
type Server struct {
	opts         Options
	tracker      *ledger.Tracker
	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
	addr         net.Addr
	logger       *slog.Logger
}

// NewServer creates a server.
func NewServer(opts Options) *Server {
	if opts.Checker == nil {
		opts.Checker = health.New(0)
	}
	return &Server{
		opts:    opts,
		tracker: opts.Dispatcher.Tracker(),
		logger:  slog.Default().With("component", "server"),
	}
}

// Start listens and serves until ctx is cancelled, then shuts down
// gracefully. Signal handling belongs to the caller; meter serve wires
// SIGINT and SIGTERM into ctx with cli.SetupSignalHandler.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	listener, err := net.Listen("tcp", s.opts.Config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Config.ListenAddress, err)
	}

	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.Config.ReadTimeout,
		WriteTimeout: s.opts.Config.WriteTimeout,
		IdleTimeout:  s.opts.Config.IdleTimeout,
	}
	s.addr = listener.Addr()
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting meter server", "address", listener.Addr().String())
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}

	return s.Shutdown(context.Background())
}

// Shutdown stops accepting requests, waits for in-flight ones up to the
// shutdown timeout and writes the ledger export when one is configured.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running := s.isRunning
		s.mu.RUnlock()
		if !running {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.opts.Config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.opts.Config.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}

		if path := s.opts.Export.Path; path != "" {
			format := export.FormatFromPath(path, s.opts.Export.Format)
			if err := export.WriteFile(shutdownCtx, path, format, s.opts.Export.SQLiteDriver, s.tracker.Snapshot()); err != nil {
				errs = append(errs, fmt.Errorf("ledger export failed: %w", err))
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		shutdownErr = errors.Join(errs...)
		if shutdownErr != nil {
			s.logger.Error("error during shutdown", "error", shutdownErr)
		}
		s.logger.Info("meter server stopped", "tracked_requests", s.tracker.Len())
	})

	return shutdownErr
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/query", s.handleQuery)
	mux.HandleFunc("GET /v1/usage", s.handleUsage)
	mux.HandleFunc("GET /v1/records", s.handleRecords)
	mux.HandleFunc("GET /v1/sessions", s.handleSessions)

	health.Register(mux, s.opts.Checker, s.opts.Version)

	if s.opts.Collector != nil && s.opts.Metrics.IsEnabled() {
		path := s.opts.Metrics.Path
		if path == "" {
			path = config.DefaultPrometheusPath
		}
		mux.Handle("GET "+path, s.opts.Collector.Handler())
	}

	return middleware.Chain(mux,
		middleware.Recovery,
		middleware.RequestID,
		middleware.Logging,
		middleware.BodyLimit(s.opts.Config.MaxBodyBytes),
	)
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the listening address once started.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}
