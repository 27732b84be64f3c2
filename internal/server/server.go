// Package server runs the small HTTP listeners owned by the client: the
// Prometheus metrics endpoint and the local mock back end.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/stockbot/internal/logging"
)

// ShutdownTimeout bounds graceful shutdown once the context is cancelled.
const ShutdownTimeout = 5 * time.Second

// Server wraps an http.Server with context-driven shutdown.
type Server struct {
	httpServer *http.Server
	logger     logging.Logger
	name       string
}

// New creates a Server for handler on addr.
func New(name, addr string, handler http.Handler, logger logging.Logger) *Server {
	return &Server{
		name:   name,
		logger: logger,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewMetricsServer serves the gatherer's metrics on /metrics and a liveness
// probe on /healthz.
func NewMetricsServer(addr string, gatherer prometheus.Gatherer, logger logging.Logger) *Server {
	mux := http.NewServeMux()
	metricsHandler := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	mux.HandleFunc("/metrics", SecurityMiddleware(DefaultSecurityConfig(), handleMetrics(metricsHandler, logger)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return New("metrics", addr, mux, logger)
}

func handleMetrics(next http.Handler, logger logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			logger.Debug("metrics: method not allowed", logging.String("method", r.Method))
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// Handler exposes the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Serve listens on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.String("server", s.name), logging.String("addr", ln.Addr().String()))
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("server stopped", logging.String("server", s.name))
		return nil
	}
}

// ListenAndServe binds the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}
