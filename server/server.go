// Package server exposes the solver over HTTP.
//
// Routes:
//
//	POST /v1/solve    solve a JSON instance; ?trace=true adds the event list
//	GET  /healthz     liveness probe
//	GET  /metrics     Prometheus exposition
package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/heldkarp/config"
	"github.com/katalvlaran/heldkarp/runner"
)

// Server wires the HTTP routes to a runner.
type Server struct {
	runner   *runner.Runner
	gatherer prometheus.Gatherer
	cfg      config.ServerConfig
	logger   *log.Logger
	engine   *gin.Engine
}

// New builds the gin engine. A nil gatherer serves the default registry.
func New(r *runner.Runner, gatherer prometheus.Gatherer, cfg config.ServerConfig, logger *log.Logger) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: r, gatherer: gatherer, cfg: cfg, logger: logger}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), accessLog(logger))

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := engine.Group("/v1")
	v1.Use(rateLimit(cfg.RateLimit, cfg.Burst))
	v1.POST("/solve", s.handleSolve)

	s.engine = engine
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on cfg.Addr until ctx is canceled, then shuts down gracefully
// within cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}

	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
