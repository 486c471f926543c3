// Package httpserver exposes the MCP server over the streamable HTTP
// transport, together with the operational endpoints (health, readiness,
// Prometheus metrics) that the stdio transport has no place for.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/chronicblondiee/mcp-sandbox/internal/observability"
)

const shutdownTimeout = 10 * time.Second

// Server wraps a gin engine that serves the MCP endpoint at /mcp plus
// /healthz, /readyz and /metrics.
type Server struct {
	engine  *gin.Engine
	httpSrv *http.Server
	logger  zerolog.Logger
	version string
	started time.Time
}

// New assembles the engine, middleware chain and routes. The single
// mcpServer instance is shared across HTTP sessions; per-session state
// is managed by the SDK handler.
func New(addr string, mcpServer *mcp.Server, logger zerolog.Logger, version string) *Server {
	observability.RegisterMetrics()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(observability.RequestLogger(logger))
	engine.Use(observability.RequestMetrics())
	_ = engine.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		engine:  engine,
		logger:  logger,
		version: version,
		started: time.Now(),
	}
	s.registerRoutes(mcpServer)

	// No read/write timeouts: the streamable transport holds SSE
	// streams open for as long as the client keeps the session alive.
	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: engine,
	}
	return s
}

func (s *Server) registerRoutes(mcpServer *mcp.Server) {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)
	s.engine.Any("/mcp", gin.WrapH(streamable))

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"component": "bash-command-server",
			"version":   s.version,
			"uptime":    time.Since(s.started).Truncate(time.Second).String(),
		})
	})
	s.engine.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
		})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Handler returns the assembled engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpSrv.Addr
}

// Serve blocks until ctx is cancelled or the listener fails, then drains
// in-flight requests before returning.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()
	s.logger.Info().Str("addr", s.httpSrv.Addr).Msg("http server listening")

	select {
	case <-ctx.Done():
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpSrv.Shutdown(stopCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		s.logger.Info().Msg("http server stopped")
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}
}
