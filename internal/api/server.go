// Package api exposes the monitor over HTTP: a JSON control surface for the
// watch-list, configuration and snapshots, health and metrics endpoints, and
// a WebSocket stream of new alerts.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietddude/addrwatch/internal/core/cursor"
	"github.com/vietddude/addrwatch/internal/core/settings"
	"github.com/vietddude/addrwatch/internal/indexing/feed"
	"github.com/vietddude/addrwatch/internal/indexing/health"
	"github.com/vietddude/addrwatch/internal/indexing/watchlist"
	"github.com/vietddude/addrwatch/internal/infra/rpc"
)

// Deps are the components the API reads and mutates.
type Deps struct {
	Monitor     *health.Monitor
	Cursor      *cursor.Cursor
	Watchlist   *watchlist.Store
	Feed        *feed.Feed
	Settings    *settings.Store
	RPC         *rpc.Client // optional
	Broadcaster *Broadcaster
	Logger      *slog.Logger
}

// Server provides the control API.
type Server struct {
	engine *gin.Engine
	server *http.Server
	log    *slog.Logger
}

// NewServer creates a new API server listening on port.
func NewServer(deps Deps, port int) *Server {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))
	RegisterRoutes(engine, deps)

	return &Server{
		engine: engine,
		log:    log,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	s.log.Info("control api listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
