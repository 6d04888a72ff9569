// Package apihttp exposes the analytics pipeline over a read-only JSON API.
package apihttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"tradepulse/internal/logger"

	"github.com/gin-gonic/gin"
)

// Server hosts the read-only analytics API.
type Server struct {
	addr   string
	router *gin.Engine
}

// ServerConfig describes the API server dependencies.
type ServerConfig struct {
	Addr        string
	Analytics   AnalyticsService
	Broker      AccountGateway
	Audit       AuditLog
	BrokerLimit int
}

// NewServer builds the API server and mounts all routes.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Analytics == nil {
		return nil, errors.New("api server requires an analytics service")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8085"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiRouter := NewRouter(cfg.Analytics, cfg.Broker, cfg.Audit, cfg.BrokerLimit)
	apiRouter.Register(router.Group("/api"))

	return &Server{addr: cfg.Addr, router: router}, nil
}

// requestLogger traces API calls for debugging dashboard refresh issues.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		client := c.ClientIP()
		c.Next()
		dur := time.Since(start)
		status := c.Writer.Status()
		fullPath := path
		if query != "" {
			fullPath = path + "?" + query
		}
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s", method, fullPath, status, client, dur)
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Handler exposes the underlying router for tests.
func (s *Server) Handler() http.Handler {
	if s == nil {
		return nil
	}
	return s.router
}

// Start serves HTTP until ctx is canceled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
