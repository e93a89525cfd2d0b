// Package http serves the pipeline over a gin-based REST API.
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Hamaduzi123/ip/internal/config"
	"github.com/Hamaduzi123/ip/internal/infrastructure/monitoring/logging"
)

// Server wraps the standard http.Server around the gin route tree.
type Server struct {
	srv    *http.Server
	logger logging.Logger
	port   int
}

// NewServer builds the server from the route configuration.
func NewServer(cfg config.ServerConfig, routerCfg RouterConfig) *Server {
	routerCfg.Mode = cfg.Mode
	router := NewRouter(routerCfg)

	return &Server{
		logger: routerCfg.Logger.Named("http"),
		port:   cfg.Port,
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Start blocks serving requests until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.Int("port", s.port))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.srv.Shutdown(ctx)
}

// Handler exposes the route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
