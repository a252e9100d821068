// Package server provides the HTTP front door: core routes, module route
// mounting, Prometheus metrics, and RFC 7807 problem responses.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shapelift/shapelift/internal/module"
	"github.com/shapelift/shapelift/internal/version"
)

// Options tunes server behavior beyond the listen address.
type Options struct {
	// RateLimit is the sustained requests-per-second budget per server.
	// Zero disables rate limiting.
	RateLimit float64

	// Metrics, when non-nil, is exposed at /metrics.
	Metrics prometheus.Gatherer
}

// Server is the main shapelift HTTP server.
type Server struct {
	httpServer *http.Server
	registry   *module.Registry
	logger     *zap.Logger
	mux        *http.ServeMux
}

// New creates a new Server instance with core routes and all module routes
// mounted.
func New(addr string, reg *module.Registry, logger *zap.Logger, opts Options) *Server {
	mux := http.NewServeMux()

	var handler http.Handler = mux
	if opts.RateLimit > 0 {
		handler = rateLimitMiddleware(opts.RateLimit, handler)
	}
	handler = requestIDMiddleware(handler)

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		registry: reg,
		logger:   logger,
		mux:      mux,
	}

	s.registerCoreRoutes(opts)
	s.mountModuleRoutes()

	return s
}

// registerCoreRoutes sets up routes that are always available.
func (s *Server) registerCoreRoutes(opts Options) {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/modules", s.handleModules)
	if opts.Metrics != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Metrics, promhttp.HandlerOpts{}))
	}
}

// mountModuleRoutes registers all module routes under /api/v1/{module}/.
func (s *Server) mountModuleRoutes() {
	allRoutes := s.registry.AllRoutes()
	for moduleName, routes := range allRoutes {
		for _, route := range routes {
			pattern := fmt.Sprintf("%s /api/v1/%s%s", route.Method, moduleName, route.Path)
			s.mux.HandleFunc(pattern, route.Handler)
			s.logger.Debug("mounted route",
				zap.String("module", moduleName),
				zap.String("pattern", pattern),
			)
		}
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the server's root handler, middleware included. Exposed
// for httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Shapelift-Version", version.Short())
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "shapelift",
		"version": version.Map(),
	})
}

// handleModules returns the list of registered modules.
func (s *Server) handleModules(w http.ResponseWriter, r *http.Request) {
	modules := s.registry.All()
	type moduleResponse struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	info := make([]moduleResponse, 0, len(modules))
	for _, m := range modules {
		info = append(info, moduleResponse{
			Name:    m.Name(),
			Version: m.Version(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Shapelift-Version", version.Short())
	json.NewEncoder(w).Encode(info)
}
