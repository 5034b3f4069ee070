// Package api exposes the valuation engine over HTTP for the reporting
// layer and ad-hoc desk queries.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lngflow/cargo-engine/pkg/metrics"
	"github.com/lngflow/cargo-engine/pkg/utils/logger"
)

// Config holds the configuration for the API server
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Environment  string
}

// Server represents the API server
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	handlers   *Handlers
	log        *logger.Logger
}

// NewServer creates a new API server
func NewServer(config Config, handlers *Handlers, recorder *metrics.Recorder) *Server {
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = 10 * time.Second
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 30 * time.Second
	}
	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		config:   config,
		router:   gin.New(),
		handlers: handlers,
		log:      logger.GetLogger("api.server"),
	}
	server.setupRoutes(recorder)
	return server
}

func (s *Server) setupRoutes(recorder *metrics.Recorder) {
	s.router.Use(gin.Recovery())
	s.router.Use(LoggingMiddleware())
	s.router.Use(MetricsMiddleware(recorder))

	s.router.GET("/health", s.handlers.HealthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/strategies/optimize", s.handlers.OptimizeStrategies)
		v1.GET("/strategies", s.handlers.ListStrategies)
		v1.GET("/strategies/:id", s.handlers.GetStrategy)
		v1.POST("/strategies/:id/simulate", s.handlers.SimulateStrategy)
		v1.GET("/strategies/:id/metrics", s.handlers.GetRiskMetrics)
		v1.POST("/strategies/:id/scenario", s.handlers.EvaluateScenario)

		v1.GET("/options", s.handlers.AnalyzeOptions)

		v1.GET("/sensitivity/tornado", s.handlers.Tornado)
		v1.GET("/sensitivity/breakeven/:commodity", s.handlers.BreakEven)
		v1.GET("/sensitivity/robustness", s.handlers.Robustness)
	}
}

// Start starts the API server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.log.Infof("starting API server on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the API server gracefully
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.log.Info("stopping API server")
	return s.httpServer.Shutdown(ctx)
}
