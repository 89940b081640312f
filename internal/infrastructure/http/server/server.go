// Package server provides the HTTP server wiring the REST API
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pantrypilot/v1/internal/infrastructure/config"
	"github.com/pantrypilot/v1/internal/infrastructure/http/handlers"
	"github.com/pantrypilot/v1/internal/infrastructure/monitoring"
)

// Server wraps the gin engine and its http.Server
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	server *http.Server
}

// NewServer creates the HTTP server with all routes registered
func NewServer(
	cfg *config.Config,
	api *handlers.APIHandlers,
	metrics *monitoring.MetricsCollector,
	logger *zap.Logger,
) *Server {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handlers.RegisterValidations(); err != nil {
		logger.Warn("Custom binding validations unavailable", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(metrics.GinMiddleware())

	router.GET("/health", api.Health)
	router.GET("/metrics", metrics.Handler())

	v1 := router.Group("/api/v1")
	{
		v1.POST("/suggestions", api.Suggest)
		v1.POST("/feedback", api.SubmitFeedback)
		v1.POST("/users", api.RegisterUser)
		v1.GET("/users", api.ListUsers)
		v1.GET("/users/:id/profile", api.GetProfile)
		v1.PUT("/users/:id/restrictions", api.UpdateRestrictions)
		v1.GET("/inventory", api.GetInventory)
		v1.POST("/admin/daily-update", api.RunDailyUpdate)
	}

	return &Server{
		cfg:    cfg,
		logger: logger.Named("http-server"),
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start begins serving and blocks until the listener closes
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
