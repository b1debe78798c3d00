// internal/server/server.go
// HTTP server setup with dependency injection.

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/iysaleh/pickleball-session-manager/internal/api"
	"github.com/iysaleh/pickleball-session-manager/internal/cache"
	"github.com/iysaleh/pickleball-session-manager/internal/config"
	"github.com/iysaleh/pickleball-session-manager/internal/middleware"
	"github.com/iysaleh/pickleball-session-manager/internal/registry"
	"github.com/iysaleh/pickleball-session-manager/internal/websocket"
)

// Server wires the gin router, the live-session registry, and the optional
// websocket hub behind a single http.Server.
type Server struct {
	config *config.Config
	router *gin.Engine
	logger *log.Logger
	server *http.Server
	hub    *websocket.Hub
}

// New creates a server with all adapter dependencies already wired.
func New(cfg *config.Config, reg *registry.Registry, cacheSvc *cache.Service, logger *log.Logger) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var hub *websocket.Hub
	if cfg.Features.EnableWebSocket {
		hub = websocket.NewHub(logger)
		go hub.Run()
	}

	router := setupRouter(cfg, reg, cacheSvc, hub, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		config: cfg,
		router: router,
		logger: logger,
		server: srv,
		hub:    hub,
	}
}

func setupRouter(cfg *config.Config, reg *registry.Registry, cacheSvc *cache.Service, hub *websocket.Hub, logger *log.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RequestID())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	router.GET("/health", api.HealthCheck(cfg))

	deps := api.Dependencies{
		Registry: reg,
		Cache:    cacheSvc,
		Config:   cfg,
	}
	requireOperator := middleware.RequireOperator(cfg.Auth.OperatorTokenHash)

	v1 := router.Group("/api/v1")
	{
		api.RegisterSessionRoutes(v1, deps, requireOperator)
	}

	if cfg.Features.EnableWebSocket && hub != nil {
		router.GET("/ws/:id", func(c *gin.Context) {
			sessionID := c.Param("id")
			if _, ok := reg.Get(sessionID); !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
				return
			}
			if err := websocket.Serve(hub, c.Writer, c.Request, sessionID); err != nil {
				logger.Printf("websocket upgrade failed: %v", err)
			}
		})
	}

	return router
}

// Start begins listening for HTTP requests; blocks until the listener fails
// or the server is shut down.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Println("shutting down server...")
	return s.server.Shutdown(ctx)
}
