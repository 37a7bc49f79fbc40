package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"imposterartist/internal/app"
	"imposterartist/internal/config"
	"imposterartist/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *gin.Engine
	store  *app.Store
	config *config.Config
	logger *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, store *app.Store, logger *slog.Logger) *Server {
	s := &Server{
		store:  store,
		config: cfg,
		logger: logger,
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
	s.router.Use(cors.New(corsConfig(cfg)))
	s.setupRoutes()

	s.server = &http.Server{
		Addr:        cfg.GetAddr(),
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	limits := ws.Limits{
		MaxMessageBytes: s.config.Transport.MaxMessageBytes,
		RatePerSecond:   s.config.Transport.RateLimitPerSecond,
		Burst:           s.config.Transport.RateLimitBurst,
	}
	wsHandler := ws.NewHandler(s.store, s.config.Server.AllowedOrigins, limits, s.logger)
	s.router.GET("/ws", gin.WrapH(wsHandler))

	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/stats", s.handleStats)
	api.GET("/rooms/:roomCode", s.handleGetRoom)
	api.GET("/rooms/:roomCode/exists", s.handleRoomExists)
	api.GET("/rooms/:roomCode/qr", s.handleRoomQR)
}

// corsConfig builds the CORS policy from the allowed origins
func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Protocol",
		},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if cfg.AllowsAnyOrigin() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.Server.AllowedOrigins
		c.AllowCredentials = true
	}
	return c
}

// requestLogger logs one line per request
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Request.URL.Path == "/api/health" && !s.config.IsDevelopment() {
			level = slog.LevelDebug
		}
		s.logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}
