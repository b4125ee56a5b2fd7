package httpservice

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourorg/pdf-editor-service/pkg/logging"
)

// Server wraps a Gin server with configuration and middleware.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	logger     logging.Logger
	port       int
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Logger       logging.Logger

	// MaxBodySize caps request bodies in bytes. Zero disables the cap.
	MaxBodySize    int64
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int

	// Extra middleware installed before handler registration, e.g. telemetry.
	Extra []gin.HandlerFunc
}

// Handler defines an interface for registering HTTP handlers.
type Handler interface {
	Register(router *gin.Engine)
}

// NewServer creates a new HTTP server with the provided configuration and handlers.
func NewServer(cfg ServerConfig, handlers ...Handler) (*Server, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(RecoveryMiddleware(cfg.Logger))
	if cfg.MaxBodySize > 0 {
		router.Use(RequestSizeLimitMiddleware(cfg.MaxBodySize))
	}
	router.Use(RequestIDMiddleware())
	router.Use(ContextLoggerMiddleware(cfg.Logger))
	router.Use(RequestLoggingMiddleware(cfg.Logger))
	router.Use(SecurityHeadersMiddleware())

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(CORSMiddleware(CORSConfig{AllowedOrigins: origins}))

	if cfg.RateLimitRPS > 0 {
		router.Use(RateLimitMiddleware(RateLimitConfig{
			RPS:   cfg.RateLimitRPS,
			Burst: cfg.RateLimitBurst,
		}))
	}

	for _, mw := range cfg.Extra {
		router.Use(mw)
	}

	for _, handler := range handlers {
		handler.Register(router)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		router:     router,
		httpServer: httpServer,
		logger:     cfg.Logger,
		port:       cfg.Port,
	}, nil
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", logging.NewField("port", s.port))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Router returns the underlying Gin router for advanced configuration.
func (s *Server) Router() *gin.Engine {
	return s.router
}
