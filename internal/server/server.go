package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/johann/setlab/internal/config"
	apperrors "github.com/johann/setlab/internal/errors"
	"github.com/johann/setlab/internal/sets"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second

	// rateLimiterIdleTTL is how long an IP's bucket survives without traffic.
	rateLimiterIdleTTL = 5 * time.Minute
)

// Embed placeholder - populated by the cmd/server build
var webFS fs.FS

// SetEmbeddedFiles sets the file system holding web/templates and
// web/static (called from cmd/server)
func SetEmbeddedFiles(web fs.FS) {
	webFS = web
}

// Server serves the home page and the set operation endpoints
type Server struct {
	config      *config.ServerConfig
	logger      *zap.Logger
	router      *gin.Engine
	registry    *prometheus.Registry
	metrics     *Metrics
	rateLimiter *RateLimiter
}

// New creates a new server instance
func New(cfg *config.ServerConfig, logger *zap.Logger) (*Server, error) {
	if webFS == nil {
		return nil, errors.New("web assets not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := template.ParseFS(webFS, "web/templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	if err := configureClientIP(router, cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	s := &Server{
		config:   cfg,
		logger:   logger,
		router:   router,
		registry: registry,
		metrics:  NewMetrics(registry),
	}
	if cfg.RateLimit > 0 {
		s.rateLimiter = NewRateLimiter(cfg.RateLimit, cfg.RateBurst, rateLimiterIdleTTL)
	}

	router.SetHTMLTemplate(tmpl)
	router.Use(
		requestIDMiddleware(),
		accessLogMiddleware(logger),
		s.metrics.Middleware(),
		recoveryMiddleware(logger),
		errorMiddleware(logger),
	)
	router.StaticFS("/static", http.FS(static))

	s.setupRoutes()

	return s, nil
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// MetricsHandler returns the Prometheus exposition handler for this server
func (s *Server) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	if s.config.MetricsPort > 0 {
		go s.runMetricsServer(ctx)
	}

	srv := &http.Server{
		Addr:              s.config.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)

	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("Graceful shutdown did not complete", zap.Duration("timeout", shutdownTimeout), zap.Error(err))
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to close http server: %w", err)
			}
		}
		s.logger.Info("HTTP server stopped")
		return nil
	}
}

// Close releases background resources
func (s *Server) Close() error {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	return nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleHome)

	s.router.GET("/api/health", s.handleHealth)
	s.router.GET("/api/config", s.handleConfig)
	s.router.GET("/api/version", s.handleVersion)

	compute := s.router.Group("/")
	if s.rateLimiter != nil {
		compute.Use(s.rateLimitMiddleware())
	}
	{
		compute.POST("/powerset", s.handlePowerSet)
		compute.POST("/check", s.handleCheck)
	}

	s.router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.NotFoundError("not found"))
	})
	s.router.NoMethod(func(c *gin.Context) {
		_ = c.Error(apperrors.MethodNotAllowedError("method not allowed"))
	})
}

func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := GetRealIP(c)

		if !s.rateLimiter.Allow(clientIP) {
			s.metrics.rateLimited.Inc()
			s.logger.Warn("Rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestID(c)))
			_ = c.Error(apperrors.RateLimitedError("rate limit exceeded, try again later"))
			c.Abort()
			return
		}

		c.Next()
	}
}

func (s *Server) runMetricsServer(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.MetricsHandler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("Metrics server listening", zap.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Metrics server failed", zap.Error(err))
	}
}

// elementLimit is the largest power set input accepted. Unset or oversized
// values fall back to the hard ceiling in package sets.
func (s *Server) elementLimit() int {
	if s.config.MaxElements <= 0 || s.config.MaxElements > sets.MaxElements {
		return sets.MaxElements
	}
	return s.config.MaxElements
}
