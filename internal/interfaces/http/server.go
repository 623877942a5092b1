// internal/interfaces/http/server.go
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/domain/analytics"
	"github.com/shopfront/storefront-api/internal/domain/cart"
	"github.com/shopfront/storefront-api/internal/domain/inventory"
	"github.com/shopfront/storefront-api/internal/domain/order"
	"github.com/shopfront/storefront-api/internal/domain/payment"
	"github.com/shopfront/storefront-api/internal/domain/product"
	"github.com/shopfront/storefront-api/internal/domain/user"
	"github.com/shopfront/storefront-api/internal/interfaces/http/handlers"
	"github.com/shopfront/storefront-api/internal/interfaces/http/middleware"
	"github.com/shopfront/storefront-api/internal/interfaces/http/routes"
	"github.com/sirupsen/logrus"
)

// HealthChecker is a dependency probed by /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Dependencies are the services the router exposes
type Dependencies struct {
	Config    *config.Config
	Logger    *logrus.Logger
	Users     *user.Service
	UserAdmin *user.AdminService
	Products  *product.Service
	Carts     *cart.Service
	Orders    *order.Service
	Payments  *payment.Service
	Analytics *analytics.Service
	Inventory *inventory.Service
	// RateLimiter is optional; nil disables rate limiting.
	RateLimiter middleware.Counter
	Checks      map[string]HealthChecker
}

// NewRouter builds the gin engine with middleware and routes
func NewRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.ErrorHandler(deps.Logger))
	r.Use(middleware.CORS(cfg.Security.CORSAllowedOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimit(deps.RateLimiter, cfg.Security.RateLimitPerMinute, deps.Logger))
	r.Use(middleware.RequestSizeLimit(10 << 20))
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	started := time.Now()
	r.GET("/health", healthCheck(cfg, deps.Checks))
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"uptime":    time.Since(started).String(),
		})
	})

	h := routes.Handlers{
		Auth: handlers.NewAuthHandler(deps.Users, handlers.CookieConfig{
			Secure:     cfg.Security.CookieSecure,
			AccessTTL:  cfg.JWT.AccessTokenExpiry,
			RefreshTTL: cfg.JWT.RefreshTokenExpiry,
		}),
		Product:   handlers.NewProductHandler(deps.Products),
		Cart:      handlers.NewCartHandler(deps.Carts),
		Order:     handlers.NewOrderHandler(deps.Orders),
		Payment:   handlers.NewPaymentHandler(deps.Payments),
		Analytics: handlers.NewAnalyticsHandler(deps.Analytics),
		Inventory: handlers.NewInventoryHandler(deps.Inventory),
		UserAdmin: handlers.NewUserAdminHandler(deps.UserAdmin),
	}
	routes.SetupRoutes(r.Group("/api/v1"), h, deps.Users)

	return r
}

func healthCheck(cfg *config.Config, checks map[string]HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		for name, check := range checks {
			if err := check.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unhealthy",
					"error":  name + " ping failed",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"timestamp":   time.Now().UTC(),
			"version":     cfg.App.Version,
			"environment": cfg.App.Environment,
		})
	}
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	logger     logrus.FieldLogger
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *config.Config, handler http.Handler, logger logrus.FieldLogger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		logger: logger,
	}
}

// Start blocks serving requests until the server is stopped
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("HTTP server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
