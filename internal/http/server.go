// Package http provides the HTTP server and route wiring.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	otelmetric "go.opentelemetry.io/otel/metric"

	adminHTTP "github.com/farmapp/licensing/internal/admin/http"
	"github.com/farmapp/licensing/internal/config"
	licenseHTTP "github.com/farmapp/licensing/internal/license/http"
	appMetrics "github.com/farmapp/licensing/internal/metrics"
	webhookHTTP "github.com/farmapp/licensing/internal/webhook/http"
)

// Server represents the HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	licenseHandler *licenseHTTP.LicenseHandler,
	adminHandler *adminHTTP.AdminHandler,
	webhookHandler *webhookHTTP.WebhookHandler,
	meterProvider otelmetric.MeterProvider,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if meterProvider != nil {
		router.Use(appMetrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	router.SetHTMLTemplate(adminHTTP.Templates())

	// Health and readiness
	router.GET("/health", HealthHandler)
	router.GET("/ready", ReadinessHandler)

	// Activation protocol
	api := router.Group("/api/v1")
	{
		activate := api.Group("")
		if cfg.RateLimitEnabled {
			activate.Use(licenseHTTP.ActivationRateLimitMiddleware(
				cfg.RateLimitRequestsPerSec,
				cfg.RateLimitBurst,
				logger,
			))
		}
		activate.POST("/activate", licenseHandler.ActivateHandler)

		api.GET("/verify", licenseHandler.VerifyHandler)
		api.POST("/deactivate", licenseHandler.DeactivateHandler)
	}

	// Admin console
	router.GET("/admin/login", adminHandler.LoginFormHandler)
	router.POST("/admin/login", adminHandler.LoginSubmitHandler)
	router.GET("/admin/logout", adminHandler.LogoutHandler)

	admin := router.Group("/admin", adminHandler.RequireSession())
	{
		admin.GET("", adminHandler.DashboardHandler)
		admin.POST("/license/create", adminHandler.LicenseCreateHandler)
		admin.POST("/license/toggle", adminHandler.LicenseToggleHandler)
		admin.POST("/token/revoke", adminHandler.TokenRevokeHandler)
		admin.POST("/activation/remove", adminHandler.ActivationRemoveHandler)
	}

	// Payment provider callback
	router.POST("/webhook/payment", webhookHandler.PaymentHandler)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
