package server

import (
	"context"
	"os"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/intakehq/intake/internal/appid"
	"github.com/intakehq/intake/internal/core"
	"github.com/intakehq/intake/internal/observability"
	"github.com/intakehq/intake/internal/server/handlers"
	servermw "github.com/intakehq/intake/internal/server/middleware"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	// Standard health endpoints
	s.router.Get("/health", handlers.HealthHandler)
	s.router.Get("/health/live", handlers.LivenessHandler)
	s.router.Get("/health/ready", handlers.ReadinessHandler)
	s.router.Get("/health/startup", handlers.StartupHandler)

	// Version endpoint
	s.router.Get("/version", handlers.VersionHandler)

	// Metrics endpoint (in server package to access HandleError)
	s.router.Get("/metrics", MetricsHandler)

	feedback := handlers.NewFeedbackHandler(s.store)
	authh := handlers.NewAuthHandler(s.store, s.tokens)
	admin := handlers.NewAdminHandler(s.store)

	s.router.Route("/api", func(r chi.Router) {
		// Public intake, guarded by the per-client limiter
		r.With(servermw.RateLimit(s.limiter, "/api/feedback")).
			Post("/feedback", feedback.Submit)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authh.Register)
			r.Post("/login", authh.Login)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(servermw.RequireRole(s.tokens, core.RoleAdmin))

			r.Get("/feedback", admin.List)
			r.Route("/feedback/{id}", func(r chi.Router) {
				r.Get("/", admin.Get)
				r.Patch("/status", admin.UpdateStatus)
				r.Patch("/priority", admin.UpdatePriority)
				r.Post("/responses", admin.CreateResponse)
				r.Get("/responses", admin.ListResponses)
				r.Get("/attachments", admin.ListAttachments)
			})
		})
	})

	// Admin signal endpoint (optional, requires INTAKE_ADMIN_TOKEN)
	s.registerSignalEndpoint()
}

// registerSignalEndpoint optionally registers the admin signal endpoint
func (s *Server) registerSignalEndpoint() {
	// Get admin token from environment (identity-aware)
	ctx := context.Background()
	identity, _ := appid.Get(ctx)
	envPrefix := "INTAKE_"
	if identity != nil && identity.EnvPrefix != "" {
		envPrefix = identity.EnvPrefix
	}

	adminToken := os.Getenv(envPrefix + "ADMIN_TOKEN")
	logger := observability.ServerLogger

	if adminToken == "" {
		if logger != nil {
			logger.Debug("Admin signal endpoint disabled (no " + envPrefix + "ADMIN_TOKEN set)")
		}
		return
	}

	// Create HTTP signal handler with bearer token auth and rate limiting
	handler := signals.NewHTTPHandler(signals.HTTPConfig{
		TokenAuth: adminToken,
		RateLimit: 10,  // 10 requests per minute
		RateBurst: 5,   // burst size
		Manager:   nil, // use default global manager
	})

	// Register admin endpoint
	s.router.Post("/admin/signal", handler.ServeHTTP)

	if logger != nil {
		logger.Info("Admin signal endpoint enabled",
			zap.String("path", "/admin/signal"),
			zap.String("auth", "bearer token"),
			zap.String("rate_limit", "10/min, burst 5"))
		logger.Warn("Admin endpoint enabled - ensure this server is not exposed to public internet")
	}
}
