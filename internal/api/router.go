package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/storefront-core/internal/auth"
)

// healthCheckTimeout bounds the dependency probes in handleHealth.
const healthCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	staffOnly := s.requireRoles(gateStaff, auth.StaffRoles)
	superAdminOnly := s.requireRoles(gateSuperAdmin, auth.SuperAdminRoles)

	r.Handle("/metrics", s.metrics.handler())

	r.Route("/api", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.With(s.maintenanceMiddleware).Post("/signup", s.handleSignup)
			r.Post("/login", s.handleLogin)
			r.Delete("/logout", s.handleLogout)

			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware)

				r.With(s.maintenanceMiddleware).Get("/", s.handleMe)
				r.With(s.maintenanceMiddleware).Delete("/", s.handleDeleteAccount)

				r.With(superAdminOnly).Put("/set-role", s.handleSetRole)
				r.With(superAdminOnly).Get("/admins", s.handleListAdmins)
			})
		})

		r.Route("/maintenance", func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/", s.handleGetMaintenance)
			r.With(superAdminOnly).Put("/toggle", s.handleToggleMaintenance)
		})

		r.Route("/category", func(r chi.Router) {
			r.Get("/", s.handleListCategories)

			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware, staffOnly)

				r.Post("/", s.handleCreateCategory)
				r.Put("/{id}", s.handleUpdateCategory)
				r.Delete("/{id}", s.handleDeleteCategory)
			})
		})

		r.With(s.authMiddleware, staffOnly).Get("/system-logs", s.handleListSystemLogs)
	})

	return r
}

// handleHealth reports server and database health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := s.db.HealthCheck(ctx); err != nil {
			s.logger.Error("database health check failed", "error", err)
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, map[string]any{
		"status":      status,
		"version":     s.version,
		"maintenance": s.maintenance.Enabled(),
	})
}
