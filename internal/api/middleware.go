package api

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nerrad567/storefront-core/internal/auth"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const (
	// ctxKeyRequestID is the context key for the request ID.
	ctxKeyRequestID contextKey = "request_id"
)

// Gate labels used in logs and metrics.
const (
	gateStaff       = "staff"
	gateSuperAdmin  = "super_admin"
	gateMaintenance = "maintenance"
)

// requestIDMiddleware generates a unique request ID for each request.
// If the client sends an X-Request-ID header, it is used; otherwise one is generated.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs each HTTP request with method, path, status, and
// duration, and counts it by route pattern.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		s.metrics.observeRequest(r.Method, route, wrapped.status)

		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
	})
}

// recoveryMiddleware catches panics in handlers and returns a 500 response.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic recovered in HTTP handler",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", r.Context().Value(ctxKeyRequestID),
				)
				writeInternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware handles Cross-Origin Resource Sharing headers.
// Only origins listed explicitly are echoed with credentials; a "*" entry
// answers with a wildcard and never allows credentials.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			switch {
			case s.isListedOrigin(origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
				s.setCORSAllowHeaders(w)
			case s.allowsAnyOrigin():
				w.Header().Set("Access-Control-Allow-Origin", "*")
				s.setCORSAllowHeaders(w)
			}
		}

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// maxRequestBodySize is the maximum allowed request body size (1 MB).
const maxRequestBodySize = 1 << 20

// bodySizeLimitMiddleware limits the size of incoming request bodies.
func (s *Server) bodySizeLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		}
		next.ServeHTTP(w, r)
	})
}

// authMiddleware establishes the principal from the session cookies and
// attaches it to the request context. Authentication failures are 401;
// directory or signing failures are 500 and leave the cookies alone.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, err := s.authn.Authenticate(w, r)
		s.recordAuthOutcome(res.Outcome)

		if err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				writeUnauthorized(w)
				return
			}
			s.logger.Error("authentication error",
				"outcome", string(res.Outcome),
				"error", err,
				"request_id", r.Context().Value(ctxKeyRequestID),
			)
			writeInternalError(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), res.User)))
	})
}

// requireRoles admits only principals whose role is in allowed.
// It must run after authMiddleware.
func (s *Server) requireRoles(gate string, allowed auth.RoleSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.UserFromContext(r.Context())
			if err := auth.RequireRole(user, allowed); err != nil {
				s.recordGateRejection(gate, user)
				if errors.Is(err, auth.ErrUnauthorized) {
					writeUnauthorized(w)
					return
				}
				writeForbidden(w, msgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// maintenanceMiddleware refuses customer requests while maintenance mode is
// on. Staff always pass. Without a principal the request is treated as a
// customer's.
func (s *Server) maintenanceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := auth.UserFromContext(r.Context())
		if err := auth.CheckMaintenance(user, s.maintenance); err != nil {
			s.recordGateRejection(gateMaintenance, user)
			writeServiceUnavailable(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// isListedOrigin reports whether origin appears verbatim in the allowlist.
func (s *Server) isListedOrigin(origin string) bool {
	for _, allowed := range s.cfg.CORS.AllowedOrigins {
		if allowed != "*" && allowed == origin {
			return true
		}
	}
	return false
}

func (s *Server) allowsAnyOrigin() bool {
	return slices.Contains(s.cfg.CORS.AllowedOrigins, "*")
}

func (s *Server) setCORSAllowHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Methods", joinOrDefault(s.cfg.CORS.AllowedMethods, "GET, POST, PUT, DELETE, OPTIONS"))
	w.Header().Set("Access-Control-Allow-Headers", joinOrDefault(s.cfg.CORS.AllowedHeaders, "Content-Type, X-Request-ID"))
	w.Header().Set("Access-Control-Max-Age", "86400")
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// joinOrDefault joins a string slice with ", " or returns the default if empty.
func joinOrDefault(values []string, defaultVal string) string {
	if len(values) == 0 {
		return defaultVal
	}
	return strings.Join(values, ", ")
}
