// Package api implements the HTTP REST API for Storefront Core.
//
// This package provides:
//   - Account endpoints (signup, login, logout, current account, role management)
//   - Category endpoints (public listing, staff-only edits)
//   - Maintenance state query and super-admin toggle
//   - Staff-visible system logs
//   - Middleware stack (request ID, logging, recovery, CORS, body limit,
//     session authentication, role and maintenance gates)
//   - Prometheus metrics at /metrics
//
// # Security
//
// Sessions are carried in two HttpOnly cookies. authMiddleware runs the
// auth.Authenticator state machine on every protected request; role gates
// and the maintenance gate run after it. Gate failures map to 401, 403 and
// 503 with short fixed messages. Causes are logged, never echoed.
//
// # Graceful Degradation
//
// MQTT and InfluxDB are optional. Without them maintenance changes are not
// broadcast and gate outcomes are only counted in Prometheus.
package api
