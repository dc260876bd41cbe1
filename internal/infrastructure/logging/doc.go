// Package logging provides structured logging for Storefront Core.
//
// This package wraps Go's standard log/slog package so every component
// emits records with the same shape.
//
// # Features
//
//   - JSON output by default, text output for local development
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Attributes named password, token, secret and similar are redacted
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting service", "port", 8000)
//	logger.Error("failed to open database", "error", err)
//
// Credentials and token strings must never be passed as attribute values
// under any other key; redaction is keyed by attribute name only.
package logging
