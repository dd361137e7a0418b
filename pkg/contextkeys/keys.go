// Package contextkeys defines every context key used across the console.
//
// Keys live in one place so packages that set a value and packages that
// read it agree on the key without importing each other.
package contextkeys

// Key is the type for context keys to prevent collisions
type Key string

const (
	// RequestIDKey contains the request ID string (UUID)
	// Set by: httputil.RequestIDMiddleware
	// Used by: request logging, audit events
	RequestIDKey Key = "request_id"

	// LoggerKey contains a logrus.FieldLogger scoped to the request
	// Set by: httputil.LoggingMiddleware
	// Used by: handlers that log with request context
	LoggerKey Key = "logger"

	// AuditLoggerKey contains an audit.Logger
	// Set by: the API server
	// Used by: project sessions when roles are granted
	AuditLoggerKey Key = "audit_logger"
)
