package audit

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xianli123/rhoai-project-permission/pkg/contextkeys"
	"github.com/xianli123/rhoai-project-permission/pkg/observability"
)

// Logger is the interface for audit logging
type Logger interface {
	// Log logs an audit event
	Log(ctx context.Context, event *AuditEvent) error

	// Close closes the logger and flushes any buffered logs
	Close() error
}

// WithLogger adds an audit logger to the context
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, contextkeys.AuditLoggerKey, logger)
}

// FromContext retrieves the audit logger from context
func FromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(contextkeys.AuditLoggerKey).(Logger); ok {
		return logger
	}
	return NoOp()
}

// NoOp returns a logger that discards every event
func NoOp() Logger {
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (used when no logger is configured)
type noOpLogger struct{}

func (l *noOpLogger) Log(ctx context.Context, event *AuditEvent) error {
	return nil
}

func (l *noOpLogger) Close() error {
	return nil
}

// LogrusLogger writes audit events as structured log entries
type LogrusLogger struct {
	logger logrus.FieldLogger
}

// NewLogrusLogger creates an audit logger on top of an application logger
func NewLogrusLogger(logger logrus.FieldLogger) *LogrusLogger {
	return &LogrusLogger{logger: logger.WithField("component", "audit")}
}

// Log writes the event at info level, or warn level for failures
func (l *LogrusLogger) Log(ctx context.Context, event *AuditEvent) error {
	entry := l.logger.WithFields(logrus.Fields{
		"event_type":     event.EventType,
		"status":         event.Status,
		"project_id":     event.ProjectID,
		"principal_kind": event.PrincipalKind,
		"principal_id":   event.PrincipalID,
		"principal_name": event.PrincipalName,
		"role_ids":       event.RoleIDs,
		"created":        event.Created,
		"request_id":     event.RequestID,
	})
	if event.Status == EventStatusFailure {
		entry.WithField("error", event.ErrorMessage).Warn(event.Message)
		return nil
	}
	entry.Info(event.Message)
	return nil
}

// Close is a no-op; the application logger owns its output
func (l *LogrusLogger) Close() error {
	return nil
}

// GrantDetails describes one saved add-principal workflow
type GrantDetails struct {
	ProjectID     string
	PrincipalKind string
	PrincipalID   string
	PrincipalName string
	RoleIDs       []string
	Created       bool
}

// LogGrant records a grant outcome through the context logger. A nil err
// records success.
func LogGrant(ctx context.Context, details GrantDetails, err error) error {
	event := &AuditEvent{
		Timestamp:     time.Now().UTC(),
		EventType:     EventTypeGrant,
		Status:        EventStatusSuccess,
		ProjectID:     details.ProjectID,
		PrincipalKind: details.PrincipalKind,
		PrincipalID:   details.PrincipalID,
		PrincipalName: details.PrincipalName,
		RoleIDs:       details.RoleIDs,
		Created:       details.Created,
		RequestID:     observability.GetRequestID(ctx),
		Message:       "roles granted",
	}
	if err != nil {
		event.EventType = EventTypeGrantFailed
		event.Status = EventStatusFailure
		event.Message = "role grant failed"
		event.ErrorMessage = err.Error()
	}
	return FromContext(ctx).Log(ctx, event)
}
