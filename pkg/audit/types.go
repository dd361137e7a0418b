package audit

import (
	"encoding/json"
	"time"
)

// EventType represents the category of audit event
type EventType string

const (
	EventTypeGrant       EventType = "authz.permission_grant"
	EventTypeGrantFailed EventType = "authz.permission_grant_failed"
)

// EventStatus represents the outcome of an event
type EventStatus string

const (
	EventStatusSuccess EventStatus = "success"
	EventStatusFailure EventStatus = "failure"
)

// AuditEvent represents a single audit log entry
type AuditEvent struct {
	Timestamp time.Time   `json:"timestamp"`
	EventType EventType   `json:"event_type"`
	Status    EventStatus `json:"status"`

	// Target of the grant
	ProjectID     string   `json:"project_id"`
	PrincipalKind string   `json:"principal_kind"`
	PrincipalID   string   `json:"principal_id,omitempty"`
	PrincipalName string   `json:"principal_name"`
	RoleIDs       []string `json:"role_ids"`
	Created       bool     `json:"created"`

	RequestID    string `json:"request_id,omitempty"`
	Message      string `json:"message,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// ToJSON converts the audit event to JSON
func (e *AuditEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
