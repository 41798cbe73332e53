package domain

import "time"

// Audit actions recorded for administrator activity.
const (
	AuditLogin       = "login"
	AuditLogout      = "logout"
	AuditAdminCreate = "admin.create"
	AuditAdminUpdate = "admin.update"
	AuditCreate      = "create"
	AuditUpdate      = "update"
	AuditDelete      = "delete"
)

// AuditEntry is one line of the administrator activity trail.
type AuditEntry struct {
	ActorID  string    `json:"actor_id" bson:"actor_id"`
	Actor    string    `json:"actor" bson:"actor"`
	Action   string    `json:"action" bson:"action"`
	Resource string    `json:"resource,omitempty" bson:"resource,omitempty"`
	TargetID string    `json:"target_id,omitempty" bson:"target_id,omitempty"`
	At       time.Time `json:"at" bson:"at"`
}
