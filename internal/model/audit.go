package model

import "time"

// Audit action verbs. Actions are free text in storage; these constants
// cover every mutation the system itself performs.
const (
	ActionLogin            = "LOGIN"
	ActionUpload           = "UPLOAD"
	ActionDownload         = "DOWNLOAD"
	ActionUpdateDocument   = "UPDATE_DOCUMENT"
	ActionStatusChange     = "STATUS_CHANGE"
	ActionCreateAssignment = "CREATE_ASSIGNMENT"
	ActionUpdateAssignment = "UPDATE_ASSIGNMENT"
	ActionCreateDivision   = "CREATE_DIVISION"
	ActionCreateUser       = "CREATE_USER"
	ActionUpdateUser       = "UPDATE_USER"
	ActionUpdateSettings   = "UPDATE_SETTINGS"
	ActionExportReport     = "EXPORT_REPORT"
	ActionOCRRun           = "OCR_RUN"
)

// Audit entity nouns.
const (
	EntityUser       = "USER"
	EntityDocument   = "DOCUMENT"
	EntityFile       = "FILE"
	EntityAssignment = "ASSIGNMENT"
	EntityDivision   = "DIVISION"
	EntitySettings   = "SETTINGS"
	EntityReport     = "REPORT"
)

// AuditLog is one immutable record of a mutating action. A nil UserID
// represents a system-initiated action.
type AuditLog struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  *string        `json:"entity_id"`
	UserID    *string        `json:"user_id"`
	Meta      map[string]any `json:"meta"`
	CreatedAt time.Time      `json:"created_at"`
}

// AuditLogWithUser joins the acting user's identity for the admin view.
type AuditLogWithUser struct {
	AuditLog
	User *UserSummary `json:"user"`
}

// NewAudit builds an audit record for an actor-initiated action.
func NewAudit(action, entity string, entityID, userID *string, meta map[string]any) *AuditLog {
	return &AuditLog{
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		UserID:   userID,
		Meta:     meta,
	}
}
