package model

import "time"

// Settings is the single mutable configuration record. StatusWorkflow is
// advisory only (status names remain an open set); FileUploadMaxSizeMB
// and AllowedFileTypes are enforced by the upload operation.
type Settings struct {
	StatusWorkflow       []string  `json:"statusWorkflow"`
	FileUploadMaxSizeMB  int       `json:"fileUploadMaxSize"`
	AllowedFileTypes     []string  `json:"allowedFileTypes"`
	RetentionPeriodDays  int       `json:"retentionPeriodDays"`
	NotificationsEnabled bool      `json:"notificationsEnabled"`
	EmailNotifications   bool      `json:"emailNotifications"`
	SystemMaintenance    bool      `json:"systemMaintenance"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// DefaultSettings returns the configuration installed on first boot.
func DefaultSettings() Settings {
	return Settings{
		StatusWorkflow: []string{
			"RECEIVED",
			"UNDER REVIEW",
			"PENDING APPROVAL",
			"APPROVED",
			"REJECTED",
			"FORWARDED",
			"COMPLETED",
			"ARCHIVED",
		},
		FileUploadMaxSizeMB:  10,
		AllowedFileTypes:     []string{".pdf", ".doc", ".docx", ".jpg", ".jpeg", ".png"},
		RetentionPeriodDays:  365,
		NotificationsEnabled: true,
		EmailNotifications:   false,
		SystemMaintenance:    false,
	}
}

// SettingsPatch is a partial settings update. Nil fields are left
// untouched.
type SettingsPatch struct {
	StatusWorkflow       *[]string `json:"statusWorkflow"`
	FileUploadMaxSizeMB  *int      `json:"fileUploadMaxSize"`
	AllowedFileTypes     *[]string `json:"allowedFileTypes"`
	RetentionPeriodDays  *int      `json:"retentionPeriodDays"`
	NotificationsEnabled *bool     `json:"notificationsEnabled"`
	EmailNotifications   *bool     `json:"emailNotifications"`
	SystemMaintenance    *bool     `json:"systemMaintenance"`
}

// Apply merges the patch into s and returns the names of changed keys
// for audit metadata.
func (p SettingsPatch) Apply(s *Settings) []string {
	var changed []string
	if p.StatusWorkflow != nil {
		s.StatusWorkflow = *p.StatusWorkflow
		changed = append(changed, "statusWorkflow")
	}
	if p.FileUploadMaxSizeMB != nil {
		s.FileUploadMaxSizeMB = *p.FileUploadMaxSizeMB
		changed = append(changed, "fileUploadMaxSize")
	}
	if p.AllowedFileTypes != nil {
		s.AllowedFileTypes = *p.AllowedFileTypes
		changed = append(changed, "allowedFileTypes")
	}
	if p.RetentionPeriodDays != nil {
		s.RetentionPeriodDays = *p.RetentionPeriodDays
		changed = append(changed, "retentionPeriodDays")
	}
	if p.NotificationsEnabled != nil {
		s.NotificationsEnabled = *p.NotificationsEnabled
		changed = append(changed, "notificationsEnabled")
	}
	if p.EmailNotifications != nil {
		s.EmailNotifications = *p.EmailNotifications
		changed = append(changed, "emailNotifications")
	}
	if p.SystemMaintenance != nil {
		s.SystemMaintenance = *p.SystemMaintenance
		changed = append(changed, "systemMaintenance")
	}
	return changed
}
