package entities

import (
	"time"
)

// Setting is a runtime-configurable application value, separate from the
// reader settings record.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// Scheduled export
	SettingKeyExportEnabled     = "export_enabled"
	SettingKeyExportDir         = "export_dir"
	SettingKeyExportSchedule    = "export_schedule"
	SettingKeyExportFormat      = "export_format"
	SettingKeyExportLastAt      = "export_last_at"
	SettingKeyExportLastStatus  = "export_last_status"
	SettingKeyExportLastMessage = "export_last_message"

	// Inbox scanning
	SettingKeyInboxDir      = "inbox_dir"
	SettingKeyInboxSchedule = "inbox_schedule"
)
