package entities

import "time"

type AuditEventType string

const (
	AuditEventIngest      AuditEventType = "ingest"
	AuditEventExport      AuditEventType = "export"
	AuditEventDelete      AuditEventType = "delete"
	AuditEventSettings    AuditEventType = "settings"
	AuditEventMaintenance AuditEventType = "maintenance"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"`      // e.g. "epub_upload", "book_delete"
	Description string         `gorm:"size:500" json:"description"` // human-readable summary
	EntityType  string         `gorm:"size:50" json:"entity_type"`  // "book", "folder", ...
	EntityID    string         `gorm:"index;size:64" json:"entity_id,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"` // JSON for extra data
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
