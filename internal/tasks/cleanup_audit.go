package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/pkg/errors"
)

const defaultAuditRetentionDays = 90

// AuditEventCleaner deletes audit events older than a retention period.
type AuditEventCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// CleanupAuditEventsTask removes audit events older than RetentionDays.
type CleanupAuditEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t CleanupAuditEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueCleanupAudit,
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention:   retention(),
	}
}

func CleanupAuditEventsProcessor(cleaner AuditEventCleaner, auditor MaintenanceAuditor) backlite.QueueProcessor[CleanupAuditEventsTask] {
	return func(ctx context.Context, task CleanupAuditEventsTask) error {
		if cleaner == nil {
			return errors.New("audit event cleaner not configured")
		}

		days := task.RetentionDays
		if days <= 0 {
			days = defaultAuditRetentionDays
		}

		deleted, err := cleaner.DeleteOldEvents(time.Duration(days) * 24 * time.Hour)
		if auditor != nil {
			auditor.LogMaintenance(QueueCleanupAudit,
				fmt.Sprintf("Deleted %d audit events older than %d days", deleted, days), err)
		}
		if err != nil {
			return errors.Wrap(err, "cleanup audit events")
		}

		log.Printf("[TASK] Cleaned up %d audit events older than %d days", deleted, days)
		return nil
	}
}

func NewCleanupAuditEventsQueue(cleaner AuditEventCleaner, auditor MaintenanceAuditor) backlite.Queue {
	return backlite.NewQueue(CleanupAuditEventsProcessor(cleaner, auditor))
}
