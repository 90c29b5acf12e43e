package tasks

import (
	"context"

	"github.com/mikestefanello/backlite"
	"github.com/pkg/errors"
)

// Queue names, also used as task type names in the API.
const (
	QueueScanInbox     = "scan_inbox"
	QueuePruneCovers   = "prune_covers"
	QueueExportLibrary = "export_library"
	QueueCleanupAudit  = "cleanup_audit"
)

var ErrUnknownTaskType = errors.New("unknown task type")

type TaskType struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// TaskTypes lists the task types that can be triggered manually.
func TaskTypes() []TaskType {
	return []TaskType{
		{QueueScanInbox, "Ingest EPUB files waiting in the inbox directory"},
		{QueuePruneCovers, "Remove cached covers of deleted books"},
		{QueueExportLibrary, "Export notes and the library catalog"},
		{QueueCleanupAudit, "Delete audit events past retention"},
	}
}

// Enqueuer adds a task to a queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
}

// NewTask returns a task of the named type with default arguments.
func NewTask(taskType string, auditRetentionDays int) (backlite.Task, error) {
	switch taskType {
	case QueueScanInbox:
		return ScanInboxTask{}, nil
	case QueuePruneCovers:
		return PruneCoversTask{}, nil
	case QueueExportLibrary:
		return ExportLibraryTask{}, nil
	case QueueCleanupAudit:
		return CleanupAuditEventsTask{RetentionDays: auditRetentionDays}, nil
	default:
		return nil, errors.Wrap(ErrUnknownTaskType, taskType)
	}
}
