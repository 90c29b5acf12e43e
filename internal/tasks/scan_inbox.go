package tasks

import (
	"context"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/pkg/errors"

	"github.com/mrlokans/reader/internal/services"
)

// InboxScanner ingests the EPUB files found in a directory.
type InboxScanner interface {
	Scan(ctx context.Context, dir string) (services.InboxResult, error)
}

// ScanInboxTask ingests every EPUB in Dir. An empty Dir falls back to the
// configured inbox directory at run time.
type ScanInboxTask struct {
	Dir string `json:"dir,omitempty"`
}

// Config allows a single attempt: a failed file is moved aside and must not
// be retried.
func (t ScanInboxTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueScanInbox,
		MaxAttempts: 1,
		Timeout:     30 * time.Minute,
		Retention:   retention(),
	}
}

func ScanInboxProcessor(scanner InboxScanner, defaultDir func() string) backlite.QueueProcessor[ScanInboxTask] {
	return func(ctx context.Context, task ScanInboxTask) error {
		if scanner == nil {
			return errors.New("inbox scanner not configured")
		}

		dir := task.Dir
		if dir == "" && defaultDir != nil {
			dir = defaultDir()
		}
		if dir == "" {
			log.Printf("[TASK] Inbox scan skipped: no inbox directory configured")
			return nil
		}

		result, err := scanner.Scan(ctx, dir)
		if err != nil {
			return errors.Wrapf(err, "scan inbox %s", dir)
		}

		log.Printf("[TASK] Inbox scan of %s: %d ingested, %d failed", dir, len(result.Ingested), len(result.Failed))
		return nil
	}
}

func NewScanInboxQueue(scanner InboxScanner, defaultDir func() string) backlite.Queue {
	return backlite.NewQueue(ScanInboxProcessor(scanner, defaultDir))
}
