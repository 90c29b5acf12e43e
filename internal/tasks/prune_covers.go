package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/pkg/errors"

	"github.com/mrlokans/reader/internal/entities"
)

type CoverPruner interface {
	Prune(keep []string) (int, error)
}

type BookLister interface {
	Books() []entities.Book
}

// MaintenanceAuditor records the outcome of housekeeping runs.
type MaintenanceAuditor interface {
	LogMaintenance(action, description string, err error)
}

// PruneCoversTask removes cached cover files of books no longer in the library.
type PruneCoversTask struct{}

func (t PruneCoversTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueuePruneCovers,
		MaxAttempts: 2,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention:   retention(),
	}
}

func PruneCoversProcessor(books BookLister, covers CoverPruner, auditor MaintenanceAuditor) backlite.QueueProcessor[PruneCoversTask] {
	return func(ctx context.Context, task PruneCoversTask) error {
		if books == nil || covers == nil {
			return errors.New("cover cache not configured")
		}

		all := books.Books()
		keep := make([]string, 0, len(all))
		for _, b := range all {
			keep = append(keep, b.ID)
		}

		removed, err := covers.Prune(keep)
		if auditor != nil {
			auditor.LogMaintenance(QueuePruneCovers, fmt.Sprintf("Removed %d cached covers", removed), err)
		}
		if err != nil {
			return errors.Wrap(err, "prune covers")
		}
		log.Printf("[TASK] Pruned %d cached covers", removed)
		return nil
	}
}

func NewPruneCoversQueue(books BookLister, covers CoverPruner, auditor MaintenanceAuditor) backlite.Queue {
	return backlite.NewQueue(PruneCoversProcessor(books, covers, auditor))
}
