package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/pkg/errors"

	"github.com/mrlokans/reader/internal/exporters"
	"github.com/mrlokans/reader/internal/settingsstore"
)

const (
	ExportStatusSuccess = "success"
	ExportStatusFailed  = "failed"
)

// ExportSettings resolves the export configuration and records run outcomes.
type ExportSettings interface {
	GetExportConfig() settingsstore.ExportConfig
	SetExportStatus(status, message string) error
}

type ExportAuditor interface {
	LogExport(format, description string, books int, err error)
}

type LibraryExporter interface {
	Export(format, dir string) (exporters.ExportResult, error)
}

// ExportLibraryTask writes the library to disk. Empty fields fall back to
// the effective export settings.
type ExportLibraryTask struct {
	Format string `json:"format,omitempty"`
	Dir    string `json:"dir,omitempty"`
}

func (t ExportLibraryTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueExportLibrary,
		MaxAttempts: 2,
		Backoff:     5 * time.Minute,
		Timeout:     10 * time.Minute,
		Retention:   retention(),
	}
}

func ExportLibraryProcessor(exporter LibraryExporter, settings ExportSettings, auditor ExportAuditor) backlite.QueueProcessor[ExportLibraryTask] {
	return func(ctx context.Context, task ExportLibraryTask) error {
		if exporter == nil {
			return errors.New("library exporter not configured")
		}

		format, dir := task.Format, task.Dir
		if settings != nil {
			cfg := settings.GetExportConfig()
			if format == "" {
				format = cfg.Format
			}
			if dir == "" {
				dir = cfg.Dir
			}
		}
		if dir == "" {
			err := errors.New("export directory not configured")
			record(settings, auditor, format, 0, err, "")
			return err
		}

		start := time.Now()
		result, err := exporter.Export(format, dir)
		if err != nil {
			record(settings, auditor, format, 0, err, "")
			return errors.Wrap(err, "export library")
		}

		msg := fmt.Sprintf("Exported %d books, %d highlights, %d bookmarks to %s in %v",
			result.BooksProcessed, result.HighlightsProcessed, result.BookmarksProcessed,
			dir, time.Since(start).Round(time.Millisecond))
		log.Printf("[TASK] %s", msg)
		record(settings, auditor, format, result.BooksProcessed, nil, msg)
		return nil
	}
}

func record(settings ExportSettings, auditor ExportAuditor, format string, books int, err error, msg string) {
	status := ExportStatusSuccess
	if err != nil {
		status = ExportStatusFailed
		msg = err.Error()
	}
	if settings != nil {
		if serr := settings.SetExportStatus(status, msg); serr != nil {
			log.Printf("[TASK ERROR] Failed to record export status: %v", serr)
		}
	}
	if auditor != nil {
		auditor.LogExport(format, msg, books, err)
	}
}

func NewExportLibraryQueue(exporter LibraryExporter, settings ExportSettings, auditor ExportAuditor) backlite.Queue {
	return backlite.NewQueue(ExportLibraryProcessor(exporter, settings, auditor))
}
