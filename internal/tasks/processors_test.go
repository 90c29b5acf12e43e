package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/exporters"
	"github.com/mrlokans/reader/internal/services"
	"github.com/mrlokans/reader/internal/settingsstore"
)

type fakeScanner struct {
	dirs []string
	err  error
}

func (f *fakeScanner) Scan(ctx context.Context, dir string) (services.InboxResult, error) {
	f.dirs = append(f.dirs, dir)
	return services.InboxResult{Ingested: []string{"a.epub"}}, f.err
}

type fakeCleaner struct {
	retention time.Duration
}

func (f *fakeCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	f.retention = retention
	return 3, nil
}

type fakeBooks []entities.Book

func (f fakeBooks) Books() []entities.Book { return f }

type fakePruner struct {
	keep []string
	err  error
}

func (f *fakePruner) Prune(keep []string) (int, error) {
	f.keep = keep
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

type fakeMaintenanceAuditor struct {
	actions      []string
	descriptions []string
	errs         []error
}

func (f *fakeMaintenanceAuditor) LogMaintenance(action, description string, err error) {
	f.actions = append(f.actions, action)
	f.descriptions = append(f.descriptions, description)
	f.errs = append(f.errs, err)
}

type fakeExporter struct {
	format, dir string
	err         error
}

func (f *fakeExporter) Export(format, dir string) (exporters.ExportResult, error) {
	f.format, f.dir = format, dir
	return exporters.ExportResult{BooksProcessed: 2}, f.err
}

type fakeExportSettings struct {
	cfg     settingsstore.ExportConfig
	status  string
	message string
}

func (f *fakeExportSettings) GetExportConfig() settingsstore.ExportConfig { return f.cfg }

func (f *fakeExportSettings) SetExportStatus(status, message string) error {
	f.status, f.message = status, message
	return nil
}

type fakeExportAuditor struct {
	books int
	err   error
	calls int
}

func (f *fakeExportAuditor) LogExport(format, description string, books int, err error) {
	f.calls++
	f.books, f.err = books, err
}

func TestScanInboxProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("uses task directory", func(t *testing.T) {
		scanner := &fakeScanner{}
		err := ScanInboxProcessor(scanner, func() string { return "/default" })(ctx, ScanInboxTask{Dir: "/explicit"})
		require.NoError(t, err)
		assert.Equal(t, []string{"/explicit"}, scanner.dirs)
	})

	t.Run("falls back to configured directory", func(t *testing.T) {
		scanner := &fakeScanner{}
		err := ScanInboxProcessor(scanner, func() string { return "/default" })(ctx, ScanInboxTask{})
		require.NoError(t, err)
		assert.Equal(t, []string{"/default"}, scanner.dirs)
	})

	t.Run("skips without a directory", func(t *testing.T) {
		scanner := &fakeScanner{}
		err := ScanInboxProcessor(scanner, func() string { return "" })(ctx, ScanInboxTask{})
		require.NoError(t, err)
		assert.Empty(t, scanner.dirs)
	})

	t.Run("returns scan errors", func(t *testing.T) {
		scanner := &fakeScanner{err: errors.New("boom")}
		err := ScanInboxProcessor(scanner, nil)(ctx, ScanInboxTask{Dir: "/x"})
		assert.Error(t, err)
	})
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	cleaner := &fakeCleaner{}
	auditor := &fakeMaintenanceAuditor{}
	require.NoError(t, CleanupAuditEventsProcessor(cleaner, auditor)(context.Background(), CleanupAuditEventsTask{RetentionDays: 7}))
	assert.Equal(t, 7*24*time.Hour, cleaner.retention)
	require.Len(t, auditor.actions, 1)
	assert.Equal(t, QueueCleanupAudit, auditor.actions[0])
	assert.Equal(t, "Deleted 3 audit events older than 7 days", auditor.descriptions[0])
	assert.NoError(t, auditor.errs[0])

	require.NoError(t, CleanupAuditEventsProcessor(cleaner, nil)(context.Background(), CleanupAuditEventsTask{}))
	assert.Equal(t, defaultAuditRetentionDays*24*time.Hour, cleaner.retention)

	assert.Error(t, CleanupAuditEventsProcessor(nil, auditor)(context.Background(), CleanupAuditEventsTask{}))
	assert.Len(t, auditor.actions, 1)
}

func TestPruneCoversProcessor(t *testing.T) {
	books := fakeBooks{{ID: "1"}, {ID: "2"}}

	t.Run("keeps covers of current books", func(t *testing.T) {
		pruner := &fakePruner{}
		auditor := &fakeMaintenanceAuditor{}

		require.NoError(t, PruneCoversProcessor(books, pruner, auditor)(context.Background(), PruneCoversTask{}))
		assert.Equal(t, []string{"1", "2"}, pruner.keep)
		require.Len(t, auditor.actions, 1)
		assert.Equal(t, QueuePruneCovers, auditor.actions[0])
		assert.Equal(t, "Removed 1 cached covers", auditor.descriptions[0])
	})

	t.Run("failed prune is audited", func(t *testing.T) {
		pruner := &fakePruner{err: errors.New("permission denied")}
		auditor := &fakeMaintenanceAuditor{}

		err := PruneCoversProcessor(books, pruner, auditor)(context.Background(), PruneCoversTask{})
		require.Error(t, err)
		require.Len(t, auditor.errs, 1)
		assert.EqualError(t, auditor.errs[0], "permission denied")
	})

	t.Run("missing cache", func(t *testing.T) {
		assert.Error(t, PruneCoversProcessor(books, nil, nil)(context.Background(), PruneCoversTask{}))
	})
}

func TestExportLibraryProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("fills defaults from settings", func(t *testing.T) {
		exporter := &fakeExporter{}
		settings := &fakeExportSettings{cfg: settingsstore.ExportConfig{Dir: "/out", Format: "yaml"}}
		auditor := &fakeExportAuditor{}

		require.NoError(t, ExportLibraryProcessor(exporter, settings, auditor)(ctx, ExportLibraryTask{}))
		assert.Equal(t, "yaml", exporter.format)
		assert.Equal(t, "/out", exporter.dir)
		assert.Equal(t, ExportStatusSuccess, settings.status)
		assert.Contains(t, settings.message, "Exported 2 books")
		assert.Equal(t, 2, auditor.books)
		assert.NoError(t, auditor.err)
	})

	t.Run("task arguments win", func(t *testing.T) {
		exporter := &fakeExporter{}
		settings := &fakeExportSettings{cfg: settingsstore.ExportConfig{Dir: "/out", Format: "yaml"}}

		require.NoError(t, ExportLibraryProcessor(exporter, settings, nil)(ctx, ExportLibraryTask{Format: "markdown", Dir: "/other"}))
		assert.Equal(t, "markdown", exporter.format)
		assert.Equal(t, "/other", exporter.dir)
	})

	t.Run("records failures", func(t *testing.T) {
		exporter := &fakeExporter{err: errors.New("disk full")}
		settings := &fakeExportSettings{cfg: settingsstore.ExportConfig{Dir: "/out"}}
		auditor := &fakeExportAuditor{}

		err := ExportLibraryProcessor(exporter, settings, auditor)(ctx, ExportLibraryTask{})
		require.Error(t, err)
		assert.Equal(t, ExportStatusFailed, settings.status)
		assert.Equal(t, "disk full", settings.message)
		assert.Error(t, auditor.err)
	})

	t.Run("requires a directory", func(t *testing.T) {
		exporter := &fakeExporter{}
		settings := &fakeExportSettings{}

		err := ExportLibraryProcessor(exporter, settings, nil)(ctx, ExportLibraryTask{})
		require.Error(t, err)
		assert.Empty(t, exporter.dir)
		assert.Equal(t, ExportStatusFailed, settings.status)
	})
}

func TestQueueConfigs(t *testing.T) {
	assert.Equal(t, QueueScanInbox, ScanInboxTask{}.Config().Name)
	assert.Equal(t, 1, ScanInboxTask{}.Config().MaxAttempts)
	assert.Equal(t, QueuePruneCovers, PruneCoversTask{}.Config().Name)
	assert.Equal(t, QueueExportLibrary, ExportLibraryTask{}.Config().Name)
	assert.Equal(t, QueueCleanupAudit, CleanupAuditEventsTask{}.Config().Name)
	assert.NotNil(t, ExportLibraryTask{}.Config().Retention)
}

func TestNewTask(t *testing.T) {
	for _, tt := range TaskTypes() {
		task, err := NewTask(tt.Type, 30)
		require.NoError(t, err, tt.Type)
		assert.Equal(t, tt.Type, task.Config().Name)
	}

	task, err := NewTask(QueueCleanupAudit, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, task.(CleanupAuditEventsTask).RetentionDays)

	_, err = NewTask("enrich", 0)
	assert.ErrorIs(t, err, ErrUnknownTaskType)
}
