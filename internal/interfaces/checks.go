package interfaces

// Compile-time interface implementation checks.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/reader/internal/audit"
	"github.com/mrlokans/reader/internal/cli"
	"github.com/mrlokans/reader/internal/covers"
	"github.com/mrlokans/reader/internal/database"
	"github.com/mrlokans/reader/internal/exporters"
	"github.com/mrlokans/reader/internal/http"
	"github.com/mrlokans/reader/internal/library"
	"github.com/mrlokans/reader/internal/scheduler"
	"github.com/mrlokans/reader/internal/services"
	"github.com/mrlokans/reader/internal/session"
	"github.com/mrlokans/reader/internal/settingsstore"
	"github.com/mrlokans/reader/internal/tasks"
)

// =============================================================================
// Persistence
// =============================================================================

var _ library.Persister = (*database.Database)(nil)
var _ library.BatchPersister = (*database.Database)(nil)
var _ library.Persister = (*library.MemoryPersister)(nil)
var _ library.BatchPersister = (*library.MemoryPersister)(nil)

var _ settingsstore.SettingsRepository = (*database.Database)(nil)

// =============================================================================
// Library consumers
// =============================================================================

var _ http.LibraryStore = (*library.Store)(nil)
var _ http.BookGetter = (*library.Store)(nil)
var _ services.BookAdder = (*library.Store)(nil)
var _ exporters.LibrarySource = (*library.Store)(nil)
var _ tasks.BookLister = (*library.Store)(nil)

// =============================================================================
// Ingestion
// =============================================================================

var _ services.IngestAuditor = (*audit.Service)(nil)
var _ services.ReportSaver = (*audit.Auditor)(nil)
var _ cli.FileIngester = (*services.IngestService)(nil)
var _ tasks.InboxScanner = (*services.InboxScanner)(nil)

// =============================================================================
// Export
// =============================================================================

var _ exporters.BookExporter = (*exporters.MarkdownExporter)(nil)
var _ exporters.BookExporter = (*exporters.YAMLExporter)(nil)
var _ tasks.LibraryExporter = (*exporters.LibraryExporter)(nil)
var _ tasks.ExportSettings = (*settingsstore.SettingsStore)(nil)
var _ tasks.ExportAuditor = (*audit.Service)(nil)

// =============================================================================
// Background work
// =============================================================================

var _ tasks.Enqueuer = (*tasks.Client)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)
var _ http.Rescheduler = (*scheduler.Scheduler)(nil)
var _ scheduler.ConfigSource = (*settingsstore.SettingsStore)(nil)
var _ tasks.CoverPruner = (*covers.Cache)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ tasks.MaintenanceAuditor = (*audit.Service)(nil)

// =============================================================================
// Health
// =============================================================================

var _ http.LibraryStats = (*library.Store)(nil)
var _ http.Pinger = (*database.Database)(nil)
var _ http.Pinger = (*tasks.Client)(nil)
var _ http.Pinger = (*session.Manager)(nil)
