// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Persistence
//
//   - Persister / BatchPersister: keyed record storage behind the library
//     store (internal/library/persister.go). Implemented by the SQLite
//     database and by an in-memory persister used in tests.
//   - SettingsRepository: key/value runtime settings (internal/settingsstore)
//
// ## Library Access
//
//   - LibraryStore and its parts BookStore, ReadingStore, FolderStore and
//     ReaderSettingsStore (internal/http/stores.go)
//   - BookAdder: the only dependency of ingestion (internal/services/interfaces.go)
//   - LibrarySource: read-only snapshot for exporters (internal/exporters/generic.go)
//
// ## Background Work
//
//   - Enqueuer / TaskQueue: add tasks to the backlite queue (internal/tasks, internal/http/tasks.go)
//   - InboxScanner, CoverPruner, LibraryExporter, AuditEventCleaner: the work
//     behind each task queue (internal/tasks)
//   - MaintenanceAuditor: audit trail of housekeeping runs (internal/tasks)
//   - ConfigSource: schedules read by the cron scheduler (internal/scheduler)
//   - Rescheduler: lets settings handlers reload schedules (internal/http/settings.go)
//
// ## Health
//
//   - Pinger: backing stores checked by /health (app, task queue and session databases)
//   - LibraryStats: library summary in the health report (internal/http/health.go)
//
// # Adding a New Export Format
//
//  1. Implement BookExporter in internal/exporters/
//
//     type OPMLExporter struct {
//         Dir string
//     }
//
//     func (e *OPMLExporter) Export(books []entities.Book, folders []entities.Folder) (ExportResult, error)
//
//     var _ BookExporter = (*OPMLExporter)(nil)
//
//  2. Add the format name to config/constants.go and to Exporters in
//     internal/exporters/library.go
//
//  3. Accept it in settingsstore.ValidateExportFormat
//
// # Adding a New Background Task
//
//  1. Define the task and its processor in internal/tasks/
//
//     type ReindexTask struct{}
//
//     func (t ReindexTask) Config() backlite.QueueConfig
//     func ReindexProcessor(...) backlite.QueueProcessor[ReindexTask]
//
//  2. Add it to TaskTypes and NewTask in internal/tasks/registry.go
//
//  3. Register the queue in entrypoint.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
