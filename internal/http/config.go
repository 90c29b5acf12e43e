package http

import (
	"github.com/mrlokans/reader/internal/audit"
	"github.com/mrlokans/reader/internal/covers"
	"github.com/mrlokans/reader/internal/database"
	"github.com/mrlokans/reader/internal/services"
	"github.com/mrlokans/reader/internal/session"
	"github.com/mrlokans/reader/internal/settingsstore"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
// Optional dependencies that are nil disable their routes.
type RouterConfig struct {
	// Core dependencies
	Library  LibraryStore
	Ingest   *services.IngestService
	Database *database.Database
	Audit    *audit.Service

	// Optional
	Covers    *covers.Cache
	Settings  *settingsstore.SettingsStore
	Scheduler Rescheduler
	Tasks     TaskQueue
	Sessions  *session.Manager

	// Request protection
	CSRFSecret    []byte
	SecureCookies bool
	MaxUploadSize int64
	UploadLimiter *session.UploadLimiter
	ReadOnly      bool // blocks every request that changes the library

	AuditRetentionDays int
	Version            string
}
