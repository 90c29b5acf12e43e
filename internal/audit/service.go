package audit

import (
	"encoding/json"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mrlokans/reader/internal/database/audit"
	"github.com/mrlokans/reader/internal/entities"
)

const maxErrorLen = 500

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Flush waits for background writes started by LogAsync.
func (s *Service) Flush() {
	s.pending.Wait()
}

// LogIngest records the outcome of ingesting one file.
func (s *Service) LogIngest(fileName, bookID string, skipped int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventIngest,
		Action:      "epub_ingest",
		Description: "Ingested " + fileName,
		EntityType:  "book",
		EntityID:    bookID,
		Metadata:    metadata(map[string]any{"file": fileName, "skipped_documents": skipped}),
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Description = "Failed to ingest " + fileName
	}
	fail(event, err)
	s.LogAsync(event)
}

// LogExport records an export run.
func (s *Service) LogExport(format, description string, books int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventExport,
		Action:      format + "_export",
		Description: description,
		Metadata:    metadata(map[string]any{"books_count": books}),
		Status:      entities.AuditStatusSuccess,
	}
	fail(event, err)
	s.LogAsync(event)
}

// LogDelete records a deletion event.
func (s *Service) LogDelete(entityType, entityID, entityName string) {
	s.LogAsync(&entities.AuditEvent{
		EventType:   entities.AuditEventDelete,
		Action:      entityType + "_delete",
		Description: "Deleted " + entityType + ": " + entityName,
		EntityType:  entityType,
		EntityID:    entityID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogSettings records a settings change event.
func (s *Service) LogSettings(action, description string) {
	s.LogAsync(&entities.AuditEvent{
		EventType:   entities.AuditEventSettings,
		Action:      action,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogMaintenance records a background housekeeping run.
func (s *Service) LogMaintenance(action, description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventMaintenance,
		Action:      action,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}
	fail(event, err)
	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(eventType, limit, offset)
}

// GetEventsForEntity returns the history of one book or folder.
func (s *Service) GetEventsForEntity(entityType, entityID string) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsForEntity(entityType, entityID)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func fail(event *entities.AuditEvent, err error) {
	if err == nil {
		return
	}
	event.Status = entities.AuditStatusFailed
	event.ErrorMsg = truncate(err.Error(), maxErrorLen)
}

func metadata(fields map[string]any) string {
	data, err := json.Marshal(fields)
	if err != nil {
		return ""
	}
	return string(data)
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
