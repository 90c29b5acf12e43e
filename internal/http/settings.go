package http

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/mrlokans/reader/internal/audit"
	"github.com/mrlokans/reader/internal/library"
	"github.com/mrlokans/reader/internal/settingsstore"
)

// Rescheduler reloads cron schedules after export or inbox settings change.
type Rescheduler interface {
	Reschedule(ctx context.Context) error
}

type SettingsController struct {
	store     ReaderSettingsStore
	settings  *settingsstore.SettingsStore
	scheduler Rescheduler
	audit     *audit.Service
}

func NewSettingsController(store ReaderSettingsStore, settings *settingsstore.SettingsStore, scheduler Rescheduler, auditService *audit.Service) *SettingsController {
	return &SettingsController{
		store:     store,
		settings:  settings,
		scheduler: scheduler,
		audit:     auditService,
	}
}

// Get returns the reader settings.
// GET /api/settings
func (sc *SettingsController) Get(c *gin.Context) {
	c.JSON(http.StatusOK, sc.store.Settings())
}

// Update applies a partial update to the reader settings.
// PATCH /api/settings
func (sc *SettingsController) Update(c *gin.Context) {
	var patch library.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	settings, err := sc.store.UpdateSettings(patch)
	if err != nil {
		respondLibraryError(c, err, "update settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

type ThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// SetTheme switches theme and its colors together.
// POST /api/settings/theme
func (sc *SettingsController) SetTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "theme is required")
		return
	}

	settings, err := sc.store.SetTheme(req.Theme)
	if err != nil {
		respondLibraryError(c, err, "set theme")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// GetExport returns the effective export configuration, where each value
// comes from, and the last run status.
// GET /api/settings/export
func (sc *SettingsController) GetExport(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"config": sc.settings.GetExportConfigInfo(),
		"status": sc.settings.GetExportStatus(),
	})
}

// UpdateExport stores export settings and reloads the schedules.
// PUT /api/settings/export
func (sc *SettingsController) UpdateExport(c *gin.Context) {
	var update settingsstore.ExportConfigUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if err := sc.settings.UpdateExportConfig(update); err != nil {
		if errors.Is(err, settingsstore.ErrInvalidExportFormat) ||
			errors.Is(err, settingsstore.ErrInvalidSchedule) ||
			errors.Is(err, settingsstore.ErrEmptyExportDir) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "update export settings")
		return
	}

	if sc.scheduler != nil {
		if err := sc.scheduler.Reschedule(context.Background()); err != nil {
			log.Printf("Failed to reschedule after export settings change: %v", err)
		}
	}
	if sc.audit != nil {
		sc.audit.LogSettings("export_settings_update", "Updated export settings")
	}

	c.JSON(http.StatusOK, gin.H{
		"config": sc.settings.GetExportConfigInfo(),
		"status": sc.settings.GetExportStatus(),
	})
}
