package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/readonly"
	"github.com/mrlokans/reader/internal/session"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(session.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(session.StrictTransportSecurityMiddleware())
	}

	// CSRF replaces the request, so it runs before the session is loaded
	if len(cfg.CSRFSecret) > 0 {
		router.Use(session.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.LoadSave())
	}

	readOnly := readonly.NewMiddleware(cfg.ReadOnly)
	router.Use(readOnly.InjectContext(), readOnly.Handler())
	if cfg.MaxUploadSize > 0 {
		router.MaxMultipartMemory = cfg.MaxUploadSize
	}

	health := NewHealthController(libraryStats(cfg.Library), healthChecks(cfg), cfg.ReadOnly, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	books := NewBooksController(cfg.Library, cfg.Audit, cfg.Covers)
	api.GET("/books", books.List)
	api.GET("/books/recent", books.Recent)
	api.POST("/books/delete", books.BulkDelete)
	api.POST("/books/reset-progress", books.ResetProgress)
	api.GET("/books/:id", books.Get)
	api.PATCH("/books/:id", books.Update)
	api.DELETE("/books/:id", books.Delete)

	if cfg.Ingest != nil {
		upload := NewUploadController(cfg.Ingest, cfg.MaxUploadSize)
		if cfg.UploadLimiter != nil {
			api.POST("/books/upload", cfg.UploadLimiter.Middleware(), upload.Upload)
		} else {
			api.POST("/books/upload", upload.Upload)
		}
	}

	if cfg.Covers != nil {
		coversController := NewCoversController(cfg.Covers, cfg.Library)
		api.GET("/books/:id/cover", coversController.GetCover)
	}

	reading := NewReadingController(cfg.Library, cfg.Sessions)
	api.GET("/books/:id/pages/:page", reading.Page)
	api.POST("/books/:id/progress", reading.Progress)
	api.POST("/books/:id/bookmarks/toggle", reading.ToggleBookmark)
	api.POST("/books/:id/highlights", reading.AddHighlight)
	api.DELETE("/books/:id/highlights/:hid", reading.RemoveHighlight)

	folders := NewFoldersController(cfg.Library, cfg.Audit)
	api.GET("/folders", folders.List)
	api.POST("/folders", folders.Create)
	api.PATCH("/folders/:id", folders.Update)
	api.DELETE("/folders/:id", folders.Delete)
	api.POST("/folders/:id/books", folders.AddBooks)
	api.DELETE("/folders/:id/books", folders.RemoveBooks)

	settings := NewSettingsController(cfg.Library, cfg.Settings, cfg.Scheduler, cfg.Audit)
	api.GET("/settings", settings.Get)
	api.PATCH("/settings", settings.Update)
	api.POST("/settings/theme", settings.SetTheme)
	if cfg.Settings != nil {
		api.GET("/settings/export", settings.GetExport)
		api.PUT("/settings/export", settings.UpdateExport)
	}

	if cfg.Sessions != nil {
		view := NewViewController(cfg.Sessions)
		api.GET("/session/view", view.Get)
		api.PUT("/session/view", view.Update)
	}

	if cfg.Tasks != nil {
		tasksController := NewTasksController(cfg.Tasks, cfg.AuditRetentionDays)
		api.GET("/tasks/types", tasksController.ListTaskTypes)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
		api.POST("/tasks/:type/run", tasksController.RunTask)
	}

	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		api.GET("/audit", auditController.List)
	}

	return router
}

func libraryStats(store LibraryStore) LibraryStats {
	if store == nil {
		return nil
	}
	return store
}

// healthChecks lists the configured stores that can be pinged.
func healthChecks(cfg RouterConfig) []NamedCheck {
	var checks []NamedCheck
	if cfg.Database != nil {
		checks = append(checks, NamedCheck{Name: "database", Pinger: cfg.Database})
	}
	if p, ok := cfg.Tasks.(Pinger); ok {
		checks = append(checks, NamedCheck{Name: "tasks", Pinger: p})
	}
	if cfg.Sessions != nil {
		checks = append(checks, NamedCheck{Name: "sessions", Pinger: cfg.Sessions})
	}
	return checks
}
