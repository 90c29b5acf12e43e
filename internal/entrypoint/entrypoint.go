package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/mrlokans/reader/internal/audit"
	"github.com/mrlokans/reader/internal/config"
	"github.com/mrlokans/reader/internal/covers"
	"github.com/mrlokans/reader/internal/database"
	"github.com/mrlokans/reader/internal/exporters"
	http_controllers "github.com/mrlokans/reader/internal/http"
	"github.com/mrlokans/reader/internal/library"
	"github.com/mrlokans/reader/internal/scheduler"
	"github.com/mrlokans/reader/internal/services"
	"github.com/mrlokans/reader/internal/session"
	"github.com/mrlokans/reader/internal/settingsstore"
	"github.com/mrlokans/reader/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// LibraryOptions maps the library section of the configuration onto store options.
func LibraryOptions(cfg *config.Config) library.Options {
	opts := library.DefaultOptions()
	if cfg.Library.PageSize > 0 {
		opts.PageSize = cfg.Library.PageSize
	}
	opts.SeedSamples = cfg.Library.SeedSamples
	return opts
}

// OpenLibrary opens the application database and the library stored in it.
// The caller closes the returned database.
func OpenLibrary(cfg *config.Config, quiet bool) (*database.Database, *library.Store, error) {
	open := database.NewDatabase
	if quiet {
		open = database.NewQuietDatabase
	}
	db, err := open(cfg.Database.Path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to initialize database")
	}

	store, err := library.Open(db, LibraryOptions(cfg))
	if err != nil {
		db.Close()
		return nil, nil, errors.Wrap(err, "failed to open library")
	}
	return db, store, nil
}

// CSRFSecret decodes the configured secret. Hex is accepted; anything else
// is used as raw bytes. An empty value disables CSRF protection.
func CSRFSecret(value string) []byte {
	if value == "" {
		return nil
	}
	if secret, err := hex.DecodeString(value); err == nil {
		return secret
	}
	return []byte(value)
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// SIGKILL cannot be caught, so only SIGINT and SIGTERM are handled
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Reader v%s", version)

	db, store, err := OpenLibrary(cfg, false)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	auditService := audit.NewService(db.Audit())
	defer auditService.Flush()

	// Ingestion reports go to the audit directory as JSON files
	auditor := audit.NewAuditor(cfg.Audit.Dir)

	ingest := services.NewIngestService(store).
		WithAudit(auditService).
		WithReports(auditor)
	inbox := services.NewInboxScanner(ingest)

	coverCache, err := covers.NewCache(cfg.Covers.CacheDir, cfg.Covers.FetchTimeout)
	if err != nil {
		log.Printf("WARNING: Failed to initialize cover cache: %v", err)
	} else {
		log.Printf("Cover cache initialized at %s", coverCache.CacheDir())
	}

	settings := settingsstore.New(db)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Tasks.DatabasePath, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		var pruner tasks.CoverPruner
		if coverCache != nil {
			pruner = coverCache
		}
		taskClient.Register(
			tasks.NewScanInboxQueue(inbox, func() string { return settings.GetInboxConfig().Dir }),
			tasks.NewPruneCoversQueue(store, pruner, auditService),
			tasks.NewExportLibraryQueue(exporters.NewLibraryExporter(store), settings, auditService),
			tasks.NewCleanupAuditEventsQueue(auditService, auditService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// The scheduler only enqueues, so it needs the task queue
	var sched *scheduler.Scheduler
	var schedCancel context.CancelFunc
	if taskClient != nil {
		sched = scheduler.New(settings, taskClient)
		var schedCtx context.Context
		schedCtx, schedCancel = context.WithCancel(context.Background())
		if err := sched.Start(schedCtx); err != nil {
			log.Printf("WARNING: Failed to start scheduler: %v", err)
		}
	}

	sessionDB, err := session.OpenDatabase(cfg.Session.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open session database: %v", err)
	}
	sessions, err := session.NewManager(sessionDB, cfg.Session)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			log.Printf("Error closing session database: %v", err)
		}
	}()

	uploadLimiter := session.NewUploadLimiter(session.UploadLimitConfig{
		MaxFailures: cfg.Library.MaxFailedUploads,
	})
	defer uploadLimiter.Stop()

	if cfg.Library.ReadOnly {
		log.Printf("Read-only mode enabled - library changes are blocked")
	}

	csrfSecret := CSRFSecret(cfg.Session.CSRFSecret)
	if csrfSecret == nil {
		log.Printf("CSRF protection disabled (set CSRF_SECRET to enable)")
	}

	routerCfg := http_controllers.RouterConfig{
		Library:            store,
		Ingest:             ingest,
		Database:           db,
		Audit:              auditService,
		Covers:             coverCache,
		Settings:           settings,
		Sessions:           sessions,
		CSRFSecret:         csrfSecret,
		SecureCookies:      cfg.Session.SecureCookies,
		MaxUploadSize:      cfg.Library.MaxUploadSize,
		UploadLimiter:      uploadLimiter,
		ReadOnly:           cfg.Library.ReadOnly,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		Version:            version,
	}
	// Typed nils must not reach the interface fields
	if sched != nil {
		routerCfg.Scheduler = sched
	}
	if taskClient != nil {
		routerCfg.Tasks = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if sched != nil {
			schedCancel()
			sched.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
