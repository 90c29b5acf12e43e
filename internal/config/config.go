package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Library
		Covers
		Export
		Inbox
		Audit
		Tasks
		Session
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Library struct {
		PageSize      int
		SeedSamples   bool
		MaxUploadSize int64 // bytes
		ReadOnly      bool
		// Clients are locked out after this many rejected uploads
		MaxFailedUploads int
	}
	Covers struct {
		CacheDir     string
		FetchTimeout time.Duration
	}
	Export struct {
		Enabled  bool
		Dir      string
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
		Format   string // markdown, yaml or all
	}
	Inbox struct {
		Dir      string // empty disables inbox scanning
		Schedule string
	}
	Audit struct {
		Dir           string
		RetentionDays int
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Tasks struct {
		Enabled           bool
		DatabasePath      string
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Session struct {
		DatabasePath  string
		Lifetime      time.Duration
		SecureCookies bool
		CSRFSecret    string // empty disables CSRF protection
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	v.SetDefault("library_page_size", 2400)
	v.SetDefault("library_seed_samples", true)
	v.SetDefault("library_max_upload_size", 100<<20)
	v.SetDefault("library_read_only", false)
	v.SetDefault("library_max_failed_uploads", 10)

	v.SetDefault("covers_cache_dir", "./covers")
	v.SetDefault("covers_fetch_timeout", "15s")

	v.SetDefault("export_enabled", false)
	v.SetDefault("export_dir", "./export")
	v.SetDefault("export_schedule", "0 3 * * *")
	v.SetDefault("export_format", ExportFormatAll)

	v.SetDefault("inbox_dir", "")
	v.SetDefault("inbox_schedule", "*/10 * * * *")

	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("audit_retention_days", 30)

	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_database_path", DefaultTasksDatabasePath)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	v.SetDefault("session_database_path", DefaultSessionDatabasePath)
	v.SetDefault("session_lifetime", "720h")
	v.SetDefault("session_secure_cookies", false)
	v.SetDefault("csrf_secret", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Library: Library{
			PageSize:      v.GetInt("LIBRARY_PAGE_SIZE"),
			SeedSamples:   v.GetBool("LIBRARY_SEED_SAMPLES"),
			MaxUploadSize: v.GetInt64("LIBRARY_MAX_UPLOAD_SIZE"),
			ReadOnly:      v.GetBool("LIBRARY_READ_ONLY"),

			MaxFailedUploads: v.GetInt("LIBRARY_MAX_FAILED_UPLOADS"),
		},
		Covers: Covers{
			CacheDir:     v.GetString("COVERS_CACHE_DIR"),
			FetchTimeout: v.GetDuration("COVERS_FETCH_TIMEOUT"),
		},
		Export: Export{
			Enabled:  v.GetBool("EXPORT_ENABLED"),
			Dir:      v.GetString("EXPORT_DIR"),
			Schedule: v.GetString("EXPORT_SCHEDULE"),
			Format:   v.GetString("EXPORT_FORMAT"),
		},
		Inbox: Inbox{
			Dir:      v.GetString("INBOX_DIR"),
			Schedule: v.GetString("INBOX_SCHEDULE"),
		},
		Audit: Audit{
			Dir:           v.GetString("AUDIT_DIR"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			DatabasePath:      v.GetString("TASKS_DATABASE_PATH"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Session: Session{
			DatabasePath:  v.GetString("SESSION_DATABASE_PATH"),
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SESSION_SECURE_COOKIES"),
			CSRFSecret:    v.GetString("CSRF_SECRET"),
		},
	}
}
