package config

const (
	// DefaultDatabasePath is the default path for the application database.
	DefaultDatabasePath = "./reader.db"

	// DefaultTasksDatabasePath holds the background task queue.
	DefaultTasksDatabasePath = "./reader-tasks.db"

	// DefaultSessionDatabasePath holds browser sessions.
	DefaultSessionDatabasePath = "./reader-sessions.db"
)

// Export formats.
const (
	ExportFormatMarkdown = "markdown"
	ExportFormatYAML     = "yaml"
	ExportFormatAll      = "all"
)
