// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go   # Connection setup and migrations
//	├── records/      # Library records (books, folders, reader settings)
//	├── settings/     # Runtime-overridable application settings
//	└── audit/        # Audit trail
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./reader.db")
//	store, err := library.Open(db.Records(), library.DefaultOptions())
//	events, total, err := db.Audit().GetEvents(50, 0)
//
// Each repository carries a compile-time check for the interface it
// serves, for example:
//
//	var _ library.BatchPersister = (*Repository)(nil)
package database
