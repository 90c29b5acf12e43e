package database

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/reader/internal/database/audit"
	"github.com/mrlokans/reader/internal/database/records"
	"github.com/mrlokans/reader/internal/database/settings"
	"github.com/mrlokans/reader/internal/entities"
)

type Database struct {
	DB *gorm.DB

	records  *records.Repository
	settings *settings.Repository
	audit    *audit.Repository
}

// NewDatabase opens (or creates) the sqlite database at dbPath and migrates it.
func NewDatabase(dbPath string) (*Database, error) {
	return open(dbPath, logger.Info)
}

// NewQuietDatabase is NewDatabase without SQL logging.
func NewQuietDatabase(dbPath string) (*Database, error) {
	return open(dbPath, logger.Silent)
}

func open(dbPath string, level logger.LogLevel) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	err = db.AutoMigrate(
		&entities.Record{},
		&entities.Setting{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{
		DB:       db,
		records:  records.NewRepository(db),
		settings: settings.NewRepository(db),
		audit:    audit.NewRepository(db),
	}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database connection is usable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Records returns the repository that persists library state.
func (d *Database) Records() *records.Repository { return d.records }

// Audit returns the audit event repository.
func (d *Database) Audit() *audit.Repository { return d.audit }

// Settings returns the settings repository.
func (d *Database) Settings() *settings.Repository { return d.settings }

// Load, Save and SaveAll let the Database itself back a library.Store.

func (d *Database) Load(key string) ([]byte, error) {
	return d.records.Load(key)
}

func (d *Database) Save(key string, data []byte) error {
	return d.records.Save(key, data)
}

func (d *Database) SaveAll(values map[string][]byte) error {
	return d.records.SaveAll(values)
}

// GetSetting, SetSetting and DeleteSetting satisfy settingsstore.SettingsRepository.

func (d *Database) GetSetting(key string) (*entities.Setting, error) {
	return d.settings.GetSetting(key)
}

func (d *Database) SetSetting(key, value string) error {
	return d.settings.SetSetting(key, value)
}

func (d *Database) DeleteSetting(key string) error {
	return d.settings.DeleteSetting(key)
}
