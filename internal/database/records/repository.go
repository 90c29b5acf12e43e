// Package records stores the library's JSON records in the application
// database, one row per key.
//
// # Usage
//
//	repo := records.NewRepository(db)
//	store, err := library.Open(repo, library.DefaultOptions())
package records

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/library"
)

var _ library.BatchPersister = (*Repository)(nil)

// Repository handles library record persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new records repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Load returns the stored value for key, or library.ErrRecordNotFound.
func (r *Repository) Load(key string) ([]byte, error) {
	var rec entities.Record
	err := r.db.Where("key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, library.ErrRecordNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load record %s", key)
	}
	return []byte(rec.Value), nil
}

// Save creates or replaces the record under key.
func (r *Repository) Save(key string, data []byte) error {
	return upsert(r.db, key, data)
}

// SaveAll writes every record in a single transaction.
func (r *Repository) SaveAll(records map[string][]byte) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for key, data := range records {
			if err := upsert(tx, key, data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Keys lists the stored record keys.
func (r *Repository) Keys() ([]string, error) {
	var keys []string
	err := r.db.Model(&entities.Record{}).Order("key").Pluck("key", &keys).Error
	return keys, err
}

func upsert(db *gorm.DB, key string, data []byte) error {
	rec := entities.Record{Key: key, Value: string(data), UpdatedAt: time.Now().UTC()}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	return errors.Wrapf(err, "save record %s", key)
}
