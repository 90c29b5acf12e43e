// Package settings stores runtime-overridable application settings such as
// the export schedule and inbox directory.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	setting, err := repo.GetSetting(entities.SettingKeyExportDir)
package settings

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/reader/internal/entities"
)

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting retrieves a setting by key. A missing key returns gorm.ErrRecordNotFound.
func (r *Repository) GetSetting(key string) (*entities.Setting, error) {
	var setting entities.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// SetSetting creates or updates a setting.
func (r *Repository) SetSetting(key, value string) error {
	return upsertSetting(r.db, key, value)
}

// SetSettings writes several settings in one transaction.
func (r *Repository) SetSettings(values map[string]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			if err := upsertSetting(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListSettings returns the settings whose key starts with prefix, ordered by key.
func (r *Repository) ListSettings(prefix string) ([]entities.Setting, error) {
	var out []entities.Setting
	query := r.db.Order("key")
	if prefix != "" {
		escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(prefix)
		query = query.Where(`key LIKE ? ESCAPE '\'`, escaped+"%")
	}
	err := query.Find(&out).Error
	return out, err
}

// DeleteSetting removes a setting by key.
func (r *Repository) DeleteSetting(key string) error {
	return r.db.Where("key = ?", key).Delete(&entities.Setting{}).Error
}

func upsertSetting(db *gorm.DB, key, value string) error {
	setting := entities.Setting{Key: key, Value: value}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}
