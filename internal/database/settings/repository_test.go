package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/reader/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "settings.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Setting{})
	require.NoError(t, err)

	return NewRepository(db)
}

func TestRepository_SetSetting(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.SetSetting(entities.SettingKeyExportDir, "/tmp/a"))
	require.NoError(t, repo.SetSetting(entities.SettingKeyExportDir, "/tmp/b"))

	setting, err := repo.GetSetting(entities.SettingKeyExportDir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/b", setting.Value)

	all, err := repo.ListSettings("")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_GetSetting_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetSetting("nonexistent")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_SetSettingsAndList(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.SetSettings(map[string]string{
		entities.SettingKeyExportEnabled:  "true",
		entities.SettingKeyExportSchedule: "0 3 * * *",
		entities.SettingKeyInboxDir:       "/inbox",
	})
	require.NoError(t, err)

	export, err := repo.ListSettings("export_")
	require.NoError(t, err)
	require.Len(t, export, 2)
	assert.Equal(t, entities.SettingKeyExportEnabled, export[0].Key)
	assert.Equal(t, entities.SettingKeyExportSchedule, export[1].Key)
}

func TestRepository_DeleteSetting(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.SetSetting("to-delete", "value"))
	require.NoError(t, repo.DeleteSetting("to-delete"))

	_, err := repo.GetSetting("to-delete")
	assert.Error(t, err)

	// Deleting a missing key is not an error.
	assert.NoError(t, repo.DeleteSetting("nonexistent"))
}
