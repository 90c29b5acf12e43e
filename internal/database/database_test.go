package database

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/library"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewQuietDatabase(filepath.Join(t.TempDir(), "reader.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDatabase_Migrates(t *testing.T) {
	db := setupTestDB(t)

	for _, model := range []any{&entities.Record{}, &entities.Setting{}, &entities.AuditEvent{}} {
		assert.True(t, db.DB.Migrator().HasTable(model))
	}
}

func TestDatabase_Records(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Load(library.KeyFolders)
	assert.True(t, errors.Is(err, library.ErrRecordNotFound))

	require.NoError(t, db.Save(library.KeyFolders, []byte(`[]`)))
	require.NoError(t, db.SaveAll(map[string][]byte{library.KeyBooks: []byte(`[]`)}))

	keys, err := db.Records().Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"books", "folders"}, keys)
}

func TestDatabase_Settings(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.SetSetting(entities.SettingKeyInboxDir, "/inbox"))
	s, err := db.GetSetting(entities.SettingKeyInboxDir)
	require.NoError(t, err)
	assert.Equal(t, "/inbox", s.Value)

	require.NoError(t, db.DeleteSetting(entities.SettingKeyInboxDir))
	_, err = db.GetSetting(entities.SettingKeyInboxDir)
	assert.Error(t, err)
}

func TestDatabase_BacksLibraryStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reader.db")

	db, err := NewQuietDatabase(path)
	require.NoError(t, err)
	store, err := library.Open(db, library.DefaultOptions())
	require.NoError(t, err)
	folder, err := store.AddFolder("Shelf")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewQuietDatabase(path)
	require.NoError(t, err)
	defer db.Close()
	reopened, err := library.Open(db, library.DefaultOptions())
	require.NoError(t, err)

	got, err := reopened.Folder(folder.ID)
	require.NoError(t, err)
	assert.Equal(t, folder, got)
}
