// Package session keeps per-browser UI state (view mode, selected folder,
// last opened book) in server-side sessions and provides the HTTP
// middleware that goes with them.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/mrlokans/reader/internal/config"
)

// Session data keys
const (
	KeyViewMode       = "view_mode"
	KeySelectedFolder = "selected_folder"
	KeyLastBook       = "last_book"
)

// View modes of the library page.
const (
	ViewGrid = "grid"
	ViewList = "list"
)

var ErrInvalidViewMode = errors.New("view mode must be grid or list")

const schema = `CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`

// OpenDatabase opens the SQLite database holding session data.
func OpenDatabase(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create session database directory")
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "open session database")
	}
	return db, nil
}

// Manager wraps scs.SessionManager with the reader's view state accessors.
type Manager struct {
	*scs.SessionManager
	db *sql.DB
}

// NewManager creates the sessions table if needed and configures cookies.
func NewManager(db *sql.DB, cfg config.Session) (*Manager, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "create sessions table")
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = cfg.Lifetime
	if sm.Lifetime <= 0 {
		sm.Lifetime = 30 * 24 * time.Hour
	}

	sm.Cookie.Name = "reader_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Persist = true

	return &Manager{SessionManager: sm, db: db}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

// Ping checks the session store database.
func (m *Manager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

// ViewState is the per-browser UI state.
type ViewState struct {
	ViewMode       string `json:"viewMode"`
	SelectedFolder string `json:"selectedFolder"`
	LastBook       string `json:"lastBook"`
}

// ViewStatePatch is a partial update; nil fields are left alone and empty
// strings clear a value.
type ViewStatePatch struct {
	ViewMode       *string `json:"viewMode"`
	SelectedFolder *string `json:"selectedFolder"`
	LastBook       *string `json:"lastBook"`
}

// View returns the view state of the session in ctx. Grid is the default
// view mode.
func (m *Manager) View(ctx context.Context) ViewState {
	mode := m.GetString(ctx, KeyViewMode)
	if mode == "" {
		mode = ViewGrid
	}
	return ViewState{
		ViewMode:       mode,
		SelectedFolder: m.GetString(ctx, KeySelectedFolder),
		LastBook:       m.GetString(ctx, KeyLastBook),
	}
}

// UpdateView applies patch to the session in ctx.
func (m *Manager) UpdateView(ctx context.Context, patch ViewStatePatch) (ViewState, error) {
	if patch.ViewMode != nil {
		switch *patch.ViewMode {
		case ViewGrid, ViewList:
			m.Put(ctx, KeyViewMode, *patch.ViewMode)
		default:
			return m.View(ctx), ErrInvalidViewMode
		}
	}
	m.putOrRemove(ctx, KeySelectedFolder, patch.SelectedFolder)
	m.putOrRemove(ctx, KeyLastBook, patch.LastBook)
	return m.View(ctx), nil
}

// SetLastBook records the book most recently opened in this session.
func (m *Manager) SetLastBook(ctx context.Context, bookID string) {
	m.Put(ctx, KeyLastBook, bookID)
}

func (m *Manager) putOrRemove(ctx context.Context, key string, v *string) {
	switch {
	case v == nil:
	case *v == "":
		m.Remove(ctx, key)
	default:
		m.Put(ctx, key, *v)
	}
}
