package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/epub/epubtest"
	"github.com/mrlokans/reader/internal/library"
	"github.com/mrlokans/reader/internal/services"
	"github.com/mrlokans/reader/internal/tasks"
)

type fakeQueue struct {
	enqueued []backlite.Task
}

func (q *fakeQueue) Enqueue(_ context.Context, task backlite.Task) (string, error) {
	q.enqueued = append(q.enqueued, task)
	return "task-1", nil
}

func (q *fakeQueue) Ping(context.Context) error {
	return nil
}

func (q *fakeQueue) Status(_ context.Context, _ string) (backlite.TaskStatus, error) {
	return backlite.TaskStatusSuccess, nil
}

type testServer struct {
	router *gin.Engine
	store  *library.Store
	queue  *fakeQueue
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	opts := library.DefaultOptions()
	opts.Now = func() time.Time { return time.Date(2024, time.May, 14, 12, 0, 0, 0, time.UTC) }
	store, err := library.Open(library.NewMemoryPersister(), opts)
	require.NoError(t, err)

	queue := &fakeQueue{}
	router := NewRouter(RouterConfig{
		Library:            store,
		Ingest:             services.NewIngestService(store),
		Tasks:              queue,
		AuditRetentionDays: 30,
		Version:            "test",
	})
	return &testServer{router: router, store: store, queue: queue}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) upload(t *testing.T, fileName string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/books/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type bookList struct {
	Books []entities.BookSummary `json:"books"`
	Count int                    `json:"count"`
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "GET", "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")

	w = s.do(t, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[HealthResponse](t, w)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "ok", health.Checks["tasks"])
	assert.NotContains(t, health.Checks, "database")
	require.NotNil(t, health.Library)
	assert.Equal(t, 4, health.Library.Books)
	assert.Equal(t, 2, health.Library.Folders)
	assert.Equal(t, library.DefaultOptions().PageSize, health.Library.PageSize)
	assert.False(t, health.Library.ReadOnly)
}

func TestBooks_ListAndSearch(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "GET", "/api/books", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[bookList](t, w)
	assert.Equal(t, 4, all.Count)

	w = s.do(t, "GET", "/api/books?q=orwell", nil)
	found := decode[bookList](t, w)
	require.Equal(t, 1, found.Count)
	assert.Equal(t, "1984", found.Books[0].Title)

	w = s.do(t, "GET", "/api/books?folder=1", nil)
	classics := decode[bookList](t, w)
	assert.Equal(t, 3, classics.Count)

	w = s.do(t, "GET", "/api/books?folder=1&q=austen", nil)
	both := decode[bookList](t, w)
	require.Equal(t, 1, both.Count)
	assert.Equal(t, "4", both.Books[0].ID)

	w = s.do(t, "GET", "/api/books?folder=missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooks_GetUpdateDelete(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "GET", "/api/books/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	book := decode[entities.Book](t, w)
	assert.Equal(t, "The Great Gatsby", book.Title)
	assert.NotEmpty(t, book.Content)

	w = s.do(t, "GET", "/api/books/404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), CodeNotFound)

	w = s.do(t, "PATCH", "/api/books/1", gin.H{"title": "Gatsby", "tags": []string{"Jazz"}})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[entities.Book](t, w)
	assert.Equal(t, "Gatsby", updated.Title)
	assert.Equal(t, []string{"Jazz"}, updated.Tags)

	w = s.do(t, "PATCH", "/api/books/1", gin.H{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, "DELETE", "/api/books/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, "DELETE", "/api/books/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	folder, err := s.store.Folder("1")
	require.NoError(t, err)
	assert.NotContains(t, folder.BookIDs, "1")
}

func TestBooks_BulkOperations(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "POST", "/api/books/reset-progress", gin.H{"ids": []string{"2", "3"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reset":2}`, w.Body.String())

	book, err := s.store.GetBook("2")
	require.NoError(t, err)
	assert.Equal(t, 0, book.CurrentPage)
	assert.Zero(t, book.Progress)

	w = s.do(t, "POST", "/api/books/delete", gin.H{"ids": []string{"2", "3", "nope"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":2}`, w.Body.String())
	assert.Len(t, s.store.Books(), 2)

	w = s.do(t, "POST", "/api/books/delete", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooks_Recent(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "GET", "/api/books/recent?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		RecentlyAdded []entities.BookSummary `json:"recentlyAdded"`
		RecentlyRead  []entities.BookSummary `json:"recentlyRead"`
	}](t, w)
	require.Len(t, resp.RecentlyAdded, 2)
	assert.Equal(t, "2", resp.RecentlyAdded[0].ID)
	require.Len(t, resp.RecentlyRead, 2)
	assert.Equal(t, "2", resp.RecentlyRead[0].ID)
	assert.Equal(t, "1", resp.RecentlyRead[1].ID)
}

func TestReading_Progress(t *testing.T) {
	s := newTestServer(t)

	book, err := s.store.AddBook(library.BookInput{
		Title:   "Long Read",
		Content: strings.Repeat("a", s.store.PageSize()*3),
	})
	require.NoError(t, err)
	require.Equal(t, 3, book.TotalPages)
	base := "/api/books/" + book.ID

	type progress struct {
		CurrentPage int     `json:"currentPage"`
		TotalPages  int     `json:"totalPages"`
		Progress    float64 `json:"progress"`
	}

	w := s.do(t, "POST", base+"/progress", gin.H{"action": "next"})
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[progress](t, w)
	assert.Equal(t, 1, p.CurrentPage)
	assert.InDelta(t, 1.0/3.0, p.Progress, 1e-9)

	w = s.do(t, "POST", base+"/progress", gin.H{"page": 99})
	p = decode[progress](t, w)
	assert.Equal(t, 3, p.CurrentPage)
	assert.Equal(t, 1.0, p.Progress)

	w = s.do(t, "POST", base+"/progress", gin.H{"action": "previous"})
	p = decode[progress](t, w)
	assert.Equal(t, 2, p.CurrentPage)

	w = s.do(t, "POST", base+"/progress", gin.H{"action": "sideways"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, "POST", "/api/books/missing/progress", gin.H{"action": "next"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReading_Pages(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "GET", "/api/books/3/pages/5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[library.Page](t, w)
	assert.Equal(t, 1, page.Number)
	assert.Contains(t, page.Text, "clocks were striking thirteen")

	w = s.do(t, "GET", "/api/books/3/pages/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReading_BookmarksAndHighlights(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "POST", "/api/books/2/bookmarks/toggle", gin.H{"page": 1, "note": "start"})
	require.Equal(t, http.StatusOK, w.Code)
	toggled := decode[struct {
		Bookmarked bool                `json:"bookmarked"`
		Bookmarks  []entities.Bookmark `json:"bookmarks"`
	}](t, w)
	assert.True(t, toggled.Bookmarked)
	require.Len(t, toggled.Bookmarks, 1)
	assert.Equal(t, "start", toggled.Bookmarks[0].Note)

	w = s.do(t, "POST", "/api/books/2/bookmarks/toggle", gin.H{"page": 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bookmarked":false`)
	book, err := s.store.GetBook("2")
	require.NoError(t, err)
	assert.Empty(t, book.Bookmarks)

	w = s.do(t, "POST", "/api/books/2/bookmarks/toggle", gin.H{"page": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, "POST", "/api/books/2/highlights", gin.H{"text": "my brother Jem", "color": "yellow", "page": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	h := decode[entities.Highlight](t, w)
	assert.NotEmpty(t, h.ID)
	assert.Equal(t, "my brother Jem", h.Text)

	w = s.do(t, "POST", "/api/books/2/highlights", gin.H{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, "DELETE", "/api/books/2/highlights/"+h.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, "DELETE", "/api/books/2/highlights/"+h.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFolders_CRUD(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "GET", "/api/folders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[struct {
		Folders []FolderResponse `json:"folders"`
		Count   int              `json:"count"`
	}](t, w)
	require.Equal(t, 2, listed.Count)
	assert.Equal(t, 3, listed.Folders[0].BookCount)

	w = s.do(t, "POST", "/api/folders", gin.H{"name": "Favourites"})
	require.Equal(t, http.StatusCreated, w.Code)
	folder := decode[entities.Folder](t, w)
	assert.Equal(t, "Favourites", folder.Name)
	assert.Empty(t, folder.BookIDs)

	w = s.do(t, "POST", "/api/folders", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	base := "/api/folders/" + folder.ID
	w = s.do(t, "POST", base+"/books", gin.H{"ids": []string{"3", "3", "1"}})
	require.Equal(t, http.StatusOK, w.Code)
	folder = decode[entities.Folder](t, w)
	assert.ElementsMatch(t, []string{"3", "1"}, folder.BookIDs)

	w = s.do(t, "POST", base+"/books", gin.H{"ids": []string{"404"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, "DELETE", base+"/books", gin.H{"ids": []string{"3"}})
	require.Equal(t, http.StatusOK, w.Code)
	folder = decode[entities.Folder](t, w)
	assert.Equal(t, []string{"1"}, folder.BookIDs)

	w = s.do(t, "PATCH", base, gin.H{"name": "Loved"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Loved")

	w = s.do(t, "DELETE", base, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, "DELETE", base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, err := s.store.GetBook("1")
	assert.NoError(t, err)
}

func TestSettings_Theme(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "POST", "/api/settings/theme", gin.H{"theme": entities.ThemeSepia})
	require.Equal(t, http.StatusOK, w.Code)
	settings := decode[entities.ReaderSettings](t, w)
	assert.Equal(t, entities.ThemeSepia, settings.Theme)
	assert.Equal(t, entities.Themes[entities.ThemeSepia].Background, settings.BackgroundColor)

	w = s.do(t, "POST", "/api/settings/theme", gin.H{"theme": "neon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, "GET", "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entities.ThemeSepia, decode[entities.ReaderSettings](t, w).Theme)

	// export settings are only routed when a settings store is configured
	w = s.do(t, "GET", "/api/settings/export", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTasks_Endpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "GET", "/api/tasks/types", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), tasks.QueueScanInbox)

	w = s.do(t, "POST", "/api/tasks/"+tasks.QueuePruneCovers+"/run", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "task-1")
	require.Len(t, s.queue.enqueued, 1)

	w = s.do(t, "POST", "/api/tasks/bogus/run", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, "GET", "/api/tasks/task-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "task-1")
}

func TestUpload(t *testing.T) {
	s := newTestServer(t)

	t.Run("accepts an epub", func(t *testing.T) {
		w := s.upload(t, "walden.epub", epubtest.Book("Walden", "Henry David Thoreau", "I went to the woods."))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := decode[UploadResponse](t, w)
		assert.Equal(t, "Walden", resp.Title)
		assert.Equal(t, "Henry David Thoreau", resp.Author)
		assert.Equal(t, 1, resp.TotalPages)

		book, err := s.store.GetBook(resp.ID)
		require.NoError(t, err)
		assert.Contains(t, book.Content, "I went to the woods.")
		assert.Contains(t, book.Tags, services.UploadedTag)
	})

	t.Run("rejects other file types", func(t *testing.T) {
		w := s.upload(t, "notes.txt", []byte("plain text"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), CodeUnsupportedFile)
	})

	t.Run("reports broken epubs", func(t *testing.T) {
		before := len(s.store.Books())

		w := s.upload(t, "broken.epub", epubtest.WithoutContainer())
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), CodeIngestFailed)
		assert.Len(t, s.store.Books(), before)
	})

	t.Run("requires a file", func(t *testing.T) {
		w := s.do(t, "POST", "/api/books/upload", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_ReadOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store, err := library.Open(library.NewMemoryPersister(), library.DefaultOptions())
	require.NoError(t, err)

	s := &testServer{
		router: NewRouter(RouterConfig{Library: store, ReadOnly: true}),
		store:  store,
	}

	w := s.do(t, "GET", "/api/books/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, "DELETE", "/api/books/1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	_, err = store.GetBook("1")
	assert.NoError(t, err)
}
