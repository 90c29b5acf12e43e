package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/reader/internal/epub"
	"github.com/mrlokans/reader/internal/library"
	"github.com/mrlokans/reader/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseIntParam(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "page", Value: "12"}}

	n, ok := parseIntParam(c, "page")
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "page", Value: "twelve"}}

	_, ok = parseIntParam(c, "page")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid page")
}

func TestQueryInt(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?limit=500&bad=x&neg=-3&ok=7", nil)

	assert.Equal(t, 50, queryInt(c, "limit", 4, 50))
	assert.Equal(t, 4, queryInt(c, "bad", 4, 50))
	assert.Equal(t, 4, queryInt(c, "neg", 4, 50))
	assert.Equal(t, 7, queryInt(c, "ok", 4, 50))
	assert.Equal(t, 4, queryInt(c, "missing", 4, 50))
}

func TestBindIDs(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(`{"ids":["a","b"]}`))
	c.Request.Header.Set("Content-Type", "application/json")

	ids, ok := bindIDs(c)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, ids)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	_, ok = bindIDs(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondLibraryError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"book not found", errors.Wrap(library.ErrBookNotFound, "x"), http.StatusNotFound, "book not found"},
		{"folder not found", library.ErrFolderNotFound, http.StatusNotFound, "folder not found"},
		{"highlight not found", library.ErrHighlightNotFound, http.StatusNotFound, "highlight not found"},
		{"empty title", library.ErrEmptyTitle, http.StatusBadRequest, "title"},
		{"unknown theme", errors.Wrap(library.ErrUnknownTheme, "neon"), http.StatusBadRequest, "neon"},
		{"unsupported file", services.ErrUnsupportedFile, http.StatusBadRequest, CodeUnsupportedFile},
		{"ingestion failed", &epub.IngestionError{FileName: "a.epub", Err: &epub.InvalidEpubError{Reason: epub.ReasonNoContent}}, http.StatusUnprocessableEntity, epub.ReasonNoContent},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondLibraryError(c, tt.err, "test")

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
			assert.NotContains(t, w.Body.String(), "disk on fire")
		})
	}
}
