package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/library"
	"github.com/mrlokans/reader/internal/session"
)

type ReadingController struct {
	store    ReadingStore
	sessions *session.Manager
}

func NewReadingController(store ReadingStore, sessions *session.Manager) *ReadingController {
	return &ReadingController{store: store, sessions: sessions}
}

// Page returns the text of one page. Out-of-range page numbers are clamped.
// GET /api/books/:id/pages/:page
func (rc *ReadingController) Page(c *gin.Context) {
	n, ok := parseIntParam(c, "page")
	if !ok {
		return
	}

	page, err := rc.store.PageContent(c.Param("id"), n)
	if err != nil {
		respondLibraryError(c, err, "page content")
		return
	}
	if rc.sessions != nil {
		rc.sessions.SetLastBook(c.Request.Context(), c.Param("id"))
	}
	c.JSON(http.StatusOK, page)
}

// ProgressRequest moves the reading position either to Page or by Action.
type ProgressRequest struct {
	Page   *int   `json:"page"`
	Action string `json:"action"` // next or previous
}

// Progress updates the reading position.
// POST /api/books/:id/progress
func (rc *ReadingController) Progress(c *gin.Context) {
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	var move func(id string) (entities.Book, error)
	switch {
	case req.Page != nil:
		page := *req.Page
		move = func(id string) (entities.Book, error) { return rc.store.GoToPage(id, page) }
	case req.Action == "next":
		move = rc.store.NextPage
	case req.Action == "previous":
		move = rc.store.PreviousPage
	default:
		respondBadRequest(c, "page or action (next, previous) is required")
		return
	}

	book, err := move(c.Param("id"))
	if err != nil {
		respondLibraryError(c, err, "update progress")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"currentPage": book.CurrentPage,
		"totalPages":  book.TotalPages,
		"progress":    book.Progress,
	})
}

type BookmarkRequest struct {
	Page     int    `json:"page" binding:"required,min=1"`
	Position int    `json:"position"`
	Note     string `json:"note"`
}

// ToggleBookmark adds a bookmark on a page, or removes the existing one.
// POST /api/books/:id/bookmarks/toggle
func (rc *ReadingController) ToggleBookmark(c *gin.Context) {
	var req BookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "page is required")
		return
	}

	added, book, err := rc.store.ToggleBookmark(c.Param("id"), req.Page, req.Position, req.Note)
	if err != nil {
		respondLibraryError(c, err, "toggle bookmark")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": added, "bookmarks": book.Bookmarks})
}

// AddHighlight stores a highlight on a book.
// POST /api/books/:id/highlights
func (rc *ReadingController) AddHighlight(c *gin.Context) {
	var in library.HighlightInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	h, err := rc.store.AddHighlight(c.Param("id"), in)
	if err != nil {
		respondLibraryError(c, err, "add highlight")
		return
	}
	respondCreated(c, h)
}

// RemoveHighlight deletes a highlight.
// DELETE /api/books/:id/highlights/:hid
func (rc *ReadingController) RemoveHighlight(c *gin.Context) {
	if err := rc.store.RemoveHighlight(c.Param("id"), c.Param("hid")); err != nil {
		respondLibraryError(c, err, "remove highlight")
		return
	}
	c.Status(http.StatusNoContent)
}
