package http

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/audit"
	"github.com/mrlokans/reader/internal/covers"
	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/library"
)

type BooksController struct {
	store  BookStore
	audit  *audit.Service
	covers *covers.Cache
}

func NewBooksController(store BookStore, auditService *audit.Service, cache *covers.Cache) *BooksController {
	return &BooksController{
		store:  store,
		audit:  auditService,
		covers: cache,
	}
}

func summaries(books []entities.Book) []entities.BookSummary {
	out := make([]entities.BookSummary, 0, len(books))
	for _, b := range books {
		out = append(out, b.Summary())
	}
	return out
}

// List returns book summaries, optionally filtered by folder and a search
// query matched against title, author and tags.
// GET /api/books?q=&folder=
func (controller *BooksController) List(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	folderID := c.Query("folder")

	var books []entities.Book
	if folderID != "" {
		var err error
		books, err = controller.store.BooksInFolder(folderID)
		if err != nil {
			respondLibraryError(c, err, "list folder books")
			return
		}
		if query != "" {
			matching := make(map[string]bool)
			for _, b := range controller.store.SearchBooks(query) {
				matching[b.ID] = true
			}
			filtered := books[:0]
			for _, b := range books {
				if matching[b.ID] {
					filtered = append(filtered, b)
				}
			}
			books = filtered
		}
	} else if query != "" {
		books = controller.store.SearchBooks(query)
	} else {
		books = controller.store.Books()
	}

	c.JSON(http.StatusOK, gin.H{"books": summaries(books), "count": len(books)})
}

// Get returns a book with its content.
// GET /api/books/:id
func (controller *BooksController) Get(c *gin.Context) {
	book, err := controller.store.GetBook(c.Param("id"))
	if err != nil {
		respondLibraryError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Recent returns the recently added and recently read shelves.
// GET /api/books/recent?limit=
func (controller *BooksController) Recent(c *gin.Context) {
	limit := queryInt(c, "limit", 4, 50)
	c.JSON(http.StatusOK, gin.H{
		"recentlyAdded": summaries(controller.store.RecentlyAdded(limit)),
		"recentlyRead":  summaries(controller.store.RecentlyRead(limit)),
	})
}

// Update applies a partial update to a book.
// PATCH /api/books/:id
func (controller *BooksController) Update(c *gin.Context) {
	var patch library.BookPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := controller.store.UpdateBook(c.Param("id"), patch)
	if err != nil {
		respondLibraryError(c, err, "update book")
		return
	}
	if patch.Cover != nil {
		controller.invalidateCover(book.ID)
	}
	c.JSON(http.StatusOK, book)
}

// Delete removes a book and its folder memberships.
// DELETE /api/books/:id
func (controller *BooksController) Delete(c *gin.Context) {
	id := c.Param("id")
	book, err := controller.store.GetBook(id)
	if err != nil {
		respondLibraryError(c, err, "delete book")
		return
	}
	if err := controller.store.DeleteBook(id); err != nil {
		respondLibraryError(c, err, "delete book")
		return
	}

	controller.invalidateCover(id)
	if controller.audit != nil {
		controller.audit.LogDelete("book", id, book.Title)
	}
	respondSuccess(c, "book deleted")
}

// BulkDelete removes several books. Unknown ids are ignored.
// POST /api/books/delete
func (controller *BooksController) BulkDelete(c *gin.Context) {
	ids, ok := bindIDs(c)
	if !ok {
		return
	}

	titles := make(map[string]string, len(ids))
	for _, id := range ids {
		if b, err := controller.store.GetBook(id); err == nil {
			titles[id] = b.Title
		}
	}

	deleted, err := controller.store.DeleteBooks(ids)
	if err != nil {
		respondLibraryError(c, err, "bulk delete books")
		return
	}
	for id, title := range titles {
		controller.invalidateCover(id)
		if controller.audit != nil {
			controller.audit.LogDelete("book", id, title)
		}
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// ResetProgress moves the given books back to unread.
// POST /api/books/reset-progress
func (controller *BooksController) ResetProgress(c *gin.Context) {
	ids, ok := bindIDs(c)
	if !ok {
		return
	}

	reset, err := controller.store.ResetProgress(ids)
	if err != nil {
		respondLibraryError(c, err, "reset progress")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": reset})
}

func (controller *BooksController) invalidateCover(id string) {
	if controller.covers == nil {
		return
	}
	if err := controller.covers.InvalidateCover(id); err != nil {
		log.Printf("Failed to invalidate cover for book %s: %v", id, err)
	}
}
