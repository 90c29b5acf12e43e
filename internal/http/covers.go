package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/covers"
	"github.com/mrlokans/reader/internal/entities"
)

type BookGetter interface {
	GetBook(id string) (entities.Book, error)
}

// CoversController serves cached book covers.
type CoversController struct {
	cache *covers.Cache
	books BookGetter
}

func NewCoversController(cache *covers.Cache, books BookGetter) *CoversController {
	return &CoversController{
		cache: cache,
		books: books,
	}
}

// GetCover serves a book's cover from the cache, storing it on first use.
// Remote covers that cannot be fetched redirect to their origin.
// GET /api/books/:id/cover
func (cc *CoversController) GetCover(c *gin.Context) {
	book, err := cc.books.GetBook(c.Param("id"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	if book.Cover == "" {
		c.Status(http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	path, err := cc.cache.GetCover(ctx, book.ID, book.Cover)
	if err != nil || path == "" {
		if strings.HasPrefix(book.Cover, "http://") || strings.HasPrefix(book.Cover, "https://") {
			c.Redirect(http.StatusTemporaryRedirect, book.Cover)
			return
		}
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}
