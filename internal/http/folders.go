package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/audit"
	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/library"
)

type FoldersController struct {
	store FolderStore
	audit *audit.Service
}

func NewFoldersController(store FolderStore, auditService *audit.Service) *FoldersController {
	return &FoldersController{store: store, audit: auditService}
}

// FolderResponse is a folder together with how many of its books exist.
type FolderResponse struct {
	entities.Folder
	BookCount int `json:"bookCount"`
}

// List returns all folders.
// GET /api/folders
func (fc *FoldersController) List(c *gin.Context) {
	counts := fc.store.FolderBookCounts()
	folders := fc.store.Folders()

	out := make([]FolderResponse, 0, len(folders))
	for _, f := range folders {
		out = append(out, FolderResponse{Folder: f, BookCount: counts[f.ID]})
	}
	c.JSON(http.StatusOK, gin.H{"folders": out, "count": len(out)})
}

type CreateFolderRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create adds an empty folder.
// POST /api/folders
func (fc *FoldersController) Create(c *gin.Context) {
	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		respondBadRequest(c, "name is required")
		return
	}

	folder, err := fc.store.AddFolder(req.Name)
	if err != nil {
		respondLibraryError(c, err, "create folder")
		return
	}
	respondCreated(c, folder)
}

// Update renames a folder or replaces its books.
// PATCH /api/folders/:id
func (fc *FoldersController) Update(c *gin.Context) {
	var patch library.FolderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	folder, err := fc.store.UpdateFolder(c.Param("id"), patch)
	if err != nil {
		respondLibraryError(c, err, "update folder")
		return
	}
	c.JSON(http.StatusOK, folder)
}

// Delete removes a folder. Its books stay in the library.
// DELETE /api/folders/:id
func (fc *FoldersController) Delete(c *gin.Context) {
	id := c.Param("id")
	folder, err := fc.store.Folder(id)
	if err != nil {
		respondLibraryError(c, err, "delete folder")
		return
	}
	if err := fc.store.DeleteFolder(id); err != nil {
		respondLibraryError(c, err, "delete folder")
		return
	}
	if fc.audit != nil {
		fc.audit.LogDelete("folder", id, folder.Name)
	}
	respondSuccess(c, "folder deleted")
}

// AddBooks adds books to a folder.
// POST /api/folders/:id/books
func (fc *FoldersController) AddBooks(c *gin.Context) {
	ids, ok := bindIDs(c)
	if !ok {
		return
	}

	folder, err := fc.store.AddBooksToFolder(ids, c.Param("id"))
	if err != nil {
		respondLibraryError(c, err, "add books to folder")
		return
	}
	c.JSON(http.StatusOK, folder)
}

// RemoveBooks removes books from a folder.
// DELETE /api/folders/:id/books
func (fc *FoldersController) RemoveBooks(c *gin.Context) {
	ids, ok := bindIDs(c)
	if !ok {
		return
	}

	folder, err := fc.store.RemoveBooksFromFolder(ids, c.Param("id"))
	if err != nil {
		respondLibraryError(c, err, "remove books from folder")
		return
	}
	c.JSON(http.StatusOK, folder)
}
