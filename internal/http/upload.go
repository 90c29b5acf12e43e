package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/services"
)

const defaultMaxUploadSize = 100 << 20

type UploadController struct {
	ingest        *services.IngestService
	maxUploadSize int64
}

func NewUploadController(ingest *services.IngestService, maxUploadSize int64) *UploadController {
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}
	return &UploadController{ingest: ingest, maxUploadSize: maxUploadSize}
}

// UploadResponse describes a newly ingested book.
type UploadResponse struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Author     string   `json:"author"`
	TotalPages int      `json:"totalPages"`
	Skipped    []string `json:"skipped,omitempty"`
	Report     string   `json:"report,omitempty"`
}

// Upload ingests an EPUB sent as the multipart field "file".
// POST /api/books/upload
func (uc *UploadController) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uc.maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondBadRequest(c, "failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondBadRequest(c, "failed to read uploaded file")
		return
	}

	result, err := uc.ingest.Ingest(data, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondLibraryError(c, err, "upload")
		return
	}

	resp := UploadResponse{
		ID:         result.Book.ID,
		Title:      result.Book.Title,
		Author:     result.Book.Author,
		TotalPages: result.Book.TotalPages,
		Report:     result.Report,
	}
	for _, d := range result.Skipped {
		resp.Skipped = append(resp.Skipped, d.String())
	}
	respondCreated(c, resp)
}
