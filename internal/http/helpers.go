package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/mrlokans/reader/internal/epub"
	"github.com/mrlokans/reader/internal/library"
	"github.com/mrlokans/reader/internal/services"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// Error codes
const (
	CodeNotFound        = "not_found"
	CodeInvalidInput    = "invalid_input"
	CodeUnsupportedFile = "unsupported_file"
	CodeIngestFailed    = "ingestion_failed"
)

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeInvalidInput})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: CodeNotFound})
}

// respondInternalError logs the error and sends a 500 response. The error
// itself is not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondLibraryError maps library and ingestion errors to responses.
func respondLibraryError(c *gin.Context, err error, context string) {
	var ingestErr *epub.IngestionError
	switch {
	case errors.Is(err, library.ErrBookNotFound):
		respondNotFound(c, "book")
	case errors.Is(err, library.ErrFolderNotFound):
		respondNotFound(c, "folder")
	case errors.Is(err, library.ErrHighlightNotFound):
		respondNotFound(c, "highlight")
	case errors.Is(err, library.ErrEmptyTitle),
		errors.Is(err, library.ErrEmptyFolderName),
		errors.Is(err, library.ErrEmptyHighlight),
		errors.Is(err, library.ErrInvalidSettings),
		errors.Is(err, library.ErrUnknownTheme):
		respondBadRequest(c, err.Error())
	case errors.Is(err, services.ErrUnsupportedFile):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeUnsupportedFile})
	case errors.As(err, &ingestErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "failed to ingest book",
			Code:    CodeIngestFailed,
			Details: gin.H{"file": ingestErr.FileName, "reason": ingestErr.Reason()},
		})
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseIntParam parses an integer URL parameter, responding with 400 on failure.
func parseIntParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return n, true
}

// queryInt reads an integer query parameter with a default and upper bound.
func queryInt(c *gin.Context, name string, def, max int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n <= 0 {
		return def
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

// IDsRequest is the body of bulk operations.
type IDsRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// bindIDs parses an IDsRequest, responding with 400 on failure.
func bindIDs(c *gin.Context) ([]string, bool) {
	var req IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "ids are required")
		return nil, false
	}
	return req.IDs, true
}
