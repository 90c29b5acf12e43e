package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/entities"
)

// Pinger is a backing store whose connection can be checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LibraryStats is the part of the library the health report summarises.
type LibraryStats interface {
	Folders() []entities.Folder
	Books() []entities.Book
	PageSize() int
}

// NamedCheck pairs a store with the key it is reported under.
type NamedCheck struct {
	Name   string
	Pinger Pinger
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Library *LibrarySummary   `json:"library,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// LibrarySummary describes the loaded library.
type LibrarySummary struct {
	Books    int  `json:"books"`
	Folders  int  `json:"folders"`
	Reading  int  `json:"reading"`
	PageSize int  `json:"page_size"`
	ReadOnly bool `json:"read_only"`
}

type HealthController struct {
	library  LibraryStats
	checks   []NamedCheck
	readOnly bool
	version  string
}

// NewHealthController reports on the library and on every configured store.
// A nil library omits the summary.
func NewHealthController(library LibraryStats, checks []NamedCheck, readOnly bool, version string) *HealthController {
	return &HealthController{
		library:  library,
		checks:   checks,
		readOnly: readOnly,
		version:  version,
	}
}

// Status answers 503 when any configured store fails its ping.
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.checks))
	status := "healthy"
	for _, check := range h.checks {
		if err := check.Pinger.Ping(ctx); err != nil {
			checks[check.Name] = "error: " + err.Error()
			status = "unhealthy"
			continue
		}
		checks[check.Name] = "ok"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}
	if h.library != nil {
		health.Library = h.summary()
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	c.IndentedJSON(statusCode, health)
}

func (h *HealthController) summary() *LibrarySummary {
	books := h.library.Books()
	reading := 0
	for _, b := range books {
		if b.CurrentPage > 0 && b.CurrentPage < b.TotalPages {
			reading++
		}
	}
	return &LibrarySummary{
		Books:    len(books),
		Folders:  len(h.library.Folders()),
		Reading:  reading,
		PageSize: h.library.PageSize(),
		ReadOnly: h.readOnly,
	}
}
