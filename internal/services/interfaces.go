package services

import (
	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/library"
)

// BookAdder stores a newly ingested book. Implemented by *library.Store.
type BookAdder interface {
	AddBook(in library.BookInput) (entities.Book, error)
}

// IngestAuditor records ingestion outcomes. Implemented by *audit.Service.
type IngestAuditor interface {
	LogIngest(fileName, bookID string, skipped int, err error)
}

// ReportSaver persists a JSON ingestion report and returns its name.
// Implemented by *audit.Auditor.
type ReportSaver interface {
	SaveJSON(data any) (string, error)
}

// IngestReport is the document written for every ingestion that skipped
// spine documents.
type IngestReport struct {
	FileName string   `json:"file_name"`
	BookID   string   `json:"book_id"`
	Title    string   `json:"title"`
	Skipped  []string `json:"skipped"`
}

// InboxResult summarizes one inbox scan.
type InboxResult struct {
	Ingested []string `json:"ingested"`
	Failed   []string `json:"failed"`
}
