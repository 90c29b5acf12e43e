package services

import (
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/epub"
	"github.com/mrlokans/reader/internal/library"
)

// UploadedTag is attached to every book added through ingestion.
const UploadedTag = "Uploaded"

// ErrUnsupportedFile is returned for uploads that are not EPUB files.
var ErrUnsupportedFile = errors.New("unsupported file type: only .epub files are accepted")

// IngestService turns uploaded EPUB files into library books. A file that
// fails to ingest never reaches the library.
type IngestService struct {
	library BookAdder
	audit   IngestAuditor
	reports ReportSaver
}

// NewIngestService creates a new IngestService.
func NewIngestService(lib BookAdder) *IngestService {
	return &IngestService{library: lib}
}

// WithAudit records every ingestion attempt.
func (s *IngestService) WithAudit(a IngestAuditor) *IngestService {
	s.audit = a
	return s
}

// WithReports saves a JSON report whenever spine documents were skipped.
func (s *IngestService) WithReports(r ReportSaver) *IngestService {
	s.reports = r
	return s
}

// IngestResult is the outcome of a successful ingestion.
type IngestResult struct {
	Book    entities.Book
	Skipped []epub.Diagnostic
	Report  string
}

// Ingest validates, parses and stores one upload.
func (s *IngestService) Ingest(data []byte, fileName, mediaType string) (*IngestResult, error) {
	if !epub.Accepts(fileName, mediaType) {
		return nil, ErrUnsupportedFile
	}

	parsed, err := epub.Ingest(data, fileName)
	if err != nil {
		s.logAudit(fileName, "", 0, err)
		return nil, err
	}

	book, err := s.library.AddBook(library.BookInput{
		Title:   parsed.Title,
		Author:  parsed.Author,
		Cover:   parsed.Cover,
		Content: parsed.Content,
		Tags:    []string{UploadedTag},
	})
	if err != nil {
		s.logAudit(fileName, "", 0, err)
		return nil, errors.Wrap(err, "failed to store book")
	}

	result := &IngestResult{Book: book, Skipped: parsed.Skipped}
	for _, d := range parsed.Skipped {
		log.Printf("Ingest %s: skipped %s", fileName, d)
	}
	if len(parsed.Skipped) > 0 && s.reports != nil {
		name, err := s.reports.SaveJSON(report(fileName, book, parsed.Skipped))
		if err != nil {
			log.Printf("Failed to save ingest report for %s: %v", fileName, err)
		}
		result.Report = name
	}

	s.logAudit(fileName, book.ID, len(parsed.Skipped), nil)
	log.Printf("Ingested %q by %s (%d pages)", book.Title, book.Author, book.TotalPages)
	return result, nil
}

// IngestFile reads and ingests a file from disk.
func (s *IngestService) IngestFile(path string) (*IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return s.Ingest(data, filepath.Base(path), "")
}

func (s *IngestService) logAudit(fileName, bookID string, skipped int, err error) {
	if s.audit != nil {
		s.audit.LogIngest(fileName, bookID, skipped, err)
	}
}

func report(fileName string, book entities.Book, skipped []epub.Diagnostic) IngestReport {
	r := IngestReport{FileName: fileName, BookID: book.ID, Title: book.Title}
	for _, d := range skipped {
		r.Skipped = append(r.Skipped, d.String())
	}
	return r
}
