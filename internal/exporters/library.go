package exporters

import (
	"log"

	"github.com/pkg/errors"

	"github.com/mrlokans/reader/internal/config"
)

// LibraryExporter exports the current library state in one or both formats.
type LibraryExporter struct {
	source LibrarySource
}

func NewLibraryExporter(source LibrarySource) *LibraryExporter {
	return &LibraryExporter{source: source}
}

// Exporters returns the exporters writing format into dir.
func Exporters(format, dir string) ([]BookExporter, error) {
	switch format {
	case config.ExportFormatMarkdown:
		return []BookExporter{NewMarkdownExporter(dir)}, nil
	case config.ExportFormatYAML:
		return []BookExporter{NewYAMLExporter(dir)}, nil
	case config.ExportFormatAll, "":
		return []BookExporter{NewMarkdownExporter(dir), NewYAMLExporter(dir)}, nil
	default:
		return nil, errors.Errorf("unknown export format %q", format)
	}
}

// Export writes a snapshot of the library to dir. BooksProcessed counts
// books once even when several formats are written.
func (exporter *LibraryExporter) Export(format, dir string) (ExportResult, error) {
	targets, err := Exporters(format, dir)
	if err != nil {
		return ExportResult{}, err
	}

	books := exporter.source.Books()
	folders := exporter.source.Folders()

	total := ExportResult{}
	for _, target := range targets {
		result, err := target.Export(books, folders)
		if err != nil {
			return total, err
		}
		total.Files = append(total.Files, result.Files...)
		if result.BooksFailed > total.BooksFailed {
			total.BooksFailed = result.BooksFailed
		}
	}
	total.BooksProcessed = len(books) - total.BooksFailed
	for _, b := range books {
		total.HighlightsProcessed += len(b.Highlights)
		total.BookmarksProcessed += len(b.Bookmarks)
	}

	log.Printf("Export completed: %d books, %d highlights, %d bookmarks written to %s (%s)",
		total.BooksProcessed, total.HighlightsProcessed, total.BookmarksProcessed, dir, format)
	return total, nil
}
